package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
)

type mockProfileUserStore struct {
	users map[uuid.UUID]*models.User
}

func (m *mockProfileUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockProfileUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockProfileUserStore) UpdateProfile(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockProfileUserStore) SetRole(_ context.Context, userID uuid.UUID, role string) error {
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Role = role
	return nil
}

func (m *mockProfileUserStore) SetBanned(_ context.Context, userID uuid.UUID, banned bool) error {
	user, ok := m.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.IsBanned = banned
	return nil
}

func newProfileFixture() (*ProfileService, *mockProfileUserStore, *models.User, *models.User) {
	admin := &models.User{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin}
	member := &models.User{ID: uuid.New(), Username: "member", DisplayName: "Member", Role: models.RoleMember}

	store := &mockProfileUserStore{users: map[uuid.UUID]*models.User{
		admin.ID:  admin,
		member.ID: member,
	}}

	return NewProfileService(store), store, admin, member
}

func TestProfileService_GetPublicByUsername(t *testing.T) {
	svc, _, _, member := newProfileFixture()

	profile, err := svc.GetPublicByUsername(context.Background(), member.Username)
	if err != nil {
		t.Fatalf("GetPublicByUsername: %v", err)
	}
	if profile.Username != member.Username {
		t.Fatalf("Username = %q", profile.Username)
	}
}

func TestProfileService_UpdateOwn(t *testing.T) {
	svc, store, _, member := newProfileFixture()
	bio := "пишу на Go"

	updated, err := svc.UpdateOwn(context.Background(), member.ID, UpdateProfileInput{
		DisplayName: "Новое имя",
		Bio:         &bio,
	})
	if err != nil {
		t.Fatalf("UpdateOwn: %v", err)
	}
	if updated.DisplayName != "Новое имя" || updated.Bio == nil || *updated.Bio != bio {
		t.Fatalf("профиль не обновлён: %+v", updated)
	}
	if store.users[member.ID].DisplayName != "Новое имя" {
		t.Fatal("изменения не дошли до хранилища")
	}
}

func TestProfileService_UpdateOwnValidation(t *testing.T) {
	svc, _, _, member := newProfileFixture()

	if _, err := svc.UpdateOwn(context.Background(), member.ID, UpdateProfileInput{DisplayName: "x"}); err == nil {
		t.Fatal("слишком короткое отображаемое имя должно отклоняться")
	}
}

func TestProfileService_SetRole(t *testing.T) {
	svc, store, admin, member := newProfileFixture()
	ctx := context.Background()

	// Только администратор, только чужой аккаунт, только известная роль.
	if err := svc.SetRole(ctx, member.ID, models.RoleModerator, admin.ID, models.RoleMember); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("ожидалась ErrAdminRequired, получено %v", err)
	}
	if err := svc.SetRole(ctx, admin.ID, models.RoleAdmin, admin.ID, models.RoleMember); !errors.Is(err, ErrSelfModeration) {
		t.Fatalf("ожидалась ErrSelfModeration, получено %v", err)
	}
	if err := svc.SetRole(ctx, admin.ID, models.RoleAdmin, member.ID, "superuser"); err == nil {
		t.Fatal("неизвестная роль должна отклоняться")
	}

	if err := svc.SetRole(ctx, admin.ID, models.RoleAdmin, member.ID, models.RoleModerator); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	if store.users[member.ID].Role != models.RoleModerator {
		t.Fatalf("Role = %q, ожидалась moderator", store.users[member.ID].Role)
	}
}

func TestProfileService_SetBanned(t *testing.T) {
	svc, store, admin, member := newProfileFixture()
	ctx := context.Background()

	if err := svc.SetBanned(ctx, member.ID, models.RoleMember, admin.ID, true); !errors.Is(err, ErrAdminRequired) {
		t.Fatalf("ожидалась ErrAdminRequired, получено %v", err)
	}
	if err := svc.SetBanned(ctx, admin.ID, models.RoleAdmin, admin.ID, true); !errors.Is(err, ErrSelfModeration) {
		t.Fatalf("ожидалась ErrSelfModeration, получено %v", err)
	}

	if err := svc.SetBanned(ctx, admin.ID, models.RoleAdmin, member.ID, true); err != nil {
		t.Fatalf("SetBanned: %v", err)
	}
	if !store.users[member.ID].IsBanned {
		t.Fatal("пользователь не заблокирован")
	}
}
