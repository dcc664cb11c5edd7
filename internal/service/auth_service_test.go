package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
)

type mockAuthRepository struct {
	usersByEmail    map[string]*models.User
	usersByID       map[uuid.UUID]*models.User
	usersByUsername map[string]*models.User
	sessions        map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail:    make(map[string]*models.User),
		usersByID:       make(map[uuid.UUID]*models.User),
		usersByUsername: make(map[string]*models.User),
		sessions:        make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(_ context.Context, user *models.User) error {
	if _, ok := m.usersByUsername[user.Username]; ok {
		return repository.ErrUsernameTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	m.usersByUsername[user.Username] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockAuthRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.usersByID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockAuthRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := m.usersByUsername[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(_ context.Context, userID uuid.UUID) error {
	user, ok := m.usersByID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (m *mockAuthRepository) CreateSession(_ context.Context, session *models.Session) error {
	session.ID = uuid.New()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) DeleteSession(_ context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) ListSessions(_ context.Context, userID uuid.UUID) ([]models.Session, error) {
	var out []models.Session
	for _, session := range m.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (m *mockAuthRepository) DeleteSessionByID(_ context.Context, sessionID uuid.UUID, userID uuid.UUID) error {
	for token, session := range m.sessions {
		if session.ID == sessionID && session.UserID == userID {
			delete(m.sessions, token)
			return nil
		}
	}
	return nil
}

func (m *mockAuthRepository) DeleteAllSessionsExcept(_ context.Context, userID uuid.UUID, exceptRefreshToken string) error {
	for token, session := range m.sessions {
		if session.UserID == userID && token != exceptRefreshToken {
			delete(m.sessions, token)
		}
	}
	return nil
}

func newAuthService() (*AuthService, *mockAuthRepository) {
	repo := newMockAuthRepository()
	tokens := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	return NewAuthService(repo, tokens), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "ivan.petrov@example.com",
		Password: "Password123",
	}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Роль при регистрации всегда member, username выводится из email.
	if result.User.Role != models.RoleMember {
		t.Fatalf("Role = %q, ожидалась member", result.User.Role)
	}
	if result.User.Username != "ivan_petrov" {
		t.Fatalf("Username = %q, ожидался ivan_petrov", result.User.Username)
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Fatal("пара токенов не выпущена")
	}

	login, err := svc.Login(ctx, LoginInput{
		Email:    "ivan.petrov@example.com",
		Password: "Password123",
	}, map[string]string{"user_agent": "test-agent", "ip": "127.0.0.1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Fatal("логин вернул другого пользователя")
	}
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	in := RegisterInput{Email: "dup@example.com", Password: "Password123", Username: "first_user"}
	if _, err := svc.Register(ctx, in, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	in.Username = "second_user"
	if _, err := svc.Register(ctx, in, nil); err == nil {
		t.Fatal("повторная регистрация email должна отклоняться")
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "user@example.com", Password: "Password123"}, nil); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "user@example.com", Password: "wrong-password"}, nil); err == nil {
		t.Fatal("вход с неверным паролем должен отклоняться")
	}
}

func TestAuthService_LoginBanned(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "banned@example.com", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	repo.usersByID[result.User.ID].IsBanned = true

	if _, err := svc.Login(ctx, LoginInput{Email: "banned@example.com", Password: "Password123"}, nil); err == nil {
		t.Fatal("вход заблокированного аккаунта должен отклоняться")
	}
}

func TestAuthService_RefreshRotatesSession(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "rotate@example.com", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	oldToken := result.TokenPair.RefreshToken

	pair, err := svc.Refresh(ctx, oldToken, nil)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, ok := repo.sessions[oldToken]; ok {
		t.Fatal("старая сессия должна удаляться при ротации")
	}
	if _, ok := repo.sessions[pair.RefreshToken]; !ok {
		t.Fatal("новая сессия не сохранена")
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{Email: "logout@example.com", Password: "Password123"}, nil)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Logout(ctx, result.TokenPair.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(repo.sessions) != 0 {
		t.Fatalf("после logout осталось %d сессий", len(repo.sessions))
	}
}
