package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
)

type mockNotificationStore struct {
	notifications map[uuid.UUID]*models.Notification
}

func newMockNotificationStore() *mockNotificationStore {
	return &mockNotificationStore{notifications: make(map[uuid.UUID]*models.Notification)}
}

func (m *mockNotificationStore) Create(_ context.Context, notification *models.Notification) error {
	notification.ID = uuid.New()
	m.notifications[notification.ID] = notification
	return nil
}

func (m *mockNotificationStore) GetByID(_ context.Context, id uuid.UUID) (*models.Notification, error) {
	notification, ok := m.notifications[id]
	if !ok {
		return nil, repository.ErrNotificationNotFound
	}
	return notification, nil
}

func (m *mockNotificationStore) List(_ context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, notification := range m.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.IsRead {
			continue
		}
		out = append(out, *notification)
	}
	return out, nil
}

func (m *mockNotificationStore) MarkAsRead(_ context.Context, id uuid.UUID) error {
	notification, ok := m.notifications[id]
	if !ok {
		return repository.ErrNotificationNotFound
	}
	notification.IsRead = true
	return nil
}

func (m *mockNotificationStore) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	for _, notification := range m.notifications {
		if notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.notifications, id)
	return nil
}

func (m *mockNotificationStore) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, notification := range m.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

type mockPusher struct {
	pushed []*models.Notification
}

func (m *mockPusher) Push(_ uuid.UUID, notification *models.Notification) {
	m.pushed = append(m.pushed, notification)
}

func newNotificationFixture() (*NotificationService, *mockNotificationStore, *mockPusher, *models.User, *models.Post) {
	recipient := &models.User{ID: uuid.New(), Username: "recipient"}
	post := &models.Post{ID: uuid.New(), Slug: "obsuzhdenie", AuthorID: uuid.New()}

	store := newMockNotificationStore()
	pusher := &mockPusher{}
	svc := NewNotificationService(
		store,
		&mockUserStore{users: map[uuid.UUID]*models.User{recipient.ID: recipient}},
		&mockPostResolver{posts: map[uuid.UUID]*models.Post{post.ID: post}},
		pusher,
	)

	return svc, store, pusher, recipient, post
}

func TestNotificationService_Notify(t *testing.T) {
	svc, _, pusher, recipient, post := newNotificationFixture()

	notification, err := svc.Notify(context.Background(), NotifyInput{
		RecipientID: recipient.ID,
		Type:        models.NotificationTypeMention,
		Content:     "Вас упомянули в обсуждении",
		LinkPostID:  &post.ID,
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if notification.Link == nil || *notification.Link != "/posts/obsuzhdenie" {
		t.Fatalf("Link = %v, ожидался /posts/obsuzhdenie", notification.Link)
	}
	if len(pusher.pushed) != 1 || pusher.pushed[0].ID != notification.ID {
		t.Fatal("уведомление не ушло в realtime-доставку")
	}
}

func TestNotificationService_NotifyValidation(t *testing.T) {
	svc, _, _, recipient, _ := newNotificationFixture()
	ctx := context.Background()

	if _, err := svc.Notify(ctx, NotifyInput{
		RecipientID: recipient.ID,
		Type:        "unknown",
		Content:     "текст",
	}); err == nil {
		t.Fatal("неизвестный тип уведомления должен отклоняться")
	}

	if _, err := svc.Notify(ctx, NotifyInput{
		RecipientID: uuid.New(),
		Type:        models.NotificationTypeSystem,
		Content:     "текст",
	}); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("ожидалась ErrRecipientNotFound, получено %v", err)
	}

	missing := uuid.New()
	if _, err := svc.Notify(ctx, NotifyInput{
		RecipientID: recipient.ID,
		Type:        models.NotificationTypeVote,
		Content:     "текст",
		LinkPostID:  &missing,
	}); !errors.Is(err, ErrLinkTargetNotFound) {
		t.Fatalf("ожидалась ErrLinkTargetNotFound, получено %v", err)
	}
}

func TestNotificationService_MarkAsReadOwnership(t *testing.T) {
	svc, store, _, recipient, _ := newNotificationFixture()
	ctx := context.Background()

	notification := &models.Notification{UserID: recipient.ID, Content: "текст", Type: models.NotificationTypeSystem}
	if err := store.Create(ctx, notification); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.MarkAsRead(ctx, notification.ID, uuid.New()); !errors.Is(err, ErrNotificationAccess) {
		t.Fatalf("чужое уведомление: ожидалась ErrNotificationAccess, получено %v", err)
	}

	if err := svc.MarkAsRead(ctx, notification.ID, recipient.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if !store.notifications[notification.ID].IsRead {
		t.Fatal("уведомление не отмечено прочитанным")
	}
}

func TestNotificationService_DeleteOwnership(t *testing.T) {
	svc, store, _, recipient, _ := newNotificationFixture()
	ctx := context.Background()

	notification := &models.Notification{UserID: recipient.ID, Content: "текст", Type: models.NotificationTypeSystem}
	if err := store.Create(ctx, notification); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, notification.ID, uuid.New()); !errors.Is(err, ErrNotificationAccess) {
		t.Fatalf("ожидалась ErrNotificationAccess, получено %v", err)
	}
	if err := svc.Delete(ctx, notification.ID, recipient.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.notifications) != 0 {
		t.Fatal("уведомление не удалено")
	}
}

func TestNotificationService_CountUnread(t *testing.T) {
	svc, store, _, recipient, _ := newNotificationFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Create(ctx, &models.Notification{UserID: recipient.ID, Content: "текст", Type: models.NotificationTypeSystem}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := svc.MarkAllAsRead(ctx, recipient.ID); err != nil {
		t.Fatalf("MarkAllAsRead: %v", err)
	}

	count, err := svc.CountUnread(ctx, recipient.ID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if count != 0 {
		t.Fatalf("непрочитанных %d, ожидалось 0", count)
	}
}
