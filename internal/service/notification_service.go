package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/logger"
	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
)

// Ошибки сервиса уведомлений.
var (
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrLinkTargetNotFound = errors.New("link target not found")
	ErrNotificationAccess = errors.New("notification belongs to another user")
)

// NotificationStore описывает операции хранилища уведомлений.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// RecipientStore проверяет существование получателя уведомления.
type RecipientStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LinkTargetStore проверяет существование поста, на который ссылается уведомление.
type LinkTargetStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// NotificationPusher доставляет уведомление онлайн-получателю.
// Реализуется ws-хабом; nil означает, что realtime-доставка отключена.
type NotificationPusher interface {
	Push(userID uuid.UUID, notification *models.Notification)
}

// NotificationService отвечает за создание и чтение уведомлений.
type NotificationService struct {
	repo   NotificationStore
	users  RecipientStore
	posts  LinkTargetStore
	pusher NotificationPusher
}

// NotifyInput описывает запрос на создание уведомления.
type NotifyInput struct {
	RecipientID uuid.UUID
	Type        string
	Content     string
	// LinkPostID задаёт пост, к которому ведёт уведомление. Если пост
	// не существует, уведомление не создаётся.
	LinkPostID *uuid.UUID
}

// NewNotificationService создаёт сервис уведомлений.
func NewNotificationService(repo NotificationStore, users RecipientStore, posts LinkTargetStore, pusher NotificationPusher) *NotificationService {
	return &NotificationService{
		repo:   repo,
		users:  users,
		posts:  posts,
		pusher: pusher,
	}
}

// Notify создаёт уведомление после проверки получателя и цели ссылки.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) (*models.Notification, error) {
	if _, ok := models.ValidNotificationTypes[in.Type]; !ok {
		return nil, fmt.Errorf("notification service: неизвестный тип уведомления %q", in.Type)
	}

	if _, err := s.users.GetByID(ctx, in.RecipientID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	var link *string
	if in.LinkPostID != nil {
		post, err := s.posts.GetByID(ctx, *in.LinkPostID)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return nil, ErrLinkTargetNotFound
			}
			return nil, err
		}
		l := "/posts/" + post.Slug
		link = &l
	}

	notification := &models.Notification{
		UserID:  in.RecipientID,
		Content: in.Content,
		Link:    link,
		Type:    in.Type,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		s.pusher.Push(in.RecipientID, notification)
	}

	return notification, nil
}

// NotifyQuiet создаёт уведомление в режиме «лучшее из возможного»: любая
// ошибка логируется и проглатывается, чтобы не ломать основную операцию.
func (s *NotificationService) NotifyQuiet(ctx context.Context, in NotifyInput) {
	if _, err := s.Notify(ctx, in); err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"recipient_id": in.RecipientID,
			"type":         in.Type,
			"error":        err.Error(),
		}).Warn("notification service: уведомление не доставлено")
	}
}

// List возвращает уведомления пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead отмечает уведомление прочитанным. Чужие уведомления трогать нельзя.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return ErrNotificationAccess
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead отмечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Delete удаляет уведомление пользователя.
func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return ErrNotificationAccess
	}

	return s.repo.Delete(ctx, id)
}

// CountUnread возвращает число непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
