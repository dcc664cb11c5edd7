package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/validation"
)

// Ошибки работы с комментариями.
var (
	ErrCommentAccessDenied = errors.New("comment belongs to another user")
	ErrParentMismatch      = errors.New("parent comment belongs to another post")
	ErrNestingTooDeep      = errors.New("replies to replies are not allowed")
)

// CommentStore описывает операции хранилища комментариев.
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.CommentWithScore, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID uuid.UUID) error
}

// CommentPostStore находит пост, к которому пишется комментарий.
type CommentPostStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// CommentService реализует жизненный цикл комментариев.
type CommentService struct {
	comments CommentStore
	posts    CommentPostStore
	users    MentionUserStore
	notifier MentionNotifier
}

// CreateCommentInput описывает создаваемый комментарий.
type CreateCommentInput struct {
	PostID   uuid.UUID
	AuthorID uuid.UUID
	ParentID *uuid.UUID
	Body     string
}

// NewCommentService создаёт сервис комментариев.
func NewCommentService(comments CommentStore, posts CommentPostStore, users MentionUserStore, notifier MentionNotifier) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		users:    users,
		notifier: notifier,
	}
}

// Create создаёт комментарий. Вложенность ответов ограничена одним уровнем:
// отвечать можно только на корневой комментарий того же поста.
// Автор поста получает уведомление, если комментирует кто-то другой.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateLength("комментарий", in.Body, validation.MinCommentLength, validation.MaxCommentLength); err != nil {
		return nil, fmt.Errorf("comment service: %w", err)
	}

	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.IsArchived {
		return nil, ErrPostArchived
	}

	if in.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, ErrParentMismatch
		}
		if parent.ParentID != nil {
			return nil, ErrNestingTooDeep
		}
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		ParentID: in.ParentID,
		Body:     in.Body,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.AuthorID != in.AuthorID && s.notifier != nil {
		postID := post.ID
		s.notifier.NotifyQuiet(ctx, NotifyInput{
			RecipientID: post.AuthorID,
			Type:        models.NotificationTypeComment,
			Content:     "Новый комментарий к вашему посту",
			LinkPostID:  &postID,
		})
	}

	s.fanOutMentions(ctx, comment.Body, comment.AuthorID, post.ID)

	return comment, nil
}

// ListByPost возвращает видимые комментарии поста.
func (s *CommentService) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.CommentWithScore, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.comments.ListByPost(ctx, postID, limit, offset)
}

// Update правит текст комментария. Разрешено только автору.
func (s *CommentService) Update(ctx context.Context, commentID uuid.UUID, editorID uuid.UUID, body string) (*models.Comment, error) {
	if err := validation.ValidateLength("комментарий", body, validation.MinCommentLength, validation.MaxCommentLength); err != nil {
		return nil, fmt.Errorf("comment service: %w", err)
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != editorID {
		return nil, ErrCommentAccessDenied
	}

	bodyChanged := comment.Body != body
	comment.Body = body

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	if bodyChanged {
		s.fanOutMentions(ctx, comment.Body, comment.AuthorID, comment.PostID)
	}

	return comment, nil
}

// Delete удаляет комментарий. Разрешено автору и модераторам —
// привилегия определяется только ролью.
func (s *CommentService) Delete(ctx context.Context, commentID uuid.UUID, actorID uuid.UUID, actorRole string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actorID && !models.IsStaff(actorRole) {
		return ErrCommentAccessDenied
	}

	return s.comments.Delete(ctx, commentID)
}

// fanOutMentions рассылает уведомления по @упоминаниям в тексте комментария.
func (s *CommentService) fanOutMentions(ctx context.Context, text string, authorID uuid.UUID, postID uuid.UUID) {
	usernames := ExtractMentions(text)
	if len(usernames) == 0 || s.notifier == nil {
		return
	}

	users, err := s.users.GetByUsernames(ctx, usernames)
	if err != nil {
		return
	}

	for _, user := range users {
		if user.ID == authorID {
			continue
		}
		s.notifier.NotifyQuiet(ctx, NotifyInput{
			RecipientID: user.ID,
			Type:        models.NotificationTypeMention,
			Content:     "Вас упомянули в комментарии",
			LinkPostID:  &postID,
		})
	}
}
