package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/goroutine"
	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
	"github.com/ignatzorin/forum-backend/internal/validation"
)

// Ошибки работы с постами.
var (
	ErrPostAccessDenied = errors.New("post belongs to another user")
	ErrPostArchived     = errors.New("post is archived")
)

// PostStore описывает операции хранилища постов.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter repository.ListFilter) ([]models.PostWithScore, error)
	Update(ctx context.Context, post *models.Post) error
	SetArchived(ctx context.Context, postID uuid.UUID, archived bool) error
	IncrementViewCount(ctx context.Context, postID uuid.UUID) error
	Delete(ctx context.Context, postID uuid.UUID) error
}

// PostCategoryStore проверяет раздел и управляет тегами поста.
type PostCategoryStore interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListTagsForPost(ctx context.Context, postID uuid.UUID) ([]models.Tag, error)
	SetPostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
}

// MentionUserStore находит пользователей по упоминаниям в тексте.
type MentionUserStore interface {
	GetByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
}

// MentionNotifier отправляет уведомления об упоминаниях.
type MentionNotifier interface {
	NotifyQuiet(ctx context.Context, in NotifyInput)
}

// PostService реализует жизненный цикл постов.
type PostService struct {
	posts      PostStore
	categories PostCategoryStore
	users      MentionUserStore
	notifier   MentionNotifier
}

// CreatePostInput описывает создаваемый пост.
type CreatePostInput struct {
	AuthorID   uuid.UUID
	CategoryID uuid.UUID
	Title      string
	Body       string
	TagIDs     []uuid.UUID
}

// UpdatePostInput описывает правку поста.
type UpdatePostInput struct {
	Title      string
	Body       string
	CategoryID uuid.UUID
	TagIDs     []uuid.UUID
}

// NewPostService создаёт сервис постов.
func NewPostService(posts PostStore, categories PostCategoryStore, users MentionUserStore, notifier MentionNotifier) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		users:      users,
		notifier:   notifier,
	}
}

// Create создаёт пост и рассылает уведомления об упоминаниях.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.ValidateLength("заголовок", in.Title, validation.MinPostTitleLength, validation.MaxPostTitleLength); err != nil {
		return nil, fmt.Errorf("post service: %w", err)
	}
	if err := validation.ValidateLength("текст поста", in.Body, validation.MinPostBodyLength, validation.MaxPostBodyLength); err != nil {
		return nil, fmt.Errorf("post service: %w", err)
	}

	if _, err := s.categories.GetCategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Slug:       slug,
		Body:       in.Body,
		AuthorID:   in.AuthorID,
		CategoryID: in.CategoryID,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if len(in.TagIDs) > 0 {
		if err := s.categories.SetPostTags(ctx, post.ID, in.TagIDs); err != nil {
			return nil, err
		}
	}

	s.fanOutMentions(ctx, post.Body, post.AuthorID, post.ID)

	return post, nil
}

// GetBySlug возвращает пост и увеличивает счётчик просмотров в фоне.
// Скрытый пост виден только автору и модераторам.
func (s *PostService) GetBySlug(ctx context.Context, slug string, viewerID uuid.UUID, viewerRole string) (*models.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if post.IsHidden && post.AuthorID != viewerID && !models.IsStaff(viewerRole) {
		return nil, repository.ErrPostNotFound
	}

	postID := post.ID
	goroutine.SafeGo(func() {
		_ = s.posts.IncrementViewCount(context.Background(), postID)
	})

	return post, nil
}

// List возвращает посты по фильтру.
func (s *PostService) List(ctx context.Context, filter repository.ListFilter) ([]models.PostWithScore, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.posts.List(ctx, filter)
}

// Tags возвращает теги поста.
func (s *PostService) Tags(ctx context.Context, postID uuid.UUID) ([]models.Tag, error) {
	return s.categories.ListTagsForPost(ctx, postID)
}

// Update правит пост. Флаг is_edited выставляется только при реальном
// изменении заголовка или текста, смена раздела или тегов его не трогает.
func (s *PostService) Update(ctx context.Context, postID uuid.UUID, editorID uuid.UUID, editorRole string, in UpdatePostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != editorID && !models.IsStaff(editorRole) {
		return nil, ErrPostAccessDenied
	}

	if post.IsArchived {
		return nil, ErrPostArchived
	}

	if err := validation.ValidateLength("заголовок", in.Title, validation.MinPostTitleLength, validation.MaxPostTitleLength); err != nil {
		return nil, fmt.Errorf("post service: %w", err)
	}
	if err := validation.ValidateLength("текст поста", in.Body, validation.MinPostBodyLength, validation.MaxPostBodyLength); err != nil {
		return nil, fmt.Errorf("post service: %w", err)
	}

	if in.CategoryID != post.CategoryID {
		if _, err := s.categories.GetCategoryByID(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	contentChanged := in.Title != post.Title || in.Body != post.Body

	post.Title = in.Title
	post.Body = in.Body
	post.CategoryID = in.CategoryID
	if contentChanged {
		post.IsEdited = true
	}

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}

	if in.TagIDs != nil {
		if err := s.categories.SetPostTags(ctx, post.ID, in.TagIDs); err != nil {
			return nil, err
		}
	}

	if contentChanged {
		s.fanOutMentions(ctx, post.Body, post.AuthorID, post.ID)
	}

	return post, nil
}

// SetArchived архивирует или разархивирует пост.
func (s *PostService) SetArchived(ctx context.Context, postID uuid.UUID, actorID uuid.UUID, actorRole string, archived bool) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != actorID && !models.IsStaff(actorRole) {
		return ErrPostAccessDenied
	}

	return s.posts.SetArchived(ctx, postID, archived)
}

// Delete удаляет пост. Разрешено автору и модераторам.
func (s *PostService) Delete(ctx context.Context, postID uuid.UUID, actorID uuid.UUID, actorRole string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != actorID && !models.IsStaff(actorRole) {
		return ErrPostAccessDenied
	}

	return s.posts.Delete(ctx, postID)
}

// fanOutMentions рассылает уведомления по @упоминаниям в тексте. Ошибки
// уведомлений не влияют на основную операцию. Автор о собственных
// упоминаниях не уведомляется.
func (s *PostService) fanOutMentions(ctx context.Context, text string, authorID uuid.UUID, postID uuid.UUID) {
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
			Content:     "Вас упомянули в обсуждении",
			LinkPostID:  &postID,
		})
	}
}

// uniqueSlug строит slug из заголовка и добавляет случайный суффикс,
// если такой slug уже занят.
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := slugify(title)
	if slug == "" {
		slug = uuid.NewString()[:8]
	}

	taken, err := s.posts.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if taken {
		slug = slug + "-" + uuid.NewString()[:8]
	}

	return slug, nil
}

// slugify приводит заголовок к виду url-пути: латиница и цифры в нижнем
// регистре, остальное сворачивается в дефисы. Нелатинские заголовки могут
// дать пустую строку — вызывающий код подставляет случайный slug.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true

	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
