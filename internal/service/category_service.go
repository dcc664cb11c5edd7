package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/validation"
)

// CategoryStore описывает операции хранилища разделов и тегов.
type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateTag(ctx context.Context, tag *models.Tag) error
	GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
}

// CategoryService управляет разделами и тегами форума.
// Создание и удаление доступны только администратору.
type CategoryService struct {
	repo CategoryStore
}

// NewCategoryService создаёт сервис разделов.
func NewCategoryService(repo CategoryStore) *CategoryService {
	return &CategoryService{repo: repo}
}

// CreateCategory создаёт раздел.
func (s *CategoryService) CreateCategory(ctx context.Context, actorRole string, name string, description *string) (*models.Category, error) {
	if actorRole != models.RoleAdmin {
		return nil, ErrAdminRequired
	}

	if err := validation.ValidateLength("название раздела", name, 1, validation.MaxCategoryNameLength); err != nil {
		return nil, fmt.Errorf("category service: %w", err)
	}

	slug := slugify(name)
	if slug == "" {
		slug = uuid.NewString()[:8]
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategoryBySlug возвращает раздел по slug.
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.GetCategoryBySlug(ctx, slug)
}

// ListCategories возвращает все разделы.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// DeleteCategory удаляет раздел без постов.
func (s *CategoryService) DeleteCategory(ctx context.Context, actorRole string, id uuid.UUID) error {
	if actorRole != models.RoleAdmin {
		return ErrAdminRequired
	}
	return s.repo.DeleteCategory(ctx, id)
}

// CreateTag создаёт тег.
func (s *CategoryService) CreateTag(ctx context.Context, actorRole string, name string, description *string) (*models.Tag, error) {
	if actorRole != models.RoleAdmin {
		return nil, ErrAdminRequired
	}

	if err := validation.ValidateLength("название тега", name, 1, validation.MaxTagNameLength); err != nil {
		return nil, fmt.Errorf("category service: %w", err)
	}

	slug := slugify(name)
	if slug == "" {
		slug = uuid.NewString()[:8]
	}

	tag := &models.Tag{
		Name:        name,
		Slug:        slug,
		Description: description,
	}

	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

// GetTagBySlug возвращает тег по slug.
func (s *CategoryService) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.repo.GetTagBySlug(ctx, slug)
}

// ListTags возвращает все теги.
func (s *CategoryService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.ListTags(ctx)
}

// DeleteTag удаляет тег, не привязанный к постам.
func (s *CategoryService) DeleteTag(ctx context.Context, actorRole string, id uuid.UUID) error {
	if actorRole != models.RoleAdmin {
		return ErrAdminRequired
	}
	return s.repo.DeleteTag(ctx, id)
}
