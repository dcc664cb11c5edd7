package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository/common"
)

// Ошибки работы с разделами и тегами.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrCategoryInUse    = errors.New("category is referenced by posts")
	ErrTagInUse         = errors.New("tag is referenced by posts")
	ErrSlugTaken        = errors.New("slug already taken")
)

// CategoryRepository отвечает за таблицы categories, tags и post_tags.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository создаёт экземпляр репозитория.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// CreateCategory создаёт раздел.
func (r *CategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, category.Name, category.Slug, category.Description).
		Scan(&category.ID, &category.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrSlugTaken
		}
		return fmt.Errorf("category repository: create category %w", err)
	}

	return nil
}

// GetCategoryByID возвращает раздел по идентификатору.
func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return common.GetByID[models.Category](ctx, r.db, "categories", id, ErrCategoryNotFound)
}

// GetCategoryBySlug возвращает раздел по slug.
func (r *CategoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return common.GetByField[models.Category](ctx, r.db, "categories", "slug", slug, ErrCategoryNotFound)
}

// ListCategories возвращает все разделы.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, `SELECT * FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("category repository: list categories %w", err)
	}
	return categories, nil
}

// DeleteCategory удаляет раздел. Удаление блокируется, пока на раздел
// ссылается хотя бы один пост.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	var refs int
	if err := r.db.GetContext(ctx, &refs, `SELECT COUNT(*) FROM posts WHERE category_id = $1`, id); err != nil {
		return fmt.Errorf("category repository: count references %w", err)
	}
	if refs > 0 {
		return ErrCategoryInUse
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("category repository: delete category %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// CreateTag создаёт тег.
func (r *CategoryRepository) CreateTag(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, tag.Name, tag.Slug, tag.Description).
		Scan(&tag.ID, &tag.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrSlugTaken
		}
		return fmt.Errorf("category repository: create tag %w", err)
	}

	return nil
}

// GetTagBySlug возвращает тег по slug.
func (r *CategoryRepository) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return common.GetByField[models.Tag](ctx, r.db, "tags", "slug", slug, ErrTagNotFound)
}

// ListTags возвращает все теги.
func (r *CategoryRepository) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.SelectContext(ctx, &tags, `SELECT * FROM tags ORDER BY name`); err != nil {
		return nil, fmt.Errorf("category repository: list tags %w", err)
	}
	return tags, nil
}

// ListTagsForPost возвращает теги поста.
func (r *CategoryRepository) ListTagsForPost(ctx context.Context, postID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	query := `
		SELECT t.* FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`
	if err := r.db.SelectContext(ctx, &tags, query, postID); err != nil {
		return nil, fmt.Errorf("category repository: list tags for post %w", err)
	}
	return tags, nil
}

// DeleteTag удаляет тег, если на него не ссылается ни один пост.
func (r *CategoryRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	var refs int
	if err := r.db.GetContext(ctx, &refs, `SELECT COUNT(*) FROM post_tags WHERE tag_id = $1`, id); err != nil {
		return fmt.Errorf("category repository: count tag references %w", err)
	}
	if refs > 0 {
		return ErrTagInUse
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("category repository: delete tag %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTagNotFound
	}

	return nil
}

// SetPostTags заменяет набор тегов поста. Вставка идёт батчем.
func (r *CategoryRepository) SetPostTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
			return fmt.Errorf("category repository: clear post tags %w", err)
		}

		if len(tagIDs) == 0 {
			return nil
		}

		inserter := common.NewBatchInserter(tx, `INSERT INTO post_tags (post_id, tag_id)`, 2, 100)
		for _, tagID := range tagIDs {
			if err := inserter.Add(ctx, postID, tagID); err != nil {
				return err
			}
		}
		return inserter.Flush(ctx)
	})
}
