package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/forum-backend/internal/models"
)

// Ошибки работы с постами.
var (
	ErrPostNotFound  = errors.New("post not found")
	ErrPostSlugTaken = errors.New("post slug already taken")
)

// PostRepository отвечает за таблицу posts.
type PostRepository struct {
	db *sqlx.DB
}

// NewPostRepository создаёт экземпляр репозитория.
func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create создаёт пост.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (title, slug, body, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, view_count, is_archived, is_edited, is_hidden, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		post.Title, post.Slug, post.Body, post.AuthorID, post.CategoryID,
	).Scan(&post.ID, &post.ViewCount, &post.IsArchived, &post.IsEdited, &post.IsHidden, &post.CreatedAt, &post.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrPostSlugTaken
		}
		return fmt.Errorf("post repository: create %w", err)
	}

	return nil
}

// GetByID возвращает пост по идентификатору.
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("post repository: get by id %w", err)
	}
	return &post, nil
}

// GetBySlug возвращает пост по slug.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE slug = $1`, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("post repository: get by slug %w", err)
	}
	return &post, nil
}

// SlugExists проверяет занятость slug.
func (r *PostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE slug = $1`, slug); err != nil {
		return false, fmt.Errorf("post repository: slug exists %w", err)
	}
	return count > 0, nil
}

// ListFilter задаёт фильтры публичного списка постов.
type ListFilter struct {
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
	AuthorID   *uuid.UUID
	Limit      int
	Offset     int
}

// List возвращает посты с агрегатами голосов и комментариев.
// Скрытые посты в публичные списки не попадают; агрегаты пересчитываются
// на каждом чтении суммированием строк голосов.
func (r *PostRepository) List(ctx context.Context, filter ListFilter) ([]models.PostWithScore, error) {
	query := `
		SELECT p.*,
			COALESCE((SELECT SUM(v.value) FROM post_votes v WHERE v.target_id = p.id), 0) AS score,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND NOT c.is_hidden) AS comment_count
		FROM posts p
		WHERE NOT p.is_hidden
	`
	args := []interface{}{}
	argIndex := 1

	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND p.category_id = $%d", argIndex)
		args = append(args, *filter.CategoryID)
		argIndex++
	}

	if filter.TagID != nil {
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = $%d)", argIndex)
		args = append(args, *filter.TagID)
		argIndex++
	}

	if filter.AuthorID != nil {
		query += fmt.Sprintf(" AND p.author_id = $%d", argIndex)
		args = append(args, *filter.AuthorID)
		argIndex++
	}

	query += " ORDER BY p.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	var posts []models.PostWithScore
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("post repository: list %w", err)
	}

	return posts, nil
}

// Update обновляет заголовок, тело и раздел поста.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $2, body = $3, category_id = $4, is_edited = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		post.ID, post.Title, post.Body, post.CategoryID, post.IsEdited,
	).Scan(&post.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return fmt.Errorf("post repository: update %w", err)
	}

	return nil
}

// SetArchived выставляет флаг архивации.
func (r *PostRepository) SetArchived(ctx context.Context, postID uuid.UUID, archived bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE posts SET is_archived = $2, updated_at = NOW() WHERE id = $1`, postID, archived)
	if err != nil {
		return fmt.Errorf("post repository: set archived %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// SetHidden выставляет флаг скрытия поста.
func (r *PostRepository) SetHidden(ctx context.Context, postID uuid.UUID, hidden bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE posts SET is_hidden = $2, updated_at = NOW() WHERE id = $1`, postID, hidden)
	if err != nil {
		return fmt.Errorf("post repository: set hidden %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// IncrementViewCount увеличивает счётчик просмотров.
func (r *PostRepository) IncrementViewCount(ctx context.Context, postID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("post repository: increment view count %w", err)
	}
	return nil
}

// Delete удаляет пост.
func (r *PostRepository) Delete(ctx context.Context, postID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("post repository: delete %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// CountAll возвращает общее количество постов.
func (r *PostRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("post repository: count all %w", err)
	}
	return count, nil
}

// CountCreatedSince возвращает количество постов, созданных после since.
func (r *PostRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE created_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("post repository: count created since %w", err)
	}
	return count, nil
}
