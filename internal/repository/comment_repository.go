package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/forum-backend/internal/models"
)

// ErrCommentNotFound возвращается, когда комментарий не найден.
var ErrCommentNotFound = errors.New("comment not found")

// CommentRepository отвечает за таблицу comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository создаёт экземпляр репозитория.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create создаёт комментарий.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_id, author_id, parent_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_edited, is_hidden, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		comment.PostID, comment.AuthorID, comment.ParentID, comment.Body,
	).Scan(&comment.ID, &comment.IsEdited, &comment.IsHidden, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
		return fmt.Errorf("comment repository: create %w", err)
	}

	return nil
}

// GetByID возвращает комментарий по идентификатору.
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.GetContext(ctx, &comment, `SELECT * FROM comments WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("comment repository: get by id %w", err)
	}
	return &comment, nil
}

// ListByPost возвращает видимые комментарии поста с суммой голосов.
func (r *CommentRepository) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]models.CommentWithScore, error) {
	query := `
		SELECT c.*,
			COALESCE((SELECT SUM(v.value) FROM comment_votes v WHERE v.target_id = c.id), 0) AS score
		FROM comments c
		WHERE c.post_id = $1 AND NOT c.is_hidden
		ORDER BY c.created_at ASC
	`
	args := []interface{}{postID}
	argIndex := 2

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
	}

	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, offset)
	}

	var comments []models.CommentWithScore
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("comment repository: list by post %w", err)
	}

	return comments, nil
}

// Update обновляет тело комментария и выставляет флаг редактирования.
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET body = $2, is_edited = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING is_edited, updated_at
	`

	if err := r.db.QueryRowxContext(ctx, query, comment.ID, comment.Body).
		Scan(&comment.IsEdited, &comment.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("comment repository: update %w", err)
	}

	return nil
}

// SetHidden выставляет флаг скрытия комментария.
func (r *CommentRepository) SetHidden(ctx context.Context, commentID uuid.UUID, hidden bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE comments SET is_hidden = $2, updated_at = NOW() WHERE id = $1`, commentID, hidden)
	if err != nil {
		return fmt.Errorf("comment repository: set hidden %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrCommentNotFound
	}

	return nil
}

// Delete удаляет комментарий.
func (r *CommentRepository) Delete(ctx context.Context, commentID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("comment repository: delete %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrCommentNotFound
	}

	return nil
}

// CountAll возвращает общее количество комментариев.
func (r *CommentRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments`); err != nil {
		return 0, fmt.Errorf("comment repository: count all %w", err)
	}
	return count, nil
}

// CountCreatedSince возвращает количество комментариев, созданных после since.
func (r *CommentRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE created_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("comment repository: count created since %w", err)
	}
	return count, nil
}
