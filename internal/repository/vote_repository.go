package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/forum-backend/internal/models"
)

// ErrVoteNotFound возвращается, когда голос не найден.
var ErrVoteNotFound = errors.New("vote not found")

// VoteRepository работает с таблицами post_votes и comment_votes.
// Обе таблицы устроены одинаково: UNIQUE (voter_id, target_id), value в {-1, 1}.
type VoteRepository struct {
	db *sqlx.DB
}

// NewVoteRepository создаёт экземпляр репозитория.
func NewVoteRepository(db *sqlx.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

func voteTable(kind models.VoteTargetKind) string {
	if kind == models.VoteTargetComment {
		return "comment_votes"
	}
	return "post_votes"
}

// Upsert вставляет голос или обновляет значение существующего.
// Повторный голос тем же значением — no-op за счёт ON CONFLICT DO UPDATE.
func (r *VoteRepository) Upsert(ctx context.Context, kind models.VoteTargetKind, vote *models.Vote) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (voter_id, target_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (voter_id, target_id) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING created_at, updated_at
	`, voteTable(kind))

	if err := r.db.QueryRowxContext(ctx, query, vote.VoterID, vote.TargetID, vote.Value).
		Scan(&vote.CreatedAt, &vote.UpdatedAt); err != nil {
		return fmt.Errorf("vote repository: upsert %w", err)
	}

	return nil
}

// Delete удаляет голос пары (voter, target). Отсутствие строки — не ошибка:
// отзыв несуществующего голоса трактуется как no-op.
func (r *VoteRepository) Delete(ctx context.Context, kind models.VoteTargetKind, voterID, targetID uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE voter_id = $1 AND target_id = $2`, voteTable(kind))
	if _, err := r.db.ExecContext(ctx, query, voterID, targetID); err != nil {
		return fmt.Errorf("vote repository: delete %w", err)
	}
	return nil
}

// GetValue возвращает текущее значение голоса пары (voter, target).
func (r *VoteRepository) GetValue(ctx context.Context, kind models.VoteTargetKind, voterID, targetID uuid.UUID) (int, error) {
	var value int
	query := fmt.Sprintf(`SELECT value FROM %s WHERE voter_id = $1 AND target_id = $2`, voteTable(kind))
	if err := r.db.GetContext(ctx, &value, query, voterID, targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrVoteNotFound
		}
		return 0, fmt.Errorf("vote repository: get value %w", err)
	}
	return value, nil
}

// SumValues возвращает суммарный рейтинг цели. Пересчёт идёт по всем строкам,
// без инкрементального счётчика — корректно при конкурентных записях.
func (r *VoteRepository) SumValues(ctx context.Context, kind models.VoteTargetKind, targetID uuid.UUID) (int, error) {
	var sum int
	query := fmt.Sprintf(`SELECT COALESCE(SUM(value), 0) FROM %s WHERE target_id = $1`, voteTable(kind))
	if err := r.db.GetContext(ctx, &sum, query, targetID); err != nil {
		return 0, fmt.Errorf("vote repository: sum values %w", err)
	}
	return sum, nil
}
