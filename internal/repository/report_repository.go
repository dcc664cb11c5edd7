package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository/common"
)

// Ошибки работы с жалобами.
var (
	ErrReportNotFound        = errors.New("report not found")
	ErrDuplicateReport       = errors.New("report already submitted")
	ErrReportAlreadyResolved = errors.New("report already resolved")
)

// ReportRepository отвечает за таблицу content_reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository создаёт экземпляр репозитория.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create сохраняет жалобу в статусе pending. Дубликаты отсеиваются
// уникальным индексом (reporter_id, content_type, content_id), а не
// проверкой перед вставкой — это закрывает гонку между check и insert.
func (r *ReportRepository) Create(ctx context.Context, report *models.ContentReport) error {
	query := `
		INSERT INTO content_reports (reporter_id, content_type, content_id, reason, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		report.ReporterID, report.ContentType, report.ContentID, report.Reason, report.Details,
	).Scan(&report.ID, &report.Status, &report.CreatedAt, &report.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReport
		}
		return fmt.Errorf("report repository: create %w", err)
	}

	return nil
}

// GetByID возвращает жалобу по идентификатору.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContentReport, error) {
	var report models.ContentReport
	if err := r.db.GetContext(ctx, &report, `SELECT * FROM content_reports WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("report repository: get by id %w", err)
	}
	return &report, nil
}

// List возвращает жалобы. Пустой status означает «все».
func (r *ReportRepository) List(ctx context.Context, status string, limit, offset int) ([]models.ContentReport, error) {
	query := `SELECT * FROM content_reports`
	args := []interface{}{}
	argIndex := 1

	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
	}

	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, offset)
	}

	var reports []models.ContentReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("report repository: list %w", err)
	}

	return reports, nil
}

// Dismiss переводит pending жалобу в dismissed. Контент не затрагивается.
func (r *ReportRepository) Dismiss(ctx context.Context, reportID, resolverID uuid.UUID) (*models.ContentReport, error) {
	return r.transition(ctx, reportID, resolverID, models.ReportStatusDismissed, false)
}

// Approve переводит pending жалобу в resolved и скрывает контент.
// Оба изменения выполняются в одной транзакции: отдельные записи оставили бы
// окно, в котором жалоба resolved, а контент всё ещё виден.
func (r *ReportRepository) Approve(ctx context.Context, reportID, resolverID uuid.UUID) (*models.ContentReport, error) {
	return r.transition(ctx, reportID, resolverID, models.ReportStatusResolved, true)
}

func (r *ReportRepository) transition(ctx context.Context, reportID, resolverID uuid.UUID, status string, hideContent bool) (*models.ContentReport, error) {
	var report models.ContentReport

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		// Блокируем строку жалобы: терминальные статусы не переходят повторно.
		if err := tx.GetContext(ctx, &report, `SELECT * FROM content_reports WHERE id = $1 FOR UPDATE`, reportID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReportNotFound
			}
			return fmt.Errorf("report repository: lock report %w", err)
		}

		if report.Status != models.ReportStatusPending {
			return ErrReportAlreadyResolved
		}

		query := `
			UPDATE content_reports
			SET status = $2, resolved_by = $3, resolved_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING status, resolved_by, resolved_at, updated_at
		`
		if err := tx.QueryRowxContext(ctx, query, reportID, status, resolverID).
			Scan(&report.Status, &report.ResolvedBy, &report.ResolvedAt, &report.UpdatedAt); err != nil {
			return fmt.Errorf("report repository: update status %w", err)
		}

		if !hideContent {
			return nil
		}

		table := "posts"
		if report.ContentType == models.ReportContentComment {
			table = "comments"
		}

		hideQuery := fmt.Sprintf(`UPDATE %s SET is_hidden = TRUE, updated_at = NOW() WHERE id = $1`, table)
		if _, err := tx.ExecContext(ctx, hideQuery, report.ContentID); err != nil {
			return fmt.Errorf("report repository: hide content %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// CountPending возвращает количество необработанных жалоб.
func (r *ReportRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM content_reports WHERE status = $1`, models.ReportStatusPending); err != nil {
		return 0, fmt.Errorf("report repository: count pending %w", err)
	}
	return count, nil
}
