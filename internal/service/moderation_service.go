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

// Действия модератора над жалобой.
const (
	ReportActionApprove = "approve"
	ReportActionDismiss = "dismiss"
)

// Ошибки модерации.
var (
	ErrModerationForbidden = errors.New("moderation requires moderator or admin role")
	ErrUnknownReportAction = errors.New("unknown report action")
	ErrUnknownReportStatus = errors.New("unknown report status filter")
)

// ModerationReportStore описывает операции хранилища жалоб для модерации.
type ModerationReportStore interface {
	List(ctx context.Context, status string, limit, offset int) ([]models.ContentReport, error)
	Approve(ctx context.Context, reportID, resolverID uuid.UUID) (*models.ContentReport, error)
	Dismiss(ctx context.Context, reportID, resolverID uuid.UUID) (*models.ContentReport, error)
}

// ModerationUserStore находит пользователей для обогащения жалоб профилями.
type ModerationUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ModerationPostStore находит посты для снапшота контента.
type ModerationPostStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// ModerationCommentStore находит комментарии для снапшота контента.
type ModerationCommentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
}

// ModerationService реализует разбор жалоб модераторами.
type ModerationService struct {
	reports  ModerationReportStore
	users    ModerationUserStore
	posts    ModerationPostStore
	comments ModerationCommentStore
}

// NewModerationService создаёт сервис модерации.
func NewModerationService(reports ModerationReportStore, users ModerationUserStore, posts ModerationPostStore, comments ModerationCommentStore) *ModerationService {
	return &ModerationService{
		reports:  reports,
		users:    users,
		posts:    posts,
		comments: comments,
	}
}

// Resolve закрывает жалобу. approve скрывает контент, dismiss оставляет
// его видимым. Повторный разбор терминальной жалобы возвращает ошибку.
func (s *ModerationService) Resolve(ctx context.Context, reportID uuid.UUID, resolverID uuid.UUID, resolverRole string, action string) (*models.ContentReport, error) {
	if !models.IsStaff(resolverRole) {
		return nil, ErrModerationForbidden
	}

	switch action {
	case ReportActionApprove:
		return s.reports.Approve(ctx, reportID, resolverID)
	case ReportActionDismiss:
		return s.reports.Dismiss(ctx, reportID, resolverID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportAction, action)
	}
}

// ListReports возвращает жалобы, обогащённые профилем жалобщика и снапшотом
// контента. Пустой статус означает «все», иначе допустим только известный
// статус. Если контент уже удалён, жалоба возвращается без снапшота.
func (s *ModerationService) ListReports(ctx context.Context, requesterRole string, status string, limit, offset int) ([]models.ReportWithContext, error) {
	if !models.IsStaff(requesterRole) {
		return nil, ErrModerationForbidden
	}

	switch status {
	case "", models.ReportStatusPending, models.ReportStatusResolved, models.ReportStatusDismissed:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportStatus, status)
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	reports, err := s.reports.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.ReportWithContext, 0, len(reports))
	for _, report := range reports {
		item := models.ReportWithContext{ContentReport: report}

		if reporter, err := s.users.GetByID(ctx, report.ReporterID); err == nil {
			item.Reporter = reporter.Public()
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}

		snapshot, err := s.contentSnapshot(ctx, report.ContentType, report.ContentID)
		if err != nil {
			return nil, err
		}
		item.Content = snapshot

		enriched = append(enriched, item)
	}

	return enriched, nil
}

// contentSnapshot собирает срез контента жалобы на момент чтения.
// Удалённый контент даёт nil без ошибки.
func (s *ModerationService) contentSnapshot(ctx context.Context, contentType string, contentID uuid.UUID) (*models.ReportContentSnapshot, error) {
	var snapshot models.ReportContentSnapshot

	switch contentType {
	case models.ReportContentPost:
		post, err := s.posts.GetByID(ctx, contentID)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return nil, nil
			}
			return nil, err
		}
		snapshot.Title = &post.Title
		snapshot.Body = post.Body
		snapshot.AuthorID = post.AuthorID
	case models.ReportContentComment:
		comment, err := s.comments.GetByID(ctx, contentID)
		if err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return nil, nil
			}
			return nil, err
		}
		snapshot.Body = comment.Body
		snapshot.AuthorID = comment.AuthorID
	default:
		return nil, nil
	}

	if author, err := s.users.GetByID(ctx, snapshot.AuthorID); err == nil {
		snapshot.Author = author.Public()
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logger.Log.WithFields(map[string]interface{}{
			"author_id": snapshot.AuthorID,
			"error":     err.Error(),
		}).Warn("moderation service: не удалось получить автора контента")
	}

	return &snapshot, nil
}
