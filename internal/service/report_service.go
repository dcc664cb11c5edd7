package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/goroutine"
	"github.com/ignatzorin/forum-backend/internal/logger"
	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
	"github.com/ignatzorin/forum-backend/internal/validation"
)

// ErrReportTargetNotFound возвращается, когда контент жалобы не существует.
var ErrReportTargetNotFound = errors.New("reported content not found")

// ReportStore описывает операции хранилища жалоб, нужные при подаче.
type ReportStore interface {
	Create(ctx context.Context, report *models.ContentReport) error
}

// ReportedPostStore находит пост, на который подана жалоба.
type ReportedPostStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// ReportedCommentStore находит комментарий, на который подана жалоба.
type ReportedCommentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
}

// ReportMailer отправляет администратору письмо о новой жалобе.
type ReportMailer interface {
	SendReportNotice(report *models.ContentReport) error
}

// ReportService принимает жалобы на контент.
type ReportService struct {
	reports  ReportStore
	posts    ReportedPostStore
	comments ReportedCommentStore
	mailer   ReportMailer
}

// SubmitReportInput описывает подаваемую жалобу.
type SubmitReportInput struct {
	ReporterID  uuid.UUID
	ContentType string
	ContentID   uuid.UUID
	Reason      string
	Details     string
}

// NewReportService создаёт сервис жалоб. mailer может быть nil —
// тогда письма администратору не отправляются.
func NewReportService(reports ReportStore, posts ReportedPostStore, comments ReportedCommentStore, mailer ReportMailer) *ReportService {
	return &ReportService{
		reports:  reports,
		posts:    posts,
		comments: comments,
		mailer:   mailer,
	}
}

// Submit сохраняет жалобу и шлёт письмо администратору в фоне.
// Ошибка отправки письма не влияет на результат подачи.
func (s *ReportService) Submit(ctx context.Context, in SubmitReportInput) (*models.ContentReport, error) {
	if _, ok := models.ValidReportContentTypes[in.ContentType]; !ok {
		return nil, fmt.Errorf("report service: неизвестный тип контента %q", in.ContentType)
	}

	if err := validation.ValidateLength("причина", in.Reason, validation.MinReportReasonLength, validation.MaxReportReasonLength); err != nil {
		return nil, fmt.Errorf("report service: %w", err)
	}

	if err := validation.ValidateLength("детали", in.Details, 0, validation.MaxReportDetailsLength); err != nil {
		return nil, fmt.Errorf("report service: %w", err)
	}

	if err := s.targetExists(ctx, in.ContentType, in.ContentID); err != nil {
		return nil, err
	}

	report := &models.ContentReport{
		ReporterID:  in.ReporterID,
		ContentType: in.ContentType,
		ContentID:   in.ContentID,
		Reason:      in.Reason,
	}
	if in.Details != "" {
		report.Details = &in.Details
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		goroutine.SafeGo(func() {
			if err := s.mailer.SendReportNotice(report); err != nil {
				logger.Log.WithFields(map[string]interface{}{
					"report_id": report.ID,
					"error":     err.Error(),
				}).Warn("report service: письмо администратору не отправлено")
			}
		})
	}

	return report, nil
}

func (s *ReportService) targetExists(ctx context.Context, contentType string, contentID uuid.UUID) error {
	switch contentType {
	case models.ReportContentPost:
		if _, err := s.posts.GetByID(ctx, contentID); err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				return ErrReportTargetNotFound
			}
			return err
		}
	case models.ReportContentComment:
		if _, err := s.comments.GetByID(ctx, contentID); err != nil {
			if errors.Is(err, repository.ErrCommentNotFound) {
				return ErrReportTargetNotFound
			}
			return err
		}
	}
	return nil
}
