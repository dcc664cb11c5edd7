package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentReport описывает жалобу на пост или комментарий.
// Инвариант: не более одной жалобы на (reporter_id, content_type, content_id),
// обеспечивается уникальным индексом в БД.
type ContentReport struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ReporterID  uuid.UUID  `db:"reporter_id" json:"reporter_id"`
	ContentType string     `db:"content_type" json:"content_type"`
	ContentID   uuid.UUID  `db:"content_id" json:"content_id"`
	Reason      string     `db:"reason" json:"reason"`
	Details     *string    `db:"details" json:"details,omitempty"`
	Status      string     `db:"status" json:"status"`
	ResolvedBy  *uuid.UUID `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// ReportContentSnapshot — срез контента жалобы на момент чтения.
// Если контент уже удалён, снапшот отсутствует, а жалоба всё равно возвращается.
type ReportContentSnapshot struct {
	Title    *string        `json:"title,omitempty"`
	Body     string         `json:"body"`
	AuthorID uuid.UUID      `json:"author_id"`
	Author   *PublicProfile `json:"author,omitempty"`
}

// ReportWithContext — жалоба, обогащённая профилем автора и снапшотом контента.
type ReportWithContext struct {
	ContentReport
	Reporter *PublicProfile         `json:"reporter,omitempty"`
	Content  *ReportContentSnapshot `json:"content,omitempty"`
}
