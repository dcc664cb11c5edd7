package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment описывает комментарий к посту. Поддерживается один уровень
// вложенности ответов через ParentID.
type Comment struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	PostID    uuid.UUID  `db:"post_id" json:"post_id"`
	AuthorID  uuid.UUID  `db:"author_id" json:"author_id"`
	ParentID  *uuid.UUID `db:"parent_id" json:"parent_id,omitempty"`
	Body      string     `db:"body" json:"body"`
	IsEdited  bool       `db:"is_edited" json:"is_edited"`
	IsHidden  bool       `db:"is_hidden" json:"is_hidden"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// CommentWithScore — комментарий вместе с суммой голосов.
type CommentWithScore struct {
	Comment
	Score int `db:"score" json:"score"`
}
