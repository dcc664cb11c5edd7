package models

import (
	"time"

	"github.com/google/uuid"
)

// Post описывает тему обсуждения.
type Post struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Slug       string    `db:"slug" json:"slug"`
	Body       string    `db:"body" json:"body"`
	AuthorID   uuid.UUID `db:"author_id" json:"author_id"`
	CategoryID uuid.UUID `db:"category_id" json:"category_id"`
	ViewCount  int       `db:"view_count" json:"view_count"`
	IsArchived bool      `db:"is_archived" json:"is_archived"`
	IsEdited   bool      `db:"is_edited" json:"is_edited"`
	IsHidden   bool      `db:"is_hidden" json:"is_hidden"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// PostWithScore — пост вместе с агрегатами, подсчитанными на чтении.
type PostWithScore struct {
	Post
	Score        int `db:"score" json:"score"`
	CommentCount int `db:"comment_count" json:"comment_count"`
}

// Category описывает раздел форума.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Tag описывает тег поста. Связь с постами многие-ко-многим через post_tags.
type Tag struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
