package models

import (
	"time"

	"github.com/google/uuid"
)

// Значения голоса. Ноль в таблицах не хранится — он означает отзыв голоса.
const (
	VoteValueDown    = -1
	VoteValueRetract = 0
	VoteValueUp      = 1
)

// Vote описывает голос пользователя за пост или комментарий.
// На пару (voter_id, target_id) приходится не более одной строки.
type Vote struct {
	VoterID   uuid.UUID `db:"voter_id" json:"voter_id"`
	TargetID  uuid.UUID `db:"target_id" json:"target_id"`
	Value     int       `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// VoteTargetKind различает таблицы голосов.
type VoteTargetKind string

const (
	VoteTargetPost    VoteTargetKind = "post"
	VoteTargetComment VoteTargetKind = "comment"
)
