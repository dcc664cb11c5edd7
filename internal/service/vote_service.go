package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
)

// ErrInvalidVoteValue возвращается при значении голоса вне {-1, 0, 1}.
var ErrInvalidVoteValue = errors.New("invalid vote value")

// VoteStore описывает операции хранилища голосов.
type VoteStore interface {
	Upsert(ctx context.Context, kind models.VoteTargetKind, vote *models.Vote) error
	Delete(ctx context.Context, kind models.VoteTargetKind, voterID, targetID uuid.UUID) error
	GetValue(ctx context.Context, kind models.VoteTargetKind, voterID, targetID uuid.UUID) (int, error)
	SumValues(ctx context.Context, kind models.VoteTargetKind, targetID uuid.UUID) (int, error)
}

// VoteTargetResolver находит цель голосования и её автора.
type VoteTargetResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// CommentTargetResolver находит комментарий-цель голосования.
type CommentTargetResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
}

// VoteNotifier отправляет уведомление автору поста об апвоуте.
type VoteNotifier interface {
	NotifyQuiet(ctx context.Context, in NotifyInput)
}

// VoteService реализует голосование за посты и комментарии.
type VoteService struct {
	votes    VoteStore
	posts    VoteTargetResolver
	comments CommentTargetResolver
	notifier VoteNotifier
}

// VoteResult возвращается после каждой операции голосования.
type VoteResult struct {
	NetScore int `json:"net_score"`
}

// NewVoteService создаёт сервис голосования.
func NewVoteService(votes VoteStore, posts VoteTargetResolver, comments CommentTargetResolver, notifier VoteNotifier) *VoteService {
	return &VoteService{
		votes:    votes,
		posts:    posts,
		comments: comments,
		notifier: notifier,
	}
}

// Cast применяет голос voter'а к цели. Значение 0 отзывает голос (no-op,
// если голоса не было), ±1 вставляет или перезаписывает строку голоса.
// Итоговый рейтинг всегда пересчитывается суммой по всем строкам.
func (s *VoteService) Cast(ctx context.Context, kind models.VoteTargetKind, voterID, targetID uuid.UUID, value int) (*VoteResult, error) {
	if value < models.VoteValueDown || value > models.VoteValueUp {
		return nil, ErrInvalidVoteValue
	}

	authorID, postID, err := s.resolveTarget(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}

	switch value {
	case models.VoteValueRetract:
		if err := s.votes.Delete(ctx, kind, voterID, targetID); err != nil {
			return nil, err
		}
	default:
		vote := &models.Vote{
			VoterID:  voterID,
			TargetID: targetID,
			Value:    value,
		}
		if err := s.votes.Upsert(ctx, kind, vote); err != nil {
			return nil, err
		}
	}

	netScore, err := s.votes.SumValues(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}

	// Апвоут чужого поста уведомляет автора. Даунвоуты, отзывы и голоса
	// за собственный контент уведомлений не создают. Сбой уведомления
	// не влияет на результат голосования.
	if value == models.VoteValueUp && kind == models.VoteTargetPost && authorID != voterID && s.notifier != nil {
		s.notifier.NotifyQuiet(ctx, NotifyInput{
			RecipientID: authorID,
			Type:        models.NotificationTypeVote,
			Content:     "Ваш пост получил новый голос",
			LinkPostID:  &postID,
		})
	}

	return &VoteResult{NetScore: netScore}, nil
}

// GetValue возвращает текущий голос пользователя по цели (0 — голоса нет).
func (s *VoteService) GetValue(ctx context.Context, kind models.VoteTargetKind, voterID, targetID uuid.UUID) (int, error) {
	value, err := s.votes.GetValue(ctx, kind, voterID, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrVoteNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return value, nil
}

// NetScore возвращает суммарный рейтинг цели.
func (s *VoteService) NetScore(ctx context.Context, kind models.VoteTargetKind, targetID uuid.UUID) (int, error) {
	return s.votes.SumValues(ctx, kind, targetID)
}

// resolveTarget проверяет существование цели и возвращает автора и пост,
// к которому ведёт ссылка уведомления.
func (s *VoteService) resolveTarget(ctx context.Context, kind models.VoteTargetKind, targetID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	switch kind {
	case models.VoteTargetPost:
		post, err := s.posts.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, uuid.Nil, err
		}
		return post.AuthorID, post.ID, nil
	case models.VoteTargetComment:
		comment, err := s.comments.GetByID(ctx, targetID)
		if err != nil {
			return uuid.Nil, uuid.Nil, err
		}
		return comment.AuthorID, comment.PostID, nil
	default:
		return uuid.Nil, uuid.Nil, fmt.Errorf("vote service: неизвестный тип цели %q", kind)
	}
}
