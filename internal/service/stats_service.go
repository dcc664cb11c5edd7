package service

import (
	"context"
	"time"

	"github.com/ignatzorin/forum-backend/internal/models"
)

// StatsUserStore считает пользователей для сводки.
type StatsUserStore interface {
	CountAll(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
}

// StatsPostStore считает посты для сводки.
type StatsPostStore interface {
	CountAll(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// StatsCommentStore считает комментарии для сводки.
type StatsCommentStore interface {
	CountAll(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}

// StatsReportStore считает необработанные жалобы.
type StatsReportStore interface {
	CountPending(ctx context.Context) (int, error)
}

// StatsService собирает сводную статистику панели администратора.
// Кэша нет: каждый запрос пересчитывает всё заново.
type StatsService struct {
	users    StatsUserStore
	posts    StatsPostStore
	comments StatsCommentStore
	reports  StatsReportStore
	now      func() time.Time
}

// NewStatsService создаёт сервис статистики.
func NewStatsService(users StatsUserStore, posts StatsPostStore, comments StatsCommentStore, reports StatsReportStore) *StatsService {
	return &StatsService{
		users:    users,
		posts:    posts,
		comments: comments,
		reports:  reports,
		now:      time.Now,
	}
}

// Collect возвращает сводку. «Сегодня» отсчитывается от местной полуночи,
// «активные» — по обновлению профиля за последние 7 дней (эвристика,
// журнала действий у форума нет).
func (s *StatsService) Collect(ctx context.Context) (*models.AdminStats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)

	var stats models.AdminStats
	var err error

	if stats.TotalUsers, err = s.users.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPosts, err = s.posts.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalComments, err = s.comments.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.UsersToday, err = s.users.CountCreatedSince(ctx, midnight); err != nil {
		return nil, err
	}
	if stats.PostsToday, err = s.posts.CountCreatedSince(ctx, midnight); err != nil {
		return nil, err
	}
	if stats.CommentsToday, err = s.comments.CountCreatedSince(ctx, midnight); err != nil {
		return nil, err
	}
	if stats.ActiveUsers7d, err = s.users.CountActiveSince(ctx, weekAgo); err != nil {
		return nil, err
	}
	if stats.PendingReports, err = s.reports.CountPending(ctx); err != nil {
		return nil, err
	}

	return &stats, nil
}
