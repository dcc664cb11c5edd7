package service

import (
	"context"
	"testing"
	"time"

	"github.com/ignatzorin/forum-backend/internal/models"
)

type mockStatsUserStore struct {
	total        int
	createdSince time.Time
	activeSince  time.Time
}

func (m *mockStatsUserStore) CountAll(_ context.Context) (int, error) { return m.total, nil }

func (m *mockStatsUserStore) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	m.createdSince = since
	return 3, nil
}

func (m *mockStatsUserStore) CountActiveSince(_ context.Context, since time.Time) (int, error) {
	m.activeSince = since
	return 12, nil
}

type mockStatsContentStore struct {
	total int
	today int
}

func (m *mockStatsContentStore) CountAll(_ context.Context) (int, error) { return m.total, nil }

func (m *mockStatsContentStore) CountCreatedSince(_ context.Context, _ time.Time) (int, error) {
	return m.today, nil
}

type mockStatsReportStore struct {
	pending int
}

func (m *mockStatsReportStore) CountPending(_ context.Context) (int, error) { return m.pending, nil }

func TestStatsService_Collect(t *testing.T) {
	users := &mockStatsUserStore{total: 100}
	posts := &mockStatsContentStore{total: 40, today: 5}
	comments := &mockStatsContentStore{total: 300, today: 17}
	reports := &mockStatsReportStore{pending: 2}

	svc := NewStatsService(users, posts, comments, reports)

	// Фиксируем часы: 29 августа 2026, 15:04 по Москве.
	loc := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2026, time.August, 29, 15, 4, 0, 0, loc)
	svc.now = func() time.Time { return now }

	stats, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := models.AdminStats{
		TotalUsers:     100,
		TotalPosts:     40,
		TotalComments:  300,
		UsersToday:     3,
		PostsToday:     5,
		CommentsToday:  17,
		ActiveUsers7d:  12,
		PendingReports: 2,
	}
	if *stats != want {
		t.Fatalf("Collect = %+v, ожидалось %+v", *stats, want)
	}

	// «Сегодня» отсчитывается от местной полуночи, активность — от минус семи дней.
	midnight := time.Date(2026, time.August, 29, 0, 0, 0, 0, loc)
	if !users.createdSince.Equal(midnight) {
		t.Fatalf("createdSince = %v, ожидалась местная полночь %v", users.createdSince, midnight)
	}
	if !users.activeSince.Equal(now.AddDate(0, 0, -7)) {
		t.Fatalf("activeSince = %v, ожидалось %v", users.activeSince, now.AddDate(0, 0, -7))
	}
}
