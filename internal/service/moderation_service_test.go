package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
)

type mockUserStore struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type mockModerationReportStore struct {
	reports map[uuid.UUID]*models.ContentReport
	hidden  map[uuid.UUID]bool
}

func newMockModerationReportStore() *mockModerationReportStore {
	return &mockModerationReportStore{
		reports: make(map[uuid.UUID]*models.ContentReport),
		hidden:  make(map[uuid.UUID]bool),
	}
}

func (m *mockModerationReportStore) List(_ context.Context, status string, limit, offset int) ([]models.ContentReport, error) {
	var out []models.ContentReport
	for _, report := range m.reports {
		if status == "" || report.Status == status {
			out = append(out, *report)
		}
	}
	return out, nil
}

func (m *mockModerationReportStore) Approve(_ context.Context, reportID, resolverID uuid.UUID) (*models.ContentReport, error) {
	return m.resolve(reportID, resolverID, models.ReportStatusResolved, true)
}

func (m *mockModerationReportStore) Dismiss(_ context.Context, reportID, resolverID uuid.UUID) (*models.ContentReport, error) {
	return m.resolve(reportID, resolverID, models.ReportStatusDismissed, false)
}

// resolve повторяет контракт репозитория: терминальная жалоба не
// разбирается повторно, approve скрывает контент в той же операции.
func (m *mockModerationReportStore) resolve(reportID, resolverID uuid.UUID, status string, hide bool) (*models.ContentReport, error) {
	report, ok := m.reports[reportID]
	if !ok {
		return nil, repository.ErrReportNotFound
	}
	if report.Status != models.ReportStatusPending {
		return nil, repository.ErrReportAlreadyResolved
	}
	report.Status = status
	report.ResolvedBy = &resolverID
	if hide {
		m.hidden[report.ContentID] = true
	}
	return report, nil
}

func newModerationFixture() (*ModerationService, *mockModerationReportStore, *models.ContentReport, *models.Post, *models.User) {
	author := &models.User{ID: uuid.New(), Username: "author"}
	reporter := &models.User{ID: uuid.New(), Username: "reporter"}
	post := &models.Post{ID: uuid.New(), Title: "Заголовок", Body: "Текст", AuthorID: author.ID}

	report := &models.ContentReport{
		ID:          uuid.New(),
		ReporterID:  reporter.ID,
		ContentType: models.ReportContentPost,
		ContentID:   post.ID,
		Reason:      "спам",
		Status:      models.ReportStatusPending,
	}

	store := newMockModerationReportStore()
	store.reports[report.ID] = report

	svc := NewModerationService(
		store,
		&mockUserStore{users: map[uuid.UUID]*models.User{author.ID: author, reporter.ID: reporter}},
		&mockPostResolver{posts: map[uuid.UUID]*models.Post{post.ID: post}},
		&mockCommentResolver{comments: map[uuid.UUID]*models.Comment{}},
	)

	return svc, store, report, post, reporter
}

func TestModerationService_ResolveRequiresStaff(t *testing.T) {
	svc, _, report, _, _ := newModerationFixture()

	if _, err := svc.Resolve(context.Background(), report.ID, uuid.New(), models.RoleMember, ReportActionApprove); !errors.Is(err, ErrModerationForbidden) {
		t.Fatalf("ожидалась ErrModerationForbidden, получено %v", err)
	}
}

func TestModerationService_ApproveHidesContent(t *testing.T) {
	svc, store, report, post, _ := newModerationFixture()
	moderator := uuid.New()

	resolved, err := svc.Resolve(context.Background(), report.ID, moderator, models.RoleModerator, ReportActionApprove)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != models.ReportStatusResolved {
		t.Fatalf("Status = %q, ожидалось resolved", resolved.Status)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != moderator {
		t.Fatalf("ResolvedBy = %v, ожидался %s", resolved.ResolvedBy, moderator)
	}
	if !store.hidden[post.ID] {
		t.Fatal("approve должен скрывать контент жалобы")
	}
}

func TestModerationService_DismissKeepsContentVisible(t *testing.T) {
	svc, store, report, post, _ := newModerationFixture()

	resolved, err := svc.Resolve(context.Background(), report.ID, uuid.New(), models.RoleAdmin, ReportActionDismiss)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != models.ReportStatusDismissed {
		t.Fatalf("Status = %q, ожидалось dismissed", resolved.Status)
	}
	if store.hidden[post.ID] {
		t.Fatal("dismiss не должен скрывать контент")
	}
}

func TestModerationService_ResolveTerminalReport(t *testing.T) {
	svc, _, report, _, _ := newModerationFixture()
	ctx := context.Background()

	if _, err := svc.Resolve(ctx, report.ID, uuid.New(), models.RoleModerator, ReportActionDismiss); err != nil {
		t.Fatalf("первый разбор: %v", err)
	}
	if _, err := svc.Resolve(ctx, report.ID, uuid.New(), models.RoleModerator, ReportActionApprove); !errors.Is(err, repository.ErrReportAlreadyResolved) {
		t.Fatalf("ожидалась ErrReportAlreadyResolved, получено %v", err)
	}
}

func TestModerationService_ResolveUnknownAction(t *testing.T) {
	svc, _, report, _, _ := newModerationFixture()

	if _, err := svc.Resolve(context.Background(), report.ID, uuid.New(), models.RoleModerator, "escalate"); !errors.Is(err, ErrUnknownReportAction) {
		t.Fatalf("ожидалась ErrUnknownReportAction, получено %v", err)
	}
}

func TestModerationService_ListReports(t *testing.T) {
	svc, _, report, post, reporter := newModerationFixture()

	list, err := svc.ListReports(context.Background(), models.RoleModerator, models.ReportStatusPending, 20, 0)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("получено %d жалоб, ожидалась 1", len(list))
	}

	item := list[0]
	if item.ID != report.ID {
		t.Fatalf("ID = %s, ожидался %s", item.ID, report.ID)
	}
	if item.Reporter == nil || item.Reporter.Username != reporter.Username {
		t.Fatalf("профиль жалобщика не обогащён: %+v", item.Reporter)
	}
	if item.Content == nil || item.Content.Title == nil || *item.Content.Title != post.Title {
		t.Fatalf("снапшот контента не обогащён: %+v", item.Content)
	}
	if item.Content.Author == nil {
		t.Fatal("автор контента не обогащён")
	}
}

func TestModerationService_ListReportsDeletedContent(t *testing.T) {
	svc, store, _, _, _ := newModerationFixture()

	// Жалоба на уже удалённый комментарий возвращается без снапшота.
	orphan := &models.ContentReport{
		ID:          uuid.New(),
		ReporterID:  uuid.New(),
		ContentType: models.ReportContentComment,
		ContentID:   uuid.New(),
		Reason:      "флуд",
		Status:      models.ReportStatusPending,
	}
	store.reports = map[uuid.UUID]*models.ContentReport{orphan.ID: orphan}

	list, err := svc.ListReports(context.Background(), models.RoleAdmin, "", 20, 0)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("получено %d жалоб, ожидалась 1", len(list))
	}
	if list[0].Content != nil {
		t.Fatalf("для удалённого контента ожидался nil снапшот, получено %+v", list[0].Content)
	}
}

func TestModerationService_ListReportsValidation(t *testing.T) {
	svc, _, _, _, _ := newModerationFixture()
	ctx := context.Background()

	if _, err := svc.ListReports(ctx, models.RoleMember, "", 20, 0); !errors.Is(err, ErrModerationForbidden) {
		t.Fatalf("ожидалась ErrModerationForbidden, получено %v", err)
	}
	if _, err := svc.ListReports(ctx, models.RoleModerator, "archived", 20, 0); !errors.Is(err, ErrUnknownReportStatus) {
		t.Fatalf("ожидалась ErrUnknownReportStatus, получено %v", err)
	}
}
