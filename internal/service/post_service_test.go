package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
)

type mockPostStore struct {
	mu    sync.Mutex
	posts map[uuid.UUID]*models.Post
	views map[uuid.UUID]int
}

func newMockPostStore() *mockPostStore {
	return &mockPostStore{
		posts: make(map[uuid.UUID]*models.Post),
		views: make(map[uuid.UUID]int),
	}
}

func (m *mockPostStore) Create(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = uuid.New()
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostStore) GetByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	return post, nil
}

func (m *mockPostStore) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, post := range m.posts {
		if post.Slug == slug {
			return post, nil
		}
	}
	return nil, repository.ErrPostNotFound
}

func (m *mockPostStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, post := range m.posts {
		if post.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPostStore) List(_ context.Context, filter repository.ListFilter) ([]models.PostWithScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PostWithScore
	for _, post := range m.posts {
		if post.IsHidden {
			continue
		}
		if filter.CategoryID != nil && post.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.AuthorID != nil && post.AuthorID != *filter.AuthorID {
			continue
		}
		out = append(out, models.PostWithScore{Post: *post})
	}
	return out, nil
}

func (m *mockPostStore) Update(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return repository.ErrPostNotFound
	}
	m.posts[post.ID] = post
	return nil
}

func (m *mockPostStore) SetArchived(_ context.Context, postID uuid.UUID, archived bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[postID]
	if !ok {
		return repository.ErrPostNotFound
	}
	post.IsArchived = archived
	return nil
}

func (m *mockPostStore) IncrementViewCount(_ context.Context, postID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.views[postID]++
	return nil
}

func (m *mockPostStore) Delete(_ context.Context, postID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return repository.ErrPostNotFound
	}
	delete(m.posts, postID)
	return nil
}

type mockPostCategoryStore struct {
	categories map[uuid.UUID]*models.Category
	postTags   map[uuid.UUID][]uuid.UUID
}

func newMockPostCategoryStore(categories ...*models.Category) *mockPostCategoryStore {
	store := &mockPostCategoryStore{
		categories: make(map[uuid.UUID]*models.Category),
		postTags:   make(map[uuid.UUID][]uuid.UUID),
	}
	for _, category := range categories {
		store.categories[category.ID] = category
	}
	return store
}

func (m *mockPostCategoryStore) GetCategoryByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockPostCategoryStore) ListTagsForPost(_ context.Context, postID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	for _, tagID := range m.postTags[postID] {
		tags = append(tags, models.Tag{ID: tagID})
	}
	return tags, nil
}

func (m *mockPostCategoryStore) SetPostTags(_ context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	m.postTags[postID] = tagIDs
	return nil
}

type mockMentionUserStore struct {
	byUsername map[string]*models.User
}

func (m *mockMentionUserStore) GetByUsernames(_ context.Context, usernames []string) ([]models.User, error) {
	var out []models.User
	for _, username := range usernames {
		if user, ok := m.byUsername[username]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func newPostFixture() (*PostService, *mockPostStore, *mockNotifier, *models.Category, *models.User) {
	category := &models.Category{ID: uuid.New(), Name: "Go", Slug: "go"}
	mentioned := &models.User{ID: uuid.New(), Username: "gopher"}

	store := newMockPostStore()
	notifier := &mockNotifier{}
	svc := NewPostService(
		store,
		newMockPostCategoryStore(category),
		&mockMentionUserStore{byUsername: map[string]*models.User{mentioned.Username: mentioned}},
		notifier,
	)

	return svc, store, notifier, category, mentioned
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Go 1.22 released!", "go-1-22-released"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"UPPERCASE", "uppercase"},
		{"Только кириллица", ""},
	}

	for _, tc := range cases {
		if got := slugify(tc.title); got != tc.want {
			t.Fatalf("slugify(%q) = %q, ожидалось %q", tc.title, got, tc.want)
		}
	}
}

func TestPostService_CreateBuildsUniqueSlug(t *testing.T) {
	svc, _, _, category, _ := newPostFixture()
	ctx := context.Background()
	author := uuid.New()

	first, err := svc.Create(ctx, CreatePostInput{
		AuthorID:   author,
		CategoryID: category.ID,
		Title:      "Generics in Go",
		Body:       "Длинный текст поста про дженерики.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Slug != "generics-in-go" {
		t.Fatalf("Slug = %q, ожидался generics-in-go", first.Slug)
	}

	second, err := svc.Create(ctx, CreatePostInput{
		AuthorID:   author,
		CategoryID: category.ID,
		Title:      "Generics in Go",
		Body:       "Другой текст на ту же тему.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if second.Slug == first.Slug {
		t.Fatal("slug второго поста обязан отличаться")
	}
}

func TestPostService_CreateValidation(t *testing.T) {
	svc, _, _, category, _ := newPostFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePostInput{
		AuthorID:   uuid.New(),
		CategoryID: category.ID,
		Title:      "аб",
		Body:       "Достаточно длинный текст поста.",
	}); err == nil {
		t.Fatal("короткий заголовок должен отклоняться")
	}

	if _, err := svc.Create(ctx, CreatePostInput{
		AuthorID:   uuid.New(),
		CategoryID: uuid.New(),
		Title:      "Нормальный заголовок",
		Body:       "Достаточно длинный текст поста.",
	}); !errors.Is(err, repository.ErrCategoryNotFound) {
		t.Fatalf("ожидалась ErrCategoryNotFound, получено %v", err)
	}
}

func TestPostService_CreateNotifiesMentions(t *testing.T) {
	svc, _, notifier, category, mentioned := newPostFixture()

	post, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID:   uuid.New(),
		CategoryID: category.ID,
		Title:      "Вопрос про каналы",
		Body:       "Согласен с @gopher, каналы тут лишние.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("отправлено %d уведомлений, ожидалось 1", len(notifier.sent))
	}
	sent := notifier.sent[0]
	if sent.RecipientID != mentioned.ID || sent.Type != models.NotificationTypeMention {
		t.Fatalf("неожиданное уведомление: %+v", sent)
	}
	if sent.LinkPostID == nil || *sent.LinkPostID != post.ID {
		t.Fatal("уведомление должно ссылаться на созданный пост")
	}
}

func TestPostService_SelfMentionIsSilent(t *testing.T) {
	svc, _, notifier, category, mentioned := newPostFixture()

	if _, err := svc.Create(context.Background(), CreatePostInput{
		AuthorID:   mentioned.ID,
		CategoryID: category.ID,
		Title:      "Заметка самому себе",
		Body:       "Напоминание для @gopher: дописать тесты.",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(notifier.sent) != 0 {
		t.Fatalf("автор не должен получать уведомление о самоупоминании, отправлено %d", len(notifier.sent))
	}
}

func TestPostService_UpdateEditedFlag(t *testing.T) {
	svc, _, _, category, _ := newPostFixture()
	ctx := context.Background()
	author := uuid.New()

	post, err := svc.Create(ctx, CreatePostInput{
		AuthorID:   author,
		CategoryID: category.ID,
		Title:      "Исходный заголовок",
		Body:       "Исходный текст поста подлиннее.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Смена только тегов и раздела не считается правкой контента.
	updated, err := svc.Update(ctx, post.ID, author, models.RoleMember, UpdatePostInput{
		Title:      post.Title,
		Body:       post.Body,
		CategoryID: category.ID,
		TagIDs:     []uuid.UUID{uuid.New()},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.IsEdited {
		t.Fatal("is_edited не должен выставляться без изменения текста")
	}

	updated, err = svc.Update(ctx, post.ID, author, models.RoleMember, UpdatePostInput{
		Title:      post.Title,
		Body:       "Совсем другой текст поста.",
		CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.IsEdited {
		t.Fatal("is_edited должен выставляться при изменении текста")
	}
}

func TestPostService_UpdateAccess(t *testing.T) {
	svc, store, _, category, _ := newPostFixture()
	ctx := context.Background()
	author := uuid.New()

	post, err := svc.Create(ctx, CreatePostInput{
		AuthorID:   author,
		CategoryID: category.ID,
		Title:      "Пост с ограничениями",
		Body:       "Текст поста для проверки доступа.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := UpdatePostInput{Title: post.Title, Body: "Попытка чужой правки текста.", CategoryID: category.ID}

	if _, err := svc.Update(ctx, post.ID, uuid.New(), models.RoleMember, in); !errors.Is(err, ErrPostAccessDenied) {
		t.Fatalf("чужой пост: ожидалась ErrPostAccessDenied, получено %v", err)
	}

	// Модератору чужой пост доступен.
	if _, err := svc.Update(ctx, post.ID, uuid.New(), models.RoleModerator, in); err != nil {
		t.Fatalf("правка модератором: %v", err)
	}

	store.posts[post.ID].IsArchived = true
	if _, err := svc.Update(ctx, post.ID, author, models.RoleMember, in); !errors.Is(err, ErrPostArchived) {
		t.Fatalf("архивный пост: ожидалась ErrPostArchived, получено %v", err)
	}
}

func TestPostService_HiddenPostVisibility(t *testing.T) {
	svc, store, _, category, _ := newPostFixture()
	ctx := context.Background()
	author := uuid.New()

	post, err := svc.Create(ctx, CreatePostInput{
		AuthorID:   author,
		CategoryID: category.ID,
		Title:      "Скрытый после модерации",
		Body:       "Текст, который скроет модератор.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	store.posts[post.ID].IsHidden = true

	// Посторонний получает not found, автор и модератор видят пост.
	if _, err := svc.GetBySlug(ctx, post.Slug, uuid.New(), models.RoleMember); !errors.Is(err, repository.ErrPostNotFound) {
		t.Fatalf("посторонний: ожидалась ErrPostNotFound, получено %v", err)
	}
	if _, err := svc.GetBySlug(ctx, post.Slug, author, models.RoleMember); err != nil {
		t.Fatalf("автор: %v", err)
	}
	if _, err := svc.GetBySlug(ctx, post.Slug, uuid.New(), models.RoleModerator); err != nil {
		t.Fatalf("модератор: %v", err)
	}
}

func TestPostService_DeleteAccess(t *testing.T) {
	svc, store, _, category, _ := newPostFixture()
	ctx := context.Background()

	post, err := svc.Create(ctx, CreatePostInput{
		AuthorID:   uuid.New(),
		CategoryID: category.ID,
		Title:      "Пост на удаление",
		Body:       "Текст поста, который удалят.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, post.ID, uuid.New(), models.RoleMember); !errors.Is(err, ErrPostAccessDenied) {
		t.Fatalf("ожидалась ErrPostAccessDenied, получено %v", err)
	}
	if err := svc.Delete(ctx, post.ID, uuid.New(), models.RoleAdmin); err != nil {
		t.Fatalf("удаление администратором: %v", err)
	}
	if len(store.posts) != 0 {
		t.Fatal("пост не удалён")
	}
}
