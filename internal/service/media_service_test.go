package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
)

type mockMediaStore struct {
	files     map[uuid.UUID]*models.MediaFile
	createErr error
}

func newMockMediaStore() *mockMediaStore {
	return &mockMediaStore{files: make(map[uuid.UUID]*models.MediaFile)}
}

func (m *mockMediaStore) Create(_ context.Context, media *models.MediaFile) error {
	if m.createErr != nil {
		return m.createErr
	}
	media.ID = uuid.New()
	m.files[media.ID] = media
	return nil
}

func (m *mockMediaStore) GetByID(_ context.Context, id uuid.UUID) (*models.MediaFile, error) {
	media, ok := m.files[id]
	if !ok {
		return nil, repository.ErrMediaNotFound
	}
	return media, nil
}

func (m *mockMediaStore) Delete(_ context.Context, mediaID uuid.UUID) error {
	if _, ok := m.files[mediaID]; !ok {
		return repository.ErrMediaNotFound
	}
	delete(m.files, mediaID)
	return nil
}

type mockFileStorage struct {
	saved   map[string][]byte
	deleted []string
	nextID  int
}

func newMockFileStorage() *mockFileStorage {
	return &mockFileStorage{saved: make(map[string][]byte)}
}

func (m *mockFileStorage) Save(_ context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	m.nextID++
	path := userID.String() + "/" + strconv.Itoa(m.nextID)
	m.saved[path] = data
	return path, int64(len(data)), nil
}

func (m *mockFileStorage) Delete(_ context.Context, relativePath string) error {
	delete(m.saved, relativePath)
	m.deleted = append(m.deleted, relativePath)
	return nil
}

// pngFile собирает минимальный поток с PNG-сигнатурой.
func pngFile(payload int) []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, payload)...)
}

func TestMediaService_UploadAvatar(t *testing.T) {
	store := newMockMediaStore()
	files := newMockFileStorage()
	svc := NewMediaService(store, files)

	data := pngFile(600)
	media, err := svc.UploadAvatar(context.Background(), uuid.New(), "avatar.png", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}

	if media.FileType != "image/png" {
		t.Fatalf("FileType = %q, ожидался image/png", media.FileType)
	}
	if media.FileSize != int64(len(data)) {
		t.Fatalf("FileSize = %d, ожидалось %d", media.FileSize, len(data))
	}
	// Заголовок, прочитанный для сигнатуры, не должен теряться.
	if saved := files.saved[media.FilePath]; !bytes.Equal(saved, data) {
		t.Fatalf("сохранено %d байт, ожидалось %d", len(saved), len(data))
	}
}

func TestMediaService_UploadAvatarRejectsUnknownType(t *testing.T) {
	svc := NewMediaService(newMockMediaStore(), newMockFileStorage())

	// Тип определяется по содержимому, расширение не обманет.
	if _, err := svc.UploadAvatar(context.Background(), uuid.New(), "script.png", bytes.NewReader([]byte("#!/bin/sh\necho pwned"))); !errors.Is(err, ErrUnsupportedFileType) {
		t.Fatalf("ожидалась ErrUnsupportedFileType, получено %v", err)
	}
}

func TestMediaService_UploadAvatarCleansUpOnDBFailure(t *testing.T) {
	store := newMockMediaStore()
	store.createErr = errors.New("база недоступна")
	files := newMockFileStorage()
	svc := NewMediaService(store, files)

	if _, err := svc.UploadAvatar(context.Background(), uuid.New(), "avatar.png", bytes.NewReader(pngFile(100))); err == nil {
		t.Fatal("ошибка записи в базу должна возвращаться")
	}
	if len(files.saved) != 0 || len(files.deleted) != 1 {
		t.Fatalf("файл не подчищен: saved=%d deleted=%d", len(files.saved), len(files.deleted))
	}
}

func TestMediaService_DeleteAccess(t *testing.T) {
	store := newMockMediaStore()
	files := newMockFileStorage()
	svc := NewMediaService(store, files)
	ctx := context.Background()
	owner := uuid.New()

	media, err := svc.UploadAvatar(ctx, owner, "avatar.png", bytes.NewReader(pngFile(100)))
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}

	if err := svc.Delete(ctx, media.ID, uuid.New(), models.RoleMember); !errors.Is(err, ErrMediaAccessDenied) {
		t.Fatalf("ожидалась ErrMediaAccessDenied, получено %v", err)
	}
	if err := svc.Delete(ctx, media.ID, owner, models.RoleMember); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.files) != 0 || len(files.saved) != 0 {
		t.Fatal("файл или запись не удалены")
	}
}
