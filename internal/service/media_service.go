package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/forum-backend/internal/models"
)

// Ошибки загрузки файлов.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrMediaAccessDenied   = errors.New("media belongs to another user")
)

// allowedAvatarTypes — MIME-типы, которые принимаются как аватары.
var allowedAvatarTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// MediaStore описывает операции хранилища записей о файлах.
type MediaStore interface {
	Create(ctx context.Context, media *models.MediaFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error)
	Delete(ctx context.Context, mediaID uuid.UUID) error
}

// FileStorage описывает файловое хранилище.
type FileStorage interface {
	Save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}

// MediaService принимает загрузки аватаров. Тип файла определяется по
// сигнатуре содержимого, а не по расширению или заголовку запроса.
type MediaService struct {
	repo    MediaStore
	storage FileStorage
}

// NewMediaService создаёт сервис загрузок.
func NewMediaService(repo MediaStore, storage FileStorage) *MediaService {
	return &MediaService{
		repo:    repo,
		storage: storage,
	}
}

// UploadAvatar сохраняет аватар пользователя и возвращает запись о файле.
func (s *MediaService) UploadAvatar(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (*models.MediaFile, error) {
	head := make([]byte, 261)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("media service: чтение файла %w", err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil {
		return nil, fmt.Errorf("media service: определение типа файла %w", err)
	}

	if _, ok := allowedAvatarTypes[kind.MIME.Value]; !ok {
		return nil, ErrUnsupportedFileType
	}

	full := io.MultiReader(bytes.NewReader(head), r)

	path, size, err := s.storage.Save(ctx, userID, originalName, full)
	if err != nil {
		return nil, err
	}

	media := &models.MediaFile{
		UserID:   &userID,
		FilePath: path,
		FileType: kind.MIME.Value,
		FileSize: size,
	}

	if err := s.repo.Create(ctx, media); err != nil {
		// Запись в БД не удалась — подчищаем уже сохранённый файл.
		_ = s.storage.Delete(ctx, path)
		return nil, err
	}

	return media, nil
}

// Get возвращает запись о файле.
func (s *MediaService) Get(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete удаляет файл пользователя вместе с записью.
func (s *MediaService) Delete(ctx context.Context, mediaID uuid.UUID, actorID uuid.UUID, actorRole string) error {
	media, err := s.repo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}

	if media.UserID != nil && *media.UserID != actorID && !models.IsStaff(actorRole) {
		return ErrMediaAccessDenied
	}

	if err := s.repo.Delete(ctx, mediaID); err != nil {
		return err
	}

	return s.storage.Delete(ctx, media.FilePath)
}
