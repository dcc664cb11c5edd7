package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/validation"
)

// Ошибки управления пользователями.
var (
	ErrAdminRequired  = errors.New("operation requires admin role")
	ErrSelfModeration = errors.New("cannot change own role or ban state")
)

// ProfileUserStore описывает операции хранилища пользователей для профилей.
type ProfileUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, userID uuid.UUID, role string) error
	SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error
}

// ProfileService отвечает за профили и административные действия над
// пользователями.
type ProfileService struct {
	users ProfileUserStore
}

// UpdateProfileInput описывает редактируемые поля профиля.
type UpdateProfileInput struct {
	DisplayName string
	Bio         *string
	AvatarID    *uuid.UUID
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(users ProfileUserStore) *ProfileService {
	return &ProfileService{users: users}
}

// GetPublicByUsername возвращает публичный профиль по username.
func (s *ProfileService) GetPublicByUsername(ctx context.Context, username string) (*models.PublicProfile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// GetOwn возвращает полную запись текущего пользователя.
func (s *ProfileService) GetOwn(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateOwn обновляет профиль текущего пользователя.
func (s *ProfileService) UpdateOwn(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	if err := validation.ValidateLength("отображаемое имя", in.DisplayName, validation.MinDisplayNameLength, validation.MaxDisplayNameLength); err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	if in.Bio != nil {
		if err := validation.ValidateLength("о себе", *in.Bio, 0, validation.MaxBioLength); err != nil {
			return nil, fmt.Errorf("profile service: %w", err)
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = in.DisplayName
	user.Bio = in.Bio
	user.AvatarID = in.AvatarID

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetRole меняет роль пользователя. Только администратор, и не себе:
// привилегии выдаются исключительно назначением роли, никакие аккаунты
// не имеют особых прав по иным признакам.
func (s *ProfileService) SetRole(ctx context.Context, actorID uuid.UUID, actorRole string, targetID uuid.UUID, role string) error {
	if actorRole != models.RoleAdmin {
		return ErrAdminRequired
	}
	if actorID == targetID {
		return ErrSelfModeration
	}
	if _, ok := models.ValidRoles[role]; !ok {
		return fmt.Errorf("profile service: неизвестная роль %q", role)
	}

	return s.users.SetRole(ctx, targetID, role)
}

// SetBanned блокирует или разблокирует пользователя. Только администратор.
func (s *ProfileService) SetBanned(ctx context.Context, actorID uuid.UUID, actorRole string, targetID uuid.UUID, banned bool) error {
	if actorRole != models.RoleAdmin {
		return ErrAdminRequired
	}
	if actorID == targetID {
		return ErrSelfModeration
	}

	return s.users.SetBanned(ctx, targetID, banned)
}
