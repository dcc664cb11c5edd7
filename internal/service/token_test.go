package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/models"
)

func TestTokenManager_AccessRoundtrip(t *testing.T) {
	tokens := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleModerator}

	pair, _, _, err := tokens.GeneratePair(user)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	userID, role, err := tokens.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if userID != user.ID || role != models.RoleModerator {
		t.Fatalf("ParseAccess вернул %s/%s, ожидалось %s/%s", userID, role, user.ID, user.Role)
	}
}

func TestTokenManager_RefreshRoundtrip(t *testing.T) {
	tokens := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleMember}

	pair, _, _, err := tokens.GeneratePair(user)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	claims, err := tokens.ParseRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ParseRefresh: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Fatalf("Subject = %q, ожидался %s", claims.Subject, user.ID)
	}
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	tokens := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	foreign := NewTokenManager("other-access", "other-refresh", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleMember}

	pair, _, _, err := foreign.GeneratePair(user)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	if _, _, err := tokens.ParseAccess(pair.AccessToken); err == nil {
		t.Fatal("access токен с чужим секретом должен отклоняться")
	}
	if _, err := tokens.ParseRefresh(pair.RefreshToken); err == nil {
		t.Fatal("refresh токен с чужим секретом должен отклоняться")
	}
}

func TestTokenManager_RejectsExpiredRefresh(t *testing.T) {
	tokens := NewTokenManager("access", "refresh", time.Minute, -time.Minute)
	user := &models.User{ID: uuid.New(), Role: models.RoleMember}

	pair, _, _, err := tokens.GeneratePair(user)
	if err != nil {
		t.Fatalf("GeneratePair: %v", err)
	}

	if _, err := tokens.ParseRefresh(pair.RefreshToken); err == nil {
		t.Fatal("просроченный refresh токен должен отклоняться")
	}
}
