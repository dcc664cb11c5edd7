package service

import (
	"os"
	"testing"

	"github.com/ignatzorin/forum-backend/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}
