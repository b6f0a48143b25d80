package handlers

import (
	"testing"

	"github.com/diewo77/jobtrack/internal/models"
	"github.com/diewo77/jobtrack/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Session{}, &models.Posting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newAuthHandler(t *testing.T, db *gorm.DB) *AuthHandler {
	t.Helper()
	logger := zap.NewNop()
	return NewAuthHandler(services.NewAccountService(db, logger), services.NewSessionService(db, logger), logger)
}

func newPostingHandler(t *testing.T, db *gorm.DB) *PostingHandler {
	t.Helper()
	logger := zap.NewNop()
	return NewPostingHandler(services.NewPipelineService(db, logger), logger)
}
