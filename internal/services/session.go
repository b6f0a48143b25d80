package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/jobtrack/auth"
	"github.com/diewo77/jobtrack/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService issues, resolves, and revokes session rows. It performs no
// locking: each issuance creates an independent row, so concurrent logins for
// the same user are safe.
type SessionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewSessionService(db *gorm.DB, logger *zap.Logger) *SessionService {
	return &SessionService{db: db, logger: logger}
}

// Issue creates exactly one session row for userID and returns the raw token
// together with the absolute expiry. Prior sessions are left untouched.
func (s *SessionService) Issue(userID uint) (string, time.Time, error) {
	token, err := auth.NewToken()
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(auth.SessionTTL)
	session := models.Session{
		TokenHash: auth.HashToken(token),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return "", time.Time{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.Debug("session issued", zap.Uint("user_id", userID), zap.Time("expires_at", expiresAt))
	return token, expiresAt, nil
}

// Resolve returns the user behind a live session, or (nil, nil) when the
// token is unknown or expired. Pure lookup: no touch timestamp, no sliding
// expiry.
func (s *SessionService) Resolve(ctx context.Context, rawToken string) (*models.User, error) {
	var session models.Session
	err := s.db.WithContext(ctx).
		Joins("User").
		Where("token_hash = ? AND expires_at > ?", auth.HashToken(rawToken), time.Now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return &session.User, nil
}

// Revoke deletes every session row matching the token's digest. Revoking an
// unknown or already-revoked token is a no-op.
func (s *SessionService) Revoke(rawToken string) error {
	if err := s.db.Where("token_hash = ?", auth.HashToken(rawToken)).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// PurgeExpired removes sessions past their expiry. Lazy read-time expiry in
// Resolve is the correctness boundary; this only keeps the table small.
func (s *SessionService) PurgeExpired() (int64, error) {
	res := s.db.Where("expires_at <= ?", time.Now()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.logger.Info("purged expired sessions", zap.Int64("count", res.RowsAffected))
	}
	return res.RowsAffected, nil
}
