package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/jobtrack/auth"
	"github.com/diewo77/jobtrack/internal/models"
	"github.com/diewo77/jobtrack/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// AccountService handles registration and credential checks.
type AccountService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAccountService(db *gorm.DB, logger *zap.Logger) *AccountService {
	return &AccountService{db: db, logger: logger}
}

// Register validates the input, normalizes the email to lowercase, and
// creates the user with a hashed password. Uniqueness conflicts come back as
// ErrDuplicateEmail / ErrDuplicateUsername, never conflated with each other.
func (s *AccountService) Register(email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Required("username", username, v)
	validation.MinLength("password", password, minPasswordLength, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Email: email, Username: username, PasswordHash: hash}
	if err := s.db.Create(&user).Error; err != nil {
		// Unique indexes are the backstop for concurrent registrations.
		if strings.Contains(strings.ToLower(err.Error()), "username") {
			return nil, ErrDuplicateUsername
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return &user, nil
}

// ByID loads one user by id.
func (s *AccountService) ByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// Authenticate returns the user for a matching email/password pair. Unknown
// email and wrong password both come back as ErrInvalidCredentials to avoid
// account enumeration.
func (s *AccountService) Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
