package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/config"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/mailer"
	"fintrack/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	minPasswordLen  = 8
)

// userService handles user-related business logic.
type userService struct {
	db       *gorm.DB
	mailer   mailer.Sender
	resetTTL time.Duration
	baseURL  string
	now      func() time.Time
}

// NewUserService creates a new UserServicer. Password reset links point at
// cfg.AppBaseURL and expire after cfg.PasswordResetTTL.
func NewUserService(db *gorm.DB, sender mailer.Sender, cfg *config.Config) UserServicer {
	return &userService{
		db:       db,
		mailer:   sender,
		resetTTL: cfg.PasswordResetTTL,
		baseURL:  strings.TrimRight(cfg.AppBaseURL, "/"),
		now:      time.Now,
	}
}

// CreateUser registers a new user
func (s *userService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: firstName,
		LastName:  lastName,
		IsActive:  true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	logger.Get().Infow("user registered", "user_id", user.ID)
	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin checks credentials and tracks failures. Five consecutive
// failures lock the account for fifteen minutes. Unknown emails and wrong
// passwords fail identically.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if user.IsLocked(now) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		updates := map[string]interface{}{"failed_login_attempts": gorm.Expr("failed_login_attempts + 1")}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			updates["failed_login_attempts"] = 0
			updates["locked_until"] = now.Add(lockoutDuration)
			logger.Get().Warnw("account locked after repeated failed logins", "user_id", user.ID)
		}
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	if err := s.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	return user, nil
}

// StoreRefreshTokenHash saves the digest of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID, tokenHash string) error {
	result := s.db.Model(&models.User{}).Where("id = ?", userID).Update("refresh_token_hash", tokenHash)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// GetRefreshTokenHash returns the digest stored by StoreRefreshTokenHash.
func (s *userService) GetRefreshTokenHash(userID string) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

// hashResetToken returns the SHA-256 hex digest stored for a reset token.
func hashResetToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RequestPasswordReset mails a single-use reset link when email belongs to
// an active user. Unknown emails succeed silently so callers cannot probe
// for accounts.
func (s *userService) RequestPasswordReset(email string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := newResetToken()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	reset := &models.PasswordReset{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.db.Create(reset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}

	link := s.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	name := strings.TrimSpace(user.FirstName)
	if err := s.mailer.SendPasswordReset(user.Email, name, link, reset.ExpiresAt); err != nil {
		logger.Get().Errorw("password reset email failed", "user_id", user.ID, "error", err)
		return nil
	}
	logger.Get().Infow("password reset requested", "user_id", user.ID)
	return nil
}

// ResetPassword redeems a reset token. The new password replaces the old
// one, the lockout counter is cleared and outstanding refresh tokens stop
// working.
func (s *userService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}

	now := s.now()
	var reset models.PasswordReset
	if err := s.db.Where("token_hash = ?", hashResetToken(token)).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
	}
	if !reset.Usable(now) {
		return apperrors.ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Guarded on used_at so two concurrent redemptions cannot both succeed.
		res := tx.Model(&models.PasswordReset{}).
			Where("id = ? AND used_at IS NULL", reset.ID).
			Update("used_at", now)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInvalidResetToken
		}
		if err := tx.Model(&models.User{}).Where("id = ?", reset.UserID).Updates(map[string]interface{}{
			"password":              string(hashed),
			"refresh_token_hash":    "",
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Get().Infow("password reset completed", "user_id", reset.UserID)
	return nil
}

// PurgeExpiredResets deletes reset tokens that are used or past expiry.
func (s *userService) PurgeExpiredResets(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", s.now()).
		Delete(&models.PasswordReset{})
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrStoreUnavailable, result.Error)
	}
	return result.RowsAffected, nil
}
