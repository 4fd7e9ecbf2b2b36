package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"khmerdownload-api/internal/config"
	"khmerdownload-api/internal/models"
	"khmerdownload-api/pkg/logging"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OTPMailer delivers sign-in codes. BrevoService is the production
// implementation; tests script their own.
type OTPMailer interface {
	SendOTPEmail(ctx context.Context, to, code string, expireMinutes int) error
}

// AuthResult is a signed token plus the public view of the account
type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// UserService handles admin login and the OTP sign-in flow
type UserService struct {
	db     *gorm.DB
	redis  *RedisService
	mailer OTPMailer
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, redis *RedisService, mailer OTPMailer) *UserService {
	return &UserService{db: db, redis: redis, mailer: mailer}
}

// Login authenticates an admin with username/password
func (s *UserService) Login(username, password string) (*AuthResult, error) {
	var user models.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := signToken(&user, 24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: &user}, nil
}

// RequestOTP creates or finds the account for an email, generates a code,
// stores it with TTL, and mails it. Sends are rate limited per email.
func (s *UserService) RequestOTP(ctx context.Context, email, username string) error {
	limited, err := s.redis.CheckRateLimit(ctx, email)
	if err != nil {
		return err
	}
	if limited {
		return ErrRateLimited
	}

	var user models.User
	err = s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if username == "" {
			username = strings.SplitN(email, "@", 2)[0]
		}
		user = models.User{
			Username:   username,
			Email:      email,
			Role:       models.RoleUser,
			IsVerified: false,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}
	} else if err != nil {
		return err
	}

	code, err := s.redis.GenerateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	expire := config.AppConfig.OTPExpireMinutes
	if err := s.redis.StoreCode(ctx, email, code, expire); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	if err := s.redis.SetRateLimit(ctx, email, config.AppConfig.RateLimitMinutes); err != nil {
		logging.Errorf("Failed to set OTP rate limit for %s: %v", email, err)
	}

	if err := s.mailer.SendOTPEmail(ctx, email, code, expire); err != nil {
		return err
	}
	return nil
}

// VerifyOTP checks the code for an email, burns it, marks the account
// verified, and issues a long-lived token.
func (s *UserService) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	stored, err := s.redis.GetCode(ctx, email)
	if err != nil {
		return nil, err
	}
	if stored != code {
		return nil, ErrInvalidCode
	}

	// Burn the code; verification is single use.
	if err := s.redis.DeleteCode(ctx, email); err != nil {
		logging.Errorf("Failed to delete used OTP for %s: %v", email, err)
	}

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, err
	}

	if !user.IsVerified {
		if err := s.db.Model(&user).Update("is_verified", true).Error; err != nil {
			return nil, err
		}
		user.IsVerified = true
	}

	token, err := signToken(&user, 30*24*time.Hour)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: &user}, nil
}

// signToken issues an HS256 JWT carrying the account identity
func signToken(user *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
