package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/pkg/logger"
	"github.com/shopyar/shopyar-backend/pkg/redis"
	"github.com/shopyar/shopyar-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrInvalidCode        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrTooManyRequests    = errors.New("too many requests")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	RequestCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) (*model.User, *util.TokenPair, error)
	AdminLogin(phone, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, name, email string) (*model.User, error)
}

type authService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	jwtCfg           config.JWTConfig
	otpCfg           config.OTPConfig
}

func NewAuthService(
	userRepo repository.UserRepository,
	verificationRepo repository.VerificationRepository,
	jwtCfg config.JWTConfig,
	otpCfg config.OTPConfig,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		jwtCfg:           jwtCfg,
		otpCfg:           otpCfg,
	}
}

// checkRateLimit enforces an expiring per-phone counter in Redis. When Redis
// is not configured the check is skipped rather than blocking logins.
func (s *authService) checkRateLimit(ctx context.Context, action, phone string, limit int, window time.Duration) error {
	if redis.GetClient() == nil {
		return nil
	}

	key := fmt.Sprintf("otp:%s:%s", action, phone)
	count, err := redis.IncrementCounter(ctx, key, window)
	if err != nil {
		logger.Warn("Rate limit check failed, allowing request", map[string]interface{}{
			"action": action,
			"phone":  phone,
		})
		return nil
	}
	if count > int64(limit) {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"action": action,
			"phone":  phone,
			"count":  count,
		})
		return ErrTooManyRequests
	}
	return nil
}

func (s *authService) RequestCode(ctx context.Context, phone string) error {
	phone = util.NormalizePhone(phone)

	logger.Info("Verification code requested", map[string]interface{}{
		"phone": phone,
	})

	if len(phone) != 11 || phone[:2] != "09" {
		logger.Warn("Verification code rejected: invalid phone", map[string]interface{}{
			"phone": phone,
		})
		return ErrInvalidPhone
	}

	if err := s.checkRateLimit(ctx, "send", phone, s.otpCfg.SendLimit, s.otpCfg.SendWindow); err != nil {
		return err
	}

	code, err := util.GenerateOTPCode(s.otpCfg.CodeLength)
	if err != nil {
		logger.Error("Failed to generate verification code", err, map[string]interface{}{
			"phone": phone,
		})
		return err
	}

	token := &model.VerificationToken{
		Phone:     phone,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpCfg.Expiry),
	}
	if err := s.verificationRepo.Replace(token); err != nil {
		logger.Error("Failed to store verification token", err, map[string]interface{}{
			"phone": phone,
		})
		return err
	}

	if err := util.SendVerificationSMS(phone, code); err != nil {
		logger.Error("Failed to send verification SMS", err, map[string]interface{}{
			"phone": phone,
		})
		return err
	}

	logger.Info("Verification code sent", map[string]interface{}{
		"phone": phone,
	})
	return nil
}

func (s *authService) VerifyCode(ctx context.Context, phone, code string) (*model.User, *util.TokenPair, error) {
	phone = util.NormalizePhone(phone)
	code = util.NormalizeDigits(code)

	logger.Info("Verifying code", map[string]interface{}{
		"phone": phone,
	})

	if err := s.checkRateLimit(ctx, "verify", phone, s.otpCfg.VerifyLimit, s.otpCfg.VerifyWindow); err != nil {
		return nil, nil, err
	}

	token, err := s.verificationRepo.FindActiveByPhone(phone, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Verification failed: no active code", map[string]interface{}{
				"phone": phone,
			})
			return nil, nil, ErrCodeExpired
		}
		logger.Error("Failed to fetch verification token", err, map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, err
	}

	if token.Code != code {
		logger.Warn("Verification failed: wrong code", map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, ErrInvalidCode
	}

	// Code is single use
	if err := s.verificationRepo.DeleteByPhone(phone); err != nil {
		logger.Error("Failed to consume verification token", err, map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, err
	}

	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to look up user", err, map[string]interface{}{
				"phone": phone,
			})
			return nil, nil, err
		}

		// First login creates the account
		user = &model.User{
			Phone: phone,
			Role:  model.RoleCustomer,
		}
		if err := s.userRepo.Create(user); err != nil {
			logger.Error("Failed to create user on first login", err, map[string]interface{}{
				"phone": phone,
			})
			return nil, nil, err
		}
		logger.Info("New user registered via OTP", map[string]interface{}{
			"user_id": user.ID,
			"phone":   phone,
		})
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Phone,
		string(user.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in via OTP", map[string]interface{}{
		"user_id": user.ID,
		"phone":   phone,
	})
	return user, tokens, nil
}

func (s *authService) AdminLogin(phone, password string) (*model.User, *util.TokenPair, error) {
	phone = util.NormalizePhone(phone)

	logger.Info("Admin login attempt", map[string]interface{}{
		"phone": phone,
	})

	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Admin login failed: user not found", map[string]interface{}{
				"phone": phone,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, err
	}

	if user.Role != model.RoleAdmin || user.PasswordHash == "" ||
		!util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Admin login failed: invalid credentials", map[string]interface{}{
			"phone": phone,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Phone,
		string(user.Role),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, name, email string) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}
