package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/db"
	"github.com/shopyar/shopyar-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	verificationRepo := repository.NewVerificationRepository(testDB)

	jwtCfg := config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
	}
	otpCfg := config.OTPConfig{
		CodeLength:   5,
		Expiry:       5 * time.Minute,
		SendLimit:    3,
		SendWindow:   10 * time.Minute,
		VerifyLimit:  5,
		VerifyWindow: 10 * time.Minute,
	}

	return NewAuthService(userRepo, verificationRepo, jwtCfg, otpCfg), testDB
}

func storedCode(t *testing.T, testDB *gorm.DB, phone string) string {
	t.Helper()
	var token model.VerificationToken
	require.NoError(t, testDB.Where("phone = ?", phone).First(&token).Error)
	return token.Code
}

func TestAuthService_RequestCode_StoresToken(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	err := authService.RequestCode(context.Background(), "09121234567")
	require.NoError(t, err)

	code := storedCode(t, testDB, "09121234567")
	assert.Len(t, code, 5)
}

func TestAuthService_RequestCode_NormalizesPhone(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	// Persian digits and a +98 prefix must land on the same canonical phone
	err := authService.RequestCode(context.Background(), "+98912۱۲۳۴۵۶۷")
	require.NoError(t, err)

	var count int64
	testDB.Model(&model.VerificationToken{}).Where("phone = ?", "09121234567").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_RequestCode_InvalidPhone(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name  string
		phone string
	}{
		{"too short", "0912123"},
		{"landline", "02112345678"},
		{"garbage", "not-a-phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authService.RequestCode(context.Background(), tt.phone)
			assert.ErrorIs(t, err, ErrInvalidPhone)
		})
	}
}

func TestAuthService_RequestCode_SupersedesPreviousCode(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	require.NoError(t, authService.RequestCode(ctx, "09121234567"))
	first := storedCode(t, testDB, "09121234567")

	require.NoError(t, authService.RequestCode(ctx, "09121234567"))

	// Only one active token per phone
	var count int64
	testDB.Model(&model.VerificationToken{}).Where("phone = ?", "09121234567").Count(&count)
	assert.Equal(t, int64(1), count)

	// The first code no longer works
	second := storedCode(t, testDB, "09121234567")
	if first != second {
		_, _, err := authService.VerifyCode(ctx, "09121234567", first)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
}

func TestAuthService_VerifyCode_CreatesUserOnFirstLogin(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	require.NoError(t, authService.RequestCode(ctx, "09121234567"))
	code := storedCode(t, testDB, "09121234567")

	user, tokens, err := authService.VerifyCode(ctx, "09121234567", code)
	require.NoError(t, err)
	assert.Equal(t, "09121234567", user.Phone)
	assert.Equal(t, model.RoleCustomer, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestAuthService_VerifyCode_ExistingUser(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	existing := &model.User{Phone: "09121234567", Name: "مریم", Role: model.RoleCustomer}
	testDB.Create(existing)

	require.NoError(t, authService.RequestCode(ctx, "09121234567"))
	code := storedCode(t, testDB, "09121234567")

	user, _, err := authService.VerifyCode(ctx, "09121234567", code)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "مریم", user.Name)
}

func TestAuthService_VerifyCode_WrongCode(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	require.NoError(t, authService.RequestCode(ctx, "09121234567"))
	code := storedCode(t, testDB, "09121234567")

	wrong := "00000"
	if code == wrong {
		wrong = "11111"
	}
	_, _, err := authService.VerifyCode(ctx, "09121234567", wrong)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestAuthService_VerifyCode_SingleUse(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	require.NoError(t, authService.RequestCode(ctx, "09121234567"))
	code := storedCode(t, testDB, "09121234567")

	_, _, err := authService.VerifyCode(ctx, "09121234567", code)
	require.NoError(t, err)

	// The consumed code cannot log in again
	_, _, err = authService.VerifyCode(ctx, "09121234567", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestAuthService_VerifyCode_Expired(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)
	ctx := context.Background()

	require.NoError(t, authService.RequestCode(ctx, "09121234567"))
	code := storedCode(t, testDB, "09121234567")

	testDB.Model(&model.VerificationToken{}).
		Where("phone = ?", "09121234567").
		Update("expires_at", time.Now().Add(-time.Minute))

	_, _, err := authService.VerifyCode(ctx, "09121234567", code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestAuthService_AdminLogin(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	hash, err := util.HashPassword("s3cret-admin")
	require.NoError(t, err)
	admin := &model.User{
		Phone:        "09120000000",
		Name:         "مدیر",
		Role:         model.RoleAdmin,
		PasswordHash: hash,
	}
	testDB.Create(admin)

	user, tokens, err := authService.AdminLogin("09120000000", "s3cret-admin")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = authService.AdminLogin("09120000000", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = authService.AdminLogin("09129999999", "s3cret-admin")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AdminLogin_CustomerRejected(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	hash, err := util.HashPassword("password")
	require.NoError(t, err)
	customer := &model.User{
		Phone:        "09121234567",
		Role:         model.RoleCustomer,
		PasswordHash: hash,
	}
	testDB.Create(customer)

	// A customer with a password still cannot use the admin door
	_, _, err = authService.AdminLogin("09121234567", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user := &model.User{Phone: "09121234567", Role: model.RoleCustomer}
	testDB.Create(user)

	updated, err := authService.UpdateProfile(user.ID, "سارا", "sara@example.com")
	require.NoError(t, err)
	assert.Equal(t, "سارا", updated.Name)
	assert.Equal(t, "sara@example.com", updated.Email)

	// Empty fields leave existing values alone
	updated, err = authService.UpdateProfile(user.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "سارا", updated.Name)

	_, err = authService.UpdateProfile(9999, "x", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
