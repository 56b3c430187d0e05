package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	apperrors "github.com/shopyar/shopyar-backend/internal/errors"
	"github.com/shopyar/shopyar-backend/internal/middleware"
	"github.com/shopyar/shopyar-backend/pkg/redis"
)

type AuthController struct {
	authService service.AuthService
	cartService service.CartService
	cartCfg     config.CartConfig
	jwtCfg      config.JWTConfig
}

func NewAuthController(
	authService service.AuthService,
	cartService service.CartService,
	cartCfg config.CartConfig,
	jwtCfg config.JWTConfig,
) *AuthController {
	return &AuthController{
		authService: authService,
		cartService: cartService,
		cartCfg:     cartCfg,
		jwtCfg:      jwtCfg,
	}
}

type RequestCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type VerifyCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type AdminLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RequestCode sends a one-time login code via SMS
// POST /api/v1/auth/otp/request
func (ctrl *AuthController) RequestCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RequestCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid code request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات وارد شده معتبر نیست")
		return
	}

	if err := ctrl.authService.RequestCode(c.Request.Context(), req.Phone); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhone):
			apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "شماره موبایل معتبر نیست")
		case errors.Is(err, service.ErrTooManyRequests):
			apperrors.TooManyRequests(c, "")
		default:
			log.Error("Failed to send verification code", err, map[string]interface{}{
				"phone": req.Phone,
			})
			apperrors.InternalError(c, "ارسال کد تایید با خطا مواجه شد")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "کد تایید ارسال شد",
	})
}

// VerifyCode exchanges a valid OTP for a token pair. First-time phones get an
// account created on the spot, and any guest cart is merged in.
// POST /api/v1/auth/otp/verify
func (ctrl *AuthController) VerifyCode(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid verify request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات وارد شده معتبر نیست")
		return
	}

	user, tokens, err := ctrl.authService.VerifyCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode):
			apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "کد تایید نادرست است")
		case errors.Is(err, service.ErrCodeExpired):
			apperrors.BadRequest(c, apperrors.AuthCodeExpired, "کد تایید منقضی شده است. کد جدید درخواست کنید")
		case errors.Is(err, service.ErrTooManyRequests):
			apperrors.TooManyRequests(c, "")
		default:
			log.Error("Verification failed", err, map[string]interface{}{
				"phone": req.Phone,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "verify code")
		}
		return
	}

	// Fold the anonymous cart into the user's cart
	if sessionToken := middleware.GetCartSessionToken(c); sessionToken != "" {
		if err := ctrl.cartService.MergeGuestCart(sessionToken, user.ID); err != nil {
			// Login still succeeds; the guest cart is at worst left behind
			log.Error("Guest cart merge failed on login", err, map[string]interface{}{
				"user_id": user.ID,
			})
		} else {
			middleware.ClearCartSessionCookie(c, ctrl.cartCfg)
		}
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "ورود با موفقیت انجام شد",
		"user": gin.H{
			"id":    user.ID,
			"phone": user.Phone,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"tokens": tokens,
	})
}

// AdminLogin authenticates an administrator with phone and password
// POST /api/v1/auth/admin/login
func (ctrl *AuthController) AdminLogin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات وارد شده معتبر نیست")
		return
	}

	user, tokens, err := ctrl.authService.AdminLogin(req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Admin login failed: invalid credentials", map[string]interface{}{
				"phone": req.Phone,
			})
			apperrors.Unauthorized(c, "شماره موبایل یا رمز عبور نادرست است")
			return
		}
		log.Error("Admin login failed", err, map[string]interface{}{
			"phone": req.Phone,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "admin login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "ورود با موفقیت انجام شد",
		"user": gin.H{
			"id":    user.ID,
			"phone": user.Phone,
			"name":  user.Name,
			"role":  user.Role,
		},
		"tokens": tokens,
	})
}

// Logout revokes the current access token until its natural expiry
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" && redis.GetClient() != nil {
		if err := redis.BlacklistToken(c.Request.Context(), parts[1], ctrl.jwtCfg.AccessTokenExpiry); err != nil {
			log.Error("Failed to blacklist token on logout", err, nil)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "خروج انجام شد",
	})
}

// GetProfile returns the authenticated user's profile
// GET /api/v1/auth/me
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "کاربر یافت نشد")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"phone":      user.Phone,
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"created_at": user.CreatedAt.Format(time.RFC3339),
		},
	})
}

// UpdateProfile updates name and email of the authenticated user
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات وارد شده معتبر نیست")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Name, req.Email)
	if err != nil {
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "پروفایل به‌روزرسانی شد",
		"user": gin.H{
			"id":    user.ID,
			"phone": user.Phone,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
