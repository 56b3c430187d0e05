package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse ساختار استاندارد پاسخ خطا
type ErrorResponse struct {
	Error   string `json:"error"`   // کد خطا برای نگاشت در فرانت‌اند
	Message string `json:"message"` // پیام فارسی قابل نمایش به کاربر
}

// RespondWithError ارسال پاسخ خطا
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// توابع میان‌بر برای خطاهای پرتکرار

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "برای ادامه باید وارد شوید"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "دسترسی به این بخش مجاز نیست"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "تعداد درخواست‌ها بیش از حد مجاز است. کمی بعد دوباره تلاش کنید"
	}
	RespondWithError(c, http.StatusTooManyRequests, AuthTooManyRequests, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "خطای سرور رخ داد. لطفا کمی بعد دوباره تلاش کنید"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError خطای اعتبارسنجی چند فیلدی
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // پیام خطای هر فیلد
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "ورودی‌ها معتبر نیستند",
		Fields:  fields,
	})
}
