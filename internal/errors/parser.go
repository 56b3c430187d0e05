package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo اطلاعات پردازش‌شده یک خطا
type ErrorInfo struct {
	Code    string // کد خطا (codes.go)
	Message string // پیام فارسی قابل نمایش
}

// ParseError خطا را به کد و پیام قابل نمایش تبدیل می‌کند.
// جزییات حساس پنهان می‌ماند اما پیام باید به کاربر کمک کند مشکل را حل کند.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "خطای سرور رخ داد",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// خطاهای پایه GORM
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// خطاهای PostgreSQL

	// نقض یکتایی (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// نقض کلید خارجی (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// نقض not-null (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// خطاهای شبکه و اتصال
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "اتصال به سرویس خارجی برقرار نشد. کمی بعد دوباره تلاش کنید",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// ParseAndRespond پردازش خطا و ارسال پاسخ در یک گام
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

// parseDuplicateKeyError پردازش خطای نقض یکتایی
func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "phone") || strings.Contains(errLower, "idx_users_phone") {
		return ErrorInfo{
			Code:    AuthPhoneExists,
			Message: "این شماره موبایل قبلا ثبت شده است",
		}
	}

	if strings.Contains(errLower, "slug") || strings.Contains(errLower, "idx_products_slug") {
		return ErrorInfo{
			Code:    ProductSlugExists,
			Message: "این شناسه محصول قبلا استفاده شده است",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "این داده قبلا ثبت شده است. دوباره تلاش کنید",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "این داده قبلا ثبت شده است",
	}
}

// parseForeignKeyError پردازش خطای نقض کلید خارجی
func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "product") || strings.Contains(context, "محصول") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "این محصول در سفارش‌ها استفاده شده و قابل حذف نیست",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "به دلیل وجود داده‌های وابسته، حذف ممکن نیست",
		}
	}

	if strings.Contains(errLower, "product_id") || strings.Contains(errLower, "fk_products") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "محصول مورد نظر وجود ندارد",
		}
	}
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "کاربر مورد نظر وجود ندارد",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "داده مرجع یافت نشد",
	}
}

// parseNotNullError پردازش خطای فیلد الزامی
func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "phone") {
		return ErrorInfo{Code: ValidationRequired, Message: "شماره موبایل الزامی است"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "نام الزامی است"}
	}
	if strings.Contains(errLower, "price") {
		return ErrorInfo{Code: ValidationRequired, Message: "قیمت الزامی است"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "یکی از فیلدهای الزامی خالی است",
	}
}

// getNotFoundMessage پیام «یافت نشد» بر اساس زمینه
func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "product") || strings.Contains(contextLower, "محصول") {
		return "محصول مورد نظر یافت نشد"
	}
	if strings.Contains(contextLower, "cart") || strings.Contains(contextLower, "سبد") {
		return "سبد خرید یافت نشد"
	}
	if strings.Contains(contextLower, "order") || strings.Contains(contextLower, "سفارش") {
		return "سفارش مورد نظر یافت نشد"
	}
	if strings.Contains(contextLower, "address") || strings.Contains(contextLower, "آدرس") {
		return "آدرس مورد نظر یافت نشد"
	}
	if strings.Contains(contextLower, "user") || strings.Contains(contextLower, "کاربر") {
		return "کاربر مورد نظر یافت نشد"
	}

	return "داده مورد نظر یافت نشد"
}

// getDefaultErrorMessage پیام پیش‌فرض بر اساس زمینه
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") || strings.Contains(contextLower, "ثبت") {
		return "در ثبت اطلاعات خطایی رخ داد. کمی بعد دوباره تلاش کنید"
	}
	if strings.Contains(contextLower, "update") || strings.Contains(contextLower, "ویرایش") {
		return "در ویرایش اطلاعات خطایی رخ داد. کمی بعد دوباره تلاش کنید"
	}
	if strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "حذف") {
		return "در حذف اطلاعات خطایی رخ داد. کمی بعد دوباره تلاش کنید"
	}
	if strings.Contains(contextLower, "payment") || strings.Contains(contextLower, "پرداخت") {
		return "در عملیات پرداخت خطایی رخ داد. کمی بعد دوباره تلاش کنید"
	}

	return "خطای سرور رخ داد. کمی بعد دوباره تلاش کنید"
}
