package errors

// ثابت‌های کد خطا
// قالب: CATEGORY_SPECIFIC_DETAIL
// فرانت‌اند بر اساس این کدها پیام مناسب را نمایش می‌دهد

const (
	// ==================== احراز هویت (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // نیاز به ورود
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // شماره یا رمز نادرست
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // توکن منقضی شده
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // توکن نامعتبر
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // توکن باطل شده
	AuthPhoneExists        = "AUTH_PHONE_EXISTS"        // شماره تکراری
	AuthCodeInvalid        = "AUTH_CODE_INVALID"        // کد تایید نادرست
	AuthCodeExpired        = "AUTH_CODE_EXPIRED"        // کد تایید منقضی شده
	AuthTooManyRequests    = "AUTH_TOO_MANY_REQUESTS"   // درخواست بیش از حد

	// ==================== دسترسی (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // عدم دسترسی
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY" // فقط مدیر
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // فقط مالک

	// ==================== اعتبارسنجی (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // ورودی نادرست
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // شناسه نادرست
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // قالب نادرست
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // خارج از محدوده
	ValidationRequired      = "VALIDATION_REQUIRED"       // فیلد الزامی

	// ==================== منابع (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // یافت نشد
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // تکراری
	ResourceConflict      = "RESOURCE_CONFLICT"       // تداخل

	// ==================== محصول (PRODUCT_) ====================
	ProductNotFound      = "PRODUCT_NOT_FOUND"      // محصول یافت نشد
	ProductUnavailable   = "PRODUCT_UNAVAILABLE"    // محصول غیرفعال
	ProductOutOfStock    = "PRODUCT_OUT_OF_STOCK"   // موجودی ناکافی
	ProductSlugExists    = "PRODUCT_SLUG_EXISTS"    // اسلاگ تکراری
	VariantNotFound      = "VARIANT_NOT_FOUND"      // تنوع یافت نشد
	VariantWrongProduct  = "VARIANT_WRONG_PRODUCT"  // تنوع متعلق به محصول دیگر

	// ==================== سبد خرید (CART_) ====================
	CartNotFound     = "CART_NOT_FOUND"      // سبد یافت نشد
	CartItemNotFound = "CART_ITEM_NOT_FOUND" // قلم سبد یافت نشد
	CartEmpty        = "CART_EMPTY"          // سبد خالی

	// ==================== سفارش (ORDER_) ====================
	OrderNotFound       = "ORDER_NOT_FOUND"        // سفارش یافت نشد
	OrderNotPending     = "ORDER_NOT_PENDING"      // سفارش در انتظار نیست
	OrderStockConflict  = "ORDER_STOCK_CONFLICT"   // موجودی هنگام ثبت کافی نبود

	// ==================== پرداخت (PAYMENT_) ====================
	PaymentRequestFailed = "PAYMENT_REQUEST_FAILED" // خطا در ایجاد پرداخت
	PaymentNotVerified   = "PAYMENT_NOT_VERIFIED"   // پرداخت تایید نشد
	PaymentCancelled     = "PAYMENT_CANCELLED"      // پرداخت لغو شد

	// ==================== آدرس (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND" // آدرس یافت نشد

	// ==================== بارگذاری (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // نوع فایل نادرست
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // فایل بیش از حد بزرگ
	UploadFailed          = "UPLOAD_FAILED"            // خطا در بارگذاری

	// ==================== خطای داخلی (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // خطای سرور
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // خطای پایگاه داده
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // خطای سرویس خارجی
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // خطای پیکربندی
)
