package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/shopyar/shopyar-backend/internal/errors"
	"github.com/shopyar/shopyar-backend/internal/middleware"
	"github.com/shopyar/shopyar-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{storage: storage}
}

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

const maxUploadSize = 5 << 20 // 5 MB

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadImage stores a product image and returns its public URL
// POST /api/v1/admin/uploads (multipart, field "file")
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "فایلی برای بارگذاری ارسال نشده است")
		return
	}

	if fileHeader.Size > maxUploadSize {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "حجم فایل از حد مجاز (۵ مگابایت) بیشتر است")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := ctrl.storage.ValidateContentType(contentType, allowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "فقط تصویر با قالب JPEG، PNG یا WebP مجاز است")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, nil)
		apperrors.InternalError(c, "بارگذاری فایل با خطا مواجه شد")
		return
	}
	defer file.Close()

	fileURL, err := ctrl.storage.Upload(c.Request.Context(), "products", fileHeader.Filename, contentType, file)
	if err != nil {
		log.Error("Failed to upload image", err, map[string]interface{}{
			"filename": fileHeader.Filename,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "بارگذاری فایل با خطا مواجه شد. کمی بعد دوباره تلاش کنید")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "فایل بارگذاری شد",
		"url":     fileURL,
	})
}

// GetPresignedURL hands the admin panel a direct-to-bucket upload URL
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) GetPresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "نام فایل و نوع محتوا الزامی است")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "فقط تصویر با قالب JPEG، PNG یا WebP مجاز است")
		return
	}

	presigned, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "products")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "ایجاد لینک بارگذاری با خطا مواجه شد")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload": presigned,
	})
}
