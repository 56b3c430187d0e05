package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	apperrors "github.com/shopyar/shopyar-backend/internal/errors"
	"github.com/shopyar/shopyar-backend/internal/middleware"
	"github.com/xuri/excelize/v2"
)

// AdminController groups the management endpoints: product CRUD, variant
// management, order handling and the spreadsheet export.
type AdminController struct {
	productService service.ProductService
	orderService   service.OrderService
}

func NewAdminController(
	productService service.ProductService,
	orderService service.OrderService,
) *AdminController {
	return &AdminController{
		productService: productService,
		orderService:   orderService,
	}
}

type ProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64 `json:"discount_price"`
	Category      string   `json:"category" binding:"required"`
	StockQuantity int      `json:"stock_quantity" binding:"gte=0"`
	IsAvailable   *bool    `json:"is_available"`
	ImageURL      string   `json:"image_url"`
}

type UpdateProductRequest struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price"`
	Category      string   `json:"category"`
	StockQuantity int      `json:"stock_quantity"`
	IsAvailable   *bool    `json:"is_available"`
	ImageURL      string   `json:"image_url"`
}

type VariantRequest struct {
	Name          string  `json:"name" binding:"required"`
	Value         string  `json:"value" binding:"required"`
	PriceDelta    float64 `json:"price_delta"`
	StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "شناسه معتبر نیست")
		return 0, false
	}
	return uint(id), true
}

func (ctrl *AdminController) respondProductError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "محصول مورد نظر یافت نشد")
	case errors.Is(err, service.ErrVariantNotFound):
		apperrors.NotFound(c, apperrors.VariantNotFound, "تنوع مورد نظر یافت نشد")
	case errors.Is(err, service.ErrVariantMismatch):
		apperrors.BadRequest(c, apperrors.VariantWrongProduct, "تنوع انتخاب‌شده به این محصول تعلق ندارد")
	case errors.Is(err, service.ErrInvalidDiscount):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "قیمت تخفیف باید از قیمت اصلی کمتر باشد")
	default:
		log.Error("Admin product operation failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ==================== Products ====================

// ListProducts lists all products including archived ones
// GET /api/v1/admin/products
func (ctrl *AdminController) ListProducts(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := repository.ProductFilter{
		Category:        categoryFilter(c),
		Search:          c.Query("q"),
		IncludeArchived: true,
		SortBy:          repository.ProductSort(c.Query("sort")),
		SortAscending:   c.Query("order") == "asc",
		Limit:           limit,
		Offset:          offset,
	}

	page, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": page.Products,
		"total":    page.Total,
	})
}

// CreateProduct registers a new product
// POST /api/v1/admin/products
func (ctrl *AdminController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid product request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات محصول کامل نیست")
		return
	}

	product, err := ctrl.productService.CreateProduct(service.ProductInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Category:      model.ProductCategory(req.Category),
		StockQuantity: req.StockQuantity,
		IsAvailable:   req.IsAvailable,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		ctrl.respondProductError(c, err, "create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "محصول ثبت شد",
		"product": product,
	})
}

// UpdateProduct edits an existing product
// PUT /api/v1/admin/products/:id
func (ctrl *AdminController) UpdateProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات محصول معتبر نیست")
		return
	}

	product, err := ctrl.productService.UpdateProduct(productID, service.ProductInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Category:      model.ProductCategory(req.Category),
		StockQuantity: req.StockQuantity,
		IsAvailable:   req.IsAvailable,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		ctrl.respondProductError(c, err, "update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "محصول به‌روزرسانی شد",
		"product": product,
	})
}

// ArchiveProduct hides a product from the storefront, keeping order history
// POST /api/v1/admin/products/:id/archive
func (ctrl *AdminController) ArchiveProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.ArchiveProduct(productID); err != nil {
		ctrl.respondProductError(c, err, "archive product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "محصول بایگانی شد",
	})
}

// DeleteProduct soft-deletes a product
// DELETE /api/v1/admin/products/:id
func (ctrl *AdminController) DeleteProduct(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(productID); err != nil {
		ctrl.respondProductError(c, err, "delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "محصول حذف شد",
	})
}

// ==================== Variants ====================

// AddVariant registers a variant for a product
// POST /api/v1/admin/products/:id/variants
func (ctrl *AdminController) AddVariant(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات تنوع کامل نیست")
		return
	}

	variant, err := ctrl.productService.AddVariant(productID, service.VariantInput{
		Name:          req.Name,
		Value:         req.Value,
		PriceDelta:    req.PriceDelta,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		ctrl.respondProductError(c, err, "create variant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "تنوع محصول ثبت شد",
		"variant": variant,
	})
}

// UpdateVariant edits a variant of a product
// PUT /api/v1/admin/products/:id/variants/:variantId
func (ctrl *AdminController) UpdateVariant(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}

	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات تنوع معتبر نیست")
		return
	}

	variant, err := ctrl.productService.UpdateVariant(productID, variantID, service.VariantInput{
		Name:          req.Name,
		Value:         req.Value,
		PriceDelta:    req.PriceDelta,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		ctrl.respondProductError(c, err, "update variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "تنوع محصول به‌روزرسانی شد",
		"variant": variant,
	})
}

// RemoveVariant deletes a variant of a product
// DELETE /api/v1/admin/products/:id/variants/:variantId
func (ctrl *AdminController) RemoveVariant(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	variantID, ok := parseIDParam(c, "variantId")
	if !ok {
		return
	}

	if err := ctrl.productService.RemoveVariant(productID, variantID); err != nil {
		ctrl.respondProductError(c, err, "delete variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "تنوع محصول حذف شد",
	})
}

// ==================== Orders ====================

func orderFilterFromQuery(c *gin.Context) repository.OrderFilter {
	limit, offset := parsePagination(c)
	filter := repository.OrderFilter{
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}
	return filter
}

// ListOrders lists all orders, filterable by status
// GET /api/v1/admin/orders?status=&page=&limit=
func (ctrl *AdminController) ListOrders(c *gin.Context) {
	orders, total, err := ctrl.orderService.ListOrders(orderFilterFromQuery(c))
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
	})
}

var validStatusTransitions = map[model.OrderStatus]bool{
	model.OrderStatusProcessing: true,
	model.OrderStatusCompleted:  true,
	model.OrderStatusCancelled:  true,
}

// UpdateOrderStatus moves an order along its lifecycle
// PUT /api/v1/admin/orders/:id/status
func (ctrl *AdminController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "وضعیت سفارش مشخص نشده است")
		return
	}

	status := model.OrderStatus(req.Status)
	if !validStatusTransitions[status] {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "وضعیت سفارش معتبر نیست")
		return
	}

	if err := ctrl.orderService.UpdateOrderStatus(orderID, status); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "سفارش مورد نظر یافت نشد")
			return
		}
		if errors.Is(err, service.ErrInvalidTransition) {
			apperrors.Conflict(c, apperrors.ResourceConflict, "تغییر وضعیت سفارش از وضعیت فعلی مجاز نیست")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update order status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "وضعیت سفارش به‌روزرسانی شد",
	})
}

// ExportOrders streams the filtered orders as an Excel workbook
// GET /api/v1/admin/orders/export?status=
func (ctrl *AdminController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := orderFilterFromQuery(c)
	// Export ignores pagination: the whole filtered set goes in the file
	filter.Limit = 0
	filter.Offset = 0

	orders, _, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export orders")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"شناسه", "گیرنده", "موبایل", "مبلغ کل", "وضعیت", "کد پیگیری", "شهر", "تاریخ ثبت"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, order := range orders {
		values := []interface{}{
			order.ID,
			order.RecipientName,
			order.RecipientPhone,
			order.TotalAmount,
			string(order.Status),
			order.PaymentRefID,
			order.City,
			order.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to write order export", err, nil)
	}
}
