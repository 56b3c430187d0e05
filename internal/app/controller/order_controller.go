package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	apperrors "github.com/shopyar/shopyar-backend/internal/errors"
	"github.com/shopyar/shopyar-backend/internal/middleware"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type PlaceOrderRequest struct {
	RecipientName  string `json:"recipient_name" binding:"required"`
	RecipientPhone string `json:"recipient_phone" binding:"required"`
	Province       string `json:"province"`
	City           string `json:"city"`
	PostalCode     string `json:"postal_code"`
	AddressLine    string `json:"address_line" binding:"required"`
}

// PlaceOrder turns the cart into a pending order and returns the gateway URL
// POST /api/v1/orders
func (ctrl *OrderController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات گیرنده کامل نیست")
		return
	}

	shipping := service.ShippingInfo{
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		Province:       req.Province,
		City:           req.City,
		PostalCode:     req.PostalCode,
		AddressLine:    req.AddressLine,
	}

	placed, err := ctrl.orderService.PlaceOrder(c.Request.Context(), cartIdentity(c), shipping)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "سبد خرید شما خالی است")
		case errors.Is(err, service.ErrMissingRecipient):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "اطلاعات گیرنده کامل نیست")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "یکی از محصولات سبد دیگر موجود نیست")
		case errors.Is(err, service.ErrProductUnavailable):
			apperrors.BadRequest(c, apperrors.ProductUnavailable, "یکی از محصولات سبد قابل خرید نیست")
		case errors.Is(err, service.ErrVariantNotFound), errors.Is(err, service.ErrVariantMismatch):
			apperrors.BadRequest(c, apperrors.VariantNotFound, "تنوع انتخاب‌شده دیگر موجود نیست")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.Conflict(c, apperrors.OrderStockConflict, "موجودی یکی از محصولات سبد کافی نیست. سبد خود را بازبینی کنید")
		case errors.Is(err, service.ErrPaymentRequestFailed):
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.PaymentRequestFailed, "اتصال به درگاه پرداخت برقرار نشد. کمی بعد دوباره تلاش کنید")
		default:
			log.Error("Order placement failed", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "place order")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "سفارش ثبت شد. برای پرداخت به درگاه منتقل می‌شوید",
		"order":       placed.Order,
		"payment_url": placed.PaymentURL,
	})
}

// ListMyOrders lists the authenticated user's orders
// GET /api/v1/orders
func (ctrl *OrderController) ListMyOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		log.Error("Failed to list user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

// GetMyOrder fetches one of the authenticated user's orders
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetMyOrder(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "شناسه معتبر نیست")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			apperrors.NotFound(c, apperrors.OrderNotFound, "سفارش مورد نظر یافت نشد")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
