package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	apperrors "github.com/shopyar/shopyar-backend/internal/errors"
	"github.com/shopyar/shopyar-backend/internal/middleware"
)

type PaymentController struct {
	orderService service.OrderService
}

func NewPaymentController(orderService service.OrderService) *PaymentController {
	return &PaymentController{orderService: orderService}
}

// Callback handles the buyer's return from the payment gateway. The gateway
// appends Authority and Status ("OK" on success) to the callback URL.
// GET /api/v1/payment/callback?Authority=...&Status=OK
func (ctrl *PaymentController) Callback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authority := c.Query("Authority")
	status := c.Query("Status")

	if authority == "" {
		log.Warn("Payment callback without authority", nil)
		apperrors.BadRequest(c, apperrors.ValidationRequired, "شناسه پرداخت در درخواست وجود ندارد")
		return
	}

	order, err := ctrl.orderService.VerifyPayment(c.Request.Context(), authority, status == "OK")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "سفارشی برای این پرداخت یافت نشد")
		case errors.Is(err, service.ErrOrderNotPending):
			apperrors.Conflict(c, apperrors.OrderNotPending, "این سفارش قبلا تعیین تکلیف شده است")
		case errors.Is(err, service.ErrPaymentNotVerified):
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "پرداخت انجام نشد. در صورت کسر وجه با پشتیبانی تماس بگیرید",
				"order":   order,
			})
		default:
			log.Error("Payment verification failed", err, map[string]interface{}{
				"authority": authority,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "verify payment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "پرداخت با موفقیت انجام شد",
		"order":   order,
	})
}
