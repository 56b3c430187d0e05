package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	apperrors "github.com/shopyar/shopyar-backend/internal/errors"
	"github.com/shopyar/shopyar-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
	cartCfg     config.CartConfig
}

func NewCartController(cartService service.CartService, cartCfg config.CartConfig) *CartController {
	return &CartController{
		cartService: cartService,
		cartCfg:     cartCfg,
	}
}

type AddCartItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// cartIdentity builds the cart owner from the request: the authenticated user
// when present, the session cookie otherwise.
func cartIdentity(c *gin.Context) service.CartIdentity {
	if userID, ok := middleware.GetUserID(c); ok {
		return service.CartIdentity{UserID: &userID}
	}
	return service.CartIdentity{SessionToken: middleware.GetCartSessionToken(c)}
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "محصول مورد نظر یافت نشد")
	case errors.Is(err, service.ErrProductUnavailable):
		apperrors.BadRequest(c, apperrors.ProductUnavailable, "این محصول در حال حاضر قابل خرید نیست")
	case errors.Is(err, service.ErrVariantNotFound):
		apperrors.NotFound(c, apperrors.VariantNotFound, "تنوع انتخاب‌شده یافت نشد")
	case errors.Is(err, service.ErrVariantMismatch):
		apperrors.BadRequest(c, apperrors.VariantWrongProduct, "تنوع انتخاب‌شده به این محصول تعلق ندارد")
	case errors.Is(err, service.ErrInsufficientStock):
		apperrors.BadRequest(c, apperrors.ProductOutOfStock, "موجودی این محصول کافی نیست")
	case errors.Is(err, service.ErrCartNotFound), errors.Is(err, service.ErrCartItemNotFound):
		apperrors.NotFound(c, apperrors.CartItemNotFound, "قلم مورد نظر در سبد خرید یافت نشد")
	default:
		log.Error("Cart operation failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// GetCart returns the current cart, empty when the visitor has none
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	cart, err := ctrl.cartService.GetCart(cartIdentity(c))
	if err != nil {
		ctrl.respondCartError(c, err, "get cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// AddItem puts one unit of a product in the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add-to-cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات وارد شده معتبر نیست")
		return
	}

	identity := cartIdentity(c)
	cart, token, err := ctrl.cartService.AddItem(identity, req.ProductID, req.VariantID)
	if err != nil {
		ctrl.respondCartError(c, err, "add cart item")
		return
	}

	// A visitor who just got a guest cart also gets the cookie that finds it
	// again. This covers stale logins the service degraded to guest mode.
	if token != "" && token != identity.SessionToken {
		middleware.SetCartSessionCookie(c, ctrl.cartCfg, token)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "به سبد خرید اضافه شد",
		"cart":    cart,
	})
}

// UpdateItem sets the quantity of a cart line, zero removes it
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "شناسه معتبر نیست")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "اطلاعات وارد شده معتبر نیست")
		return
	}

	cart, err := ctrl.cartService.UpdateItemQuantity(cartIdentity(c), uint(itemID), *req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, "update cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "سبد خرید به‌روزرسانی شد",
		"cart":    cart,
	})
}

// RemoveItem deletes a cart line
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "شناسه معتبر نیست")
		return
	}

	cart, err := ctrl.cartService.RemoveItem(cartIdentity(c), uint(itemID))
	if err != nil {
		ctrl.respondCartError(c, err, "remove cart item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "از سبد خرید حذف شد",
		"cart":    cart,
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	if err := ctrl.cartService.ClearCart(cartIdentity(c)); err != nil {
		ctrl.respondCartError(c, err, "clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "سبد خرید خالی شد",
	})
}
