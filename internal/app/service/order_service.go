package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingRecipient     = errors.New("missing recipient information")
	ErrPaymentRequestFailed = errors.New("payment request failed")
	ErrPaymentNotVerified   = errors.New("payment not verified")
	ErrOrderNotPending      = errors.New("order is not awaiting payment")
	ErrInvalidTransition    = errors.New("invalid order status transition")
)

// Completed and cancelled are terminal: a cancelled order already gave its
// stock back and must never come back to life.
var allowedTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusCompleted, model.OrderStatusCancelled},
}

func transitionAllowed(from, to model.OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ShippingInfo is the recipient snapshot frozen onto the order
type ShippingInfo struct {
	RecipientName  string
	RecipientPhone string
	Province       string
	City           string
	PostalCode     string
	AddressLine    string
}

// PlacedOrder is the result of a successful order placement: the pending
// order plus the gateway URL the buyer must be sent to.
type PlacedOrder struct {
	Order      *model.Order
	PaymentURL string
}

type OrderService interface {
	PlaceOrder(ctx context.Context, identity CartIdentity, shipping ShippingInfo) (*PlacedOrder, error)
	VerifyPayment(ctx context.Context, authority string, gatewayOK bool) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	gateway   PaymentGateway
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	gateway PaymentGateway,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		gateway:   gateway,
		db:        db,
	}
}

// decrementStock applies a conditional decrement that only succeeds when
// enough stock remains, so two concurrent checkouts can never both take the
// last unit.
func decrementStock(tx *gorm.DB, item model.CartItem) (bool, error) {
	var result *gorm.DB
	if item.VariantID != nil {
		result = tx.Model(&model.ProductVariant{}).
			Where("id = ? AND stock_quantity >= ?", *item.VariantID, item.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
	} else {
		result = tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
	}
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// restoreStock undoes a decrement after a failed payment
func restoreStock(db *gorm.DB, item model.OrderItem) error {
	if item.VariantID != nil {
		return db.Model(&model.ProductVariant{}).
			Where("id = ?", *item.VariantID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
	}
	return db.Model(&model.Product{}).
		Where("id = ?", item.ProductID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity)).Error
}

func (s *orderService) PlaceOrder(ctx context.Context, identity CartIdentity, shipping ShippingInfo) (*PlacedOrder, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id": identity.UserID,
	})

	if shipping.RecipientName == "" || shipping.RecipientPhone == "" || shipping.AddressLine == "" {
		logger.Warn("Order placement rejected: missing recipient information", map[string]interface{}{
			"user_id": identity.UserID,
		})
		return nil, ErrMissingRecipient
	}

	var cart *model.Cart
	var err error
	if identity.UserID != nil {
		cart, err = s.cartRepo.FindByUserID(*identity.UserID)
	} else if identity.SessionToken != "" {
		cart, err = s.cartRepo.FindBySessionToken(identity.SessionToken)
	} else {
		err = gorm.ErrRecordNotFound
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		logger.Error("Failed to fetch cart for order", err, map[string]interface{}{
			"user_id": identity.UserID,
		})
		return nil, err
	}
	if len(cart.Items) == 0 {
		logger.Warn("Cannot place order: cart is empty", map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"cart_id": cart.ID,
			})
		}
	}()

	var (
		totalAmount float64
		orderItems  []model.OrderItem
	)

	for _, cartItem := range cart.Items {
		// Prices come from the database, never from the client
		var product model.Product
		if err := tx.First(&product, cartItem.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product vanished during order placement", map[string]interface{}{
					"product_id": cartItem.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product during order placement", err, map[string]interface{}{
				"product_id": cartItem.ProductID,
			})
			return nil, err
		}

		if !product.Purchasable() {
			tx.Rollback()
			logger.Warn("Order placement failed: product unavailable", map[string]interface{}{
				"product_id": product.ID,
			})
			return nil, ErrProductUnavailable
		}

		unitPrice := product.EffectivePrice()
		var variantSnapshot string
		if cartItem.VariantID != nil {
			var variant model.ProductVariant
			if err := tx.First(&variant, *cartItem.VariantID).Error; err != nil {
				tx.Rollback()
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrVariantNotFound
				}
				return nil, err
			}
			if variant.ProductID != cartItem.ProductID {
				tx.Rollback()
				return nil, ErrVariantMismatch
			}
			unitPrice += variant.PriceDelta
			variantSnapshot = fmt.Sprintf("%s: %s", variant.Name, variant.Value)
		}

		applied, err := decrementStock(tx, cartItem)
		if err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement stock", err, map[string]interface{}{
				"product_id": cartItem.ProductID,
				"variant_id": cartItem.VariantID,
			})
			return nil, err
		}
		if !applied {
			// All-or-nothing: one short line aborts the whole order
			tx.Rollback()
			logger.Warn("Order placement failed: insufficient stock", map[string]interface{}{
				"product_id": cartItem.ProductID,
				"variant_id": cartItem.VariantID,
				"requested":  cartItem.Quantity,
			})
			return nil, ErrInsufficientStock
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:       cartItem.ProductID,
			VariantID:       cartItem.VariantID,
			Quantity:        cartItem.Quantity,
			UnitPrice:       unitPrice,
			VariantSnapshot: variantSnapshot,
		})
		totalAmount += unitPrice * float64(cartItem.Quantity)
	}

	order := &model.Order{
		UserID:         identity.UserID,
		TotalAmount:    totalAmount,
		Status:         model.OrderStatusPending,
		RecipientName:  shipping.RecipientName,
		RecipientPhone: shipping.RecipientPhone,
		Province:       shipping.Province,
		City:           shipping.City,
		PostalCode:     shipping.PostalCode,
		AddressLine:    shipping.AddressLine,
		Items:          orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"cart_id":      cart.ID,
			"total_amount": totalAmount,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return nil, err
	}

	// The gateway call happens outside the transaction: a slow provider must
	// not hold row locks open.
	authority, payURL, err := s.gateway.RequestPayment(
		ctx,
		int64(totalAmount),
		fmt.Sprintf("پرداخت سفارش %d فروشگاه شاپیار", order.ID),
		shipping.RecipientPhone,
	)
	if err != nil {
		logger.Error("Payment request failed, compensating order", err, map[string]interface{}{
			"order_id": order.ID,
		})
		s.compensate(order)
		return nil, ErrPaymentRequestFailed
	}

	order.PaymentAuthority = authority
	if err := s.orderRepo.Update(order); err != nil {
		logger.Error("Failed to store payment authority", err, map[string]interface{}{
			"order_id": order.ID,
		})
		s.compensate(order)
		return nil, err
	}

	// The cart empties only once the gateway accepted the payment request, so
	// a flaky gateway never costs the buyer their cart.
	if err := s.cartRepo.DeleteItemsByCartID(cart.ID); err != nil {
		logger.Error("Failed to clear cart after order placement", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
	}

	logger.Info("Order placed, awaiting payment", map[string]interface{}{
		"order_id":     order.ID,
		"total_amount": totalAmount,
		"item_count":   len(orderItems),
		"authority":    authority,
	})

	return &PlacedOrder{Order: order, PaymentURL: payURL}, nil
}

// compensate restores decremented stock and removes the order after a failed
// payment request. The order never existed as far as the buyer is concerned.
func (s *orderService) compensate(order *model.Order) {
	for _, item := range order.Items {
		if err := restoreStock(s.db, item); err != nil {
			logger.Error("Failed to restore stock during compensation", err, map[string]interface{}{
				"order_id":   order.ID,
				"product_id": item.ProductID,
			})
		}
	}

	if err := s.db.Unscoped().Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
		logger.Error("Failed to delete order items during compensation", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
	if err := s.db.Unscoped().Delete(&model.Order{}, order.ID).Error; err != nil {
		logger.Error("Failed to delete order during compensation", err, map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

// VerifyPayment settles an order after the buyer returns from the gateway.
// gatewayOK reflects the redirect status. A cancelled or rejected payment
// leaves the order pending with its stock reserved, so support can retry the
// verification or cancel the order by hand.
func (s *orderService) VerifyPayment(ctx context.Context, authority string, gatewayOK bool) (*model.Order, error) {
	logger.Info("Verifying payment", map[string]interface{}{
		"authority":  authority,
		"gateway_ok": gatewayOK,
	})

	order, err := s.orderRepo.FindByAuthority(authority)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Payment verification for unknown authority", map[string]interface{}{
				"authority": authority,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order by authority", err, map[string]interface{}{
			"authority": authority,
		})
		return nil, err
	}

	if order.Status != model.OrderStatusPending {
		logger.Warn("Payment verification for settled order", map[string]interface{}{
			"order_id": order.ID,
			"status":   order.Status,
		})
		return order, ErrOrderNotPending
	}

	if !gatewayOK {
		logger.Warn("Payment aborted by buyer", map[string]interface{}{
			"order_id": order.ID,
		})
		return order, ErrPaymentNotVerified
	}

	// Verification uses the stored total, never a client-supplied amount
	refID, err := s.gateway.VerifyPayment(ctx, authority, int64(order.TotalAmount))
	if err != nil {
		logger.Warn("Payment verification rejected by gateway", map[string]interface{}{
			"order_id": order.ID,
		})
		return order, ErrPaymentNotVerified
	}

	now := time.Now()
	order.Status = model.OrderStatusProcessing
	order.PaymentRefID = refID
	order.PaidAt = &now
	if err := s.orderRepo.Update(order); err != nil {
		logger.Error("Failed to mark order paid", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Payment verified", map[string]interface{}{
		"order_id": order.ID,
		"ref_id":   refID,
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return orders, nil
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	if order.UserID == nil || *order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	orders, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountWithFilter(filter)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id":   orderID,
		"new_status": status,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if !transitionAllowed(order.Status, status) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return ErrInvalidTransition
	}

	// Cancelling an unpaid order releases the stock it reserved
	if status == model.OrderStatusCancelled && order.Status == model.OrderStatusPending {
		for _, item := range order.Items {
			if err := restoreStock(s.db, item); err != nil {
				logger.Error("Failed to restore stock for cancelled order", err, map[string]interface{}{
					"order_id":   order.ID,
					"product_id": item.ProductID,
				})
			}
		}
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
		})
		return err
	}

	return nil
}
