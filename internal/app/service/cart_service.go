package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CartIdentity names the owner of a cart: an authenticated user or an
// anonymous session. Exactly one field is set.
type CartIdentity struct {
	UserID       *uint
	SessionToken string
}

type CartService interface {
	// ResolveCart returns the identity's cart, creating one when missing.
	// For anonymous identities with no token yet, a fresh token is issued.
	ResolveCart(identity CartIdentity) (*model.Cart, string, error)
	GetCart(identity CartIdentity) (*model.Cart, error)
	AddItem(identity CartIdentity, productID uint, variantID *uint) (*model.Cart, string, error)
	UpdateItemQuantity(identity CartIdentity, itemID uint, quantity int) (*model.Cart, error)
	RemoveItem(identity CartIdentity, itemID uint) (*model.Cart, error)
	ClearCart(identity CartIdentity) error
	// MergeGuestCart folds the session cart into the user's cart at login and
	// deletes the session cart.
	MergeGuestCart(sessionToken string, userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
	}
}

func (s *cartService) findCart(identity CartIdentity) (*model.Cart, error) {
	if identity.UserID != nil {
		return s.cartRepo.FindByUserID(*identity.UserID)
	}
	if identity.SessionToken == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cartRepo.FindBySessionToken(identity.SessionToken)
}

func (s *cartService) ResolveCart(identity CartIdentity) (*model.Cart, string, error) {
	cart, err := s.findCart(identity)
	if err == nil {
		return cart, identity.SessionToken, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to resolve cart", err, map[string]interface{}{
			"user_id": identity.UserID,
		})
		return nil, "", err
	}

	// A token referencing a deleted user falls back to a guest cart instead
	// of failing checkout.
	if identity.UserID != nil {
		var count int64
		if err := s.db.Model(&model.User{}).Where("id = ?", *identity.UserID).Count(&count).Error; err != nil {
			return nil, "", err
		}
		if count == 0 {
			logger.Warn("Cart owner no longer exists, degrading to guest cart", map[string]interface{}{
				"user_id": *identity.UserID,
			})
			identity.UserID = nil
		}
	}

	cart = &model.Cart{UserID: identity.UserID}
	token := identity.SessionToken
	if identity.UserID == nil {
		if token == "" {
			token = uuid.NewString()
		}
		cart.SessionToken = &token
	}

	if err := s.cartRepo.Create(cart); err != nil {
		logger.Error("Failed to create cart", err, map[string]interface{}{
			"user_id": identity.UserID,
		})
		return nil, "", err
	}

	logger.Info("Cart created", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": identity.UserID,
	})
	return cart, token, nil
}

func (s *cartService) GetCart(identity CartIdentity) (*model.Cart, error) {
	cart, err := s.findCart(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// An empty cart rather than an error
			return &model.Cart{UserID: identity.UserID}, nil
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": identity.UserID,
		})
		return nil, err
	}
	return cart, nil
}

// AddItem adds one unit of a product (or a specific variant of it) to the
// cart. Adding an already-present line increments its quantity by exactly one.
func (s *cartService) AddItem(identity CartIdentity, productID uint, variantID *uint) (*model.Cart, string, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    identity.UserID,
		"product_id": productID,
		"variant_id": variantID,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, "", ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, "", err
	}

	if !product.Purchasable() {
		logger.Warn("Cannot add to cart: product unavailable", map[string]interface{}{
			"product_id": productID,
		})
		return nil, "", ErrProductUnavailable
	}

	// When a variant is selected, its stock governs; otherwise the product's.
	availableStock := product.StockQuantity
	if variantID != nil {
		variant, err := s.productRepo.FindVariantByID(*variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrVariantNotFound
			}
			return nil, "", err
		}
		if variant.ProductID != productID {
			logger.Warn("Variant mismatch when adding to cart", map[string]interface{}{
				"product_id": productID,
				"variant_id": *variantID,
			})
			return nil, "", ErrVariantMismatch
		}
		availableStock = variant.StockQuantity
	}

	cart, token, err := s.ResolveCart(identity)
	if err != nil {
		return nil, "", err
	}

	existing, err := s.cartRepo.FindItem(cart.ID, productID, variantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to look up cart item", err, map[string]interface{}{
			"cart_id":    cart.ID,
			"product_id": productID,
		})
		return nil, "", err
	}

	newQuantity := 1
	if existing != nil {
		newQuantity = existing.Quantity + 1
	}
	if newQuantity > availableStock {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"requested":  newQuantity,
			"available":  availableStock,
		})
		return nil, "", ErrInsufficientStock
	}

	if existing != nil {
		existing.Quantity = newQuantity
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, "", err
		}
	} else {
		item := &model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  1,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, "", err
		}
	}

	cart, err = s.cartRepo.FindByID(cart.ID)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": productID,
		"quantity":   newQuantity,
	})
	return cart, token, nil
}

func (s *cartService) UpdateItemQuantity(identity CartIdentity, itemID uint, quantity int) (*model.Cart, error) {
	logger.Info("Updating cart item quantity", map[string]interface{}{
		"item_id":  itemID,
		"quantity": quantity,
	})

	cart, err := s.findCart(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	item, err := s.cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.CartID != cart.ID {
		logger.Warn("Cart item access denied: ownership mismatch", map[string]interface{}{
			"item_id": itemID,
			"cart_id": cart.ID,
		})
		return nil, ErrCartItemNotFound
	}

	// Quantity zero or below removes the line
	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(itemID); err != nil {
			return nil, err
		}
		return s.cartRepo.FindByID(cart.ID)
	}

	availableStock := item.Product.StockQuantity
	if item.Variant != nil {
		availableStock = item.Variant.StockQuantity
	}
	if quantity > availableStock {
		logger.Warn("Cannot update quantity: insufficient stock", map[string]interface{}{
			"item_id":   itemID,
			"requested": quantity,
			"available": availableStock,
		})
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}

	return s.cartRepo.FindByID(cart.ID)
}

func (s *cartService) RemoveItem(identity CartIdentity, itemID uint) (*model.Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"item_id": itemID,
	})

	cart, err := s.findCart(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	item, err := s.cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, ErrCartItemNotFound
	}

	if err := s.cartRepo.DeleteItem(itemID); err != nil {
		return nil, err
	}

	return s.cartRepo.FindByID(cart.ID)
}

func (s *cartService) ClearCart(identity CartIdentity) error {
	cart, err := s.findCart(identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.cartRepo.DeleteItemsByCartID(cart.ID)
}

// MergeGuestCart moves every line of the session cart into the user's cart.
// Quantities of matching lines are summed; stock is re-checked at checkout,
// not here. The guest cart ceases to exist afterwards.
func (s *cartService) MergeGuestCart(sessionToken string, userID uint) error {
	if sessionToken == "" {
		return nil
	}

	logger.Info("Merging guest cart into user cart", map[string]interface{}{
		"user_id": userID,
	})

	guestCart, err := s.cartRepo.FindBySessionToken(sessionToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to merge
			return nil
		}
		logger.Error("Failed to fetch guest cart", err, nil)
		return err
	}

	userCart, _, err := s.ResolveCart(CartIdentity{UserID: &userID})
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, guestItem := range guestCart.Items {
			var existing model.CartItem
			query := tx.Where("cart_id = ? AND product_id = ?", userCart.ID, guestItem.ProductID)
			if guestItem.VariantID != nil {
				query = query.Where("variant_id = ?", *guestItem.VariantID)
			} else {
				query = query.Where("variant_id IS NULL")
			}

			findErr := query.First(&existing).Error
			switch {
			case findErr == nil:
				existing.Quantity += guestItem.Quantity
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				moved := model.CartItem{
					CartID:    userCart.ID,
					ProductID: guestItem.ProductID,
					VariantID: guestItem.VariantID,
					Quantity:  guestItem.Quantity,
				}
				if err := tx.Create(&moved).Error; err != nil {
					return err
				}
			default:
				return findErr
			}
		}

		if err := tx.Where("cart_id = ?", guestCart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, guestCart.ID).Error
	})
	if err != nil {
		logger.Error("Failed to merge guest cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Guest cart merged", map[string]interface{}{
		"user_id":     userID,
		"moved_items": len(guestCart.Items),
	})
	return nil
}
