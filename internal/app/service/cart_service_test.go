package service

import (
	"testing"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *model.ProductVariant, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo, testDB)

	user := &model.User{
		Phone: "09121234567",
		Name:  "کاربر تست",
		Role:  model.RoleCustomer,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:          "پیراهن تست",
		Slug:          "پیراهن-تست",
		Price:         500000,
		Category:      model.CategoryApparel,
		StockQuantity: 10,
		IsAvailable:   true,
	}
	testDB.Create(product)

	variant := &model.ProductVariant{
		ProductID:     product.ID,
		Name:          "سایز",
		Value:         "XL",
		PriceDelta:    50000,
		StockQuantity: 2,
	}
	testDB.Create(variant)

	return cartService, user, product, variant, testDB
}

func userIdentity(user *model.User) CartIdentity {
	return CartIdentity{UserID: &user.ID}
}

func TestCartService_GetCart_EmptyWithoutCart(t *testing.T) {
	cartService, user, _, _, _ := setupCartServiceTest(t)

	cart, err := cartService.GetCart(userIdentity(user))
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestCartService_AddItem_Success(t *testing.T) {
	cartService, user, product, _, _ := setupCartServiceTest(t)

	cart, _, err := cartService.AddItem(userIdentity(user), product.ID, nil)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartService_AddItem_IncrementsByOne(t *testing.T) {
	cartService, user, product, _, _ := setupCartServiceTest(t)
	identity := userIdentity(user)

	_, _, err := cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)

	cart, _, err := cartService.AddItem(identity, product.ID, nil)
	assert.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_AddItem_DanglingUserDegradesToGuest(t *testing.T) {
	cartService, _, product, _, testDB := setupCartServiceTest(t)

	// A stale session referencing a deleted user must not break the cart
	deletedID := uint(9999)
	cart, token, err := cartService.AddItem(CartIdentity{UserID: &deletedID}, product.ID, nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Nil(t, cart.UserID)

	var count int64
	testDB.Model(&model.Cart{}).Where("session_token = ?", token).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	cartService, user, _, _, _ := setupCartServiceTest(t)

	_, _, err := cartService.AddItem(userIdentity(user), 9999, nil)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_AddItem_ArchivedProduct(t *testing.T) {
	cartService, user, product, _, testDB := setupCartServiceTest(t)

	testDB.Model(product).Update("is_archived", true)

	_, _, err := cartService.AddItem(userIdentity(user), product.ID, nil)
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestCartService_AddItem_VariantStockGoverns(t *testing.T) {
	cartService, user, product, variant, _ := setupCartServiceTest(t)
	identity := userIdentity(user)

	// Variant has stock 2; the third add must fail even though the product
	// itself has 10
	_, _, err := cartService.AddItem(identity, product.ID, &variant.ID)
	require.NoError(t, err)
	_, _, err = cartService.AddItem(identity, product.ID, &variant.ID)
	require.NoError(t, err)

	_, _, err = cartService.AddItem(identity, product.ID, &variant.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddItem_VariantMismatch(t *testing.T) {
	cartService, user, product, _, testDB := setupCartServiceTest(t)

	other := &model.Product{
		Name:          "شلوار تست",
		Slug:          "شلوار-تست",
		Price:         300000,
		Category:      model.CategoryApparel,
		StockQuantity: 5,
		IsAvailable:   true,
	}
	testDB.Create(other)
	foreignVariant := &model.ProductVariant{
		ProductID:     other.ID,
		Name:          "سایز",
		Value:         "M",
		StockQuantity: 5,
	}
	testDB.Create(foreignVariant)

	_, _, err := cartService.AddItem(userIdentity(user), product.ID, &foreignVariant.ID)
	assert.ErrorIs(t, err, ErrVariantMismatch)
}

func TestCartService_AddItem_SeparateLinesPerVariant(t *testing.T) {
	cartService, user, product, variant, _ := setupCartServiceTest(t)
	identity := userIdentity(user)

	_, _, err := cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)

	cart, _, err := cartService.AddItem(identity, product.ID, &variant.ID)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestCartService_AddItem_GuestGetsSessionToken(t *testing.T) {
	cartService, _, product, _, _ := setupCartServiceTest(t)

	cart, token, err := cartService.AddItem(CartIdentity{}, product.ID, nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Nil(t, cart.UserID)

	// The token finds the same cart again
	again, _, err := cartService.AddItem(CartIdentity{SessionToken: token}, product.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
	require.Len(t, again.Items, 1)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestCartService_UpdateItemQuantity_Success(t *testing.T) {
	cartService, user, product, _, _ := setupCartServiceTest(t)
	identity := userIdentity(user)

	cart, _, err := cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)

	updated, err := cartService.UpdateItemQuantity(identity, cart.Items[0].ID, 5)
	assert.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)
}

func TestCartService_UpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	cartService, user, product, _, _ := setupCartServiceTest(t)
	identity := userIdentity(user)

	cart, _, err := cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)

	updated, err := cartService.UpdateItemQuantity(identity, cart.Items[0].ID, 0)
	assert.NoError(t, err)
	assert.Len(t, updated.Items, 0)

	// A negative quantity removes the line the same way
	cart, _, err = cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)

	updated, err = cartService.UpdateItemQuantity(identity, cart.Items[0].ID, -1)
	assert.NoError(t, err)
	assert.Len(t, updated.Items, 0)
}

func TestCartService_UpdateItemQuantity_ExceedsStock(t *testing.T) {
	cartService, user, product, _, _ := setupCartServiceTest(t)
	identity := userIdentity(user)

	cart, _, err := cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)

	_, err = cartService.UpdateItemQuantity(identity, cart.Items[0].ID, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_UpdateItemQuantity_ForeignCart(t *testing.T) {
	cartService, user, product, _, testDB := setupCartServiceTest(t)

	cart, _, err := cartService.AddItem(userIdentity(user), product.ID, nil)
	require.NoError(t, err)

	other := &model.User{Phone: "09351234567", Role: model.RoleCustomer}
	testDB.Create(other)
	_, _, err = cartService.AddItem(userIdentity(other), product.ID, nil)
	require.NoError(t, err)

	// The second user cannot touch the first user's line
	_, err = cartService.UpdateItemQuantity(userIdentity(other), cart.Items[0].ID, 3)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, user, product, _, _ := setupCartServiceTest(t)
	identity := userIdentity(user)

	cart, _, err := cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)

	updated, err := cartService.RemoveItem(identity, cart.Items[0].ID)
	assert.NoError(t, err)
	assert.Len(t, updated.Items, 0)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, user, product, variant, _ := setupCartServiceTest(t)
	identity := userIdentity(user)

	_, _, err := cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)
	_, _, err = cartService.AddItem(identity, product.ID, &variant.ID)
	require.NoError(t, err)

	err = cartService.ClearCart(identity)
	assert.NoError(t, err)

	cart, err := cartService.GetCart(identity)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 0)
}

func TestCartService_MergeGuestCart_SumsQuantities(t *testing.T) {
	cartService, user, product, variant, testDB := setupCartServiceTest(t)
	identity := userIdentity(user)

	// User already has one unit of the plain product
	_, _, err := cartService.AddItem(identity, product.ID, nil)
	require.NoError(t, err)

	// Guest cart holds the same product plus a variant line
	_, token, err := cartService.AddItem(CartIdentity{}, product.ID, nil)
	require.NoError(t, err)
	_, _, err = cartService.AddItem(CartIdentity{SessionToken: token}, product.ID, &variant.ID)
	require.NoError(t, err)

	err = cartService.MergeGuestCart(token, user.ID)
	assert.NoError(t, err)

	merged, err := cartService.GetCart(identity)
	require.NoError(t, err)
	require.Len(t, merged.Items, 2)

	quantities := map[bool]int{}
	for _, item := range merged.Items {
		quantities[item.VariantID != nil] = item.Quantity
	}
	assert.Equal(t, 2, quantities[false], "plain lines should be summed")
	assert.Equal(t, 1, quantities[true])

	// Guest cart is gone
	var count int64
	testDB.Model(&model.Cart{}).Where("session_token = ?", token).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartService_MergeGuestCart_NoGuestCart(t *testing.T) {
	cartService, user, _, _, _ := setupCartServiceTest(t)

	err := cartService.MergeGuestCart("missing-token", user.ID)
	assert.NoError(t, err)
}
