package service

import (
	"context"
	"testing"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	return NewProductService(productRepo), testDB
}

func sampleInput(name string) ProductInput {
	return ProductInput{
		Name:          name,
		Description:   "توضیح محصول",
		Price:         250000,
		Category:      model.CategoryApparel,
		StockQuantity: 10,
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Leather Bag", "leather-bag"},
		{"پیراهن مردانه", "پیراهن-مردانه"},
		{"  کفش   ورزشی  ", "کفش-ورزشی"},
		{"ست ۲ تکه", "ست-۲-تکه"},
		{"hello!!world", "hello-world"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Slugify(tt.input), "input: %q", tt.input)
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(sampleInput("پیراهن مردانه"))
	require.NoError(t, err)
	assert.Equal(t, "پیراهن-مردانه", product.Slug)
	assert.True(t, product.IsAvailable)
	assert.False(t, product.IsArchived)
}

func TestProductService_CreateProduct_UniqueSlugSuffix(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	first, err := productService.CreateProduct(sampleInput("پیراهن"))
	require.NoError(t, err)
	second, err := productService.CreateProduct(sampleInput("پیراهن"))
	require.NoError(t, err)
	third, err := productService.CreateProduct(sampleInput("پیراهن"))
	require.NoError(t, err)

	assert.Equal(t, "پیراهن", first.Slug)
	assert.Equal(t, "پیراهن-2", second.Slug)
	assert.Equal(t, "پیراهن-3", third.Slug)
}

func TestProductService_CreateProduct_InvalidDiscount(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	tooHigh := 300000.0
	input := sampleInput("کیف")
	input.DiscountPrice = &tooHigh

	_, err := productService.CreateProduct(input)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	zero := 0.0
	input.DiscountPrice = &zero
	_, err = productService.CreateProduct(input)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestProductService_GetProductBySlug(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct(sampleInput("کفش ورزشی"))
	require.NoError(t, err)

	found, err := productService.GetProductBySlug(created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = productService.GetProductBySlug("missing-slug")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_GetProductBySlug_ArchivedHidden(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct(sampleInput("کفش قدیمی"))
	require.NoError(t, err)
	require.NoError(t, productService.ArchiveProduct(created.ID))

	_, err = productService.GetProductBySlug(created.Slug)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_ArchiveProduct_ClearsShowcaseFlags(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	created, err := productService.CreateProduct(sampleInput("محصول ویژه"))
	require.NoError(t, err)
	testDB.Model(created).Updates(map[string]interface{}{"is_featured": true, "is_lucky": true})

	require.NoError(t, productService.ArchiveProduct(created.ID))

	var fresh model.Product
	testDB.First(&fresh, created.ID)
	assert.True(t, fresh.IsArchived)
	assert.False(t, fresh.IsFeatured)
	assert.False(t, fresh.IsLucky)
}

func TestProductService_ListProducts_SearchMatchesSpellingVariants(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	// Stored with the Arabic kaf spelling
	_, err := productService.CreateProduct(sampleInput("كيف چرم"))
	require.NoError(t, err)

	// Searched with the Persian spelling
	page, err := productService.ListProducts(repository.ProductFilter{Search: "کیف"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestProductService_ListProducts_ExcludesArchived(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.CreateProduct(sampleInput("فعال"))
	require.NoError(t, err)
	archived, err := productService.CreateProduct(sampleInput("بایگانی"))
	require.NoError(t, err)
	require.NoError(t, productService.ArchiveProduct(archived.ID))

	page, err := productService.ListProducts(repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	adminPage, err := productService.ListProducts(repository.ProductFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), adminPage.Total)
}

func TestProductService_ListProducts_CategoryAndSort(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	cheap := sampleInput("ارزان")
	cheap.Price = 100000
	expensive := sampleInput("گران")
	expensive.Price = 900000
	beauty := sampleInput("رژ لب")
	beauty.Category = model.CategoryBeauty

	for _, input := range []ProductInput{cheap, expensive, beauty} {
		_, err := productService.CreateProduct(input)
		require.NoError(t, err)
	}

	apparel := model.CategoryApparel
	page, err := productService.ListProducts(repository.ProductFilter{
		Category:      &apparel,
		SortBy:        repository.ProductSortPrice,
		SortAscending: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), page.Total)
	assert.Equal(t, "ارزان", page.Products[0].Name)
	assert.Equal(t, "گران", page.Products[1].Name)
}

func TestProductService_UpdateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct(sampleInput("قدیمی"))
	require.NoError(t, err)

	discount := 150000.0
	updated, err := productService.UpdateProduct(created.ID, ProductInput{
		Name:          "جدید",
		Price:         200000,
		DiscountPrice: &discount,
		StockQuantity: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "جدید", updated.Name)
	assert.Equal(t, float64(200000), updated.Price)
	assert.Equal(t, 7, updated.StockQuantity)
	assert.Equal(t, float64(150000), updated.EffectivePrice())

	_, err = productService.UpdateProduct(9999, ProductInput{Name: "x"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Variants(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct(sampleInput("پیراهن"))
	require.NoError(t, err)

	variant, err := productService.AddVariant(product.ID, VariantInput{
		Name:          "سایز",
		Value:         "L",
		PriceDelta:    20000,
		StockQuantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, product.ID, variant.ProductID)

	updated, err := productService.UpdateVariant(product.ID, variant.ID, VariantInput{
		Value:         "XL",
		StockQuantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "XL", updated.Value)
	assert.Equal(t, 2, updated.StockQuantity)

	// A variant cannot be edited through another product
	other, err := productService.CreateProduct(sampleInput("شلوار"))
	require.NoError(t, err)
	_, err = productService.UpdateVariant(other.ID, variant.ID, VariantInput{Value: "M"})
	assert.ErrorIs(t, err, ErrVariantMismatch)

	require.NoError(t, productService.RemoveVariant(product.ID, variant.ID))
	err = productService.RemoveVariant(product.ID, variant.ID)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

type fakeImageStore struct {
	deleted []string
}

func (f *fakeImageStore) Delete(_ context.Context, fileURL string) {
	f.deleted = append(f.deleted, fileURL)
}

func TestProductService_DeleteProduct_RemovesImage(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	images := &fakeImageStore{}
	productService := NewProductService(repository.NewProductRepository(testDB), images)

	input := sampleInput("کیف")
	input.ImageURL = "https://cdn.example.com/products/bag.jpg"
	product, err := productService.CreateProduct(input)
	require.NoError(t, err)

	require.NoError(t, productService.DeleteProduct(product.ID))
	assert.Equal(t, []string{"https://cdn.example.com/products/bag.jpg"}, images.deleted)

	err = productService.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProduct_EffectivePrice(t *testing.T) {
	product := model.Product{Price: 100000}
	assert.Equal(t, float64(100000), product.EffectivePrice())

	discount := 80000.0
	product.DiscountPrice = &discount
	assert.Equal(t, float64(80000), product.EffectivePrice())

	invalid := 120000.0
	product.DiscountPrice = &invalid
	assert.Equal(t, float64(100000), product.EffectivePrice())
}
