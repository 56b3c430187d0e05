package service

import (
	"fmt"
	"testing"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupShowcaseServiceTest(t *testing.T, featuredCount, luckyCount int) (ShowcaseService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	return NewShowcaseService(productRepo, featuredCount, luckyCount), testDB
}

func seedProducts(t *testing.T, testDB *gorm.DB, count int, available bool) {
	t.Helper()
	for i := 0; i < count; i++ {
		stock := 5
		if !available {
			stock = 0
		}
		product := &model.Product{
			Name:          fmt.Sprintf("محصول %d", i),
			Slug:          fmt.Sprintf("product-%d-%v", i, available),
			Price:         100000,
			Category:      model.CategoryHome,
			StockQuantity: stock,
			IsAvailable:   available,
		}
		require.NoError(t, testDB.Create(product).Error)
	}
}

func countFlagged(testDB *gorm.DB, column string) int64 {
	var count int64
	testDB.Model(&model.Product{}).Where(column+" = ?", true).Count(&count)
	return count
}

func TestShowcaseService_RegenerateFeatured(t *testing.T) {
	showcaseService, testDB := setupShowcaseServiceTest(t, 3, 2)
	seedProducts(t, testDB, 10, true)

	require.NoError(t, showcaseService.RegenerateFeatured())
	assert.Equal(t, int64(3), countFlagged(testDB, "is_featured"))

	featured, err := showcaseService.ListFeatured()
	require.NoError(t, err)
	assert.Len(t, featured, 3)
}

func TestShowcaseService_RegenerateReplacesPreviousSelection(t *testing.T) {
	showcaseService, testDB := setupShowcaseServiceTest(t, 3, 2)
	seedProducts(t, testDB, 10, true)

	require.NoError(t, showcaseService.RegenerateFeatured())
	require.NoError(t, showcaseService.RegenerateFeatured())

	// Still exactly the configured count, never accumulating
	assert.Equal(t, int64(3), countFlagged(testDB, "is_featured"))
}

func TestShowcaseService_RegenerateLucky_SkipsUnsellable(t *testing.T) {
	showcaseService, testDB := setupShowcaseServiceTest(t, 3, 5)
	seedProducts(t, testDB, 2, true)
	seedProducts(t, testDB, 8, false)

	require.NoError(t, showcaseService.RegenerateLucky())

	// Only sellable products qualify, even when fewer than requested
	var lucky []model.Product
	testDB.Where("is_lucky = ?", true).Find(&lucky)
	assert.Len(t, lucky, 2)
	for _, p := range lucky {
		assert.True(t, p.IsAvailable)
		assert.Greater(t, p.StockQuantity, 0)
	}
}

func TestShowcaseService_RegenerateWithEmptyCatalog(t *testing.T) {
	showcaseService, testDB := setupShowcaseServiceTest(t, 3, 2)

	require.NoError(t, showcaseService.RegenerateFeatured())
	assert.Equal(t, int64(0), countFlagged(testDB, "is_featured"))
}
