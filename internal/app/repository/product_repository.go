package repository

import (
	"fmt"
	"strings"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/pkg/logger"
	"github.com/shopyar/shopyar-backend/pkg/util"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortName      ProductSort = "name"
)

type ProductFilter struct {
	Category        *model.ProductCategory
	Search          string
	Featured        *bool
	Lucky           *bool
	IncludeArchived bool // admin listings only
	SortBy          ProductSort
	SortAscending   bool
	Limit           int
	Offset          int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product, batchSize int) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	CountWithFilter(filter ProductFilter) (int64, error)
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error

	FindVariantByID(id uint) (*model.ProductVariant, error)
	CreateVariant(variant *model.ProductVariant) error
	UpdateVariant(variant *model.ProductVariant) error
	DeleteVariant(id uint) error

	// FindRandomPurchasableIDs returns up to limit IDs of in-stock, sellable
	// products in random order. Used by the showcase regeneration jobs.
	FindRandomPurchasableIDs(limit int) ([]uint, error)
	ReplaceFlag(column string, ids []uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"slug":     product.Slug,
		"category": product.Category,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

// BulkCreate inserts products in batches, used by the catalog import
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	logger.Info("Bulk creating products", map[string]interface{}{
		"count":      len(products),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}

func (r *productRepository) filteredQuery(filter ProductFilter) *gorm.DB {
	query := r.db.Model(&model.Product{})

	if !filter.IncludeArchived {
		query = query.Where("products.is_archived = ?", false)
	}

	if filter.Category != nil {
		query = query.Where("products.category = ?", *filter.Category)
	}

	if filter.Featured != nil {
		query = query.Where("products.is_featured = ?", *filter.Featured)
	}

	if filter.Lucky != nil {
		query = query.Where("products.is_lucky = ?", *filter.Lucky)
	}

	if filter.Search != "" {
		// Match both Persian and Arabic spellings of ی and ک so the query
		// hits regardless of which keyboard the text was typed with.
		var conditions []string
		var args []interface{}
		for _, variant := range util.SearchVariants(filter.Search) {
			like := fmt.Sprintf("%%%s%%", variant)
			conditions = append(conditions, "products.name LIKE ? OR products.description LIKE ?")
			args = append(args, like, like)
		}
		query = query.Where(strings.Join(conditions, " OR "), args...)
	}

	return query
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category":  filter.Category,
		"search":    filter.Search,
		"featured":  filter.Featured,
		"lucky":     filter.Lucky,
		"sort_by":   filter.SortBy,
		"ascending": filter.SortAscending,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})

	query := r.filteredQuery(filter).Preload("Variants")

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction)
	case ProductSortName:
		query = query.Order("products.name " + direction)
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) CountWithFilter(filter ProductFilter) (int64, error) {
	var count int64
	if err := r.filteredQuery(filter).Count(&count).Error; err != nil {
		logger.Error("Failed to count products with filter", err, nil)
		return 0, err
	}
	return count, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.Preload("Variants").First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	logger.Debug("Finding product by slug in database", map[string]interface{}{
		"slug": slug,
	})

	var product model.Product
	if err := r.db.Preload("Variants").Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	return nil
}

func (r *productRepository) FindVariantByID(id uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.First(&variant, id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepository) CreateVariant(variant *model.ProductVariant) error {
	logger.Debug("Creating product variant in database", map[string]interface{}{
		"product_id": variant.ProductID,
		"name":       variant.Name,
		"value":      variant.Value,
	})

	if err := r.db.Create(variant).Error; err != nil {
		logger.Error("Failed to create product variant in database", err, map[string]interface{}{
			"product_id": variant.ProductID,
		})
		return err
	}

	return nil
}

func (r *productRepository) UpdateVariant(variant *model.ProductVariant) error {
	logger.Debug("Updating product variant in database", map[string]interface{}{
		"variant_id": variant.ID,
		"product_id": variant.ProductID,
	})

	if err := r.db.Save(variant).Error; err != nil {
		logger.Error("Failed to update product variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}

	return nil
}

func (r *productRepository) DeleteVariant(id uint) error {
	logger.Debug("Deleting product variant from database", map[string]interface{}{
		"variant_id": id,
	})

	if err := r.db.Delete(&model.ProductVariant{}, id).Error; err != nil {
		logger.Error("Failed to delete product variant from database", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}

	return nil
}

func (r *productRepository) FindRandomPurchasableIDs(limit int) ([]uint, error) {
	logger.Debug("Finding random purchasable product IDs", map[string]interface{}{
		"limit": limit,
	})

	var ids []uint
	err := r.db.Model(&model.Product{}).
		Where("is_available = ? AND is_archived = ? AND stock_quantity > 0", true, false).
		Order("RANDOM()").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		logger.Error("Failed to find random purchasable product IDs", err, nil)
		return nil, err
	}

	return ids, nil
}

// ReplaceFlag clears the given boolean column on all products and sets it on
// the given IDs, atomically. column must be is_featured or is_lucky.
func (r *productRepository) ReplaceFlag(column string, ids []uint) error {
	if column != "is_featured" && column != "is_lucky" {
		return fmt.Errorf("unsupported flag column: %s", column)
	}

	logger.Debug("Replacing product flag in database", map[string]interface{}{
		"column": column,
		"count":  len(ids),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Product{}).
			Where(column+" = ?", true).
			Update(column, false).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Model(&model.Product{}).
			Where("id IN ?", ids).
			Update(column, true).Error
	})
	if err != nil {
		logger.Error("Failed to replace product flag in database", err, map[string]interface{}{
			"column": column,
		})
		return err
	}

	return nil
}
