package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product is not available")
	ErrVariantNotFound    = errors.New("product variant not found")
	ErrVariantMismatch    = errors.New("variant does not belong to product")
	ErrInvalidDiscount    = errors.New("discount price must be lower than price")
)

type ProductInput struct {
	Name          string
	Slug          string
	Description   string
	Price         float64
	DiscountPrice *float64
	Category      model.ProductCategory
	StockQuantity int
	IsAvailable   *bool
	ImageURL      string
}

type VariantInput struct {
	Name          string
	Value         string
	PriceDelta    float64
	StockQuantity int
}

type ProductPage struct {
	Products []model.Product
	Total    int64
}

type ProductService interface {
	ListProducts(filter repository.ProductFilter) (*ProductPage, error)
	GetProductByID(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)

	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	ArchiveProduct(id uint) error
	DeleteProduct(id uint) error

	AddVariant(productID uint, input VariantInput) (*model.ProductVariant, error)
	UpdateVariant(productID, variantID uint, input VariantInput) (*model.ProductVariant, error)
	RemoveVariant(productID, variantID uint) error
}

// ImageStore removes stored product images. Deletion is best effort: a
// dangling image never blocks the catalog operation that triggered it.
type ImageStore interface {
	Delete(ctx context.Context, fileURL string)
}

type productService struct {
	productRepo repository.ProductRepository
	images      ImageStore
}

func NewProductService(productRepo repository.ProductRepository, images ...ImageStore) ProductService {
	s := &productService{productRepo: productRepo}
	if len(images) > 0 {
		s.images = images[0]
	}
	return s
}

func (s *productService) ListProducts(filter repository.ProductFilter) (*ProductPage, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"search":   filter.Search,
		"category": filter.Category,
	})

	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}

	total, err := s.productRepo.CountWithFilter(filter)
	if err != nil {
		logger.Error("Failed to count products", err, nil)
		return nil, err
	}

	return &ProductPage{Products: products, Total: total}, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	logger.Debug("Fetching product by slug", map[string]interface{}{
		"slug": slug,
	})

	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found by slug", map[string]interface{}{
				"slug": slug,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if product.IsArchived {
		return nil, ErrProductNotFound
	}
	return product, nil
}

var slugInvalidChars = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slugify builds a URL slug from a product name. Persian letters are kept
// as-is since the storefront serves Persian URLs.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *productService) resolveSlug(input ProductInput) string {
	if input.Slug != "" {
		return Slugify(input.Slug)
	}
	return Slugify(input.Name)
}

func validateDiscount(price float64, discount *float64) error {
	if discount != nil && (*discount <= 0 || *discount >= price) {
		return ErrInvalidDiscount
	}
	return nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":     input.Name,
		"category": input.Category,
	})

	if err := validateDiscount(input.Price, input.DiscountPrice); err != nil {
		return nil, err
	}

	slug := s.resolveSlug(input)

	// Make the slug unique by suffixing a counter when taken
	candidate := slug
	for i := 2; ; i++ {
		_, err := s.productRepo.FindBySlug(candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}

	available := true
	if input.IsAvailable != nil {
		available = *input.IsAvailable
	}

	product := &model.Product{
		Name:          input.Name,
		Slug:          candidate,
		Description:   input.Description,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		Category:      input.Category,
		StockQuantity: input.StockQuantity,
		IsAvailable:   available,
		ImageURL:      input.ImageURL,
	}

	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Slug != "" {
		product.Slug = Slugify(input.Slug)
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	product.DiscountPrice = input.DiscountPrice
	if input.Category != "" {
		product.Category = input.Category
	}
	if input.StockQuantity >= 0 {
		product.StockQuantity = input.StockQuantity
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}

	if err := validateDiscount(product.Price, product.DiscountPrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

// ArchiveProduct hides the product from the storefront without touching order
// history. Archived products stay listed in the admin panel.
func (s *productService) ArchiveProduct(id uint) error {
	logger.Info("Archiving product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	product.IsArchived = true
	product.IsFeatured = false
	product.IsLucky = false
	return s.productRepo.Update(product)
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	if err := s.productRepo.Delete(id); err != nil {
		return err
	}

	// The stored image goes too, but a storage failure never undoes the delete
	if s.images != nil && product.ImageURL != "" {
		s.images.Delete(context.Background(), product.ImageURL)
	}
	return nil
}

func (s *productService) AddVariant(productID uint, input VariantInput) (*model.ProductVariant, error) {
	logger.Info("Adding product variant", map[string]interface{}{
		"product_id": productID,
		"name":       input.Name,
		"value":      input.Value,
	})

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	variant := &model.ProductVariant{
		ProductID:     productID,
		Name:          input.Name,
		Value:         input.Value,
		PriceDelta:    input.PriceDelta,
		StockQuantity: input.StockQuantity,
	}
	if err := s.productRepo.CreateVariant(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *productService) UpdateVariant(productID, variantID uint, input VariantInput) (*model.ProductVariant, error) {
	variant, err := s.productRepo.FindVariantByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if variant.ProductID != productID {
		return nil, ErrVariantMismatch
	}

	if input.Name != "" {
		variant.Name = input.Name
	}
	if input.Value != "" {
		variant.Value = input.Value
	}
	variant.PriceDelta = input.PriceDelta
	if input.StockQuantity >= 0 {
		variant.StockQuantity = input.StockQuantity
	}

	if err := s.productRepo.UpdateVariant(variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (s *productService) RemoveVariant(productID, variantID uint) error {
	variant, err := s.productRepo.FindVariantByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVariantNotFound
		}
		return err
	}
	if variant.ProductID != productID {
		return ErrVariantMismatch
	}

	return s.productRepo.DeleteVariant(variantID)
}
