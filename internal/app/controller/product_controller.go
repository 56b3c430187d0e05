package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	apperrors "github.com/shopyar/shopyar-backend/internal/errors"
	"github.com/shopyar/shopyar-backend/internal/middleware"
)

type ProductController struct {
	productService  service.ProductService
	showcaseService service.ShowcaseService
}

func NewProductController(
	productService service.ProductService,
	showcaseService service.ShowcaseService,
) *ProductController {
	return &ProductController{
		productService:  productService,
		showcaseService: showcaseService,
	}
}

const defaultPageSize = 20

func categoryFilter(c *gin.Context) *model.ProductCategory {
	if raw := c.Query("category"); raw != "" {
		category := model.ProductCategory(raw)
		return &category
	}
	return nil
}

func parsePagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	return limit, (page - 1) * limit
}

// ListProducts lists storefront products with filtering and search
// GET /api/v1/products?category=&q=&sort=&page=&limit=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, offset := parsePagination(c)
	filter := repository.ProductFilter{
		Category:      categoryFilter(c),
		Search:        c.Query("q"),
		SortBy:        repository.ProductSort(c.Query("sort")),
		SortAscending: c.Query("order") == "asc",
		Limit:         limit,
		Offset:        offset,
	}

	page, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": page.Products,
		"total":    page.Total,
	})
}

// GetProduct fetches a single product by its slug
// GET /api/v1/products/:slug
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	product, err := ctrl.productService.GetProductBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "محصول مورد نظر یافت نشد")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"slug": slug,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// ListFeatured returns the current featured selection
// GET /api/v1/products/featured
func (ctrl *ProductController) ListFeatured(c *gin.Context) {
	products, err := ctrl.showcaseService.ListFeatured()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list featured products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// ListLucky returns today's lucky discount selection
// GET /api/v1/products/lucky
func (ctrl *ProductController) ListLucky(c *gin.Context) {
	products, err := ctrl.showcaseService.ListLucky()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list lucky products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}
