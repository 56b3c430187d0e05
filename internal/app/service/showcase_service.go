package service

import (
	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/pkg/logger"
)

// ShowcaseService maintains the rotating storefront selections: the featured
// strip and the lucky discount picks. Both are regenerated on a schedule and
// can be regenerated on demand.
type ShowcaseService interface {
	ListFeatured() ([]model.Product, error)
	ListLucky() ([]model.Product, error)
	RegenerateFeatured() error
	RegenerateLucky() error
}

type showcaseService struct {
	productRepo   repository.ProductRepository
	featuredCount int
	luckyCount    int
}

func NewShowcaseService(productRepo repository.ProductRepository, featuredCount, luckyCount int) ShowcaseService {
	return &showcaseService{
		productRepo:   productRepo,
		featuredCount: featuredCount,
		luckyCount:    luckyCount,
	}
}

func (s *showcaseService) ListFeatured() ([]model.Product, error) {
	flag := true
	return s.productRepo.FindWithFilter(repository.ProductFilter{Featured: &flag})
}

func (s *showcaseService) ListLucky() ([]model.Product, error) {
	flag := true
	return s.productRepo.FindWithFilter(repository.ProductFilter{Lucky: &flag})
}

func (s *showcaseService) regenerate(column string, count int) error {
	ids, err := s.productRepo.FindRandomPurchasableIDs(count)
	if err != nil {
		logger.Error("Failed to pick showcase products", err, map[string]interface{}{
			"column": column,
		})
		return err
	}

	if err := s.productRepo.ReplaceFlag(column, ids); err != nil {
		return err
	}

	logger.Info("Showcase selection regenerated", map[string]interface{}{
		"column": column,
		"count":  len(ids),
	})
	return nil
}

func (s *showcaseService) RegenerateFeatured() error {
	return s.regenerate("is_featured", s.featuredCount)
}

func (s *showcaseService) RegenerateLucky() error {
	return s.regenerate("is_lucky", s.luckyCount)
}
