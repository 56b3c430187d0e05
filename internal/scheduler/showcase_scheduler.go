package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	"github.com/shopyar/shopyar-backend/pkg/logger"
)

// ShowcaseScheduler re-picks the storefront selections on a schedule: the
// featured strip nightly and the lucky discounts at midnight.
type ShowcaseScheduler struct {
	cron            *cron.Cron
	showcaseService service.ShowcaseService
	cfg             config.CronConfig
}

func NewShowcaseScheduler(showcaseService service.ShowcaseService, cfg config.CronConfig) *ShowcaseScheduler {
	return &ShowcaseScheduler{
		cron:            cron.New(),
		showcaseService: showcaseService,
		cfg:             cfg,
	}
}

func (s *ShowcaseScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.FeaturedSpec, func() {
		logger.Info("Starting scheduled featured regeneration", nil)

		if err := s.showcaseService.RegenerateFeatured(); err != nil {
			logger.Error("Scheduled featured regeneration failed", err)
			return
		}

		logger.Info("Scheduled featured regeneration finished", nil)
	})
	if err != nil {
		logger.Error("Failed to schedule featured regeneration", err)
		return err
	}

	_, err = s.cron.AddFunc(s.cfg.LuckySpec, func() {
		logger.Info("Starting scheduled lucky regeneration", nil)

		if err := s.showcaseService.RegenerateLucky(); err != nil {
			logger.Error("Scheduled lucky regeneration failed", err)
			return
		}

		logger.Info("Scheduled lucky regeneration finished", nil)
	})
	if err != nil {
		logger.Error("Failed to schedule lucky regeneration", err)
		return err
	}

	s.cron.Start()
	logger.Info("Showcase scheduler started", map[string]interface{}{
		"featured_spec": s.cfg.FeaturedSpec,
		"lucky_spec":    s.cfg.LuckySpec,
	})

	return nil
}

func (s *ShowcaseScheduler) Stop() {
	logger.Info("Stopping showcase scheduler...", nil)
	s.cron.Stop()
	logger.Info("Showcase scheduler stopped", nil)
}
