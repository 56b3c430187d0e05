package controller

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopyar/shopyar-backend/config"
	"github.com/shopyar/shopyar-backend/internal/app/service"
	apperrors "github.com/shopyar/shopyar-backend/internal/errors"
	"github.com/shopyar/shopyar-backend/internal/middleware"
)

// ShowcaseController exposes manual regeneration of the storefront
// selections. The scheduler covers the normal case; these endpoints let an
// external pinger or an operator force a refresh, guarded by a shared secret.
type ShowcaseController struct {
	showcaseService service.ShowcaseService
	cronCfg         config.CronConfig
}

func NewShowcaseController(showcaseService service.ShowcaseService, cronCfg config.CronConfig) *ShowcaseController {
	return &ShowcaseController{
		showcaseService: showcaseService,
		cronCfg:         cronCfg,
	}
}

func (ctrl *ShowcaseController) authorized(c *gin.Context) bool {
	// Hosted cron services can only send a query parameter; operators with
	// curl may prefer the header.
	secret := c.GetHeader("X-Cron-Secret")
	if secret == "" {
		secret = c.Query("secret")
	}
	if ctrl.cronCfg.Secret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(ctrl.cronCfg.Secret)) != 1 {
		middleware.GetLoggerFromContext(c).Warn("Showcase regeneration rejected: bad secret", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		apperrors.Forbidden(c, "")
		return false
	}
	return true
}

// RegenerateFeatured re-picks the featured selection
// GET /api/v1/cron/featured?secret=...
func (ctrl *ShowcaseController) RegenerateFeatured(c *gin.Context) {
	if !ctrl.authorized(c) {
		return
	}

	if err := ctrl.showcaseService.RegenerateFeatured(); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "regenerate featured")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "محصولات ویژه به‌روزرسانی شد",
	})
}

// RegenerateLucky re-picks the lucky discount selection
// GET /api/v1/cron/lucky?secret=...
func (ctrl *ShowcaseController) RegenerateLucky(c *gin.Context) {
	if !ctrl.authorized(c) {
		return
	}

	if err := ctrl.showcaseService.RegenerateLucky(); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "regenerate lucky")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "تخفیف‌های شانسی به‌روزرسانی شد",
	})
}
