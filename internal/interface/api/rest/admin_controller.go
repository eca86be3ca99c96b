package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	domain "file-share-api/internal/domain/user"
	"file-share-api/internal/infrastructure/jwt"
	"file-share-api/internal/interface/api/rest/dto/stats"
	"file-share-api/internal/interface/api/rest/middleware"
)

type AdminController struct {
	statsService ports.StatsService
	logger       *zap.Logger
}

func NewAdminController(
	r *gin.Engine,
	statsService ports.StatsService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *AdminController {
	ac := &AdminController{
		statsService: statsService,
		logger:       logger,
	}

	r.GET(
		RouteAdminStats,
		middleware.AuthMiddleware(jwtService),
		middleware.RequireRole(domain.RoleAdmin),
		ac.GetStatsHandler,
	)

	return ac
}

func (ac *AdminController) GetStatsHandler(c *gin.Context) {
	s, err := ac.statsService.UsageStats(c.Request.Context())
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get stats"},
		)
		ac.logger.Error("UsageStats() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, stats.ToResponseStats(s))
}
