package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/interface/api/rest/dto/drop"
)

type DropController struct {
	dropService   ports.DropService
	logger        *zap.Logger
	maxUploadSize int64
}

func NewDropController(
	r *gin.Engine,
	dropService ports.DropService,
	logger *zap.Logger,
	maxUploadSize int64,
) *DropController {
	dc := &DropController{
		dropService:   dropService,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}

	r.GET(RouteDrops, dc.GetDropsHandler)
	r.POST(RouteDrops, dc.CreateDropHandler)

	return dc
}

func (dc *DropController) GetDropsHandler(c *gin.Context) {
	entries, err := dc.dropService.List(c.Request.Context())
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get uploads"},
		)
		dc.logger.Error("List() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, drop.ResponseData{
		Data: drop.ToResponseEntries(entries),
	})
}

func (dc *DropController) CreateDropHandler(c *gin.Context) {
	fh, ok := formFile(c, dc.maxUploadSize)
	if !ok {
		return
	}

	e, err := dc.dropService.Upload(c.Request.Context(), fh)
	if err != nil {
		respondError(c, dc.logger, "Upload()", "not found", err)
		return
	}

	c.JSON(http.StatusCreated, drop.ToResponseEntry(*e))
}
