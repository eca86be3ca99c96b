package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-share-api/internal/application/services"
	"file-share-api/internal/domain/user"
	"file-share-api/internal/interface/api/rest/middleware"
	"file-share-api/internal/interface/api/rest/validator"
)

// respondError maps service errors onto status codes. notFound is the message
// used for services.ErrNotFound; anything unrecognised is logged as op and
// answered with 500.
func respondError(c *gin.Context, logger *zap.Logger, op, notFound string, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateContent):
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrDuplicateContent.Error()})
	case errors.Is(err, user.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": user.ErrUsernameTaken.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": user.ErrNotFound.Error()})
	case errors.Is(err, services.ErrLinkExpired):
		c.JSON(http.StatusGone, gin.H{"error": services.ErrLinkExpired.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": services.ErrForbidden.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidCredentials.Error()})
	case errors.Is(err, services.ErrStorageIO):
		logger.Error(op+" error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": services.ErrStorageIO.Error()})
	default:
		logger.Error(op+" error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// callerID is the user UUID AuthMiddleware put on the context.
func callerID(c *gin.Context) (user.UUID, bool) {
	ok, id := validator.IsUUID(c.GetString(middleware.CtxUserID))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
	return id, ok
}
