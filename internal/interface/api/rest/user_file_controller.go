package rest

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/infrastructure/jwt"
	"file-share-api/internal/interface/api/rest/dto/user_file"
	"file-share-api/internal/interface/api/rest/middleware"
	"file-share-api/internal/interface/api/rest/validator"
)

// room for multipart boundaries and the other form fields
const multipartOverhead = int64(1 << 20)

type UserFileController struct {
	userFileService ports.UserFileService
	logger          *zap.Logger
	loc             *time.Location
	maxUploadSize   int64
	now             func() time.Time
}

func NewUserFileController(
	r *gin.Engine,
	userFileService ports.UserFileService,
	logger *zap.Logger,
	jwtService *jwt.Service,
	loc *time.Location,
	maxUploadSize int64,
) *UserFileController {
	ufc := &UserFileController{
		userFileService: userFileService,
		logger:          logger,
		loc:             loc,
		maxUploadSize:   maxUploadSize,
		now:             time.Now,
	}

	auth := middleware.AuthMiddleware(jwtService)
	r.GET(RouteFiles, auth, ufc.GetUserFilesHandler)
	r.POST(RouteFiles, auth, ufc.CreateUserFileHandler)
	r.PUT(RouteFile, auth, ufc.UpdateUserFileHandler)
	r.DELETE(RouteFile, auth, ufc.DeleteUserFileHandler)
	r.POST(RouteFileLink, auth, ufc.CreateLinkHandler)
	r.GET(RouteDownload, ufc.DownloadHandler)

	return ufc
}

func (ufc *UserFileController) mapper() user_file.Mapper {
	return user_file.Mapper{Loc: ufc.loc, Now: ufc.now(), DownloadBase: RouteDownloadBase}
}

func (ufc *UserFileController) GetUserFilesHandler(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	files, err := ufc.userFileService.FindUserFiles(c.Request.Context(), id)
	if err != nil {
		respondError(c, ufc.logger, "FindUserFiles()", "file not found", err)
		return
	}

	c.JSON(http.StatusOK, user_file.ResponseData{
		Data: ufc.mapper().ToResponseUserFiles(files),
	})
}

func (ufc *UserFileController) CreateUserFileHandler(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}

	fh, ok := formFile(c, ufc.maxUploadSize)
	if !ok {
		return
	}

	uf, err := ufc.userFileService.CreateUserFile(c.Request.Context(), id, fh, c.PostForm("description"))
	if err != nil {
		respondError(c, ufc.logger, "CreateUserFile()", "user not found", err)
		return
	}

	c.JSON(http.StatusCreated, ufc.mapper().ToResponseUserFile(*uf))
}

func (ufc *UserFileController) UpdateUserFileHandler(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	var req user_file.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	uf, err := ufc.userFileService.UpdateDescription(c.Request.Context(), id, fileID, req.Description)
	if err != nil {
		respondError(c, ufc.logger, "UpdateDescription()", "file not found", err)
		return
	}

	c.JSON(http.StatusOK, ufc.mapper().ToResponseUserFile(*uf))
}

func (ufc *UserFileController) CreateLinkHandler(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	uf, err := ufc.userFileService.CreateLink(c.Request.Context(), id, fileID)
	if err != nil {
		respondError(c, ufc.logger, "CreateLink()", "file not found", err)
		return
	}

	c.JSON(http.StatusCreated, ufc.mapper().ToLink(*uf))
}

func (ufc *UserFileController) DeleteUserFileHandler(c *gin.Context) {
	id, ok := callerID(c)
	if !ok {
		return
	}
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "file_id must be a valid UUID"},
		)
		return
	}

	if err := ufc.userFileService.DeleteUserFile(c.Request.Context(), id, fileID); err != nil {
		respondError(c, ufc.logger, "DeleteUserFile()", "file not found", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DownloadHandler is public: possession of a live token is the only check.
func (ufc *UserFileController) DownloadHandler(c *gin.Context) {
	d, err := ufc.userFileService.OpenDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, ufc.logger, "OpenDownload()", "link not found", err)
		return
	}
	defer d.Content.Close()

	contentType := d.File.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(
		http.StatusOK,
		int64(d.File.SizeBytes),
		contentType,
		d.Content,
		map[string]string{
			"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": d.File.FileName}),
		},
	)
}

// formFile reads the "file" part. A request without one yields (nil, true) so
// the service reports the missing file; other failures are answered here.
func formFile(c *gin.Context, maxSize int64) (*multipart.FileHeader, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+multipartOverhead)

	fh, err := c.FormFile("file")
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, true
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return nil, false
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return nil, false
	case fh.Size > maxSize:
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return nil, false
	}

	return fh, true
}
