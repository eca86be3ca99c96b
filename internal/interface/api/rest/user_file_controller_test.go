package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-share-api/internal/application/ports"
	"file-share-api/internal/application/services"
	domainUser "file-share-api/internal/domain/user"
	domainFile "file-share-api/internal/domain/user_file"
)

type FakeUserFileService struct {
	FindUserFilesFunc     func(ctx context.Context, userUUID domainUser.UUID) (domainFile.UserFiles, error)
	CreateUserFileFunc    func(ctx context.Context, userUUID domainUser.UUID, fh *multipart.FileHeader, description string) (*domainFile.UserFile, error)
	UpdateDescriptionFunc func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID, description string) (*domainFile.UserFile, error)
	CreateLinkFunc        func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID) (*domainFile.UserFile, error)
	DeleteUserFileFunc    func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID) error
	OpenDownloadFunc      func(ctx context.Context, token string) (*ports.Download, error)
}

func (f *FakeUserFileService) FindUserFiles(ctx context.Context, userUUID domainUser.UUID) (domainFile.UserFiles, error) {
	if f.FindUserFilesFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FindUserFilesFunc(ctx, userUUID)
}
func (f *FakeUserFileService) CreateUserFile(ctx context.Context, userUUID domainUser.UUID, fh *multipart.FileHeader, description string) (*domainFile.UserFile, error) {
	if f.CreateUserFileFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateUserFileFunc(ctx, userUUID, fh, description)
}
func (f *FakeUserFileService) UpdateDescription(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID, description string) (*domainFile.UserFile, error) {
	if f.UpdateDescriptionFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UpdateDescriptionFunc(ctx, userUUID, fileUUID, description)
}
func (f *FakeUserFileService) CreateLink(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID) (*domainFile.UserFile, error) {
	if f.CreateLinkFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateLinkFunc(ctx, userUUID, fileUUID)
}
func (f *FakeUserFileService) DeleteUserFile(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID) error {
	if f.DeleteUserFileFunc == nil {
		return errors.New("not used")
	}
	return f.DeleteUserFileFunc(ctx, userUUID, fileUUID)
}
func (f *FakeUserFileService) OpenDownload(ctx context.Context, token string) (*ports.Download, error) {
	if f.OpenDownloadFunc == nil {
		return nil, errors.New("not used")
	}
	return f.OpenDownloadFunc(ctx, token)
}

var (
	utc7    = time.FixedZone("UTC+7", 7*3600)
	fixedAt = time.Date(2026, 1, 2, 20, 30, 0, 0, time.UTC)
)

const testMaxUpload = 64

func setupRouterUFC(t *testing.T, ufs ports.UserFileService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	ufc := NewUserFileController(r, ufs, zap.NewNop(), newJWT(), utc7, testMaxUpload)
	ufc.now = func() time.Time { return fixedAt }

	return r
}

func doMultipartReq(t *testing.T, r *gin.Engine, path string, fields map[string]string, fileName string, fileContent []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, _ = fw.Write(fileContent)
	}

	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, path, &b)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func linkedFile() *domainFile.UserFile {
	token := "0b0c8a5e-6f0e-4a3b-9a55-1d2f3c4b5a69"
	exp := fixedAt.Add(12 * time.Hour)
	return &domainFile.UserFile{
		ID:            3,
		UUID:          uuid.New(),
		UserID:        7,
		FileName:      "report.pdf",
		Description:   "Q1",
		MimeType:      "application/pdf",
		SizeBytes:     1536,
		StoragePath:   "7/3/report.pdf",
		Status:        domainFile.StatusReady,
		UploadedAt:    fixedAt,
		DownloadCount: 4,
		AccessToken:   &token,
		LinkExpiresAt: &exp,
	}
}

func TestUserFileController_GetUserFilesHandler(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name       string
		headers    map[string]string
		find       func(ctx context.Context, userUUID domainUser.UUID) (domainFile.UserFiles, error)
		wantStatus int
		wantErr    string
		wantLen    int
	}{
		{
			name:       "401 missing Authorization",
			wantStatus: http.StatusUnauthorized,
			wantErr:    "missing Authorization header",
		},
		{
			name:    "500 service error",
			headers: bearer(t, owner.String(), domainUser.RoleUser),
			find: func(ctx context.Context, userUUID domainUser.UUID) (domainFile.UserFiles, error) {
				return nil, errors.New("db error")
			},
			wantStatus: http.StatusInternalServerError,
			wantErr:    "internal error",
		},
		{
			name:    "200 empty list",
			headers: bearer(t, owner.String(), domainUser.RoleUser),
			find: func(ctx context.Context, userUUID domainUser.UUID) (domainFile.UserFiles, error) {
				return nil, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "200 with files",
			headers: bearer(t, owner.String(), domainUser.RoleUser),
			find: func(ctx context.Context, userUUID domainUser.UUID) (domainFile.UserFiles, error) {
				if userUUID != owner {
					return nil, errors.New("wrong caller")
				}
				plain := *linkedFile()
				plain.AccessToken, plain.LinkExpiresAt = nil, nil
				return domainFile.UserFiles{linkedFile(), &plain}, nil
			},
			wantStatus: http.StatusOK,
			wantLen:    2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouterUFC(t, &FakeUserFileService{FindUserFilesFunc: tt.find})
			rr := doReq(t, r, http.MethodGet, RouteFiles, nil, tt.headers)
			require.Equal(t, tt.wantStatus, rr.Code)

			resp := decode(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
				return
			}
			data, ok := resp["data"].([]any)
			require.True(t, ok, "data must be a JSON array")
			require.Len(t, data, tt.wantLen)
			if tt.wantLen == 0 {
				return
			}

			first := data[0].(map[string]any)
			assert.Equal(t, "report.pdf", first["file_name"])
			assert.Equal(t, "1.5 KiB", first["size"])
			assert.Equal(t, "2026-01-03 03:30", first["uploaded_at"])
			assert.EqualValues(t, 4, first["download_count"])
			link := first["link"].(map[string]any)
			assert.Equal(t, RouteDownloadBase+"/0b0c8a5e-6f0e-4a3b-9a55-1d2f3c4b5a69", link["download_url"])
			assert.Equal(t, "2026-01-03 15:30", link["expires_at"])
			assert.Equal(t, true, link["active"])

			assert.NotContains(t, data[1].(map[string]any), "link")
		})
	}
}

func TestUserFileController_CreateUserFileHandler(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name       string
		headers    map[string]string
		fileName   string
		fileBytes  []byte
		create     func(ctx context.Context, userUUID domainUser.UUID, fh *multipart.FileHeader, description string) (*domainFile.UserFile, error)
		wantStatus int
		wantErr    string
	}{
		{
			name:       "401 bad signature",
			headers:    map[string]string{"Authorization": "Bearer " + SignJWT(t, "other-secret", owner.String(), domainUser.RoleUser)},
			fileName:   "doc.pdf",
			fileBytes:  []byte("pdf-bytes"),
			wantStatus: http.StatusUnauthorized,
			wantErr:    "invalid token",
		},
		{
			name:    "400 file is required",
			headers: bearer(t, owner.String(), domainUser.RoleUser),
			create: func(ctx context.Context, userUUID domainUser.UUID, fh *multipart.FileHeader, description string) (*domainFile.UserFile, error) {
				if fh != nil {
					return nil, errors.New("expected no file")
				}
				return nil, services.ErrFileRequired
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    "file is required",
		},
		{
			name:      "400 empty file",
			headers:   bearer(t, owner.String(), domainUser.RoleUser),
			fileName:  "empty.txt",
			fileBytes: []byte{},
			create: func(ctx context.Context, userUUID domainUser.UUID, fh *multipart.FileHeader, description string) (*domainFile.UserFile, error) {
				return nil, services.ErrEmptyFile
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    "file is empty",
		},
		{
			name:       "413 too large",
			headers:    bearer(t, owner.String(), domainUser.RoleUser),
			fileName:   "big.bin",
			fileBytes:  bytes.Repeat([]byte("x"), testMaxUpload+1),
			wantStatus: http.StatusRequestEntityTooLarge,
			wantErr:    "file too large",
		},
		{
			name:      "500 storage failure",
			headers:   bearer(t, owner.String(), domainUser.RoleUser),
			fileName:  "doc.pdf",
			fileBytes: []byte("content"),
			create: func(ctx context.Context, userUUID domainUser.UUID, fh *multipart.FileHeader, description string) (*domainFile.UserFile, error) {
				return nil, services.ErrStorageIO
			},
			wantStatus: http.StatusInternalServerError,
			wantErr:    "storage failure",
		},
		{
			name:      "201 success",
			headers:   bearer(t, owner.String(), domainUser.RoleUser),
			fileName:  "doc.pdf",
			fileBytes: []byte("%PDF..."),
			create: func(ctx context.Context, userUUID domainUser.UUID, fh *multipart.FileHeader, description string) (*domainFile.UserFile, error) {
				if userUUID != owner || fh.Filename != "doc.pdf" || description != "quarterly" {
					return nil, errors.New("unexpected input")
				}
				f := linkedFile()
				f.AccessToken, f.LinkExpiresAt = nil, nil
				return f, nil
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouterUFC(t, &FakeUserFileService{CreateUserFileFunc: tt.create})
			rr := doMultipartReq(t, r, RouteFiles, map[string]string{"description": "quarterly"}, tt.fileName, tt.fileBytes, tt.headers)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			resp := decode(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
				return
			}
			assert.Equal(t, "report.pdf", resp["file_name"])
		})
	}
}

func TestUserFileController_UpdateUserFileHandler(t *testing.T) {
	owner := uuid.New()
	fileID := uuid.New()

	tests := []struct {
		name       string
		path       string
		body       any
		update     func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID, description string) (*domainFile.UserFile, error)
		wantStatus int
		wantErr    string
	}{
		{
			name:       "400 invalid file id",
			path:       RouteFiles + "/not-uuid",
			body:       map[string]string{"description": "x"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "file_id must be a valid UUID",
		},
		{
			name: "400 blank description",
			path: RouteFiles + "/" + fileID.String(),
			body: map[string]string{"description": "   "},
			update: func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID, description string) (*domainFile.UserFile, error) {
				return nil, services.ErrEmptyDescription
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    "description must not be empty",
		},
		{
			name: "403 not the owner",
			path: RouteFiles + "/" + fileID.String(),
			body: map[string]string{"description": "mine now"},
			update: func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID, description string) (*domainFile.UserFile, error) {
				return nil, services.ErrForbidden
			},
			wantStatus: http.StatusForbidden,
			wantErr:    "access denied",
		},
		{
			name: "404 unknown file",
			path: RouteFiles + "/" + fileID.String(),
			body: map[string]string{"description": "x"},
			update: func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID, description string) (*domainFile.UserFile, error) {
				return nil, services.ErrNotFound
			},
			wantStatus: http.StatusNotFound,
			wantErr:    "file not found",
		},
		{
			name: "200 success",
			path: RouteFiles + "/" + fileID.String(),
			body: map[string]string{"description": "new"},
			update: func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID, description string) (*domainFile.UserFile, error) {
				if fileUUID != fileID || description != "new" {
					return nil, errors.New("unexpected input")
				}
				f := linkedFile()
				f.Description = description
				return f, nil
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouterUFC(t, &FakeUserFileService{UpdateDescriptionFunc: tt.update})
			rr := doReq(t, r, http.MethodPut, tt.path, tt.body, bearer(t, owner.String(), domainUser.RoleUser))
			require.Equal(t, tt.wantStatus, rr.Code)

			resp := decode(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
				return
			}
			assert.Equal(t, "new", resp["description"])
		})
	}
}

func TestUserFileController_CreateLinkHandler(t *testing.T) {
	owner := uuid.New()
	fileID := uuid.New()

	t.Run("201 issues link", func(t *testing.T) {
		r := setupRouterUFC(t, &FakeUserFileService{
			CreateLinkFunc: func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID) (*domainFile.UserFile, error) {
				return linkedFile(), nil
			},
		})
		rr := doReq(t, r, http.MethodPost, RouteFiles+"/"+fileID.String()+"/link", nil, bearer(t, owner.String(), domainUser.RoleUser))
		require.Equal(t, http.StatusCreated, rr.Code)

		resp := decode(t, rr)
		assert.Equal(t, "0b0c8a5e-6f0e-4a3b-9a55-1d2f3c4b5a69", resp["token"])
		assert.Equal(t, "2026-01-03 15:30", resp["expires_at"])
		assert.Equal(t, RouteDownloadBase+"/0b0c8a5e-6f0e-4a3b-9a55-1d2f3c4b5a69", resp["download_url"])
	})

	t.Run("403 for other users", func(t *testing.T) {
		r := setupRouterUFC(t, &FakeUserFileService{
			CreateLinkFunc: func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID) (*domainFile.UserFile, error) {
				return nil, services.ErrForbidden
			},
		})
		rr := doReq(t, r, http.MethodPost, RouteFiles+"/"+fileID.String()+"/link", nil, bearer(t, uuid.NewString(), domainUser.RoleUser))
		require.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "access denied", decode(t, rr)["error"])
	})
}

func TestUserFileController_DeleteUserFileHandler(t *testing.T) {
	owner := uuid.New()
	fileID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErr    string
	}{
		{name: "204 success", wantStatus: http.StatusNoContent},
		{name: "404 unknown", err: services.ErrNotFound, wantStatus: http.StatusNotFound, wantErr: "file not found"},
		{name: "403 foreign", err: services.ErrForbidden, wantStatus: http.StatusForbidden, wantErr: "access denied"},
		{name: "500 db", err: errors.New("db down"), wantStatus: http.StatusInternalServerError, wantErr: "internal error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotFile uuid.UUID
			r := setupRouterUFC(t, &FakeUserFileService{
				DeleteUserFileFunc: func(ctx context.Context, userUUID domainUser.UUID, fileUUID uuid.UUID) error {
					gotFile = fileUUID
					return tt.err
				},
			})
			rr := doReq(t, r, http.MethodDelete, RouteFiles+"/"+fileID.String(), nil, bearer(t, owner.String(), domainUser.RoleUser))
			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, fileID, gotFile)

			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, decode(t, rr)["error"])
			}
		})
	}
}

func TestUserFileController_DownloadHandler(t *testing.T) {
	t.Run("200 streams attachment", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "blob")
		require.NoError(t, os.WriteFile(p, []byte("hello"), 0o600))

		r := setupRouterUFC(t, &FakeUserFileService{
			OpenDownloadFunc: func(ctx context.Context, token string) (*ports.Download, error) {
				if token != "tok" {
					return nil, services.ErrNotFound
				}
				fh, err := os.Open(p)
				if err != nil {
					return nil, err
				}
				return &ports.Download{
					File:    &domainFile.UserFile{FileName: "отчёт.txt", MimeType: "text/plain; charset=utf-8", SizeBytes: 5},
					Content: fh,
				}, nil
			},
		})

		rr := doReq(t, r, http.MethodGet, RouteDownloadBase+"/tok", nil, nil)
		require.Equal(t, http.StatusOK, rr.Code)
		body, err := io.ReadAll(rr.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
		assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename*=utf-8''%D0%BE%D1%82%D1%87%D1%91%D1%82.txt", rr.Header().Get("Content-Disposition"))
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErr    string
	}{
		{name: "404 unknown token", err: services.ErrNotFound, wantStatus: http.StatusNotFound, wantErr: "link not found"},
		{name: "410 expired", err: services.ErrLinkExpired, wantStatus: http.StatusGone, wantErr: "link expired"},
		{name: "500 bytes missing", err: services.ErrStorageIO, wantStatus: http.StatusInternalServerError, wantErr: "storage failure"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouterUFC(t, &FakeUserFileService{
				OpenDownloadFunc: func(ctx context.Context, token string) (*ports.Download, error) {
					return nil, tt.err
				},
			})
			rr := doReq(t, r, http.MethodGet, RouteDownloadBase+"/whatever", nil, nil)
			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantErr, decode(t, rr)["error"])
		})
	}
}
