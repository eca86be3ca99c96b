package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"file-share-api/internal/domain/user"
	domain "file-share-api/internal/domain/user_file"
	"file-share-api/internal/infrastructure/mq"
	"file-share-api/internal/infrastructure/storage"
)

// memUserRepo is an in-memory user.Repository.
type memUserRepo struct {
	mu    sync.Mutex
	users []*user.User
}

func (m *memUserRepo) FetchUserByID(_ context.Context, id user.UUID) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UUID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FetchUserByUsername(_ context.Context, username string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) CreateUser(_ context.Context, req user.User) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == req.Username {
			return nil, user.ErrUsernameTaken
		}
	}
	req.ID = user.ID(len(m.users) + 1)
	if req.UUID == uuid.Nil {
		req.UUID = uuid.New()
	}
	m.users = append(m.users, &req)
	cp := req
	return &cp, nil
}

func (m *memUserRepo) UpdateDisplayName(_ context.Context, id user.UUID, name string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UUID == id {
			u.DisplayName = name
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FetchInternalID(_ context.Context, id user.UUID) (user.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.UUID == id {
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: uuid %s", user.ErrNotFound, id)
}

// memFileRepo is an in-memory user_file.Repository.
type memFileRepo struct {
	mu     sync.Mutex
	nextID domain.ID
	files  map[domain.ID]*domain.UserFile
	// incrementErr makes IncrementDownloads fail
	incrementErr error
}

func newMemFileRepo() *memFileRepo {
	return &memFileRepo{files: map[domain.ID]*domain.UserFile{}}
}

func (m *memFileRepo) copyOf(f *domain.UserFile) *domain.UserFile {
	cp := *f
	return &cp
}

func (m *memFileRepo) CreateUserFile(_ context.Context, userID user.ID, req *domain.UserFile) (*domain.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f := *req
	f.ID = m.nextID
	f.UUID = uuid.New()
	f.UserID = userID
	f.Status = domain.StatusPending
	m.files[f.ID] = &f
	return m.copyOf(&f), nil
}

func (m *memFileRepo) MarkReady(_ context.Context, id domain.ID, storagePath string, size uint64, mimeType string) (*domain.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, nil
	}
	for _, other := range m.files {
		if other.ID != id && other.StoragePath == storagePath {
			return nil, errors.New("unique violation: storage_path")
		}
	}
	f.StoragePath, f.SizeBytes, f.MimeType, f.Status = storagePath, size, mimeType, domain.StatusReady
	return m.copyOf(f), nil
}

func (m *memFileRepo) FetchUserFile(_ context.Context, id uuid.UUID) (*domain.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.UUID == id && f.Status == domain.StatusReady {
			return m.copyOf(f), nil
		}
	}
	return nil, nil
}

func (m *memFileRepo) FetchUserFiles(_ context.Context, userID user.ID) (domain.UserFiles, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out domain.UserFiles
	for _, f := range m.files {
		if f.UserID == userID && f.Status == domain.StatusReady {
			out = append(out, m.copyOf(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFileRepo) FetchByToken(_ context.Context, token string) (*domain.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.AccessToken != nil && *f.AccessToken == token && f.Status == domain.StatusReady {
			return m.copyOf(f), nil
		}
	}
	return nil, nil
}

func (m *memFileRepo) UpdateDescription(_ context.Context, id domain.ID, description string) (*domain.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, nil
	}
	f.Description = description
	return m.copyOf(f), nil
}

func (m *memFileRepo) SetLink(_ context.Context, id domain.ID, token string, expiresAt time.Time) (*domain.UserFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil, nil
	}
	exp := expiresAt
	f.AccessToken, f.LinkExpiresAt = &token, &exp
	return m.copyOf(f), nil
}

func (m *memFileRepo) IncrementDownloads(_ context.Context, id domain.ID) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrementErr != nil {
		return 0, m.incrementErr
	}
	f, ok := m.files[id]
	if !ok {
		return 0, errors.New("no rows")
	}
	f.DownloadCount++
	return f.DownloadCount, nil
}

func (m *memFileRepo) DeleteUserFile(_ context.Context, id domain.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, id)
	return nil
}

func (m *memFileRepo) DeleteStalePending(_ context.Context, before time.Time) (domain.UserFiles, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out domain.UserFiles
	for id, f := range m.files {
		if f.Status == domain.StatusPending && f.UploadedAt.Before(before) {
			out = append(out, m.copyOf(f))
			delete(m.files, id)
		}
	}
	return out, nil
}

func (m *memFileRepo) FetchUsageStats(_ context.Context, now time.Time) (domain.UsageStats, error) {
	return nil, errors.New("not used")
}

func (m *memFileRepo) get(id domain.ID) *domain.UserFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[id]
	if !ok {
		return nil
	}
	return m.copyOf(f)
}

func (m *memFileRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// faultyStorage wraps a real disk and fails selected operations.
type faultyStorage struct {
	*storage.Disk
	saveErr   error
	removeErr error
	openErr   error
	saves     int
}

func (s *faultyStorage) Save(rel string, r io.Reader) (int64, error) {
	s.saves++
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	return s.Disk.Save(rel, r)
}

func (s *faultyStorage) Remove(rel string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	return s.Disk.Remove(rel)
}

func (s *faultyStorage) Open(rel string) (*os.File, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.Disk.Open(rel)
}

func newStorage(t *testing.T) *faultyStorage {
	t.Helper()
	d, err := storage.NewDisk(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return &faultyStorage{Disk: d}
}

// regularFiles lists every regular file under root, slash-separated and relative.
func regularFiles(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, _ := filepath.Rel(root, p)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
}

// fileHeader builds a multipart file header the way an HTTP upload would.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }
