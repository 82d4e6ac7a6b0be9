package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vaultconnect/internal/repository"
	"vaultconnect/internal/repository/sqlite"
	"vaultconnect/internal/storage"
)

type testRepos struct {
	users   repository.UserRepository
	widgets repository.WidgetRepository
	events  repository.EventRepository
	files   repository.FileRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := testRepos{
		users:   sqlite.NewUserRepository(db),
		widgets: sqlite.NewWidgetRepository(db),
		events:  sqlite.NewEventRepository(db),
		files:   sqlite.NewFileRepository(db),
	}
	ctx := context.Background()
	require.NoError(t, repos.users.Init(ctx))
	require.NoError(t, repos.widgets.Init(ctx))
	require.NoError(t, repos.events.Init(ctx))
	require.NoError(t, repos.files.Init(ctx))
	return repos
}

// fakeStore keeps uploaded blobs in memory so tests never touch S3.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.example.com/%s?signed", key), nil
}

func (f *fakeStore) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

var _ storage.Service = (*fakeStore)(nil)

func defaultLimits() FileUploadLimits {
	return FileUploadLimits{
		MaxBytes:     10 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "application/pdf"},
	}
}
