package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vaultconnect/internal/repository"
)

func newFileFixture(t *testing.T) (FileService, *fakeStore, string, string) {
	t.Helper()

	users, repos, store := newUserService(t)
	files := NewFileService(repos.files, store, "files", defaultLimits())
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	bob, err := users.Register(ctx, "bob", "bob@example.com", "secret123")
	require.NoError(t, err)

	return files, store, alice.ID, bob.ID
}

func TestFileUploadAndGet(t *testing.T) {
	t.Parallel()

	files, store, alice, _ := newFileFixture(t)
	ctx := context.Background()

	file, err := files.Upload(ctx, alice, "photo.png", "image/png", 8, strings.NewReader("pngbytes"))
	require.NoError(t, err)
	require.Equal(t, "photo.png", file.Filename)
	require.Contains(t, file.StorageKey, alice)
	require.Equal(t, 1, store.size())

	got, url, err := files.Get(ctx, alice, file.ID)
	require.NoError(t, err)
	require.Equal(t, file.ID, got.ID)
	require.Contains(t, url, file.StorageKey)
}

func TestFileUploadValidation(t *testing.T) {
	t.Parallel()

	files, store, alice, _ := newFileFixture(t)
	ctx := context.Background()

	// disallowed MIME type
	_, err := files.Upload(ctx, alice, "run.exe", "application/x-msdownload", 8, strings.NewReader("mz"))
	require.ErrorIs(t, err, ErrValidation)

	// over the size limit
	_, err = files.Upload(ctx, alice, "big.png", "image/png", defaultLimits().MaxBytes+1, strings.NewReader("x"))
	require.ErrorIs(t, err, ErrValidation)

	// empty
	_, err = files.Upload(ctx, alice, "empty.png", "image/png", 0, strings.NewReader(""))
	require.ErrorIs(t, err, ErrValidation)

	require.Equal(t, 0, store.size(), "rejected uploads never reach storage")
}

func TestFileOwnership(t *testing.T) {
	t.Parallel()

	files, _, alice, bob := newFileFixture(t)
	ctx := context.Background()

	file, err := files.Upload(ctx, alice, "doc.pdf", "application/pdf", 4, strings.NewReader("data"))
	require.NoError(t, err)

	_, _, err = files.Get(ctx, bob, file.ID)
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, files.Delete(ctx, bob, file.ID), ErrForbidden)

	_, _, err = files.Get(ctx, alice, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFileDeleteRemovesBlob(t *testing.T) {
	t.Parallel()

	files, store, alice, _ := newFileFixture(t)
	ctx := context.Background()

	file, err := files.Upload(ctx, alice, "doc.pdf", "application/pdf", 4, strings.NewReader("data"))
	require.NoError(t, err)
	require.Equal(t, 1, store.size())

	require.NoError(t, files.Delete(ctx, alice, file.ID))
	require.Equal(t, 0, store.size())

	_, _, err = files.Get(ctx, alice, file.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
