package files

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycloud-go/internal/auth"
	"mycloud-go/internal/config"
	"mycloud-go/internal/database"
	"mycloud-go/internal/storage"
)

type serviceFixture struct {
	svc     *Service
	db      *database.DB
	rootDir string
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db := setupTestDB(t)
	rootDir := t.TempDir()

	store, err := storage.NewLocalProvider(rootDir)
	require.NoError(t, err)

	cfg := &config.Config{
		BaseURL:           "http://localhost:8080",
		MaxFileSize:       1024,
		AllowedExtensions: []string{".jpg", ".png", ".txt"},
		Storage: config.StorageConfig{
			Provider: "local",
			RootDir:  rootDir,
		},
	}

	return &serviceFixture{
		svc:     NewService(NewPostgresRepository(db), store, cfg),
		db:      db,
		rootDir: rootDir,
	}
}

func (f *serviceFixture) principal(t *testing.T) *auth.Principal {
	t.Helper()
	id := createTestUser(t, f.db)
	return &auth.Principal{ID: id, Username: "u" + id.String()[:13]}
}

// ownerBlobCount counts the blobs under one owner's storage root. A missing
// directory means nothing was ever written for that owner.
func (f *serviceFixture) ownerBlobCount(t *testing.T, ownerID uuid.UUID) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.rootDir, ownerID.String()))
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestServiceUploadDownloadRoundtrip(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	content := []byte("not really a jpeg")
	file, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "cat.jpg",
		Content:  bytes.NewReader(content),
		Comment:  "first upload",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), file.Size)
	assert.NotEmpty(t, file.SpecialLink)
	require.NotNil(t, file.Comment)
	assert.Equal(t, "first upload", *file.Comment)

	got, rc, err := f.svc.Download(ctx, owner, file.ID)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, file.ID, got.ID)
}

func TestServiceUploadExactlyAtLimit(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	file, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "full.txt",
		Content:  bytes.NewReader(bytes.Repeat([]byte("a"), 1024)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1024), file.Size)
}

func TestServiceUploadTooLarge(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "big.txt",
		Content:  bytes.NewReader(bytes.Repeat([]byte("a"), 1025)),
	})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, f.ownerBlobCount(t, owner.ID), "rejected upload must not leave a blob behind")
}

func TestServiceUploadExtensionNotAllowed(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)

	_, err := f.svc.Upload(context.Background(), owner, &UploadRequest{
		Filename: "malware.exe",
		Content:  strings.NewReader("nope"),
	})
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)
	assert.Zero(t, f.ownerBlobCount(t, owner.ID))
}

func TestServiceUploadAnonymous(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Upload(context.Background(), nil, &UploadRequest{
		Filename: "anon.jpg",
		Content:  strings.NewReader("x"),
	})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestServiceUploadDuplicateNameCleansUpBlob(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "twice.jpg",
		Content:  strings.NewReader("first"),
	})
	require.NoError(t, err)

	_, err = f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "twice.jpg",
		Content:  strings.NewReader("second"),
	})
	require.ErrorIs(t, err, ErrDuplicateName)

	// Only the first upload's bytes may remain.
	assert.Equal(t, 1, f.ownerBlobCount(t, owner.ID))
}

func TestServiceDownloadByLink(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	content := []byte("shared bytes")
	file, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "shared.jpg",
		Content:  bytes.NewReader(content),
	})
	require.NoError(t, err)

	// No principal at all: the token is the credential.
	got, rc, err := f.svc.DownloadByLink(ctx, file.SpecialLink)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, file.ID, got.ID)

	_, _, err = f.svc.DownloadByLink(ctx, "unknown-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCrossOwnerForbidden(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	stranger := f.principal(t)
	ctx := context.Background()

	file, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "private.jpg",
		Content:  strings.NewReader("secret"),
	})
	require.NoError(t, err)

	_, _, err = f.svc.Download(ctx, stranger, file.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Rename(ctx, stranger, file.ID, "stolen.jpg")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.UpdateComment(ctx, stranger, file.ID, "graffiti")
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, f.svc.Delete(ctx, stranger, file.ID), ErrForbidden)

	_, err = f.svc.List(ctx, stranger, owner.ID, 10, 0)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestServiceSuperuserAccess(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	admin := f.principal(t)
	admin.IsSuperuser = true
	ctx := context.Background()

	file, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "audited.jpg",
		Content:  strings.NewReader("payload"),
	})
	require.NoError(t, err)

	_, rc, err := f.svc.Download(ctx, admin, file.ID)
	require.NoError(t, err)
	rc.Close()

	_, err = f.svc.Rename(ctx, admin, file.ID, "renamed-by-admin.jpg")
	assert.NoError(t, err)

	files, err := f.svc.List(ctx, admin, owner.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestServiceRenameAndComment(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	file, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "old.jpg",
		Content:  strings.NewReader("x"),
	})
	require.NoError(t, err)

	renamed, err := f.svc.Rename(ctx, owner, file.ID, "new.jpg")
	require.NoError(t, err)
	assert.Equal(t, "new.jpg", renamed.OriginalName)

	commented, err := f.svc.UpdateComment(ctx, owner, file.ID, "note")
	require.NoError(t, err)
	require.NotNil(t, commented.Comment)
	assert.Equal(t, "note", *commented.Comment)

	cleared, err := f.svc.UpdateComment(ctx, owner, file.ID, "")
	require.NoError(t, err)
	assert.Nil(t, cleared.Comment)
}

func TestServiceDeleteRemovesRecordAndBlob(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	file, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "gone.jpg",
		Content:  strings.NewReader("bye"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.ownerBlobCount(t, owner.ID))

	require.NoError(t, f.svc.Delete(ctx, owner, file.ID))

	assert.Zero(t, f.ownerBlobCount(t, owner.ID))
	_, _, err = f.svc.Download(ctx, owner, file.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = f.svc.DownloadByLink(ctx, file.SpecialLink)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceMissingBlobIsInconsistency(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	file, err := f.svc.Upload(ctx, owner, &UploadRequest{
		Filename: "vanishing.jpg",
		Content:  strings.NewReader("poof"),
	})
	require.NoError(t, err)

	// Pull the bytes out from under the registry row.
	require.NoError(t, os.Remove(filepath.Join(f.rootDir, filepath.FromSlash(file.StoredPath))))

	_, _, err = f.svc.Download(ctx, owner, file.ID)
	assert.ErrorIs(t, err, ErrStorageInconsistency)
}

func TestServiceListAndStats(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)
	ctx := context.Background()

	for _, name := range []string{"one.jpg", "two.jpg", "three.jpg"} {
		_, err := f.svc.Upload(ctx, owner, &UploadRequest{
			Filename: name,
			Content:  strings.NewReader("abcd"),
		})
		require.NoError(t, err)
	}

	files, err := f.svc.List(ctx, owner, owner.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, files, 3)

	stats, err := f.svc.Stats(ctx, owner, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalFiles)
	assert.Equal(t, int64(12), stats.TotalSize)

	_, err = f.svc.Stats(ctx, nil, owner.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestServicePublicURL(t *testing.T) {
	f := newServiceFixture(t)
	owner := f.principal(t)

	file, err := f.svc.Upload(context.Background(), owner, &UploadRequest{
		Filename: "linked.jpg",
		Content:  strings.NewReader("x"),
	})
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/f/"+file.SpecialLink, f.svc.PublicURL(file))
}
