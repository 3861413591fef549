package files

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mycloud-go/internal/auth"
	"mycloud-go/internal/config"
	"mycloud-go/internal/models"
	"mycloud-go/internal/storage"
	"mycloud-go/internal/validation"
)

// Service orchestrates the file lifecycle: every operation authorizes
// first, then applies the registry change and the blob-store side effect in
// an order that never leaves a registry row pointing at missing bytes.
type Service struct {
	repo     Repository
	store    storage.Provider
	resolver *storage.PathResolver
	links    *LinkGenerator
	config   config.Config
}

func NewService(repo Repository, store storage.Provider, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		resolver: storage.NewPathResolver(),
		links:    NewLinkGenerator(),
		config:   *cfg,
	}
}

// UploadRequest carries one file upload.
type UploadRequest struct {
	Filename string
	Content  io.Reader
	Comment  string
}

func (s *Service) extensionAllowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range s.config.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Upload stores the content and registers the file in one atomic step:
// bytes are written to a uniquely-named path first, and if the registry
// insert then fails the blob is removed again, so a failed create leaves
// neither a dangling row nor orphan bytes.
func (s *Service) Upload(ctx context.Context, principal *auth.Principal, req *UploadRequest) (*models.File, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	if err := validation.ValidateFilename(req.Filename); err != nil {
		return nil, err
	}
	if !s.extensionAllowed(req.Filename) {
		return nil, ErrExtensionNotAllowed
	}
	if err := validation.ValidateComment(req.Comment); err != nil {
		return nil, err
	}

	target, err := s.resolver.Target(principal.ID, req.Filename)
	if err != nil {
		return nil, err
	}

	// The extra byte past the cap lets us tell "exactly at the limit"
	// from "too large" without trusting any client-supplied size.
	limited := io.LimitReader(req.Content, s.config.MaxFileSize+1)
	written, err := s.store.Save(ctx, target, limited)
	if err != nil {
		s.removeBlob(ctx, target)
		return nil, fmt.Errorf("saving file content: %w", err)
	}
	if written > s.config.MaxFileSize {
		s.removeBlob(ctx, target)
		log.Info().
			Str("filename", req.Filename).
			Str("max_size", humanize.Bytes(uint64(s.config.MaxFileSize))).
			Msg("upload rejected, file too large")
		return nil, ErrFileTooLarge
	}

	token, err := s.links.Generate()
	if err != nil {
		s.removeBlob(ctx, target)
		return nil, err
	}

	file := &models.File{
		ID:           uuid.New(),
		OwnerID:      principal.ID,
		OriginalName: req.Filename,
		StoredPath:   target,
		Size:         written,
		UploadDate:   time.Now(),
		SpecialLink:  token,
	}
	if req.Comment != "" {
		file.Comment = &req.Comment
	}

	if err := s.repo.Create(ctx, file); err != nil {
		// Compensating action: the blob was written above, the record
		// never became visible, so the bytes must go too.
		s.removeBlob(ctx, target)
		return nil, err
	}

	log.Info().
		Str("file_id", file.ID.String()).
		Str("owner", principal.Username).
		Int64("size", file.Size).
		Msg("file uploaded")
	return file, nil
}

// PublicURL builds the unauthenticated download URL for a file.
func (s *Service) PublicURL(file *models.File) string {
	return fmt.Sprintf("%s/f/%s", s.config.BaseURL, file.SpecialLink)
}

// removeBlob is the cleanup half of a failed create. Its own failure is
// logged, not propagated: the original error is the one the caller needs.
func (s *Service) removeBlob(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to remove blob during cleanup")
	}
}

// Rename changes a file's display name. Renaming to the current name is a
// no-op, not an error.
func (s *Service) Rename(ctx context.Context, principal *auth.Principal, id uuid.UUID, newName string) (*models.File, error) {
	if err := validation.ValidateFilename(newName); err != nil {
		return nil, err
	}

	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(principal, file, ActionRename); err != nil {
		return nil, err
	}

	if err := s.repo.Rename(ctx, id, newName); err != nil {
		return nil, err
	}

	file.OriginalName = newName
	return file, nil
}

// UpdateComment sets or clears a file's comment.
func (s *Service) UpdateComment(ctx context.Context, principal *auth.Principal, id uuid.UUID, comment string) (*models.File, error) {
	if err := validation.ValidateComment(comment); err != nil {
		return nil, err
	}

	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(principal, file, ActionComment); err != nil {
		return nil, err
	}

	var value *string
	if comment != "" {
		value = &comment
	}
	if err := s.repo.UpdateComment(ctx, id, value); err != nil {
		return nil, err
	}

	file.Comment = value
	return file, nil
}

// Download opens an owner-scoped download. The caller is responsible for
// closing the returned reader.
func (s *Service) Download(ctx context.Context, principal *auth.Principal, id uuid.UUID) (*models.File, io.ReadCloser, error) {
	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := Authorize(principal, file, ActionRead); err != nil {
		return nil, nil, err
	}

	return s.openContent(ctx, file)
}

// DownloadByLink resolves a special link without any authentication; the
// token itself is the credential.
func (s *Service) DownloadByLink(ctx context.Context, token string) (*models.File, io.ReadCloser, error) {
	file, err := s.repo.GetByLink(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	if err := Authorize(nil, file, ActionReadViaLink); err != nil {
		return nil, nil, err
	}

	return s.openContent(ctx, file)
}

func (s *Service) openContent(ctx context.Context, file *models.File) (*models.File, io.ReadCloser, error) {
	exists, err := s.store.Exists(ctx, file.StoredPath)
	if err != nil {
		return nil, nil, fmt.Errorf("checking stored content: %w", err)
	}
	if !exists {
		log.Error().
			Str("file_id", file.ID.String()).
			Str("stored_path", file.StoredPath).
			Msg("registry row has no backing blob")
		return nil, nil, ErrStorageInconsistency
	}

	content, err := s.store.Open(ctx, file.StoredPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening stored content: %w", err)
	}

	// Losing this update on a crash is fine, it is not correctness-critical.
	if err := s.repo.TouchLastDownloaded(ctx, file.ID); err != nil {
		log.Error().Err(err).Str("file_id", file.ID.String()).Msg("failed to touch last_downloaded")
	}

	return file, content, nil
}

// Delete removes the registry row first; the row is the source of truth.
// Blob removal afterwards is best-effort: a leftover blob is an operational
// cleanup concern, not a caller-facing error.
func (s *Service) Delete(ctx context.Context, principal *auth.Principal, id uuid.UUID) error {
	file, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(principal, file, ActionDelete); err != nil {
		return err
	}

	storedPath, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Remove(ctx, storedPath); err != nil {
		log.Error().
			Err(err).
			Str("file_id", id.String()).
			Str("stored_path", storedPath).
			Msg("file record removed but blob deletion failed")
	}

	log.Info().
		Str("file_id", id.String()).
		Msg("file deleted")
	return nil
}

// List returns ownerID's files. Ordinary principals may only list their
// own; superusers may browse any owner.
func (s *Service) List(ctx context.Context, principal *auth.Principal, ownerID uuid.UUID, limit, offset int) ([]*models.File, error) {
	if err := Authorize(principal, &models.File{OwnerID: ownerID}, ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Stats returns ownerID's storage statistics, gated like List.
func (s *Service) Stats(ctx context.Context, principal *auth.Principal, ownerID uuid.UUID) (*models.StorageStats, error) {
	if err := Authorize(principal, &models.File{OwnerID: ownerID}, ActionRead); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, ownerID)
}
