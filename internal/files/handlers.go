package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	userctx "mycloud-go/internal/context"
	"mycloud-go/internal/models"
	"mycloud-go/internal/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleUpload accepts a multipart upload and registers the file.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	principal := userctx.PrincipalFromContext(r.Context())

	content, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer func(content multipart.File) {
		if err := content.Close(); err != nil {
			log.Error().Err(err).Msg("error closing uploaded file")
		}
	}(content)

	file, err := h.service.Upload(r.Context(), principal, &UploadRequest{
		Filename: header.Filename,
		Content:  content,
		Comment:  r.FormValue("comment"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.CreateFileResponse{
		ID:           file.ID,
		FileURL:      h.service.PublicURL(file),
		OriginalName: file.OriginalName,
		Size:         file.Size,
	})
}

// HandleList returns the requesting owner's files, or another owner's when
// a superuser passes ?owner=<uuid>.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal := userctx.PrincipalFromContext(r.Context())
	if principal == nil {
		h.writeError(w, ErrUnauthenticated)
		return
	}

	ownerID := principal.ID
	if owner := r.URL.Query().Get("owner"); owner != "" {
		parsed, err := uuid.Parse(owner)
		if err != nil {
			http.Error(w, "invalid owner id", http.StatusBadRequest)
			return
		}
		ownerID = parsed
	}

	limit, offset := pagination(r)
	list, err := h.service.List(r.Context(), principal, ownerID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

type renameRequest struct {
	Name string `json:"name"`
}

// HandleRename changes a file's display name.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	principal := userctx.PrincipalFromContext(r.Context())

	id, err := fileID(r)
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	file, err := h.service.Rename(r.Context(), principal, id, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// HandleComment sets or clears a file's comment.
func (h *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	principal := userctx.PrincipalFromContext(r.Context())

	id, err := fileID(r)
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	file, err := h.service.UpdateComment(r.Context(), principal, id, req.Comment)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

// HandleDownload streams a file to its owner (or a superuser).
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	principal := userctx.PrincipalFromContext(r.Context())

	id, err := fileID(r)
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	file, content, err := h.service.Download(r.Context(), principal, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer content.Close()

	streamFile(w, file, content)
}

// HandleServeByLink streams a file to whoever holds its special link.
func (h *Handler) HandleServeByLink(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "link")

	file, content, err := h.service.DownloadByLink(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	defer content.Close()

	streamFile(w, file, content)
}

// HandleDelete removes a file record and its stored content.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal := userctx.PrincipalFromContext(r.Context())

	id, err := fileID(r)
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStats reports the owner's file count and total bytes.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	principal := userctx.PrincipalFromContext(r.Context())
	if principal == nil {
		h.writeError(w, ErrUnauthenticated)
		return
	}

	ownerID := principal.ID
	if owner := r.URL.Query().Get("owner"); owner != "" {
		parsed, err := uuid.Parse(owner)
		if err != nil {
			http.Error(w, "invalid owner id", http.StatusBadRequest)
			return
		}
		ownerID = parsed
	}

	stats, err := h.service.Stats(r.Context(), principal, ownerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// writeError translates core outcomes into transport-level responses.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": validation.FormatError(validationErrs),
		})
		return
	}

	switch {
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrFileTooLarge):
		msg := fmt.Sprintf("%s (max %s)", err.Error(), humanize.Bytes(uint64(h.service.config.MaxFileSize)))
		http.Error(w, msg, http.StatusBadRequest)
	case errors.Is(err, ErrExtensionNotAllowed):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func streamFile(w http.ResponseWriter, file *models.File, content io.Reader) {
	contentType := mime.TypeByExtension(filepath.Ext(file.OriginalName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))

	if _, err := io.Copy(w, content); err != nil {
		log.Error().Err(err).Str("file_id", file.ID.String()).Msg("error streaming file")
	}
}

func fileID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "fileID"))
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}
