package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/inkwell/inkwell-backend/internal/blog"
	"github.com/inkwell/inkwell-backend/internal/service"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// PostManager is the post-aggregate surface consumed by the transport layer.
type PostManager interface {
	Create(ctx context.Context, in service.CreatePostInput) (*blog.Post, error)
	GetBySlug(ctx context.Context, slug string, incrementView bool) (*blog.Post, error)
	List(ctx context.Context, page, limit int) (*blog.PostPage, error)
	Update(ctx context.Context, id int64, in service.UpdatePostInput) (*blog.Post, error)
	GetByTag(ctx context.Context, tagName string) ([]*blog.Post, error)
	Delete(ctx context.Context, id int64) error
}

// TagManager is the tag-taxonomy surface consumed by the transport layer.
type TagManager interface {
	List(ctx context.Context) ([]blog.Tag, error)
	Create(ctx context.Context, name string) (blog.Tag, error)
	Delete(ctx context.Context, name string) error
}

// Pinger reports storage readiness. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	posts  PostManager
	tags   TagManager
	db     Pinger
	logger *zap.SugaredLogger
}

func NewHandler(posts PostManager, tags TagManager, db Pinger, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		posts:  posts,
		tags:   tags,
		db:     db,
		logger: logger,
	}
}

// Post endpoints

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	post, err := h.posts.Create(r.Context(), service.CreatePostInput{
		Title:      req.Title,
		CoverImage: req.CoverImage,
		Blocks:     req.ContentBlocks,
		Tags:       tagNames(req.Tags),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, mapPost(post))
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultPageLimit)

	// Clamping is the transport boundary's job; the service tolerates any
	// page >= 1 by returning an empty page.
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	result, err := h.posts.List(r.Context(), page, limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	items := make([]PostSummaryResponse, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, mapSummary(s))
	}

	h.writeJSON(w, http.StatusOK, PaginatedPostsResponse{
		Items: items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	// Everything except the literal "false" and "0" counts a view.
	incrementViews := r.URL.Query().Get("incrementViews")
	shouldIncrement := incrementViews != "false" && incrementViews != "0"

	post, err := h.posts.GetBySlug(r.Context(), slug, shouldIncrement)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, mapPost(post))
}

func (h *Handler) GetPostsByTag(w http.ResponseWriter, r *http.Request) {
	tagName := chi.URLParam(r, "tagName")

	posts, err := h.posts.GetByTag(r.Context(), tagName)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, mapPost(p))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "Post id must be an integer")
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	post, err := h.posts.Update(r.Context(), id, service.UpdatePostInput{
		Title:      req.Title,
		CoverImage: req.CoverImage,
		Blocks:     req.ContentBlocks,
		Tags:       tagNames(req.Tags),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, mapPost(post))
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_ID", "Post id must be an integer")
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: fmt.Sprintf("Blog post with ID %d has been successfully deleted.", id),
	})
}

// Tag endpoints

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagResponse{ID: t.ID, Name: t.Name})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRef
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	tag, err := h.tags.Create(r.Context(), req.Name)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, TagResponse{ID: tag.ID, Name: tag.Name})
}

func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.tags.Delete(r.Context(), name); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "success",
		Message: fmt.Sprintf("Tag %s has been deleted.", name),
	})
}

// Health endpoints

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.writeError(w, http.StatusServiceUnavailable, "NOT_READY", "Database unreachable")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Helpers

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.logger.Errorw("API error", "code", code, "message", message, "status", status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Code: code, Message: message})
}

// writeDomainError maps core error kinds to transport status codes,
// preserving field and block-position context for precise client messages.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var (
		validation *blog.ValidationError
		notFound   *blog.NotFoundError
		conflict   *blog.ConflictError
		storage    *blog.StorageError
	)

	switch {
	case errors.As(err, &validation):
		h.logger.Debugw("validation rejected", "field", validation.Field, "position", validation.Position)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			Code:     "VALIDATION_ERROR",
			Message:  validation.Error(),
			Field:    validation.Field,
			Position: validation.Position,
		})
	case errors.As(err, &notFound):
		h.writeError(w, http.StatusNotFound, "NOT_FOUND", notFound.Error())
	case errors.As(err, &conflict):
		h.writeError(w, http.StatusConflict, "CONFLICT", conflict.Error())
	case errors.As(err, &storage):
		h.logger.Errorw("storage failure", "op", storage.Op, "error", storage.Err)
		h.writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Storage operation failed")
	default:
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
