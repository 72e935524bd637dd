package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/drafts"
	"github.com/starford/linkblog/internal/linkservice"
	"github.com/starford/linkblog/internal/models"
	"github.com/starford/linkblog/internal/sse"
)

// Publisher receives change notifications. *sse.Broker implements it.
type Publisher interface {
	PublishLinkAdded(sse.LinkAdded)
	PublishCategoryCreated(models.Category)
}

// Handler holds API route handlers.
type Handler struct {
	svc    *linkservice.Service
	cfg    drafts.Config
	events Publisher
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(svc *linkservice.Service, cfg drafts.Config, events Publisher) *Handler {
	return &Handler{svc: svc, cfg: cfg, events: events}
}

// ListCategories handles GET /api/categories.
//
//	@Summary		List categories in display order
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Security		BearerAuth
//	@Router			/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.svc.Categories(r.Context())
	if cats == nil {
		cats = []models.Category{}
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats})
}

// CreateCategory handles POST /api/categories.
//
//	@Summary		Append a category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateCategoryRequest	true	"Category to create"
//	@Success		201		{object}	models.Category
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	c, err := h.svc.CreateCategory(r.Context(), req.Name, req.Anchor)
	if err != nil {
		writeError(w, err, "create category")
		return
	}
	if h.events != nil {
		h.events.PublishCategoryCreated(c)
	}
	writeJSON(w, http.StatusCreated, c)
}

// AddLink handles POST /api/links.
//
//	@Summary		Add a link to a draft section
//	@Tags			links
//	@Accept			json
//	@Produce		json
//	@Param			body		body		AddLinkRequest	true	"Link to add"
//	@Param			If-Match	header		string			false	"SHA-256 checksum of the draft for optimistic concurrency"
//	@Success		201		{object}	AddLinkResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/links [post]
func (h *Handler) AddLink(w http.ResponseWriter, r *http.Request) {
	var req AddLinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("category is required"))
		return
	}
	cat, err := h.svc.FindCategory(r.Context(), req.Category)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("unknown category"))
		return
	}

	target, candidates, err := h.cfg.Target(req.Target)
	if err != nil {
		writeError(w, err, "resolve target")
		return
	}
	if target == "" {
		writeJSON(w, http.StatusConflict, AmbiguousTargetResponse{
			Error:  "several drafts match; pass target",
			Drafts: candidates,
		})
		return
	}

	ifMatch := req.Checksum
	if ifMatch == "" {
		// Strip quotes if present (ETag style).
		ifMatch = strings.Trim(r.Header.Get("If-Match"), `"`)
	}

	res, err := h.svc.AddLink(r.Context(), linkservice.AddRequest{
		Link:     models.Link{URL: req.URL, Title: req.Title, Selected: req.Selected},
		Category: cat,
		Target:   target,
		IfMatch:  ifMatch,
	})
	if err != nil {
		writeError(w, err, "add link")
		return
	}
	if h.events != nil {
		h.events.PublishLinkAdded(sse.LinkAdded{
			Target:   res.Target,
			Category: cat.ID,
			URL:      req.URL,
			Line:     res.Line,
		})
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListDrafts handles GET /api/drafts.
//
//	@Summary		List drafts carrying the configured category
//	@Tags			drafts
//	@Produce		json
//	@Success		200	{object}	DraftListResponse
//	@Security		BearerAuth
//	@Router			/drafts [get]
func (h *Handler) ListDrafts(w http.ResponseWriter, _ *http.Request) {
	found, err := drafts.Discover(h.cfg.Dir, h.cfg.Category)
	if err != nil {
		writeError(w, err, "list drafts")
		return
	}
	if found == nil {
		found = []models.Draft{}
	}
	writeJSON(w, http.StatusOK, DraftListResponse{Drafts: found})
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidLink),
		errors.Is(err, apperr.ErrInvalidCategory),
		errors.Is(err, apperr.ErrInvalidSelection):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrTargetNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("target draft not found"))
	case errors.Is(err, apperr.ErrDuplicateLink):
		writeJSON(w, http.StatusConflict, errorBody("link already exists in draft"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("checksum mismatch"))
	case errors.Is(err, apperr.ErrSectionNotFound):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("category section not found in draft"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
