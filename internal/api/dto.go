package api

import (
	"github.com/starford/linkblog/internal/linkservice"
	"github.com/starford/linkblog/internal/models"
)

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name   string `json:"name" example:"Dev Ops" validate:"required"`
	Anchor string `json:"anchor,omitempty" example:"dev-ops"`
}

// AddLinkRequest is the request body for adding a link to a draft.
// Target is relative to the drafts directory; when empty the draft is
// discovered by its front matter category. Checksum, when set, must match
// the draft on disk.
type AddLinkRequest struct {
	URL      string `json:"url" example:"https://go.dev/blog/" validate:"required"`
	Title    string `json:"title" example:"The Go Blog" validate:"required"`
	Selected string `json:"selected,omitempty" example:"quoted text"`
	Category string `json:"category" example:"tools" validate:"required"`
	Target   string `json:"target,omitempty" example:"2026-10-18-digest.md"`
	Checksum string `json:"checksum,omitempty" example:"abc123..."`
}

// AddLinkResponse is returned after a link was written.
type AddLinkResponse = linkservice.AddResult

// CategoryListResponse wraps the ordered category list.
type CategoryListResponse struct {
	Categories []models.Category `json:"categories" validate:"required"`
}

// DraftListResponse wraps discovered drafts.
type DraftListResponse struct {
	Drafts []models.Draft `json:"drafts" validate:"required"`
}

// AmbiguousTargetResponse is returned when several drafts qualify and no
// target was given.
type AmbiguousTargetResponse struct {
	Error  string         `json:"error" validate:"required"`
	Drafts []models.Draft `json:"drafts" validate:"required"`
}
