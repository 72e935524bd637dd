// Package linkservice adds curated links to drafts. It is the single path
// every entry point (terminal, dialogs, HTTP, MCP) goes through.
package linkservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/category"
	"github.com/starford/linkblog/internal/inserter"
	"github.com/starford/linkblog/internal/models"
	"github.com/starford/linkblog/internal/storage"
)

// AddRequest describes one link insertion. When IfMatch is set it must
// equal the checksum of the draft on disk, otherwise the edit is refused
// with apperr.ErrConflict.
type AddRequest struct {
	Link     models.Link
	Category models.Category
	Target   string
	IfMatch  string
}

// AddResult is returned after a successful insertion.
type AddResult struct {
	Target   string          `json:"target"`
	Category models.Category `json:"category"`
	Line     string          `json:"line"`
	Checksum string          `json:"checksum"`
}

// Service coordinates the category store and draft edits.
type Service struct {
	store *category.Store

	// mu serialises draft edits made through this process.
	mu sync.Mutex
}

// NewService creates a new link service.
func NewService(store *category.Store) *Service {
	return &Service{store: store}
}

// Categories returns the categories in display order.
func (s *Service) Categories(_ context.Context) []models.Category {
	return s.store.All()
}

// FindCategory resolves a category by id or anchor.
func (s *Service) FindCategory(_ context.Context, key string) (models.Category, error) {
	c, ok := s.store.Find(key)
	if !ok {
		return models.Category{}, fmt.Errorf("%w: unknown category %q", apperr.ErrInvalidSelection, key)
	}
	return c, nil
}

// CreateCategory appends a category and persists the list.
func (s *Service) CreateCategory(_ context.Context, name, anchor string) (models.Category, error) {
	return s.store.Add(name, anchor)
}

// AddLink reads the target draft, rejects duplicates, splices the formatted
// link into the category's section and writes the draft back.
func (s *Service) AddLink(_ context.Context, req AddRequest) (*AddResult, error) {
	if err := validateLink(req.Link); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidLink, err)
	}
	if req.Target == "" {
		return nil, fmt.Errorf("%w: no target document", apperr.ErrTargetNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := readTarget(req.Target)
	if err != nil {
		return nil, err
	}
	if req.IfMatch != "" && req.IfMatch != storage.Checksum(data) {
		return nil, fmt.Errorf("%w: %s changed since it was read", apperr.ErrConflict, req.Target)
	}
	doc := string(data)

	if inserter.ContainsURL(doc, req.Link.URL) {
		return nil, fmt.Errorf("%w: %s", apperr.ErrDuplicateLink, req.Link.URL)
	}

	line := req.Link.Line()
	updated, err := inserter.Insert(doc, req.Category.Anchor, line)
	if err != nil {
		return nil, err
	}

	out := []byte(updated)
	if err := storage.WriteFile(req.Target, out); err != nil {
		return nil, err
	}
	return &AddResult{
		Target:   req.Target,
		Category: req.Category,
		Line:     line,
		Checksum: storage.Checksum(out),
	}, nil
}

func readTarget(path string) ([]byte, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrTargetNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

func validateLink(l models.Link) error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.URL, validation.Required, is.URL),
		validation.Field(&l.Title, validation.Required),
	)
}
