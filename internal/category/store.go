// Package category persists the ordered list of link-blog categories.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/models"
	"github.com/starford/linkblog/internal/storage"
)

var anchorRe = regexp.MustCompile(`^[^"<>\s]+$`)

// file is the on-disk layout of the categories list.
type file struct {
	Categories []models.Category `json:"categories"`
}

// Store is an ordered, file-backed list of categories.
// Every mutation rewrites the whole file.
type Store struct {
	path string

	mu         sync.RWMutex
	categories []models.Category
}

// Open loads the categories file at path.
// It fails with apperr.ErrStoreUnavailable when the file does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Create writes a new categories file holding cats and returns its store.
func Create(path string, cats []models.Category) (*Store, error) {
	s := &Store{path: path, categories: append([]models.Category(nil), cats...)}
	if err := s.save(s.categories); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the categories file.
func Load(path string) ([]models.Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", apperr.ErrStoreUnavailable, path)
		}
		return nil, fmt.Errorf("category: read %s: %w", path, err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("category: parse %s: %w", path, err)
	}
	return f.Categories, nil
}

// Reload replaces the in-memory list with the file's current content.
func (s *Store) Reload() error {
	cats, err := Load(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = cats
	s.mu.Unlock()
	return nil
}

// Save overwrites the backing file with cats and makes them the current list.
func (s *Store) Save(cats []models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(cats); err != nil {
		return err
	}
	s.categories = append([]models.Category(nil), cats...)
	return nil
}

func (s *Store) save(cats []models.Category) error {
	if cats == nil {
		cats = []models.Category{}
	}
	data, err := json.MarshalIndent(file{Categories: cats}, "", "  ")
	if err != nil {
		return fmt.Errorf("category: encode: %w", err)
	}
	if err := storage.WriteFile(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("category: save: %w", err)
	}
	return nil
}

// All returns a copy of the categories in display order.
func (s *Store) All() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

// Len returns the number of categories.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories)
}

// At returns the category at 1-based ordinal n.
func (s *Store) At(n int) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n < 1 || n > len(s.categories) {
		return models.Category{}, fmt.Errorf("%w: %d is not between 1 and %d", apperr.ErrInvalidSelection, n, len(s.categories))
	}
	return s.categories[n-1], nil
}

// IndexOfName returns the 0-based index of the first category whose name
// equals name exactly, or -1.
func (s *Store) IndexOfName(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, c := range s.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// DuplicateNames returns names shared by more than one category.
func (s *Store) DuplicateNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]int, len(s.categories))
	var out []string
	for _, c := range s.categories {
		seen[c.Name]++
		if seen[c.Name] == 2 {
			out = append(out, c.Name)
		}
	}
	return out
}

// Find looks a category up by id, then by anchor.
func (s *Store) Find(key string) (models.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.ID == key {
			return c, true
		}
	}
	for _, c := range s.categories {
		if c.Anchor == key {
			return c, true
		}
	}
	return models.Category{}, false
}

// Add builds a category from name and anchor, appends it and saves the list.
func (s *Store) Add(name, anchor string) (models.Category, error) {
	c, err := New(name, anchor)
	if err != nil {
		return models.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append(append([]models.Category(nil), s.categories...), c)
	if err := s.save(next); err != nil {
		return models.Category{}, err
	}
	s.categories = next
	return c, nil
}

// New builds a category. An empty anchor is derived from the name.
func New(name, anchor string) (models.Category, error) {
	name = strings.TrimSpace(name)
	anchor = strings.ToLower(strings.TrimSpace(anchor))
	if anchor == "" {
		anchor = DeriveAnchor(name)
	}
	c := models.Category{ID: anchor, Name: name, Anchor: anchor}
	if err := Validate(c); err != nil {
		return models.Category{}, fmt.Errorf("%w: %v", apperr.ErrInvalidCategory, err)
	}
	return c, nil
}

// DeriveAnchor lower-cases name, turns spaces into dashes and drops commas.
func DeriveAnchor(name string) string {
	a := strings.ToLower(name)
	a = strings.ReplaceAll(a, " ", "-")
	return strings.ReplaceAll(a, ",", "")
}

// Validate checks that c can be stored and matched in a draft.
func Validate(c models.Category) error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Anchor, validation.Required, validation.Match(anchorRe).Error("must not contain quotes, angle brackets or spaces")),
	)
}
