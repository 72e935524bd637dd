// Package drafts finds candidate target documents and renders new ones.
package drafts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/models"
	"github.com/starford/linkblog/internal/parser"
	"github.com/starford/linkblog/internal/storage"
)

// Discover returns the drafts directly under dir whose front matter carries
// the given category value. A missing dir yields no drafts.
func Discover(dir, category string) ([]models.Draft, error) {
	fs, err := storage.NewFS(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return DiscoverIn(fs, category)
}

// DiscoverIn is Discover over an existing provider. Unreadable files are skipped.
func DiscoverIn(store storage.Provider, category string) ([]models.Draft, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, err
	}
	var out []models.Draft
	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			continue
		}
		if !parser.HasCategory(data, category) {
			continue
		}
		abs, err := store.Abs(m.Path)
		if err != nil {
			continue
		}
		name := filepath.Base(m.Path)
		title := parser.Parse(data).Title
		if title == "" {
			title = name
		}
		out = append(out, models.Draft{Path: abs, Filename: name, Title: title})
	}
	return out, nil
}

// Config locates the drafts a link may go to.
type Config struct {
	Dir         string
	Category    string
	DefaultFile string
}

// Resolve picks the target draft: the only draft of the configured
// category, or Dir/DefaultFile when there is none. With several matches the
// path is empty and the caller chooses among the returned drafts.
func (c Config) Resolve() (string, []models.Draft, error) {
	found, err := Discover(c.Dir, c.Category)
	if err != nil {
		return "", nil, err
	}
	switch len(found) {
	case 0:
		return filepath.Join(c.Dir, c.DefaultFile), nil, nil
	case 1:
		return found[0].Path, found, nil
	}
	return "", found, nil
}

// Target maps rel, relative to Dir, to an absolute path. An empty rel is
// resolved as in Resolve. Paths escaping Dir are rejected.
func (c Config) Target(rel string) (string, []models.Draft, error) {
	if rel == "" {
		return c.Resolve()
	}
	fs, err := storage.NewFS(c.Dir)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", apperr.ErrTargetNotFound, err)
	}
	abs, err := fs.Abs(rel)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", apperr.ErrInvalidSelection, err)
	}
	return abs, nil, nil
}

// Template renders an empty draft with one section per category.
func Template(title, category string, cats []models.Category) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("layout: post\n")
	fmt.Fprintf(&b, "title: %q\n", title)
	b.WriteString("description: \"Stay ahead with this curated collection of impactful articles and resources.\"\n")
	b.WriteString("comments: false\n")
	fmt.Fprintf(&b, "category: %q\n", category)
	b.WriteString("---\n\n")
	b.WriteString("<!-- markdownlint-disable MD033 MD020 MD025-->\n")
	for _, c := range cats {
		fmt.Fprintf(&b, "\n## %s%s\n", c.Name, c.Marker())
	}
	return b.String()
}

// DefaultTitle is the title given to drafts created from the template.
const DefaultTitle = "Tech Digest: Curated Insights"

// WriteTemplate creates path from the template. It refuses to overwrite.
func WriteTemplate(path, category string, cats []models.Category) error {
	if storage.Exists(path) {
		return fmt.Errorf("drafts: %s already exists", path)
	}
	return storage.WriteFile(path, []byte(Template(DefaultTitle, category, cats)))
}
