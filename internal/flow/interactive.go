// Package flow drives the two ways a link reaches a draft: the numbered
// terminal prompt and the native dialogs started from the browser.
package flow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/drafts"
	"github.com/starford/linkblog/internal/linkservice"
	"github.com/starford/linkblog/internal/models"
	"github.com/starford/linkblog/internal/storage"
)

// DefaultTarget is offered when the user gives no draft path.
const DefaultTarget = "blog_post.md"

// Input is the link data passed on the command line. Empty fields are
// asked for (interactive) or resolved (automated).
type Input struct {
	URL      string
	Title    string
	Selected string
	Target   string
}

// Interactive runs the terminal prompt flow.
type Interactive struct {
	svc           *linkservice.Service
	reader        *bufio.Reader
	w             io.Writer
	draftCategory string
}

// NewInteractive creates a terminal flow reading from r and writing to w.
// draftCategory is written into drafts created from the template.
func NewInteractive(svc *linkservice.Service, r io.Reader, w io.Writer, draftCategory string) *Interactive {
	return &Interactive{
		svc:           svc,
		reader:        bufio.NewReader(r),
		w:             w,
		draftCategory: draftCategory,
	}
}

// Run asks for whatever in lacks, lets the user pick or create a category
// and adds the link. Input mistakes are reported and end the run without
// an error; only unexpected failures are returned.
func (f *Interactive) Run(ctx context.Context, in Input) error {
	fmt.Fprintln(f.w, "=== Link Blog Category Manager ===")

	link := models.Link{URL: in.URL, Title: in.Title, Selected: in.Selected}
	var err error
	if link.URL == "" {
		if link.URL, err = f.readLine("Enter link URL: "); err != nil {
			return err
		}
		if link.URL == "" {
			fmt.Fprintln(f.w, "URL cannot be empty!")
			return nil
		}
	}
	if link.Title == "" {
		if link.Title, err = f.readLine("Enter link title: "); err != nil {
			return err
		}
		if link.Title == "" {
			fmt.Fprintln(f.w, "Title cannot be empty!")
			return nil
		}
	}

	cat, err := f.selectCategory(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(f.w, "\nAdding to category: %s\n", cat.Name)
	fmt.Fprintf(f.w, "Formatted link: %s\n", link.Line())

	target := in.Target
	if target == "" {
		answer, err := f.readLine("\nAdd to blog file? (y/n): ")
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "y" {
			return nil
		}
		if target, err = f.readLine(fmt.Sprintf("\nEnter blog post file path (or press Enter for '%s'): ", DefaultTarget)); err != nil {
			return err
		}
		if target == "" {
			target = DefaultTarget
		}
	}

	if !storage.Exists(target) {
		fmt.Fprintf(f.w, "Blog file '%s' not found. Creating template...\n", target)
		if err := drafts.WriteTemplate(target, f.draftCategory, f.svc.Categories(ctx)); err != nil {
			return err
		}
		fmt.Fprintf(f.w, "Created blog template: %s\n", target)
	}

	_, err = f.svc.AddLink(ctx, linkservice.AddRequest{Link: link, Category: cat, Target: target})
	switch {
	case err == nil:
		fmt.Fprintf(f.w, "\nLink added to '%s' section in %s\n", cat.Name, target)
		return nil
	case errors.Is(err, apperr.ErrSectionNotFound):
		fmt.Fprintf(f.w, "Warning: Anchor '%s' not found in blog file.\n", cat.Marker())
		fmt.Fprintln(f.w, "Please manually add the link to the appropriate section.")
		fmt.Fprintf(f.w, "\nFormatted link:\n%s\n", link.Line())
		return nil
	case errors.Is(err, apperr.ErrDuplicateLink):
		fmt.Fprintf(f.w, "Link already exists in %s\n", target)
		return nil
	case errors.Is(err, apperr.ErrInvalidLink):
		fmt.Fprintf(f.w, "Invalid link: %v\n", err)
		return nil
	default:
		return err
	}
}

// selectCategory loops until the user picks an existing category or
// successfully creates a new one.
func (f *Interactive) selectCategory(ctx context.Context) (models.Category, error) {
	for {
		cats := f.svc.Categories(ctx)
		fmt.Fprintln(f.w, "\nAvailable categories:")
		for i, c := range cats {
			fmt.Fprintf(f.w, "%d. %s\n", i+1, c.Name)
		}
		fmt.Fprintf(f.w, "%d. Add new category\n", len(cats)+1)

		line, err := f.readLine("\nSelect category (number): ")
		if err != nil {
			return models.Category{}, fmt.Errorf("%w: %v", apperr.ErrInvalidSelection, err)
		}
		n, convErr := strconv.Atoi(line)
		switch {
		case convErr != nil:
			fmt.Fprintln(f.w, "Please enter a valid number!")
		case n >= 1 && n <= len(cats):
			return cats[n-1], nil
		case n == len(cats)+1:
			c, ok, err := f.newCategory(ctx)
			if err != nil {
				return models.Category{}, fmt.Errorf("%w: %v", apperr.ErrInvalidSelection, err)
			}
			if ok {
				return c, nil
			}
		default:
			fmt.Fprintln(f.w, "Invalid choice!")
		}
	}
}

func (f *Interactive) newCategory(ctx context.Context) (models.Category, bool, error) {
	fmt.Fprintln(f.w, "\n--- Add New Category ---")
	name, err := f.readLine("Enter category name: ")
	if err != nil {
		return models.Category{}, false, err
	}
	if name == "" {
		fmt.Fprintln(f.w, "Category name cannot be empty!")
		return models.Category{}, false, nil
	}
	anchor, err := f.readLine("Enter anchor ID (e.g., 'devops', 'tools'): ")
	if err != nil {
		return models.Category{}, false, err
	}
	c, err := f.svc.CreateCategory(ctx, name, anchor)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCategory) {
			fmt.Fprintf(f.w, "%v\n", err)
			return models.Category{}, false, nil
		}
		return models.Category{}, false, err
	}
	fmt.Fprintf(f.w, "\nAdded new category: %s\n", c.Name)
	return c, true, nil
}

// readLine prints prompt and returns the next trimmed input line. A final
// line without a newline is accepted; an exhausted reader is an error.
func (f *Interactive) readLine(prompt string) (string, error) {
	fmt.Fprint(f.w, prompt)
	line, err := f.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
