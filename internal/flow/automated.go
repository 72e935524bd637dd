package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/category"
	"github.com/starford/linkblog/internal/dialog"
	"github.com/starford/linkblog/internal/diaglog"
	"github.com/starford/linkblog/internal/drafts"
	"github.com/starford/linkblog/internal/linkservice"
	"github.com/starford/linkblog/internal/models"
)

// AddNewLabel is the extra picker entry that creates a category.
const AddNewLabel = "➕ Add new category..."

// Automated runs the dialog-driven flow. Every failure is logged to the
// diagnostic log and shown as a notification; Run itself never fails.
type Automated struct {
	categoriesPath string
	ui             dialog.UI
	log            *diaglog.Log
	cfg            drafts.Config
}

// NewAutomated creates a dialog-driven flow.
func NewAutomated(categoriesPath string, ui dialog.UI, log *diaglog.Log, cfg drafts.Config) *Automated {
	if log == nil {
		log = diaglog.Discard()
	}
	return &Automated{categoriesPath: categoriesPath, ui: ui, log: log, cfg: cfg}
}

// failure carries the notification shown for a failed step.
type failure struct {
	title   string
	message string
	err     error
}

func (f *failure) Error() string { return f.message + ": " + f.err.Error() }
func (f *failure) Unwrap() error { return f.err }

func fail(err error, title, format string, args ...any) error {
	return &failure{title: title, message: fmt.Sprintf(format, args...), err: err}
}

// Run adds the link through dialogs.
func (a *Automated) Run(ctx context.Context, in Input) error {
	a.log.Info("started",
		slog.String("url", in.URL),
		slog.String("title", in.Title),
		slog.String("selected", in.Selected),
		slog.String("blog", in.Target))

	err := a.run(ctx, in)
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrDialogCancelled) {
		a.log.Info("cancelled by user", slog.String("error", err.Error()))
		return nil
	}

	a.log.Error("add link failed",
		slog.String("error", err.Error()),
		slog.String("url", in.URL),
		slog.String("title", in.Title),
		slog.String("blog", in.Target))

	title, message := "Error", fmt.Sprintf("Error adding link. Check %s", a.logName())
	var f *failure
	if errors.As(err, &f) {
		title, message = f.title, f.message
	}
	if nerr := a.ui.Notify(ctx, title, message); nerr != nil {
		a.log.Error("notification failed", slog.String("error", nerr.Error()))
	}
	return nil
}

func (a *Automated) run(ctx context.Context, in Input) error {
	store, err := category.Open(a.categoriesPath)
	if err != nil {
		return fail(err, "Error", "Error loading categories. Check %s", a.logName())
	}
	a.log.Info("loaded categories", slog.Int("count", store.Len()))
	if dups := store.DuplicateNames(); len(dups) > 0 {
		a.log.Warn("duplicate category names, the first match wins", slog.Any("names", dups))
	}
	svc := linkservice.NewService(store)

	cat, err := a.chooseCategory(ctx, store, svc)
	if err != nil {
		return err
	}
	a.log.Info("category selected", slog.String("category", cat.Name))

	target, err := a.resolveTarget(ctx, in.Target)
	if err != nil {
		return err
	}
	a.log.Info("blog file selected", slog.String("blog", target))

	link := models.Link{URL: in.URL, Title: in.Title, Selected: in.Selected}
	res, err := svc.AddLink(ctx, linkservice.AddRequest{Link: link, Category: cat, Target: target})
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrTargetNotFound):
		return fail(err, "Error", "Blog file not found: %s", filepath.Base(target))
	case errors.Is(err, apperr.ErrDuplicateLink):
		return fail(err, "Duplicate Link", "Link already exists in blog")
	case errors.Is(err, apperr.ErrSectionNotFound):
		return fail(err, "Error", "Category section not found: %s", cat.Name)
	case errors.Is(err, apperr.ErrInvalidLink):
		return fail(err, "Error", "Invalid link")
	default:
		return fail(err, "Error", "Error adding link. Check %s", a.logName())
	}

	if err := a.ui.Notify(ctx, "Link Added", "Added to "+cat.Name); err != nil {
		a.log.Error("notification failed", slog.String("error", err.Error()))
	}
	a.log.Info("link added",
		slog.String("category", cat.Name),
		slog.String("blog", res.Target),
		slog.String("url", in.URL),
		slog.String("title", in.Title))
	return nil
}

// chooseCategory shows the category picker and maps the chosen label back
// to a category by exact name.
func (a *Automated) chooseCategory(ctx context.Context, store *category.Store, svc *linkservice.Service) (models.Category, error) {
	cats := store.All()
	items := make([]string, 0, len(cats)+1)
	for _, c := range cats {
		items = append(items, c.Name)
	}
	items = append(items, AddNewLabel)

	choice, err := a.ui.Choose(ctx, "Select Category", "Choose a category for this link:", items)
	if err != nil {
		if errors.Is(err, apperr.ErrDialogCancelled) {
			return models.Category{}, err
		}
		return models.Category{}, fail(err, "Error", "Error showing category dialog. Check %s", a.logName())
	}
	a.log.Info("category dialog returned", slog.String("choice", choice))

	if i := store.IndexOfName(choice); i >= 0 {
		return store.At(i + 1)
	}
	if choice != AddNewLabel {
		return models.Category{}, fail(fmt.Errorf("%w: %q", apperr.ErrInvalidSelection, choice), "Error", "Invalid category selection")
	}

	name, err := a.ui.Ask(ctx, "New Category", "Enter new category name:")
	if err != nil {
		return models.Category{}, a.dialogErr(err)
	}
	anchor, err := a.ui.Ask(ctx, "New Category", "Enter anchor ID (e.g., 'devops', 'tools'):")
	if err != nil {
		return models.Category{}, a.dialogErr(err)
	}
	c, err := svc.CreateCategory(ctx, name, anchor)
	if err != nil {
		return models.Category{}, fail(err, "Error", "Invalid category selection")
	}
	a.log.Info("category created", slog.String("category", c.Name), slog.String("anchor", c.Anchor))
	return c, nil
}

// resolveTarget returns explicit when given, otherwise the single draft of
// the configured category, the user's pick among several, or the default
// file when there are none.
func (a *Automated) resolveTarget(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	target, found, err := a.cfg.Resolve()
	if err != nil {
		return "", fail(err, "Error", "Error finding blog files. Check %s", a.logName())
	}
	if target != "" {
		return target, nil
	}

	labels := make([]string, len(found))
	for i, d := range found {
		labels[i] = d.Label()
	}
	prompt := fmt.Sprintf("Multiple '%s' files found. Choose one:", a.cfg.Category)
	choice, err := a.ui.Choose(ctx, "Select Blog File", prompt, labels)
	if err != nil {
		return "", a.dialogErr(err)
	}
	for i, l := range labels {
		if l == choice {
			return found[i].Path, nil
		}
	}
	return "", fail(fmt.Errorf("%w: %q", apperr.ErrInvalidSelection, choice), "Error", "Invalid file selection")
}

func (a *Automated) dialogErr(err error) error {
	if errors.Is(err, apperr.ErrDialogCancelled) {
		return err
	}
	return fail(err, "Error", "Dialog failed. Check %s", a.logName())
}

func (a *Automated) logName() string {
	if p := a.log.Path(); p != "" {
		return filepath.Base(p)
	}
	return "the error log"
}
