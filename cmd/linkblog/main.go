package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/linkblog/internal"
	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/category"
	"github.com/starford/linkblog/internal/dialog"
	"github.com/starford/linkblog/internal/diaglog"
	"github.com/starford/linkblog/internal/drafts"
	"github.com/starford/linkblog/internal/flow"
	"github.com/starford/linkblog/internal/linkservice"
	pkgconfig "github.com/starford/linkblog/pkg/config"
)

var version = "dev"

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	// Flags win over the file.
	if cmd.IsSet("categories") {
		cfg.Categories.Path = cmd.String("categories")
	}
	if cmd.IsSet("drafts") {
		cfg.Drafts.Dir = cmd.String("drafts")
	}
	if cmd.IsSet("log-file") {
		cfg.Log.Path = cmd.String("log-file")
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	})))
	return cfg, nil
}

func openService(cfg *internal.Config) (*linkservice.Service, *category.Store, error) {
	store, err := category.Open(cfg.Categories.Path)
	if err != nil {
		return nil, nil, err
	}
	return linkservice.NewService(store), store, nil
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	in := flow.Input{
		URL:      cmd.String("url"),
		Title:    cmd.String("title"),
		Selected: cmd.String("selected"),
		Target:   cmd.String("blog"),
	}
	browser := cmd.Bool("browser") && in.URL != "" && in.Title != ""

	cfg, err := loadConfig(cmd)
	if err != nil {
		if browser {
			notifyFatal(ctx, dialog.NewOSAScript(nil), "Fatal error. Check the configuration")
		}
		return err
	}

	if browser {
		return runAutomated(ctx, cfg, in)
	}

	svc, _, err := openService(cfg)
	if err != nil {
		return err
	}
	return flow.NewInteractive(svc, os.Stdin, os.Stdout, cfg.Drafts.Category).Run(ctx, in)
}

// notifyFatal tells a browser-mode user that the run could not start.
func notifyFatal(ctx context.Context, n dialog.Notifier, message string) {
	if err := n.Notify(ctx, "Error", message); err != nil {
		slog.Warn("notification failed", slog.String("error", err.Error()))
	}
}

func runAutomated(ctx context.Context, cfg *internal.Config, in flow.Input) error {
	log, err := diaglog.Open(cfg.Log.Path)
	if err != nil {
		slog.Warn("diagnostic log unavailable, using stderr", slog.String("error", err.Error()))
		log = diaglog.New(os.Stderr)
	}
	defer log.Close()

	ui := dialog.NewOSAScript(nil)
	return flow.NewAutomated(cfg.Categories.Path, ui, log, cfg.Drafts.Drafts()).Run(ctx, in)
}

func listCategories(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, store, err := openService(cfg)
	if err != nil {
		return err
	}
	for i, c := range store.All() {
		fmt.Printf("%d. %s (%s)\n", i+1, c.Name, c.Anchor)
	}
	if dups := store.DuplicateNames(); len(dups) > 0 {
		slog.Warn("duplicate category names", slog.Any("names", dups))
	}
	return nil
}

func addCategory(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := category.Open(cfg.Categories.Path)
	if errors.Is(err, apperr.ErrStoreUnavailable) {
		store, err = category.Create(cfg.Categories.Path, nil)
	}
	if err != nil {
		return err
	}
	c, err := store.Add(cmd.String("name"), cmd.String("anchor"))
	if err != nil {
		return err
	}
	fmt.Printf("Added new category: %s (%s)\n", c.Name, c.Anchor)
	return nil
}

func listDrafts(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	found, err := drafts.Discover(cfg.Drafts.Dir, cfg.Drafts.Category)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Printf("No drafts with category %q in %s\n", cfg.Drafts.Category, cfg.Drafts.Dir)
		return nil
	}
	for _, d := range found {
		fmt.Println(d.Label())
	}
	return nil
}

func writeTemplate(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("template: expected exactly one PATH argument")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	_, store, err := openService(cfg)
	if err != nil {
		return err
	}
	path := cmd.Args().First()
	if err := drafts.WriteTemplate(path, cfg.Drafts.Category, store.All()); err != nil {
		return err
	}
	fmt.Printf("Created blog template: %s\n", path)
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Serve(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func main() {
	cmd := &cli.Command{
		Name:    "linkblog",
		Usage:   "Add curated links to the category sections of Markdown blog drafts",
		Version: version,
		Action:  runAdd,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "categories",
				Usage:   "Path to the categories JSON file",
				Sources: cli.EnvVars("LINKBLOG_CATEGORIES"),
			},
			&cli.StringFlag{
				Name:    "drafts",
				Usage:   "Drafts directory searched for target documents",
				Sources: cli.EnvVars("LINKBLOG_DRAFTS_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Diagnostic log used in browser mode",
				Sources: cli.EnvVars("LINKBLOG_LOG_FILE"),
			},
			&cli.StringFlag{Name: "url", Usage: "URL to add"},
			&cli.StringFlag{Name: "title", Usage: "Link title"},
			&cli.StringFlag{Name: "selected", Usage: "Selected text used as link text (optional)"},
			&cli.StringFlag{Name: "blog", Usage: "Target draft path (optional)"},
			&cli.BoolFlag{Name: "browser", Usage: "Browser mode: use native dialogs instead of the terminal"},
		},
		Commands: []*cli.Command{
			{
				Name:  "categories",
				Usage: "Manage categories",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List categories in display order",
						Action: listCategories,
					},
					{
						Name:  "add",
						Usage: "Append a category",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
							&cli.StringFlag{Name: "anchor", Usage: "Section anchor (derived from the name when empty)"},
						},
						Action: addCategory,
					},
				},
			},
			{
				Name:   "drafts",
				Usage:  "List drafts carrying the configured category",
				Action: listDrafts,
			},
			{
				Name:      "template",
				Usage:     "Write an empty draft with one section per category",
				ArgsUsage: "PATH",
				Action:    writeTemplate,
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP endpoint for bookmarklets",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
