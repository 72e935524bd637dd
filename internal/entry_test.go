package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/starford/linkblog/internal/apperr"
)

func TestServeRequiresConfig(t *testing.T) {
	if err := Serve(context.Background()); !errors.Is(err, errConfigRequired) {
		t.Fatalf("Serve() err = %v, want errConfigRequired", err)
	}
	if err := ServeMCP(context.Background()); !errors.Is(err, errConfigRequired) {
		t.Fatalf("ServeMCP() err = %v, want errConfigRequired", err)
	}
}

func TestServeMissingCategories(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Categories.Path = filepath.Join(t.TempDir(), "missing.json")

	err := ServeMCP(context.Background(), WithConfig(cfg))
	if !errors.Is(err, apperr.ErrStoreUnavailable) {
		t.Fatalf("ServeMCP() err = %v, want ErrStoreUnavailable", err)
	}
}

func TestNewApplicationDefaultsVersion(t *testing.T) {
	app, err := newApplication([]Option{WithConfig(NewDefaultConfig())})
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	if app.version != "dev" {
		t.Errorf("version = %q, want dev", app.version)
	}
}
