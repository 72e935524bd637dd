package drafts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/inserter"
	"github.com/starford/linkblog/internal/models"
	"github.com/starford/linkblog/internal/parser"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover_FiltersByCategory(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.md", "---\ntitle: \"Week 1\"\ncategory: \"Curated Insights\"\n---\n")
	write(t, dir, "b.markdown", "---\ncategory: \"Curated Insights\"\n---\n")
	write(t, dir, "c.md", "---\ntitle: \"Other\"\ncategory: \"Essays\"\n---\n")
	write(t, dir, "d.txt", "category: \"Curated Insights\"\n")

	got, err := Discover(dir, "Curated Insights")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Filename != "a.md" || got[0].Title != "Week 1" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Filename != "b.markdown" || got[1].Title != "b.markdown" {
		t.Errorf("untitled draft should fall back to filename: %+v", got[1])
	}
	if !filepath.IsAbs(got[0].Path) {
		t.Errorf("path should be absolute: %q", got[0].Path)
	}
}

func TestDiscover_MissingDir(t *testing.T) {
	got, err := Discover(filepath.Join(t.TempDir(), "nope"), "Curated Insights")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no drafts, got %+v", got)
	}
}

func TestTemplate_HasEveryAnchorAndCategory(t *testing.T) {
	cats := []models.Category{
		{ID: "agile", Name: "Agile", Anchor: "agile"},
		{ID: "tools", Name: "Tools", Anchor: "tools"},
	}
	doc := Template(DefaultTitle, "Curated Insights", cats)
	if !parser.HasCategory([]byte(doc), "Curated Insights") {
		t.Error("template is not discoverable by its category")
	}
	for _, c := range cats {
		if _, err := inserter.Offset(doc, c.Anchor); err != nil {
			t.Errorf("anchor %s: %v", c.Anchor, err)
		}
	}
	if parser.Parse([]byte(doc)).Title != DefaultTitle {
		t.Error("template title not parsed")
	}
}

func TestWriteTemplate_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog_post.md")
	if err := WriteTemplate(path, "Curated Insights", nil); err != nil {
		t.Fatalf("WriteTemplate: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "---\n") {
		t.Errorf("unexpected content %q", data)
	}
	if err := WriteTemplate(path, "Curated Insights", nil); err == nil {
		t.Error("expected error on overwrite")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Dir: dir, Category: "Curated Insights", DefaultFile: "linkblog.md"}
	target, found, err := cfg.Resolve()
	if err != nil || target != filepath.Join(dir, "linkblog.md") || len(found) != 0 {
		t.Fatalf("empty dir: %q %v %v", target, found, err)
	}

	write(t, dir, "a.md", "---\ncategory: \"Curated Insights\"\n---\n")
	target, _, err = cfg.Resolve()
	if err != nil || filepath.Base(target) != "a.md" {
		t.Fatalf("single draft: %q %v", target, err)
	}

	write(t, dir, "b.md", "---\ncategory: \"Curated Insights\"\n---\n")
	target, found, err = cfg.Resolve()
	if err != nil || target != "" || len(found) != 2 {
		t.Fatalf("two drafts: %q %v %v", target, found, err)
	}
}

func TestTarget(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Dir: dir, Category: "Curated Insights", DefaultFile: "linkblog.md"}

	got, _, err := cfg.Target("week.md")
	if err != nil || got != filepath.Join(dir, "week.md") {
		t.Errorf("Target(week.md) = %q, %v", got, err)
	}
	if _, _, err := cfg.Target("../escape.md"); !errors.Is(err, apperr.ErrInvalidSelection) {
		t.Errorf("traversal err = %v, want ErrInvalidSelection", err)
	}
	missing := Config{Dir: filepath.Join(dir, "nope")}
	if _, _, err := missing.Target("a.md"); !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Errorf("missing dir err = %v, want ErrTargetNotFound", err)
	}
}
