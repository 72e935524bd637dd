package linkservice

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/models"
	"github.com/starford/linkblog/internal/storage"
	"github.com/starford/linkblog/internal/testutil"
)

func testService(t *testing.T) (*Service, string) {
	t.Helper()
	svc := NewService(testutil.TestStore(t))
	target := testutil.WriteDraft(t, t.TempDir(), "linkblog.md", testutil.Draft)
	return svc, target
}

func request(t *testing.T, svc *Service, key, url, target string) AddRequest {
	t.Helper()
	c, err := svc.FindCategory(context.Background(), key)
	if err != nil {
		t.Fatalf("FindCategory: %v", err)
	}
	return AddRequest{
		Link:     models.Link{URL: url, Title: "A post"},
		Category: c,
		Target:   target,
	}
}

func TestAddLink_EmptySection(t *testing.T) {
	svc, target := testService(t)
	res, err := svc.AddLink(context.Background(), request(t, svc, "agile", "https://a.example/1", target))
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	got := testutil.ReadFile(t, target)
	want := strings.Replace(testutil.Draft,
		"## Agile, Leadership and Product<a name=\"agile\"></a>\n",
		"## Agile, Leadership and Product<a name=\"agile\"></a>\n\n"+res.Line, 1)
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
	if res.Checksum == "" || res.Category.ID != "agile" {
		t.Errorf("result = %+v", res)
	}
}

func TestAddLink_AfterExistingLink(t *testing.T) {
	svc, target := testService(t)
	res, err := svc.AddLink(context.Background(), request(t, svc, "devops", "https://b.example/2", target))
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	got := testutil.ReadFile(t, target)
	existing := `- [Existing](https://existing.example/post){:target="_blank"}`
	if !strings.Contains(got, existing+"\n"+res.Line+"\n\n## Tools") {
		t.Errorf("link not placed after the existing one:\n%s", got)
	}
}

func TestAddLink_DuplicateLeavesFileIdentical(t *testing.T) {
	svc, target := testService(t)
	req := request(t, svc, "tools", "https://c.example/3", target)
	if _, err := svc.AddLink(context.Background(), req); err != nil {
		t.Fatalf("first AddLink: %v", err)
	}
	before := testutil.ReadFile(t, target)

	_, err := svc.AddLink(context.Background(), req)
	if !errors.Is(err, apperr.ErrDuplicateLink) {
		t.Fatalf("err = %v, want ErrDuplicateLink", err)
	}
	after := testutil.ReadFile(t, target)
	if after != before {
		t.Error("document changed on duplicate insertion")
	}
	if n := strings.Count(after, "https://c.example/3"); n != 1 {
		t.Errorf("URL occurs %d times, want 1", n)
	}
}

func TestAddLink_SectionNotFound(t *testing.T) {
	svc, target := testService(t)
	req := AddRequest{
		Link:     models.Link{URL: "https://d.example", Title: "D"},
		Category: models.Category{ID: "missing", Name: "Missing", Anchor: "missing"},
		Target:   target,
	}
	_, err := svc.AddLink(context.Background(), req)
	if !errors.Is(err, apperr.ErrSectionNotFound) {
		t.Fatalf("err = %v, want ErrSectionNotFound", err)
	}
	if testutil.ReadFile(t, target) != testutil.Draft {
		t.Error("document changed although the section is missing")
	}
}

func TestAddLink_IfMatchStaleChecksum(t *testing.T) {
	svc, target := testService(t)
	req := request(t, svc, "tools", "https://g.example", target)
	req.IfMatch = storage.Checksum([]byte(testutil.Draft))

	// Someone else saves the draft after the caller read it.
	edited := testutil.Draft + "\nEdited elsewhere.\n"
	testutil.WriteDraft(t, filepath.Dir(target), filepath.Base(target), edited)

	_, err := svc.AddLink(context.Background(), req)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if testutil.ReadFile(t, target) != edited {
		t.Error("document overwritten despite checksum mismatch")
	}
}

func TestAddLink_IfMatchCurrentChecksum(t *testing.T) {
	svc, target := testService(t)
	first, err := svc.AddLink(context.Background(), request(t, svc, "tools", "https://h.example", target))
	if err != nil {
		t.Fatalf("first AddLink: %v", err)
	}

	req := request(t, svc, "agile", "https://i.example", target)
	req.IfMatch = first.Checksum
	second, err := svc.AddLink(context.Background(), req)
	if err != nil {
		t.Fatalf("AddLink with current checksum: %v", err)
	}
	if second.Checksum == first.Checksum {
		t.Error("checksum unchanged after write")
	}
}

func TestAddLink_TargetNotFound(t *testing.T) {
	svc, _ := testService(t)
	missing := filepath.Join(t.TempDir(), "nope.md")
	_, err := svc.AddLink(context.Background(), request(t, svc, "tools", "https://e.example", missing))
	if !errors.Is(err, apperr.ErrTargetNotFound) {
		t.Fatalf("err = %v, want ErrTargetNotFound", err)
	}
}

func TestAddLink_InvalidLink(t *testing.T) {
	svc, target := testService(t)
	req := request(t, svc, "tools", "", target)
	_, err := svc.AddLink(context.Background(), req)
	if !errors.Is(err, apperr.ErrInvalidLink) {
		t.Fatalf("err = %v, want ErrInvalidLink", err)
	}
}

func TestAddLink_UsesSelectedText(t *testing.T) {
	svc, target := testService(t)
	req := request(t, svc, "tools", "https://f.example", target)
	req.Link.Selected = "quoted words"
	res, err := svc.AddLink(context.Background(), req)
	if err != nil {
		t.Fatalf("AddLink: %v", err)
	}
	if res.Line != `- [quoted words](https://f.example){:target="_blank"}` {
		t.Errorf("line = %q", res.Line)
	}
}

func TestFindCategory_Unknown(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.FindCategory(context.Background(), "nope")
	if !errors.Is(err, apperr.ErrInvalidSelection) {
		t.Fatalf("err = %v, want ErrInvalidSelection", err)
	}
}

func TestCreateCategory(t *testing.T) {
	svc, _ := testService(t)
	c, err := svc.CreateCategory(context.Background(), "Dev Ops", "")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.Anchor != "dev-ops" {
		t.Errorf("anchor = %q", c.Anchor)
	}
	cats := svc.Categories(context.Background())
	if cats[len(cats)-1] != c {
		t.Errorf("new category not last: %+v", cats)
	}
}
