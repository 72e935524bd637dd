package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/linkblog/internal/category"
	"github.com/starford/linkblog/internal/testutil"
)

func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestCategories_ReloadsOnExternalSave(t *testing.T) {
	store := testutil.TestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var counts []int
	go Categories(ctx, store, 50*time.Millisecond, quietLogger(), func(n int) {
		mu.Lock()
		counts = append(counts, n)
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	// A second handle writes the file the way another process would.
	other, err := category.Open(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Add("Dev Ops", ""); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return store.Len() == 4
	}, "store not reloaded after external change")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(counts) > 0 && counts[len(counts)-1] == 4
	}, "reload callback not called with new count")
}

func TestCategories_IgnoresOtherFiles(t *testing.T) {
	store := testutil.TestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	calls := 0
	go Categories(ctx, store, 50*time.Millisecond, quietLogger(), func(int) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	time.Sleep(100 * time.Millisecond)

	testutil.WriteDraft(t, filepath.Dir(store.Path()), "notes.md", "# unrelated")
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("callback called %d times for an unrelated file", calls)
	}
}

func TestCategories_BadFileKeepsPreviousList(t *testing.T) {
	store := testutil.TestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Categories(ctx, store, 50*time.Millisecond, quietLogger(), nil)
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(store.Path(), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if store.Len() != len(testutil.Categories) {
		t.Errorf("Len = %d after a bad write, want %d", store.Len(), len(testutil.Categories))
	}
}

func TestCategories_StopsOnCancel(t *testing.T) {
	store := testutil.TestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Categories(ctx, store, 0, quietLogger(), nil) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
