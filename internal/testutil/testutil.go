// Package testutil provides shared test helpers: seeded category stores,
// draft files and scripted dialogs.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/category"
	"github.com/starford/linkblog/internal/models"
)

// Categories is the seed list used by TestStore.
var Categories = []models.Category{
	{ID: "agile", Name: "Agile, Leadership and Product", Anchor: "agile"},
	{ID: "devops", Name: "DevOps, Observability & Security", Anchor: "devops"},
	{ID: "tools", Name: "Tools and things from Github", Anchor: "tools"},
}

// Draft is a draft with one empty section per seed category.
const Draft = `---
layout: post
title: "Tech Digest: Curated Insights"
comments: false
category: "Curated Insights"
---

## Agile, Leadership and Product<a name="agile"></a>

## DevOps, Observability & Security<a name="devops"></a>
- [Existing](https://existing.example/post){:target="_blank"}

## Tools and things from Github<a name="tools"></a>
`

// TestStore writes the seed categories to a temp file and opens a store on it.
func TestStore(t *testing.T) *category.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.json")
	s, err := category.Create(path, Categories)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// WriteDraft writes content to dir/name and returns the path.
func WriteDraft(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// ReadFile returns the content of path as a string.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Notification is one recorded call to FakeUI.Notify.
type Notification struct {
	Title   string
	Message string
}

// FakeUI is a scripted dialog implementation. Choices and Answers are
// consumed in order; when a queue is empty the dialog reports a cancel.
// ChooseErr and AskErr, when set, are returned instead of a scripted value.
type FakeUI struct {
	mu            sync.Mutex
	Choices       []string
	Answers       []string
	ChooseErr     error
	AskErr        error
	Offered       [][]string
	Notifications []Notification
}

// Choose returns the next scripted choice and records the offered items.
func (f *FakeUI) Choose(_ context.Context, _, _ string, items []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Offered = append(f.Offered, append([]string(nil), items...))
	if f.ChooseErr != nil {
		return "", f.ChooseErr
	}
	if len(f.Choices) == 0 {
		return "", apperr.ErrDialogCancelled
	}
	c := f.Choices[0]
	f.Choices = f.Choices[1:]
	return c, nil
}

// Ask returns the next scripted answer.
func (f *FakeUI) Ask(_ context.Context, _, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AskErr != nil {
		return "", f.AskErr
	}
	if len(f.Answers) == 0 {
		return "", apperr.ErrDialogCancelled
	}
	a := f.Answers[0]
	f.Answers = f.Answers[1:]
	return a, nil
}

// Notify records the notification.
func (f *FakeUI) Notify(_ context.Context, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Notifications = append(f.Notifications, Notification{Title: title, Message: message})
	return nil
}

// Last returns the most recent notification.
func (f *FakeUI) Last() Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Notifications) == 0 {
		return Notification{}
	}
	return f.Notifications[len(f.Notifications)-1]
}
