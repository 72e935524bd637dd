// Package dialog abstracts the native pick-list, text prompt and
// notification used by the dialog-driven mode.
package dialog

import "context"

// Chooser presents a single-choice list and returns the chosen item.
// A user cancel is reported as apperr.ErrDialogCancelled.
type Chooser interface {
	Choose(ctx context.Context, title, prompt string, items []string) (string, error)
}

// Asker prompts for one line of text.
// A user cancel is reported as apperr.ErrDialogCancelled.
type Asker interface {
	Ask(ctx context.Context, title, prompt string) (string, error)
}

// Notifier shows a short, non-blocking notification.
type Notifier interface {
	Notify(ctx context.Context, title, message string) error
}

// UI bundles every dialog capability.
type UI interface {
	Chooser
	Asker
	Notifier
}
