package dialog

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/starford/linkblog/internal/apperr"
)

// RunFunc executes an AppleScript program and returns its trimmed stdout.
type RunFunc func(ctx context.Context, script string) (string, error)

// OSAScript implements UI with macOS osascript.
type OSAScript struct {
	run RunFunc
}

var _ UI = (*OSAScript)(nil)

// NewOSAScript returns an OSAScript. A nil run uses the osascript binary.
func NewOSAScript(run RunFunc) *OSAScript {
	if run == nil {
		run = runOSAScript
	}
	return &OSAScript{run: run}
}

// Choose shows a list picker with the first item preselected.
func (o *OSAScript) Choose(ctx context.Context, title, prompt string, items []string) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("%w: nothing to choose from", apperr.ErrDialogFailure)
	}
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = quote(it)
	}
	script := fmt.Sprintf(`tell application "System Events"
	activate
	set itemList to {%s}
	set chosen to choose from list itemList with title %s with prompt %s default items {item 1 of itemList} without multiple selections allowed
	if chosen is false then
		return ""
	else
		return item 1 of chosen
	end if
end tell`, strings.Join(quoted, ", "), quote(title), quote(prompt))

	out, err := o.run(ctx, script)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", apperr.ErrDialogCancelled
	}
	return out, nil
}

// Ask shows a text-entry dialog with an empty default answer.
func (o *OSAScript) Ask(ctx context.Context, title, prompt string) (string, error) {
	script := fmt.Sprintf(`tell application "System Events"
	activate
	return text returned of (display dialog %s default answer "" with title %s)
end tell`, quote(prompt), quote(title))
	return o.run(ctx, script)
}

// Notify shows a notification banner.
func (o *OSAScript) Notify(ctx context.Context, title, message string) error {
	_, err := o.run(ctx, fmt.Sprintf("display notification %s with title %s", quote(message), quote(title)))
	return err
}

// quote renders s as an AppleScript string literal.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func runOSAScript(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		// -128 is AppleScript's "User canceled."
		if strings.Contains(msg, "(-128)") {
			return "", apperr.ErrDialogCancelled
		}
		return "", fmt.Errorf("%w: osascript: %v: %s", apperr.ErrDialogFailure, err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}
