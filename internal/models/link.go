package models

import (
	"fmt"
	"strings"
)

// Link is the data a caller supplies for one curated link. It is never
// persisted as an object; only its formatted line ends up in a draft.
type Link struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Selected string `json:"selected,omitempty"`
}

// Text is the visible link text: the selected text when it has content,
// otherwise the title.
func (l Link) Text() string {
	if strings.TrimSpace(l.Selected) != "" {
		return l.Selected
	}
	return l.Title
}

// Line formats the link as a draft bullet: - [TEXT](URL){:target="_blank"}
func (l Link) Line() string {
	return fmt.Sprintf(`- [%s](%s){:target="_blank"}`, l.Text(), l.URL)
}
