// Package models defines the domain types for linkblog.
package models

// Category is one section of a link-blog draft.
// Anchor is matched literally against the section marker in a document.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Anchor string `json:"anchor"`
}

// SectionMarker returns the literal marker that identifies the section
// with the given anchor in a draft.
func SectionMarker(anchor string) string {
	return `<a name="` + anchor + `"></a>`
}

// Marker returns the section marker that identifies this category in a draft.
func (c Category) Marker() string {
	return SectionMarker(c.Anchor)
}
