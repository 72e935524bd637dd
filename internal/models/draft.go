package models

import "time"

// Draft is a candidate target document found in the drafts directory.
type Draft struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

// Label is the text shown for a draft in a picker.
func (d Draft) Label() string {
	return d.Filename + " - " + d.Title
}

// FileMetadata is a lightweight description of a file returned by listings.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
