// Package apperr holds the sentinel errors shared by every entry point.
package apperr

import "errors"

var (
	ErrStoreUnavailable = errors.New("category store unavailable")
	ErrSectionNotFound  = errors.New("section not found")
	ErrDuplicateLink    = errors.New("link already exists")
	ErrTargetNotFound   = errors.New("target document not found")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrDialogFailure    = errors.New("dialog failed")
	ErrDialogCancelled  = errors.New("dialog cancelled")
	ErrInvalidLink      = errors.New("invalid link")
	ErrConflict         = errors.New("conflict")
)
