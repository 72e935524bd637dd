// Package inserter splices a formatted link line into the section of a
// draft identified by an anchor marker.
//
// Location is purely literal: the marker is found by substring search and
// the section is scanned line by line. Links that span lines or bullets in
// another shape are not recognised.
package inserter

import (
	"fmt"
	"strings"

	"github.com/starford/linkblog/internal/apperr"
	"github.com/starford/linkblog/internal/models"
)

const (
	// HeadingPrefix starts every section header line.
	HeadingPrefix = "#"
	// BulletPrefix starts every link bullet once leading space is trimmed.
	BulletPrefix = "- ["
)

// Marker returns the literal section marker for anchor.
func Marker(anchor string) string {
	return models.SectionMarker(anchor)
}

// Insert returns doc with line spliced into the section marked by anchor.
// When the marker is absent, doc is returned unchanged together with an
// error wrapping apperr.ErrSectionNotFound.
func Insert(doc, anchor, line string) (string, error) {
	off, err := Offset(doc, anchor)
	if err != nil {
		return doc, err
	}
	return doc[:off] + "\n" + line + doc[off:], nil
}

// ContainsURL reports whether url already appears anywhere in doc.
func ContainsURL(doc, url string) bool {
	return url != "" && strings.Contains(doc, url)
}

// Offset computes where a new link line goes:
//   - right after the last link bullet of the section, if there is one
//   - otherwise right after the header line's newline, or on that newline
//     when text follows it directly, so the new line never runs into the
//     following line
//   - otherwise (no newline after the marker) at the marker itself
func Offset(doc, anchor string) (int, error) {
	marker := Marker(anchor)
	pos := strings.Index(doc, marker)
	if pos < 0 {
		return 0, fmt.Errorf("%w: %s", apperr.ErrSectionNotFound, anchor)
	}

	body := headerEnd(doc, pos, pos+len(marker))
	if body < 0 {
		// Marker ends the document's last line; the section has no body.
		if last := lastBulletEnd(doc, pos+len(marker), len(doc)); last >= 0 {
			return last, nil
		}
		return pos, nil
	}

	if last := lastBulletEnd(doc, body, sectionEnd(doc, body)); last >= 0 {
		return last, nil
	}
	if body < len(doc) && doc[body] != '\n' {
		return body - 1, nil
	}
	return body, nil
}

// headerEnd returns the index just past the header line of the section
// whose marker spans [start, end). The header is the marker's own line when
// that line is a heading, or the following line when the marker stands
// alone before a heading. It returns -1 when no newline follows the marker.
func headerEnd(doc string, start, end int) int {
	nl := strings.IndexByte(doc[end:], '\n')
	if nl < 0 {
		return -1
	}
	lineEnd := end + nl
	lineStart := strings.LastIndexByte(doc[:start], '\n') + 1

	if isHeading(doc[lineStart:lineEnd]) {
		return lineEnd + 1
	}

	next := lineEnd + 1
	nextEnd := strings.IndexByte(doc[next:], '\n')
	if nextEnd < 0 {
		if next < len(doc) && isHeading(doc[next:]) {
			return len(doc)
		}
		return next
	}
	if isHeading(doc[next : next+nextEnd]) {
		return next + nextEnd + 1
	}
	return next
}

// sectionEnd returns the start of the first heading line at or after from,
// or len(doc) when the section runs to the end of the document.
func sectionEnd(doc string, from int) int {
	for i := from; i < len(doc); {
		nl := strings.IndexByte(doc[i:], '\n')
		end := len(doc)
		if nl >= 0 {
			end = i + nl
		}
		if isHeading(doc[i:end]) {
			return i
		}
		if nl < 0 {
			break
		}
		i = end + 1
	}
	return len(doc)
}

// lastBulletEnd returns the end (before its newline) of the last link
// bullet line within [from, to), or -1 if there is none.
func lastBulletEnd(doc string, from, to int) int {
	last := -1
	for i := from; i < to; {
		nl := strings.IndexByte(doc[i:to], '\n')
		end := to
		if nl >= 0 {
			end = i + nl
		}
		if strings.HasPrefix(strings.TrimSpace(doc[i:end]), BulletPrefix) {
			last = end
		}
		if nl < 0 {
			break
		}
		i = end + 1
	}
	return last
}

func isHeading(line string) bool {
	return strings.HasPrefix(line, HeadingPrefix)
}
