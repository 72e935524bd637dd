// Package parser reads the front matter of a draft.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// looseTitleRe matches a quoted title field anywhere in a document, for
// drafts whose front matter does not parse as YAML.
var looseTitleRe = regexp.MustCompile(`title:\s*["'](.+?)["']`)

// Result holds the output of parsing a draft.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
	Category    string
}

// Parse extracts front matter, body, title and category from raw Markdown bytes.
func Parse(data []byte) *Result {
	fm, body := splitFrontmatter(data)
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, data),
		Category:    stringField(fm, "category"),
	}
}

// HasCategory reports whether data is a draft of the given category, either
// through its parsed front matter or through the literal `category: "value"`
// line.
func HasCategory(data []byte, value string) bool {
	if value == "" {
		return false
	}
	if bytes.Contains(data, []byte(fmt.Sprintf("category: %q", value))) {
		return true
	}
	fm, _ := splitFrontmatter(data)
	return stringField(fm, "category") == value
}

// splitFrontmatter separates YAML front matter (between leading --- delimiters)
// from the Markdown body. If no front matter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, string(data)
	}
	return fm, body
}

// deriveTitle returns the front matter "title" if present, otherwise the
// first quoted title field found by a loose match, otherwise "".
func deriveTitle(fm map[string]any, data []byte) string {
	if t := stringField(fm, "title"); t != "" {
		return t
	}
	if m := looseTitleRe.FindSubmatch(data); m != nil {
		return string(m[1])
	}
	return ""
}

func stringField(fm map[string]any, key string) string {
	if fm == nil {
		return ""
	}
	if s, ok := fm[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
