package mcpserver

// LinkFormatContract describes how drafts are laid out and what a link
// line looks like.
const LinkFormatContract = `# Link Blog Format

A draft is a Markdown file with YAML front matter. Drafts that take links
carry the configured category value, e.g. ` + "`" + `category: "Curated Insights"` + "`" + `.

## Sections

Each category has one section. Its heading carries an HTML anchor marker:

` + "```" + `markdown
## DevOps, Observability & Security<a name="devops"></a>
` + "```" + `

The marker may also stand on its own line directly above the heading.
A section runs until the next line starting with ` + "`" + `#` + "`" + `.

## Link lines

` + "```" + `markdown
- [TEXT](URL){:target="_blank"}
` + "```" + `

- TEXT is the selected quote when one was given, otherwise the page title.
- New links go after the last link line of the section, or right below the
  heading when the section is empty.
- A URL that already appears anywhere in the draft is not added again.
- Bytes outside the touched section are never changed.
`
