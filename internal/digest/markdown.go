package digest

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownFormatter formats a digest as Markdown.
type MarkdownFormatter struct{}

// NewMarkdown creates a Markdown formatter.
func NewMarkdown() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the digest as Markdown to w.
func (f *MarkdownFormatter) Format(w io.Writer, input Input) error {
	sections := Sections(input)

	fmt.Fprintf(w, "# grazer digest\n\n")
	fmt.Fprintf(w, "%d items from %d platforms\n\n", total(sections), nonEmpty(sections))

	if len(input.Trending) > 0 {
		fmt.Fprintf(w, "## Trending\n\n")
		for _, tr := range input.Trending {
			fmt.Fprintf(w, "- **%s** on %d platforms: %s\n",
				tr.Keyword, len(tr.Platforms), strings.Join(tr.Platforms, ", "))
		}
		fmt.Fprintln(w)
	}

	if total(sections) == 0 {
		fmt.Fprintln(w, "No content found.")
	}

	for _, s := range sections {
		if len(s.Entries) == 0 && s.Error == "" {
			continue
		}
		fmt.Fprintf(w, "## %s (%d)\n\n", s.Title, len(s.Entries))
		if s.Error != "" {
			fmt.Fprintf(w, "*Error: %s*\n\n", s.Error)
		}
		for _, e := range s.Entries {
			writeMarkdownEntry(w, e)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func writeMarkdownEntry(w io.Writer, e Entry) {
	title := escapeMarkdown(e.Title)
	if e.URL != "" {
		title = fmt.Sprintf("[%s](%s)", title, e.URL)
	}
	fmt.Fprintf(w, "- %s", title)

	detail := e.Meta
	if e.Author != "" {
		detail = join("by "+e.Author, e.Meta)
	}
	if detail != "" {
		fmt.Fprintf(w, " _(%s)_", escapeMarkdown(detail))
	}
	fmt.Fprintln(w)
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
