package digest

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ppiankov/grazer/internal/platform"
)

// TerminalFormatter formats a digest for terminal output.
type TerminalFormatter struct {
	color bool
}

// NewTerminal creates a terminal formatter. Set color=true for ANSI colors.
func NewTerminal(color bool) *TerminalFormatter {
	return &TerminalFormatter{color: color}
}

// Format writes one block per platform section.
func (f *TerminalFormatter) Format(w io.Writer, input Input) error {
	sections := Sections(input)

	header := fmt.Sprintf("grazer — %d items from %d platforms", total(sections), nonEmpty(sections))
	fmt.Fprintln(w, f.bold(header))
	fmt.Fprintln(w)

	if len(input.Trending) > 0 {
		fmt.Fprintln(w, f.bold("--- Trending ---"))
		fmt.Fprintln(w)
		for _, tr := range input.Trending {
			fmt.Fprintf(w, "  %s — on %d platforms\n",
				f.bold(fmt.Sprintf("%q", tr.Keyword)), len(tr.Platforms))
			fmt.Fprintf(w, "    %s\n", f.dim(strings.Join(tr.Platforms, ", ")))
		}
		fmt.Fprintln(w)
	}

	if total(sections) == 0 && len(input.Result.Errors) == 0 {
		fmt.Fprintln(w, "No content found.")
		return nil
	}

	for _, s := range sections {
		if len(s.Entries) == 0 {
			continue
		}
		fmt.Fprintln(w, f.green(f.bold(fmt.Sprintf("--- %s (%d) ---", s.Title, len(s.Entries)))))
		fmt.Fprintln(w)
		for _, e := range s.Entries {
			f.writeEntry(w, e)
		}
	}

	if len(input.Result.Errors) > 0 {
		fmt.Fprintln(w, f.yellow(f.bold("--- Errors ---")))
		names := make([]string, 0, len(input.Result.Errors))
		for name := range input.Result.Errors {
			names = append(names, string(name))
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %s\n", name, f.dim(input.Result.Errors[platform.Name(name)]))
		}
		fmt.Fprintln(w)
	}

	return nil
}

func (f *TerminalFormatter) writeEntry(w io.Writer, e Entry) {
	fmt.Fprintf(w, "  %s\n", f.bold(e.Title))

	detail := e.Meta
	if e.Author != "" {
		detail = join("by "+e.Author, e.Meta)
	}
	if detail != "" {
		fmt.Fprintf(w, "    %s\n", detail)
	}
	if e.URL != "" {
		fmt.Fprintf(w, "    %s\n", f.dim(e.URL))
	}
	fmt.Fprintln(w)
}

// ANSI helpers, no-op when color=false.

func (f *TerminalFormatter) bold(s string) string {
	if !f.color {
		return s
	}
	return "\033[1m" + s + "\033[0m"
}

func (f *TerminalFormatter) green(s string) string {
	if !f.color {
		return s
	}
	return "\033[32m" + s + "\033[0m"
}

func (f *TerminalFormatter) yellow(s string) string {
	if !f.color {
		return s
	}
	return "\033[33m" + s + "\033[0m"
}

func (f *TerminalFormatter) dim(s string) string {
	if !f.color {
		return s
	}
	return "\033[2m" + s + "\033[0m"
}
