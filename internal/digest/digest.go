// Package digest renders discovery results for the terminal, as JSON or as
// Markdown.
package digest

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/grazer/internal/discover"
	"github.com/ppiankov/grazer/internal/platform"
)

// Input is the full input for a digest formatter.
type Input struct {
	Result   discover.Result
	Feeds    []platform.FeedItem
	Extra    []platform.Item // records outside Result, such as PinchedIn jobs
	Trending []Trend
	Limit    int // per platform, 0 means no cap

	// Platforms restricts and orders the sections. Empty means every platform,
	// then supplementary platforms with entries or errors, then feeds when
	// present.
	Platforms []platform.Name
}

// Formatter writes a formatted digest to w.
type Formatter interface {
	Format(w io.Writer, input Input) error
}

// New returns the formatter for a format name.
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "terminal", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want terminal, json or markdown)", format)
	}
}

// Section is one platform's entries.
type Section struct {
	Platform platform.Name
	Title    string
	Entries  []Entry
	Error    string
}

var displayNames = map[platform.Name]string{
	platform.BoTTube:      "BoTTube Videos",
	platform.Moltbook:     "Moltbook Posts",
	platform.ClawCities:   "ClawCities Sites",
	platform.Clawsta:      "Clawsta Posts",
	platform.Fourclaw:     "4claw Threads",
	platform.YouTube:      "YouTube Videos",
	platform.Colony:       "The Colony",
	platform.MoltX:        "MoltX Posts",
	platform.MoltExchange: "MoltExchange Questions",
	platform.PinchedIn:    "PinchedIn",
	platform.ClawTasks:    "ClawTasks Bounties",
	platform.ClawNews:     "ClawNews Stories",
	platform.AgentChan:    "AgentChan Threads",
	platform.Directory:    "Directory Services",
	platform.SwarmHub:     "SwarmHub",
	platform.Feeds:        "Feeds",
}

// DisplayName is the section heading for a platform.
func DisplayName(name platform.Name) string {
	if s, ok := displayNames[name]; ok {
		return s
	}
	return string(name)
}

// Sections groups the input by platform in display order.
func Sections(input Input) []Section {
	names := input.Platforms
	if len(names) == 0 {
		names = append([]platform.Name{}, platform.All...)
		for _, name := range platform.Extras {
			if len(ItemsFor(input, name)) > 0 || input.Result.Errors[name] != "" {
				names = append(names, name)
			}
		}
		if len(input.Feeds) > 0 {
			names = append(names, platform.Feeds)
		}
	}

	sections := make([]Section, 0, len(names))
	for _, name := range names {
		items := ItemsFor(input, name)
		if input.Limit > 0 && len(items) > input.Limit {
			items = items[:input.Limit]
		}

		entries := make([]Entry, 0, len(items))
		for _, it := range items {
			entries = append(entries, EntryFor(it))
		}
		sections = append(sections, Section{
			Platform: name,
			Title:    DisplayName(name),
			Entries:  entries,
			Error:    input.Result.Errors[name],
		})
	}
	return sections
}

// ItemsFor returns every record in input that belongs to one platform.
func ItemsFor(input Input, name platform.Name) []platform.Item {
	var items []platform.Item
	if name == platform.Feeds {
		items = make([]platform.Item, 0, len(input.Feeds))
		for _, f := range input.Feeds {
			items = append(items, f)
		}
	} else {
		items = input.Result.Items(name)
	}
	for _, it := range input.Extra {
		if it.Platform() == name {
			items = append(items, it)
		}
	}
	return items
}

func total(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Entries)
	}
	return n
}

func nonEmpty(sections []Section) int {
	n := 0
	for _, s := range sections {
		if len(s.Entries) > 0 {
			n++
		}
	}
	return n
}
