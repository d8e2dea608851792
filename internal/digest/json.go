package digest

import (
	"encoding/json"
	"io"
)

type jsonDigest struct {
	Meta      jsonMeta           `json:"meta"`
	Trending  []Trend            `json:"trending,omitempty"`
	Platforms map[string][]Entry `json:"platforms"`
	Errors    map[string]string  `json:"errors,omitempty"`
}

type jsonMeta struct {
	Platforms int `json:"platforms"`
	Total     int `json:"total"`
}

// JSONFormatter formats a digest as JSON.
type JSONFormatter struct{}

// NewJSON creates a JSON formatter.
func NewJSON() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the digest as JSON to w. Every requested platform has a key,
// with an empty list when nothing was found.
func (f *JSONFormatter) Format(w io.Writer, input Input) error {
	sections := Sections(input)

	out := jsonDigest{
		Meta:      jsonMeta{Platforms: nonEmpty(sections), Total: total(sections)},
		Trending:  input.Trending,
		Platforms: make(map[string][]Entry, len(sections)),
	}
	for _, s := range sections {
		out.Platforms[string(s.Platform)] = s.Entries
		if s.Error != "" {
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[string(s.Platform)] = s.Error
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
