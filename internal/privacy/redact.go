// Package privacy masks credentials in text before it is shown or logged.
package privacy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

// minSecretLen keeps very short values from masking ordinary words.
const minSecretLen = 6

// DefaultPatterns catch credentials that leak through URLs and headers.
var DefaultPatterns = []string{
	`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`,
	`(?i)([?&](?:key|api_key|token)=)[^&\s"]+`,
}

// Compile compiles a list of regex pattern strings into compiled regexps.
// Returns an error if any pattern is invalid.
func Compile(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile redact pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Redactor masks pattern matches and known secret values.
type Redactor struct {
	patterns []*regexp.Regexp
	secrets  []string
}

// NewRedactor compiles DefaultPatterns plus extra and remembers secrets.
func NewRedactor(extra []string, secrets []string) (*Redactor, error) {
	patterns, err := Compile(append(append([]string{}, DefaultPatterns...), extra...))
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s = strings.TrimSpace(s); len(s) >= minSecretLen {
			kept = append(kept, s)
		}
	}
	// Longest first so a secret containing another is masked whole.
	sort.Slice(kept, func(i, j int) bool { return len(kept[i]) > len(kept[j]) })

	return &Redactor{patterns: patterns, secrets: kept}, nil
}

// Redact masks everything the redactor knows about. A nil Redactor returns
// text unchanged.
func (r *Redactor) Redact(text string) string {
	if r == nil {
		return text
	}
	for _, s := range r.secrets {
		text = strings.ReplaceAll(text, s, redactedPlaceholder)
	}
	return Apply(text, r.patterns)
}

// Apply replaces all matches of the compiled patterns in text with [REDACTED].
// A first capture group, when present, is kept.
func Apply(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if re.NumSubexp() > 0 {
			text = re.ReplaceAllString(text, "${1}"+redactedPlaceholder)
			continue
		}
		text = re.ReplaceAllString(text, redactedPlaceholder)
	}
	return text
}
