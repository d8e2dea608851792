package clawhub

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// UnknownAuthor is used for lines that carry no author.
const UnknownAuthor = "unknown"

var (
	// name vX desc (by author, N[k|m] downloads)
	attributedRe = regexp.MustCompile(`(?i)^(\S+)\s+v?(\S+)\s+(.+?)\s+\(by\s+([^,]+),\s*([\d.]+[km]?)\s*downloads?\)`)
	// name vX token desc
	looseRe = regexp.MustCompile(`^(\S+)\s+v?(\S+)\s+(\S+)\s+(.+)$`)

	columnGapRe = regexp.MustCompile(`\s{2,}`)
	downloadsRe = regexp.MustCompile(`(?i)^([\d.]+)\s*([km]?)(?:\s*downloads?)?$`)
)

// Skill is one registry entry parsed from CLI output.
type Skill struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Downloads   int64  `json:"downloads"`
}

// URL is the skill's registry page.
func (s Skill) URL() string {
	return "https://clawhub.ai/" + s.Name
}

// ParseLine parses one line of clawdhub output. It reports false for blank
// or unrecognised lines.
func ParseLine(line string) (Skill, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Skill{}, false
	}

	if m := attributedRe.FindStringSubmatch(line); m != nil {
		return Skill{
			Name:        m[1],
			Version:     m[2],
			Description: lastColumn(m[3]),
			Author:      strings.TrimSpace(m[4]),
			Downloads:   ParseDownloads(m[5]),
		}, true
	}

	if m := looseRe.FindStringSubmatch(line); m != nil {
		return Skill{
			Name:        m[1],
			Version:     m[2],
			Description: strings.TrimSpace(m[4]),
			Author:      UnknownAuthor,
		}, true
	}
	return Skill{}, false
}

// lastColumn drops leading columns (such as a relative timestamp) separated
// from the description by runs of two or more spaces.
func lastColumn(s string) string {
	cols := columnGapRe.Split(strings.TrimSpace(s), -1)
	return strings.TrimSpace(cols[len(cols)-1])
}

// ParseDownloads converts counts like "500", "1.2k" or "3.5m downloads".
// Unparseable input yields 0; counts beyond int64 are clamped.
func ParseDownloads(s string) int64 {
	m := downloadsRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	switch strings.ToLower(m[2]) {
	case "k":
		n *= 1_000
	case "m":
		n *= 1_000_000
	}
	n = math.Round(n)
	switch {
	case math.IsNaN(n) || n < 0:
		return 0
	case n >= math.MaxInt64:
		return math.MaxInt64
	}
	return int64(n)
}

// ParseOutput parses every line of text, skipping blank and unmatched
// lines, and returns at most limit skills (all when limit <= 0).
func ParseOutput(text string, limit int) []Skill {
	skills := []Skill{}
	for _, line := range strings.Split(text, "\n") {
		s, ok := ParseLine(line)
		if !ok {
			continue
		}
		skills = append(skills, s)
		if limit > 0 && len(skills) == limit {
			break
		}
	}
	return skills
}
