package digest

import (
	"sort"
	"strings"
)

// Trend is a keyword or URL seen on several platforms.
type Trend struct {
	Keyword   string   `json:"keyword"`
	Platforms []string `json:"platforms"`
}

// FindTrending reports watch keywords, and URLs, that appear on minPlatforms
// or more distinct platforms. minPlatforms below 2 is treated as 2.
func FindTrending(input Input, keywords []string, minPlatforms int) []Trend {
	if minPlatforms < 2 {
		minPlatforms = 2
	}

	keywords = dedupeKeywords(keywords)
	kwPlatforms := make(map[string]map[string]bool)
	urlPlatforms := make(map[string]map[string]bool)

	for _, section := range Sections(Input{Result: input.Result, Feeds: input.Feeds}) {
		name := string(section.Platform)
		for _, e := range section.Entries {
			text := strings.ToLower(e.Text)
			for _, kw := range keywords {
				if strings.Contains(text, strings.ToLower(kw)) {
					add(kwPlatforms, kw, name)
				}
			}
			if e.URL != "" {
				add(urlPlatforms, e.URL, name)
			}
		}
	}

	seen := make(map[string]bool)
	var trends []Trend
	for kw, names := range kwPlatforms {
		if len(names) < minPlatforms {
			continue
		}
		trends = append(trends, Trend{Keyword: kw, Platforms: sortedKeys(names)})
		seen[kw] = true
	}
	for url, names := range urlPlatforms {
		if len(names) < minPlatforms || seen[url] {
			continue
		}
		trends = append(trends, Trend{Keyword: url, Platforms: sortedKeys(names)})
	}

	sort.Slice(trends, func(i, j int) bool {
		if len(trends[i].Platforms) != len(trends[j].Platforms) {
			return len(trends[i].Platforms) > len(trends[j].Platforms)
		}
		return trends[i].Keyword < trends[j].Keyword
	})
	return trends
}

func dedupeKeywords(keywords []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		lower := strings.ToLower(kw)
		if kw == "" || seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, kw)
	}
	return out
}

func add(m map[string]map[string]bool, key string, name string) {
	if m[key] == nil {
		m[key] = make(map[string]bool)
	}
	m[key][name] = true
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

