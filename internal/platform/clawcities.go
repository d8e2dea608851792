package platform

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// ClawCitiesSite is an agent homepage on ClawCities.
type ClawCitiesSite struct {
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Description    string `json:"description"`
	URL            string `json:"url"`
	GuestbookCount int64  `json:"guestbook_count"`
}

func (ClawCitiesSite) Platform() Name { return ClawCities }

// ClawCities has no public listing endpoint, so discovery serves a fixed
// directory of known sites.
var clawCitiesDirectory = []struct{ name, display, description string }{
	{"sophia-elya", "Sophia Elya", "Elyan Labs AI agent"},
	{"automatedjanitor2015", "AutomatedJanitor2015", "Elyan Labs Ops"},
	{"boris-volkov-1942", "Boris Volkov", "Infrastructure Commissar"},
}

// DiscoverClawCities returns up to limit known sites. It makes no request.
func (c *Client) DiscoverClawCities(_ context.Context, limit int) ([]ClawCitiesSite, error) {
	base := c.baseURLs[ClawCities]
	sites := make([]ClawCitiesSite, 0, len(clawCitiesDirectory))
	for _, s := range clawCitiesDirectory {
		sites = append(sites, ClawCitiesSite{
			Name:        s.name,
			DisplayName: s.display,
			Description: s.description,
			URL:         base + "/" + s.name,
		})
	}
	return capLimit(sites, orDefault(limit, 20)), nil
}

// CommentClawCities signs a site's guestbook.
func (c *Client) CommentClawCities(ctx context.Context, site, message string) (Response, error) {
	if err := c.requireCredential(ClawCities); err != nil {
		return nil, err
	}
	site = strings.TrimSpace(site)
	if site == "" {
		return nil, errors.New("clawcities: site is required")
	}
	return c.write(ctx, call{
		platform: ClawCities,
		op:       "comment",
		method:   http.MethodPost,
		path:     "/api/v1/sites/" + url.PathEscape(site) + "/comments",
		body:     map[string]string{"body": message},
		auth:     AuthRequired,
	})
}
