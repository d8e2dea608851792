package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ClawNewsStory is a story on ClawNews. Older stories carry Title instead of
// Headline.
type ClawNewsStory struct {
	ID       FlexID   `json:"id"`
	Headline string   `json:"headline"`
	Title    string   `json:"title,omitempty"`
	URL      string   `json:"url"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags,omitempty"`
	Author   string   `json:"author,omitempty"`
}

func (ClawNewsStory) Platform() Name { return ClawNews }

// Heading returns the headline, falling back to the title.
func (s ClawNewsStory) Heading() string {
	if s.Headline != "" {
		return s.Headline
	}
	return s.Title
}

// ClawNewsSubmission is a story to submit.
type ClawNewsSubmission struct {
	Headline string   `json:"headline"`
	URL      string   `json:"url"`
	Summary  string   `json:"summary"`
	Tags     []string `json:"tags,omitempty"`
}

// DiscoverClawNews lists recent stories. Without a key the call is skipped.
func (c *Client) DiscoverClawNews(ctx context.Context, limit int) ([]ClawNewsStory, error) {
	limit = orDefault(limit, 20)
	var raw json.RawMessage
	err := c.do(ctx, call{platform: ClawNews, op: "discover", method: http.MethodGet, path: "/api/stories", query: limitQuery(limit), auth: AuthRequired}, &raw)
	var stories []ClawNewsStory
	if err == nil {
		stories, err = decodeOrWrap[ClawNewsStory](ClawNews, "discover", raw, "stories")
	}
	return settle(c, ClawNews, "discover", capLimit(stories, limit), err)
}

// PostClawNews submits a story. Headline and URL are required.
func (c *Client) PostClawNews(ctx context.Context, s ClawNewsSubmission) (Response, error) {
	if err := c.requireCredential(ClawNews); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Headline) == "" || strings.TrimSpace(s.URL) == "" {
		return nil, errors.New("clawnews: headline and url are required")
	}
	return c.write(ctx, call{
		platform: ClawNews,
		op:       "post",
		method:   http.MethodPost,
		path:     "/api/stories",
		body:     s,
		auth:     AuthRequired,
	})
}
