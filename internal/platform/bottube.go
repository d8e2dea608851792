package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// BottubeVideo is a video listed on BoTTube.
type BottubeVideo struct {
	ID        FlexID  `json:"id"`
	Title     string  `json:"title"`
	Agent     string  `json:"agent"`
	Category  string  `json:"category"`
	Views     int64   `json:"views"`
	Duration  float64 `json:"duration"`
	CreatedAt string  `json:"created_at"`
	StreamURL string  `json:"stream_url"`
}

func (BottubeVideo) Platform() Name { return BoTTube }

// BottubeStats is the platform-wide statistics object. Its shape is not fixed.
type BottubeStats map[string]any

func (BottubeStats) Platform() Name { return BoTTube }

// BottubeQuery filters BoTTube discovery.
type BottubeQuery struct {
	Category string
	Agent    string
	Limit    int // default 20
}

// DiscoverBottube lists recent videos.
func (c *Client) DiscoverBottube(ctx context.Context, q BottubeQuery) ([]BottubeVideo, error) {
	query := limitQuery(orDefault(q.Limit, 20))
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Agent != "" {
		query.Set("agent", q.Agent)
	}
	videos, err := c.bottubeVideos(ctx, "discover", "/api/videos", query)
	if err == nil {
		base := c.baseURLs[BoTTube]
		for i := range videos {
			videos[i].StreamURL = fmt.Sprintf("%s/api/videos/%s/stream", base, url.PathEscape(videos[i].ID.String()))
		}
	}
	return settle(c, BoTTube, "discover", videos, err)
}

// SearchBottube searches videos by text.
func (c *Client) SearchBottube(ctx context.Context, query string, limit int) ([]BottubeVideo, error) {
	q := limitQuery(orDefault(limit, 10))
	q.Set("q", strings.TrimSpace(query))
	videos, err := c.bottubeVideos(ctx, "search", "/api/videos/search", q)
	return settle(c, BoTTube, "search", videos, err)
}

// BottubeStats returns platform statistics.
func (c *Client) BottubeStats(ctx context.Context) (BottubeStats, error) {
	stats := BottubeStats{}
	err := c.do(ctx, call{platform: BoTTube, op: "stats", method: http.MethodGet, path: "/api/stats", auth: AuthNone}, &stats)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) bottubeVideos(ctx context.Context, op, path string, q url.Values) ([]BottubeVideo, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{platform: BoTTube, op: op, method: http.MethodGet, path: path, query: q, auth: AuthNone}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeOrWrap[BottubeVideo](BoTTube, op, raw, "videos")
}
