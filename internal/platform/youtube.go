package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/grazer/internal/logging"
)

const (
	defaultYouTubeQuery = "AI agents"
	browserUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	scrapedTitle       = "YouTube Video (Scraped)"
	scrapedChannel     = "Unknown Channel"
	scrapedDescription = "Metadata available via API key"
)

var watchIDRe = regexp.MustCompile(`/watch\?v=([a-zA-Z0-9_-]{11})`)

// YouTubeVideo is a search result. Scraped results carry placeholder metadata.
type YouTubeVideo struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Description  string `json:"description"`
	PublishedAt  string `json:"publishedAt"`
	URL          string `json:"url"`
	Scraped      bool   `json:"scraped,omitempty"`
}

func (YouTubeVideo) Platform() Name { return YouTube }

// YouTubeQuery is a video search.
type YouTubeQuery struct {
	Query string // default "AI agents"
	Limit int    // default 10
}

// DiscoverYouTube searches through the Data API when a key is configured and
// scrapes the public results page otherwise, or when the API call fails.
func (c *Client) DiscoverYouTube(ctx context.Context, q YouTubeQuery) ([]YouTubeVideo, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		query = defaultYouTubeQuery
	}
	limit := orDefault(q.Limit, 10)

	if c.HasCredential(YouTube) {
		videos, err := c.youtubeAPI(ctx, query, limit)
		if err == nil {
			return settle(c, YouTube, "discover", videos, nil)
		}
		c.log.Warn("youtube api failed, falling back to scraping", logging.Error(err))
	}
	videos, err := c.youtubeScrape(ctx, query, limit)
	return settle(c, YouTube, "discover", videos, err)
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Description  string `json:"description"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

func (c *Client) youtubeAPI(ctx context.Context, query string, limit int) ([]YouTubeVideo, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprint(limit))
	params.Set("type", "video")
	params.Set("key", c.creds[YouTube])

	var resp youtubeSearchResponse
	if err := c.do(ctx, call{platform: YouTube, op: "search", method: http.MethodGet, path: "/search", query: params, auth: AuthNone}, &resp); err != nil {
		return nil, err
	}
	videos := make([]YouTubeVideo, 0, len(resp.Items))
	for _, it := range resp.Items {
		if it.ID.VideoID == "" {
			continue
		}
		videos = append(videos, YouTubeVideo{
			ID:           it.ID.VideoID,
			Title:        it.Snippet.Title,
			ChannelTitle: it.Snippet.ChannelTitle,
			Description:  it.Snippet.Description,
			PublishedAt:  it.Snippet.PublishedAt,
			URL:          c.watchURL(it.ID.VideoID),
		})
	}
	return capLimit(videos, limit), nil
}

func (c *Client) youtubeScrape(ctx context.Context, query string, limit int) ([]YouTubeVideo, error) {
	header := make(http.Header)
	header.Set("User-Agent", browserUserAgent)
	header.Set("Accept", "text/html")
	params := url.Values{}
	params.Set("search_query", query)

	raw, status, err := c.send(ctx, call{platform: YouTubeWeb, op: "scrape", method: http.MethodGet, path: "/results", query: params}, header)
	if err != nil {
		return nil, fmt.Errorf("youtube scraping failed: %w", err)
	}
	if status < 200 || status > 299 {
		return nil, &UpstreamError{Platform: YouTube, Op: "scrape", StatusCode: status, Message: "results page unavailable"}
	}

	ids := uniqueVideoIDs(string(raw), limit)
	now := time.Now().UTC().Format(time.RFC3339)
	videos := make([]YouTubeVideo, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, YouTubeVideo{
			ID:           id,
			Title:        scrapedTitle,
			ChannelTitle: scrapedChannel,
			Description:  scrapedDescription,
			PublishedAt:  now,
			URL:          c.watchURL(id),
			Scraped:      true,
		})
	}
	return videos, nil
}

// uniqueVideoIDs returns up to limit distinct ids in page order.
func uniqueVideoIDs(page string, limit int) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range watchIDRe.FindAllStringSubmatch(page, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
		if len(ids) == limit {
			break
		}
	}
	return ids
}

func (c *Client) watchURL(id string) string {
	return c.baseURLs[YouTubeWeb] + "/watch?v=" + id
}
