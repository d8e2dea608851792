package platform

import (
	"context"
	"errors"
	"html"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/grazer/internal/logging"
)

const feedWorkers = 8

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s{3,}`)
)

// FeedItem is one entry from a user-configured RSS or Atom feed.
type FeedItem struct {
	ID        string    `json:"id"`
	Feed      string    `json:"feed"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Author    string    `json:"author,omitempty"`
	URL       string    `json:"url"`
	Published time.Time `json:"published"`
}

func (FeedItem) Platform() Name { return Feeds }

// DiscoverFeeds fetches every feed concurrently and returns up to limit items,
// newest first. A feed that fails is logged and skipped.
func (c *Client) DiscoverFeeds(ctx context.Context, urls []string, limit int) ([]FeedItem, error) {
	if len(urls) == 0 {
		return nil, errors.New("feeds: no feed URLs configured")
	}

	results := make([][]FeedItem, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedWorkers)
	for i, feedURL := range urls {
		g.Go(func() error {
			items, err := c.fetchFeed(gctx, feedURL)
			if err != nil {
				c.log.Warn("feed fetch failed", logging.String("url", feedURL), logging.Error(err))
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	items := []FeedItem{}
	for _, r := range results {
		items = append(items, r...)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})
	return capLimit(items, limit), nil
}

// feedTransport sets the product User-Agent on feed requests.
type feedTransport struct {
	base http.RoundTripper
	ua   string
}

func (t *feedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.ua)
	return t.base.RoundTrip(req)
}

func (c *Client) fetchFeed(ctx context.Context, feedURL string) ([]FeedItem, error) {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	fp := gofeed.NewParser()
	fp.Client = &http.Client{
		Timeout:   c.http.Timeout,
		Transport: &feedTransport{base: base, ua: c.userAgent},
	}
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}
	return itemsFromFeed(feed, feedURL), nil
}

func itemsFromFeed(feed *gofeed.Feed, feedURL string) []FeedItem {
	label := feed.Title
	if label == "" {
		label = feedURL
	}
	items := make([]FeedItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		fi := FeedItem{
			ID:        itemID(it),
			Feed:      label,
			Title:     strings.TrimSpace(it.Title),
			Summary:   itemSummary(it),
			URL:       it.Link,
			Published: itemPublished(it),
		}
		if it.Author != nil {
			fi.Author = it.Author.Name
		}
		items = append(items, fi)
	}
	return items
}

func itemID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

func itemPublished(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func itemSummary(item *gofeed.Item) string {
	raw := item.Description
	if raw == "" {
		raw = item.Content
	}
	return stripHTML(raw)
}

func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	s = whitespaceRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
