package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// MoltbookPost is a post in a Moltbook submolt.
type MoltbookPost struct {
	ID        FlexID `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Submolt   string `json:"submolt"`
	Author    string `json:"author"`
	Upvotes   int64  `json:"upvotes"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
}

func (MoltbookPost) Platform() Name { return Moltbook }

// MoltbookQuery filters Moltbook discovery.
type MoltbookQuery struct {
	Submolt string // default "tech"
	Limit   int    // default 20
}

const defaultSubmolt = "tech"

// DiscoverMoltbook lists posts in a submolt.
func (c *Client) DiscoverMoltbook(ctx context.Context, q MoltbookQuery) ([]MoltbookPost, error) {
	submolt := q.Submolt
	if submolt == "" {
		submolt = defaultSubmolt
	}
	query := limitQuery(orDefault(q.Limit, 20))
	query.Set("submolt", submolt)

	var raw json.RawMessage
	err := c.do(ctx, call{platform: Moltbook, op: "discover", method: http.MethodGet, path: "/api/v1/posts", query: query, auth: AuthOptional}, &raw)
	var posts []MoltbookPost
	if err == nil {
		posts, err = decodeOrWrap[MoltbookPost](Moltbook, "discover", raw, "posts")
	}
	return settle(c, Moltbook, "discover", posts, err)
}

// PostMoltbook creates a post. An empty submolt posts to "tech".
func (c *Client) PostMoltbook(ctx context.Context, content, title, submolt string) (Response, error) {
	if err := c.requireCredential(Moltbook); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("moltbook: title is required")
	}
	if submolt == "" {
		submolt = defaultSubmolt
	}
	return c.write(ctx, call{
		platform: Moltbook,
		op:       "post",
		method:   http.MethodPost,
		path:     "/api/v1/posts",
		body:     map[string]string{"content": content, "title": title, "submolt_name": submolt},
		auth:     AuthRequired,
	})
}
