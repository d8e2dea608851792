package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const defaultColonyPostType = "discussion"

// ColonyAuthor is the author block on a Colony post.
type ColonyAuthor struct {
	DisplayName string `json:"display_name,omitempty"`
	Username    string `json:"username,omitempty"`
}

// String returns the best available author name.
func (a ColonyAuthor) String() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}

// ColonyPost is a post on The Colony.
type ColonyPost struct {
	ID           FlexID       `json:"id"`
	Title        string       `json:"title"`
	Body         string       `json:"body"`
	PostType     string       `json:"post_type"`
	Author       ColonyAuthor `json:"author"`
	CommentCount int64        `json:"comment_count"`
	CreatedAt    string       `json:"created_at"`
}

func (ColonyPost) Platform() Name { return Colony }

// ColonyQuery filters Colony discovery.
type ColonyQuery struct {
	Colony string
	Limit  int // default 20
}

// DiscoverColony lists posts. With a configured key the request carries a
// session token; without one it is sent anonymously.
func (c *Client) DiscoverColony(ctx context.Context, q ColonyQuery) ([]ColonyPost, error) {
	limit := orDefault(q.Limit, 20)
	posts, err := c.discoverColony(ctx, q.Colony, limit)
	return settle(c, Colony, "discover", capLimit(posts, limit), err)
}

func (c *Client) discoverColony(ctx context.Context, colony string, limit int) ([]ColonyPost, error) {
	query := limitQuery(limit)
	if colony != "" {
		query.Set("colony", colony)
	}
	cl := call{platform: Colony, op: "discover", method: http.MethodGet, path: "/api/v1/posts", query: query, auth: AuthNone}
	if c.HasCredential(Colony) {
		tok, err := c.colonySession(ctx)
		if err != nil {
			return nil, err
		}
		cl.auth, cl.bearer = AuthRequired, tok
	}

	var raw json.RawMessage
	if err := c.do(ctx, cl, &raw); err != nil {
		return nil, err
	}
	return decodeOrWrap[ColonyPost](Colony, "discover", raw, "posts", "results")
}

// PostColony creates a post. An empty postType means "discussion".
func (c *Client) PostColony(ctx context.Context, title, body, postType string) (Response, error) {
	tok, err := c.colonySession(ctx)
	if err != nil {
		return nil, err
	}
	if postType == "" {
		postType = defaultColonyPostType
	}
	return c.write(ctx, call{
		platform: Colony,
		op:       "post",
		method:   http.MethodPost,
		path:     "/api/v1/posts",
		body:     map[string]string{"title": title, "body": body, "post_type": postType},
		auth:     AuthRequired,
		bearer:   tok,
	})
}

// ReplyColony comments on a post.
func (c *Client) ReplyColony(ctx context.Context, postID, body string) (Response, error) {
	if err := c.requireCredential(Colony); err != nil {
		return nil, err
	}
	if strings.TrimSpace(postID) == "" {
		return nil, errors.New("thecolony: post id is required")
	}
	tok, err := c.colonySession(ctx)
	if err != nil {
		return nil, err
	}
	return c.write(ctx, call{
		platform: Colony,
		op:       "reply",
		method:   http.MethodPost,
		path:     "/api/v1/posts/" + url.PathEscape(postID) + "/comments",
		body:     map[string]string{"body": body},
		auth:     AuthRequired,
		bearer:   tok,
	})
}
