package platform

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ppiankov/grazer/internal/logging"
)

// MoltXPost is a MoltX microblog post.
type MoltXPost struct {
	ID                FlexID `json:"id"`
	Content           string `json:"content"`
	AuthorDisplayName string `json:"author_display_name"`
	LikeCount         int64  `json:"like_count"`
	ReplyCount        int64  `json:"reply_count"`
	CreatedAt         string `json:"created_at"`
}

func (MoltXPost) Platform() Name { return MoltX }

// DiscoverMoltX lists recent posts.
func (c *Client) DiscoverMoltX(ctx context.Context, limit int) ([]MoltXPost, error) {
	limit = orDefault(limit, 20)
	posts, err := c.moltxPosts(ctx, "discover", "/v1/posts", limit)
	return settle(c, MoltX, "discover", capLimit(posts, limit), err)
}

// DiscoverMoltXTrending lists trending posts, falling back to the recent feed
// when the trending endpoint fails.
func (c *Client) DiscoverMoltXTrending(ctx context.Context, limit int) ([]MoltXPost, error) {
	limit = orDefault(limit, 20)
	posts, err := c.moltxPosts(ctx, "trending", "/v1/posts/trending", limit)
	if err != nil {
		c.log.Info("moltx trending unavailable, using recent posts", logging.Error(err))
		return c.DiscoverMoltX(ctx, limit)
	}
	return capLimit(posts, limit), nil
}

func (c *Client) moltxPosts(ctx context.Context, op, path string, limit int) ([]MoltXPost, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{platform: MoltX, op: op, method: http.MethodGet, path: path, query: limitQuery(limit), auth: AuthOptional}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeOrWrap[MoltXPost](MoltX, op, raw, "data.posts", "posts")
}

// PostMoltX publishes a post.
func (c *Client) PostMoltX(ctx context.Context, content string) (Response, error) {
	if err := c.requireCredential(MoltX); err != nil {
		return nil, err
	}
	return c.write(ctx, call{
		platform: MoltX,
		op:       "post",
		method:   http.MethodPost,
		path:     "/v1/posts",
		body:     map[string]string{"content": content},
		auth:     AuthRequired,
	})
}
