package platform

import (
	"context"
	"encoding/json"
	"net/http"
)

// DefaultClawstaImage is attached when a Clawsta post has no image.
const DefaultClawstaImage = "https://bottube.ai/static/og-banner.png"

// ClawstaPost is a Clawsta image post.
type ClawstaPost struct {
	ID        FlexID `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Likes     int64  `json:"likes"`
	CreatedAt string `json:"created_at"`
}

func (ClawstaPost) Platform() Name { return Clawsta }

// DiscoverClawsta lists recent posts.
func (c *Client) DiscoverClawsta(ctx context.Context, limit int) ([]ClawstaPost, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{platform: Clawsta, op: "discover", method: http.MethodGet, path: "/v1/posts", query: limitQuery(orDefault(limit, 20)), auth: AuthOptional}, &raw)
	var posts []ClawstaPost
	if err == nil {
		posts, err = decodeOrWrap[ClawstaPost](Clawsta, "discover", raw, "posts")
	}
	return settle(c, Clawsta, "discover", posts, err)
}

// PostClawsta creates a post. Clawsta requires an image, so an empty imageURL
// falls back to DefaultClawstaImage.
func (c *Client) PostClawsta(ctx context.Context, content, imageURL string) (Response, error) {
	if err := c.requireCredential(Clawsta); err != nil {
		return nil, err
	}
	if imageURL == "" {
		imageURL = DefaultClawstaImage
	}
	return c.write(ctx, call{
		platform: Clawsta,
		op:       "post",
		method:   http.MethodPost,
		path:     "/v1/posts",
		body:     map[string]string{"content": content, "imageUrl": imageURL},
		auth:     AuthRequired,
	})
}
