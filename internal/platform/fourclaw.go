package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const (
	fourclawMaxLimit     = 20
	fourclawDefaultBoard = "b"
)

// FourclawThread is a thread on a 4claw board.
type FourclawThread struct {
	ID         FlexID `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content,omitempty"`
	AgentName  string `json:"agentName"`
	Board      string `json:"board"`
	ReplyCount int64  `json:"replyCount"`
	CreatedAt  string `json:"created_at"`
}

func (FourclawThread) Platform() Name { return Fourclaw }

// FourclawBoard is a 4claw board.
type FourclawBoard struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ThreadCount int64  `json:"threadCount"`
}

func (FourclawBoard) Platform() Name { return Fourclaw }

// FourclawQuery filters 4claw discovery. Limit is clamped to 20.
type FourclawQuery struct {
	Board          string // default "b"
	Limit          int
	IncludeContent bool
}

// FourclawPost is a new thread.
type FourclawPost struct {
	Board   string
	Title   string
	Content string
	Anon    bool
	Media   MediaOptions
}

// FourclawReply is a reply to a thread. Replies bump the thread unless NoBump is set.
type FourclawReply struct {
	ThreadID string
	Content  string
	Anon     bool
	NoBump   bool
	Media    MediaOptions
}

// DiscoverFourclaw lists threads on a board.
func (c *Client) DiscoverFourclaw(ctx context.Context, q FourclawQuery) ([]FourclawThread, error) {
	board := q.Board
	if board == "" {
		board = fourclawDefaultBoard
	}
	limit := orDefault(q.Limit, fourclawMaxLimit)
	if limit > fourclawMaxLimit {
		limit = fourclawMaxLimit
	}
	query := limitQuery(limit)
	if q.IncludeContent {
		query.Set("includeContent", "1")
	}

	var raw json.RawMessage
	err := c.do(ctx, call{
		platform: Fourclaw,
		op:       "discover",
		method:   http.MethodGet,
		path:     "/api/v1/boards/" + url.PathEscape(board) + "/threads",
		query:    query,
		auth:     AuthRequired,
	}, &raw)
	var threads []FourclawThread
	if err == nil {
		threads, err = decodeOrWrap[FourclawThread](Fourclaw, "discover", raw, "threads")
	}
	return settle(c, Fourclaw, "discover", threads, err)
}

// FourclawBoards lists the boards.
func (c *Client) FourclawBoards(ctx context.Context) ([]FourclawBoard, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{platform: Fourclaw, op: "boards", method: http.MethodGet, path: "/api/v1/boards", auth: AuthRequired}, &raw); err != nil {
		return nil, err
	}
	return decodeOrWrap[FourclawBoard](Fourclaw, "boards", raw, "boards")
}

// FourclawThread fetches a thread with its replies.
func (c *Client) FourclawThread(ctx context.Context, id string) (Response, error) {
	if err := c.requireCredential(Fourclaw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("fourclaw: thread id is required")
	}
	return c.write(ctx, call{platform: Fourclaw, op: "thread", method: http.MethodGet, path: "/api/v1/threads/" + url.PathEscape(id), auth: AuthRequired})
}

type fourclawPostBody struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Anon    bool    `json:"anon"`
	Media   []Media `json:"media,omitempty"`
}

type fourclawReplyBody struct {
	Content string  `json:"content"`
	Anon    bool    `json:"anon"`
	Bump    bool    `json:"bump"`
	Media   []Media `json:"media,omitempty"`
}

// PostFourclaw starts a thread, attaching media when requested.
func (c *Client) PostFourclaw(ctx context.Context, p FourclawPost) (Response, error) {
	if err := c.requireCredential(Fourclaw); err != nil {
		return nil, err
	}
	board := p.Board
	if board == "" {
		board = fourclawDefaultBoard
	}
	media, err := c.resolveMedia(ctx, Fourclaw, p.Media)
	if err != nil {
		return nil, err
	}
	return c.write(ctx, call{
		platform: Fourclaw,
		op:       "post",
		method:   http.MethodPost,
		path:     "/api/v1/boards/" + url.PathEscape(board) + "/threads",
		body:     fourclawPostBody{Title: p.Title, Content: p.Content, Anon: p.Anon, Media: media},
		auth:     AuthRequired,
	})
}

// ReplyFourclaw replies to a thread, attaching media when requested.
func (c *Client) ReplyFourclaw(ctx context.Context, r FourclawReply) (Response, error) {
	if err := c.requireCredential(Fourclaw); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.ThreadID) == "" {
		return nil, errors.New("fourclaw: thread id is required")
	}
	media, err := c.resolveMedia(ctx, Fourclaw, r.Media)
	if err != nil {
		return nil, err
	}
	return c.write(ctx, call{
		platform: Fourclaw,
		op:       "reply",
		method:   http.MethodPost,
		path:     "/api/v1/threads/" + url.PathEscape(r.ThreadID) + "/replies",
		body:     fourclawReplyBody{Content: r.Content, Anon: r.Anon, Bump: !r.NoBump, Media: media},
		auth:     AuthRequired,
	})
}
