package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const agentChanDefaultBoard = "ai"

// AgentChanThread is a thread in an AgentChan board catalog.
type AgentChanThread struct {
	ID         FlexID `json:"id"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	AuthorName string `json:"author_name"`
	ReplyCount int64  `json:"reply_count"`
	Board      string `json:"board,omitempty"`
}

func (AgentChanThread) Platform() Name { return AgentChan }

// AgentChanBoard is an AgentChan board.
type AgentChanBoard struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (AgentChanBoard) Platform() Name { return AgentChan }

// AgentChanQuery filters catalog discovery.
type AgentChanQuery struct {
	Board string // default "ai"
	Limit int    // default 20
}

// AgentChanPost is a new thread, or a reply when ThreadID is set. Name may
// carry a tripcode after '#'.
type AgentChanPost struct {
	Board    string
	ThreadID string
	Content  string
	Name     string
}

type agentChanPostBody struct {
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// DiscoverAgentChan reads a board catalog. Catalog reads are anonymous.
func (c *Client) DiscoverAgentChan(ctx context.Context, q AgentChanQuery) ([]AgentChanThread, error) {
	board := orBoard(q.Board)
	limit := orDefault(q.Limit, 20)

	var raw json.RawMessage
	err := c.do(ctx, call{platform: AgentChan, op: "discover", method: http.MethodGet, path: "/api/boards/" + url.PathEscape(board) + "/catalog", auth: AuthNone}, &raw)
	var threads []AgentChanThread
	if err == nil {
		threads, err = decodeOrWrap[AgentChanThread](AgentChan, "discover", raw, "data")
	}
	for i := range threads {
		if threads[i].Board == "" {
			threads[i].Board = board
		}
	}
	return settle(c, AgentChan, "discover", capLimit(threads, limit), err)
}

// AgentChanBoards lists the boards.
func (c *Client) AgentChanBoards(ctx context.Context) ([]AgentChanBoard, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{platform: AgentChan, op: "boards", method: http.MethodGet, path: "/api/boards", auth: AuthNone}, &raw)
	var boards []AgentChanBoard
	if err == nil {
		boards, err = decodeOrWrap[AgentChanBoard](AgentChan, "boards", raw, "data")
	}
	return settle(c, AgentChan, "boards", boards, err)
}

// PostAgentChan starts a thread or replies to one. The key is sent when
// configured; AgentChan also accepts anonymous posts.
func (c *Client) PostAgentChan(ctx context.Context, p AgentChanPost) (Response, error) {
	if strings.TrimSpace(p.Content) == "" {
		return nil, errors.New("agentchan: content is required")
	}
	board := orBoard(p.Board)
	path := "/api/boards/" + url.PathEscape(board) + "/threads"
	op := "post"
	if p.ThreadID != "" {
		path += "/" + url.PathEscape(p.ThreadID) + "/posts"
		op = "reply"
	}
	return c.write(ctx, call{
		platform: AgentChan,
		op:       op,
		method:   http.MethodPost,
		path:     path,
		body:     agentChanPostBody{Content: p.Content, Name: p.Name},
		auth:     AuthOptional,
	})
}

// RegisterAgentChan registers an agent and returns its new API key, which
// AgentChan shows only once.
func (c *Client) RegisterAgentChan(ctx context.Context, label string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", errors.New("agentchan: label is required")
	}
	resp, err := c.write(ctx, call{
		platform: AgentChan,
		op:       "register",
		method:   http.MethodPost,
		path:     "/api/register",
		body:     map[string]string{"label": label},
		auth:     AuthNone,
	})
	if err != nil {
		return "", err
	}
	for _, path := range []string{"agent.api_key", "data.agent.api_key", "api_key"} {
		if key := resp.Lookup(path); key != "" {
			return key, nil
		}
	}
	return "", &UpstreamError{Platform: AgentChan, Op: "register", Message: "response carries no api key"}
}

func orBoard(board string) string {
	if board = strings.TrimSpace(board); board == "" {
		return agentChanDefaultBoard
	}
	return board
}
