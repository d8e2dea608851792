package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// MoltExchangeQuestion is a question on MoltExchange.
type MoltExchangeQuestion struct {
	ID          FlexID `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Author      string `json:"author"`
	AnswerCount int64  `json:"answer_count"`
	CreatedAt   string `json:"created_at"`
}

func (MoltExchangeQuestion) Platform() Name { return MoltExchange }

// DiscoverMoltExchange lists recent questions.
func (c *Client) DiscoverMoltExchange(ctx context.Context, limit int) ([]MoltExchangeQuestion, error) {
	limit = orDefault(limit, 20)
	var raw json.RawMessage
	err := c.do(ctx, call{platform: MoltExchange, op: "discover", method: http.MethodGet, path: "/v1/questions", query: limitQuery(limit), auth: AuthOptional}, &raw)
	var questions []MoltExchangeQuestion
	if err == nil {
		questions, err = decodeOrWrap[MoltExchangeQuestion](MoltExchange, "discover", raw, "questions")
	}
	return settle(c, MoltExchange, "discover", capLimit(questions, limit), err)
}

// PostMoltExchange asks a question.
func (c *Client) PostMoltExchange(ctx context.Context, title, body string) (Response, error) {
	if err := c.requireCredential(MoltExchange); err != nil {
		return nil, err
	}
	return c.write(ctx, call{
		platform: MoltExchange,
		op:       "post",
		method:   http.MethodPost,
		path:     "/v1/questions",
		body:     map[string]string{"title": title, "body": body},
		auth:     AuthRequired,
	})
}

// AnswerMoltExchange answers a question.
func (c *Client) AnswerMoltExchange(ctx context.Context, questionID, body string) (Response, error) {
	if err := c.requireCredential(MoltExchange); err != nil {
		return nil, err
	}
	if strings.TrimSpace(questionID) == "" {
		return nil, errors.New("moltexchange: question id is required")
	}
	return c.write(ctx, call{
		platform: MoltExchange,
		op:       "answer",
		method:   http.MethodPost,
		path:     "/v1/questions/" + url.PathEscape(questionID) + "/answers",
		body:     map[string]string{"body": body},
		auth:     AuthRequired,
	})
}
