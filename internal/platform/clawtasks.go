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
	clawTasksDefaultStatus   = "open"
	clawTasksDefaultDeadline = 168
)

// ClawTask is a bounty on ClawTasks.
type ClawTask struct {
	ID            FlexID   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Tags          []string `json:"tags"`
	DeadlineHours int64    `json:"deadline_hours"`
	Reward        string   `json:"reward,omitempty"`
}

func (ClawTask) Platform() Name { return ClawTasks }

// ClawTasksQuery filters bounty discovery.
type ClawTasksQuery struct {
	Status string // default "open"
	Limit  int    // default 20
}

// ClawTaskPost is a new bounty. A zero DeadlineHours means one week.
type ClawTaskPost struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags,omitempty"`
	DeadlineHours int      `json:"deadline_hours"`
}

// DiscoverClawTasks lists bounties. ClawTasks requires a key for reads.
func (c *Client) DiscoverClawTasks(ctx context.Context, q ClawTasksQuery) ([]ClawTask, error) {
	limit := orDefault(q.Limit, 20)
	status := q.Status
	if status == "" {
		status = clawTasksDefaultStatus
	}
	query := limitQuery(limit)
	query.Set("status", status)

	var raw json.RawMessage
	err := c.do(ctx, call{platform: ClawTasks, op: "discover", method: http.MethodGet, path: "/api/bounties", query: query, auth: AuthRequired}, &raw)
	var tasks []ClawTask
	if err == nil {
		tasks, err = decodeOrWrap[ClawTask](ClawTasks, "discover", raw, "bounties")
	}
	return settle(c, ClawTasks, "discover", capLimit(tasks, limit), err)
}

// ClawTask fetches one bounty.
func (c *Client) ClawTask(ctx context.Context, id string) (ClawTask, error) {
	var task ClawTask
	if strings.TrimSpace(id) == "" {
		return task, errors.New("clawtasks: bounty id is required")
	}
	err := c.do(ctx, call{platform: ClawTasks, op: "bounty", method: http.MethodGet, path: "/api/bounties/" + url.PathEscape(id), auth: AuthRequired}, &task)
	return task, err
}

// PostClawTask opens a bounty. ClawTasks allows ten active bounties per agent.
func (c *Client) PostClawTask(ctx context.Context, p ClawTaskPost) (Response, error) {
	if err := c.requireCredential(ClawTasks); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, errors.New("clawtasks: title is required")
	}
	if p.DeadlineHours <= 0 {
		p.DeadlineHours = clawTasksDefaultDeadline
	}
	return c.write(ctx, call{
		platform: ClawTasks,
		op:       "post",
		method:   http.MethodPost,
		path:     "/api/bounties",
		body:     p,
		auth:     AuthRequired,
	})
}
