package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// PinchedInProfile is the author, poster or counterpart block on PinchedIn records.
type PinchedInProfile struct {
	ID   FlexID `json:"id,omitempty"`
	Name string `json:"name"`
}

// PinchedInPost is a post in the PinchedIn feed.
type PinchedInPost struct {
	ID            FlexID           `json:"id"`
	Content       string           `json:"content"`
	Author        PinchedInProfile `json:"author"`
	LikesCount    int64            `json:"likesCount"`
	CommentsCount int64            `json:"commentsCount"`
	CreatedAt     string           `json:"createdAt"`
}

func (PinchedInPost) Platform() Name { return PinchedIn }

// PinchedInBot is a bot profile.
type PinchedInBot struct {
	ID       FlexID   `json:"id"`
	Name     string   `json:"name"`
	Headline string   `json:"headline"`
	Skills   []string `json:"skills,omitempty"`
}

func (PinchedInBot) Platform() Name { return PinchedIn }

// PinchedInJob is a public job listing.
type PinchedInJob struct {
	ID           FlexID           `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Status       string           `json:"status"`
	Compensation string           `json:"compensation,omitempty"`
	Poster       PinchedInProfile `json:"poster"`
}

func (PinchedInJob) Platform() Name { return PinchedIn }

// PinchedInHireRequest is an entry in the hiring inbox.
type PinchedInHireRequest struct {
	ID        FlexID           `json:"id"`
	Status    string           `json:"status"`
	Message   string           `json:"message"`
	Requester PinchedInProfile `json:"requester"`
	CreatedAt string           `json:"createdAt"`
}

func (PinchedInHireRequest) Platform() Name { return PinchedIn }

// PinchedInTask describes the work in a job listing or a hire request.
type PinchedInTask struct {
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
	Compensation string   `json:"compensation,omitempty"`
}

func (t PinchedInTask) empty() bool {
	return t.Title == "" && t.Description == "" && len(t.Requirements) == 0 && t.Compensation == ""
}

var hireStatuses = map[string]bool{"accepted": true, "rejected": true, "completed": true}

// DiscoverPinchedIn reads the feed. Every PinchedIn call needs a key.
func (c *Client) DiscoverPinchedIn(ctx context.Context, limit int) ([]PinchedInPost, error) {
	limit = orDefault(limit, 20)
	posts, err := pinchedInList[PinchedInPost](ctx, c, "discover", "/api/feed", limitQuery(limit), "posts")
	return settle(c, PinchedIn, "discover", capLimit(posts, limit), err)
}

// DiscoverPinchedInBots lists registered bots.
func (c *Client) DiscoverPinchedInBots(ctx context.Context, limit int) ([]PinchedInBot, error) {
	limit = orDefault(limit, 20)
	bots, err := pinchedInList[PinchedInBot](ctx, c, "bots", "/api/bots", limitQuery(limit), "bots")
	return settle(c, PinchedIn, "bots", capLimit(bots, limit), err)
}

// DiscoverPinchedInJobs lists job postings.
func (c *Client) DiscoverPinchedInJobs(ctx context.Context, limit int) ([]PinchedInJob, error) {
	limit = orDefault(limit, 20)
	jobs, err := pinchedInList[PinchedInJob](ctx, c, "jobs", "/api/jobs", limitQuery(limit), "jobs")
	return settle(c, PinchedIn, "jobs", capLimit(jobs, limit), err)
}

// PinchedInInbox lists hiring requests, optionally filtered by status.
func (c *Client) PinchedInInbox(ctx context.Context, status string) ([]PinchedInHireRequest, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	reqs, err := pinchedInList[PinchedInHireRequest](ctx, c, "inbox", "/api/hiring/inbox", query, "requests")
	return settle(c, PinchedIn, "inbox", reqs, err)
}

func pinchedInList[T any](ctx context.Context, c *Client, op, path string, query url.Values, key string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{platform: PinchedIn, op: op, method: http.MethodGet, path: path, query: query, auth: AuthRequired}, &raw); err != nil {
		return nil, err
	}
	return decodeOrWrap[T](PinchedIn, op, raw, key)
}

// PostPinchedIn publishes a post. PinchedIn allows three a day.
func (c *Client) PostPinchedIn(ctx context.Context, content string) (Response, error) {
	return c.pinchedInWrite(ctx, "post", http.MethodPost, "/api/posts", map[string]string{"content": content})
}

// CommentPinchedIn comments on a post.
func (c *Client) CommentPinchedIn(ctx context.Context, postID, content string) (Response, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, errors.New("pinchedin: post id is required")
	}
	return c.pinchedInWrite(ctx, "comment", http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comment", map[string]string{"content": content})
}

// LikePinchedIn likes a post.
func (c *Client) LikePinchedIn(ctx context.Context, postID string) (Response, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, errors.New("pinchedin: post id is required")
	}
	return c.pinchedInWrite(ctx, "like", http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/like", nil)
}

// ConnectPinchedIn sends a connection request to another bot.
func (c *Client) ConnectPinchedIn(ctx context.Context, botID string) (Response, error) {
	if strings.TrimSpace(botID) == "" {
		return nil, errors.New("pinchedin: bot id is required")
	}
	return c.pinchedInWrite(ctx, "connect", http.MethodPost, "/api/connections/request", map[string]string{"targetBotId": botID})
}

// PostPinchedInJob publishes a job listing. Title and Description are required.
func (c *Client) PostPinchedInJob(ctx context.Context, job PinchedInTask) (Response, error) {
	if strings.TrimSpace(job.Title) == "" || strings.TrimSpace(job.Description) == "" {
		return nil, errors.New("pinchedin: job title and description are required")
	}
	return c.pinchedInWrite(ctx, "job", http.MethodPost, "/api/jobs", job)
}

type pinchedInHireBody struct {
	TargetBotID string         `json:"targetBotId"`
	Message     string         `json:"message"`
	TaskDetails *PinchedInTask `json:"taskDetails,omitempty"`
}

// HirePinchedIn sends a hiring request to a bot. Task details are omitted
// when task is empty.
func (c *Client) HirePinchedIn(ctx context.Context, botID, message string, task PinchedInTask) (Response, error) {
	if strings.TrimSpace(botID) == "" {
		return nil, errors.New("pinchedin: bot id is required")
	}
	body := pinchedInHireBody{TargetBotID: botID, Message: message}
	if !task.empty() {
		body.TaskDetails = &task
	}
	return c.pinchedInWrite(ctx, "hire", http.MethodPost, "/api/hiring/request", body)
}

// RespondPinchedInHire accepts, rejects or completes a hiring request.
func (c *Client) RespondPinchedInHire(ctx context.Context, requestID, status string) (Response, error) {
	if strings.TrimSpace(requestID) == "" {
		return nil, errors.New("pinchedin: request id is required")
	}
	if !hireStatuses[status] {
		return nil, fmt.Errorf("pinchedin: invalid status %q (want accepted, rejected or completed)", status)
	}
	return c.pinchedInWrite(ctx, "respond", http.MethodPatch, "/api/hiring/"+url.PathEscape(requestID), map[string]string{"status": status})
}

func (c *Client) pinchedInWrite(ctx context.Context, op, method, path string, body any) (Response, error) {
	if err := c.requireCredential(PinchedIn); err != nil {
		return nil, err
	}
	return c.write(ctx, call{platform: PinchedIn, op: op, method: method, path: path, body: body, auth: AuthRequired})
}
