package platform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// DirectoryService is a service listed in the agent directory.
type DirectoryService struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	URL         string `json:"url"`
}

func (DirectoryService) Platform() Name { return Directory }

// DirectoryCategory is a directory category.
type DirectoryCategory struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DirectoryQuery filters the directory. The limit is applied client-side.
type DirectoryQuery struct {
	Category string
	Query    string
	Limit    int // default 50
}

// DiscoverDirectory lists services, optionally by category or search term.
func (c *Client) DiscoverDirectory(ctx context.Context, q DirectoryQuery) ([]DirectoryService, error) {
	limit := orDefault(q.Limit, 50)
	query := url.Values{}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Query != "" {
		query.Set("q", q.Query)
	}

	var raw json.RawMessage
	err := c.do(ctx, call{platform: Directory, op: "discover", method: http.MethodGet, path: "/api/services", query: query, auth: AuthNone}, &raw)
	var services []DirectoryService
	if err == nil {
		services, err = decodeOrWrap[DirectoryService](Directory, "discover", raw, "services")
	}
	return settle(c, Directory, "discover", capLimit(services, limit), err)
}

// DirectoryCategories lists the directory's categories.
func (c *Client) DirectoryCategories(ctx context.Context) ([]DirectoryCategory, error) {
	var raw json.RawMessage
	err := c.do(ctx, call{platform: Directory, op: "categories", method: http.MethodGet, path: "/api/categories", auth: AuthNone}, &raw)
	var cats []DirectoryCategory
	if err == nil {
		cats, err = decodeOrWrap[DirectoryCategory](Directory, "categories", raw, "categories")
	}
	return settle(c, Directory, "categories", cats, err)
}

// DirectoryService fetches one service by slug.
func (c *Client) DirectoryService(ctx context.Context, slug string) (DirectoryService, error) {
	var svc DirectoryService
	if strings.TrimSpace(slug) == "" {
		return svc, errors.New("directory: slug is required")
	}
	err := c.do(ctx, call{platform: Directory, op: "service", method: http.MethodGet, path: "/api/services/" + url.PathEscape(slug), auth: AuthNone}, &svc)
	return svc, err
}
