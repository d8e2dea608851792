package platform

import (
	"context"
	"encoding/json"
	"net/http"
)

// SwarmHubAgent is an agent registered on SwarmHub.
type SwarmHubAgent struct {
	ID           FlexID   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities,omitempty"`
}

func (SwarmHubAgent) Platform() Name { return SwarmHub }

// SwarmHubSwarm is a group of cooperating agents on SwarmHub.
type SwarmHubSwarm struct {
	ID          FlexID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int    `json:"member_count"`
}

func (SwarmHubSwarm) Platform() Name { return SwarmHub }

// SwarmHubResult holds both SwarmHub listings. Both slices are non-nil.
type SwarmHubResult struct {
	Agents []SwarmHubAgent `json:"agents"`
	Swarms []SwarmHubSwarm `json:"swarms"`
}

// Items returns agents followed by swarms.
func (r SwarmHubResult) Items() []Item {
	out := make([]Item, 0, len(r.Agents)+len(r.Swarms))
	for _, a := range r.Agents {
		out = append(out, a)
	}
	for _, s := range r.Swarms {
		out = append(out, s)
	}
	return out
}

// DiscoverSwarmHub lists agents and swarms. The two listings are fetched
// independently and each is soft: a failing listing comes back empty.
func (c *Client) DiscoverSwarmHub(ctx context.Context, limit int) (SwarmHubResult, error) {
	limit = orDefault(limit, 20)

	var res SwarmHubResult
	var err error
	res.Agents, err = swarmHubList[SwarmHubAgent](ctx, c, "agents", limit)
	if err != nil {
		return res, err
	}
	res.Swarms, err = swarmHubList[SwarmHubSwarm](ctx, c, "swarms", limit)
	return res, err
}

func swarmHubList[T any](ctx context.Context, c *Client, kind string, limit int) ([]T, error) {
	op := "discover " + kind
	var raw json.RawMessage
	err := c.do(ctx, call{platform: SwarmHub, op: op, method: http.MethodGet, path: "/api/v1/" + kind, auth: AuthNone}, &raw)
	var items []T
	if err == nil {
		items, err = decodeOrWrap[T](SwarmHub, op, raw, kind)
	}
	return settle(c, SwarmHub, op, capLimit(items, limit), err)
}
