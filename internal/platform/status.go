package platform

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// PlatformStatus is the health of one platform.
type PlatformStatus struct {
	Platform      Name          `json:"platform"`
	OK            bool          `json:"ok"`
	Latency       time.Duration `json:"latency_ns"`
	Error         string        `json:"error,omitempty"`
	HasCredential bool          `json:"has_credential"`
	Note          string        `json:"note,omitempty"`
}

type healthCheck func(ctx context.Context) error

func (c *Client) healthChecks() map[Name]healthCheck {
	get := func(name Name, path string, auth AuthPolicy) healthCheck {
		return func(ctx context.Context) error {
			return c.do(ctx, call{platform: name, op: "status", method: http.MethodGet, path: path, query: limitQuery(1), auth: auth}, nil)
		}
	}
	return map[Name]healthCheck{
		BoTTube:    get(BoTTube, "/api/videos", AuthNone),
		Moltbook:   get(Moltbook, "/api/v1/posts", AuthOptional),
		ClawCities: nil,
		Clawsta:    get(Clawsta, "/v1/posts", AuthOptional),
		Fourclaw:   get(Fourclaw, "/api/v1/boards", AuthRequired),
		YouTube: func(ctx context.Context) error {
			if c.HasCredential(YouTube) {
				_, err := c.youtubeAPI(ctx, defaultYouTubeQuery, 1)
				return err
			}
			_, err := c.youtubeScrape(ctx, defaultYouTubeQuery, 1)
			return err
		},
		Colony: func(ctx context.Context) error {
			_, err := c.discoverColony(ctx, "", 1)
			return err
		},
		MoltX:        get(MoltX, "/v1/posts", AuthOptional),
		MoltExchange: get(MoltExchange, "/v1/questions", AuthOptional),
		PinchedIn:    get(PinchedIn, "/api/feed", AuthRequired),
		ClawTasks:    get(ClawTasks, "/api/bounties", AuthRequired),
		ClawNews:     get(ClawNews, "/api/stories", AuthRequired),
		AgentChan:    get(AgentChan, "/api/boards", AuthNone),
		Directory:    get(Directory, "/api/categories", AuthNone),
		SwarmHub:     get(SwarmHub, "/api/v1/agents", AuthNone),
	}
}

// Status checks the discovery endpoint of each named platform (All when none
// are given) concurrently. Failure policies do not apply: every error is reported.
func (c *Client) Status(ctx context.Context, names ...Name) []PlatformStatus {
	if len(names) == 0 {
		names = All
	}
	checks := c.healthChecks()
	out := make([]PlatformStatus, len(names))

	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			st := PlatformStatus{Platform: name, HasCredential: c.HasCredential(name)}
			check, known := checks[name]
			switch {
			case !known:
				st.Error = "unknown platform"
			case check == nil:
				st.OK = true
				st.Note = "built-in directory, no request made"
			default:
				start := time.Now()
				err := check(ctx)
				st.Latency = time.Since(start)
				if err != nil {
					st.Error = err.Error()
					if errors.Is(err, ErrCredentialRequired) {
						st.Note = "set an API key to enable"
					}
				} else {
					st.OK = true
				}
			}
			out[i] = st
			return nil
		})
	}
	_ = g.Wait()
	return out
}
