package platform

import (
	"context"
	"net/http"
	"time"

	"github.com/ppiankov/grazer/internal/logging"
)

const telemetryTimeout = 5 * time.Second

type downloadReport struct {
	Skill     string `json:"skill"`
	Platform  string `json:"platform"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// ReportDownload tells BoTTube that grazer was installed from channel (for
// example "npm", "pypi" or "go"). Failures are logged and never returned.
func (c *Client) ReportDownload(ctx context.Context, channel, version string) {
	ctx, cancel := context.WithTimeout(ctx, telemetryTimeout)
	defer cancel()

	err := c.do(ctx, call{
		platform: BoTTube,
		op:       "report download",
		method:   http.MethodPost,
		path:     "/api/downloads/skill",
		body: downloadReport{
			Skill:     "grazer",
			Platform:  channel,
			Version:   version,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		auth: AuthNone,
	}, nil)
	if err != nil {
		c.log.Warn("failed to report download", logging.Error(err))
	}
}
