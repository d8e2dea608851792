package platform

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
)

// tokenCell caches one session token for the lifetime of a Client. Concurrent
// first callers may each run the exchange; the last stored value wins and every
// value is equally valid.
type tokenCell struct {
	v atomic.Pointer[string]
}

func (t *tokenCell) get(ctx context.Context, exchange func(context.Context) (string, error)) (string, error) {
	if p := t.v.Load(); p != nil {
		return *p, nil
	}
	tok, err := exchange(ctx)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", errors.New("empty session token")
	}
	t.v.Store(&tok)
	return tok, nil
}

type colonyTokenResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

// colonySession returns the cached Colony session token, exchanging the
// configured API key for one on first use.
func (c *Client) colonySession(ctx context.Context) (string, error) {
	if err := c.requireCredential(Colony); err != nil {
		return "", err
	}
	return c.colonyToken.get(ctx, func(ctx context.Context) (string, error) {
		var resp colonyTokenResponse
		err := c.do(ctx, call{
			platform: Colony,
			op:       "auth",
			method:   http.MethodPost,
			path:     "/api/v1/auth/token",
			body:     map[string]string{"api_key": c.creds[Colony]},
			auth:     AuthNone,
		}, &resp)
		if err != nil {
			return "", err
		}
		if resp.AccessToken != "" {
			return resp.AccessToken, nil
		}
		if resp.Token == "" {
			return "", &UpstreamError{Platform: Colony, Op: "auth", Message: "empty session token"}
		}
		return resp.Token, nil
	})
}
