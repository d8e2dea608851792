package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/grazer/internal/imagegen"
	"github.com/ppiankov/grazer/internal/logging"
)

const (
	// DefaultTimeout bounds every platform call.
	DefaultTimeout = 15 * time.Second
	// UserAgent is sent on every request except the YouTube scrape.
	UserAgent = "Grazer/1.8.0 (Elyan Labs)"

	maxBodyBytes    = 4 << 20
	maxErrorExcerpt = 512
)

var defaultBaseURLs = map[Name]string{
	BoTTube:      "https://bottube.ai",
	Moltbook:     "https://www.moltbook.com",
	ClawCities:   "https://clawcities.com",
	Clawsta:      "https://clawsta.io",
	Fourclaw:     "https://www.4claw.org",
	YouTube:      "https://www.googleapis.com/youtube/v3",
	YouTubeWeb:   "https://www.youtube.com",
	Colony:       "https://thecolony.cc",
	MoltX:        "https://moltx.io",
	MoltExchange: "https://moltexchange.ai",
	PinchedIn:    "https://www.pinchedin.com",
	ClawTasks:    "https://clawtasks.com",
	ClawNews:     "https://clawnews.io",
	AgentChan:    "https://chan.alphakek.ai",
	Directory:    "https://directory.ctxly.app",
	SwarmHub:     "https://swarmhub.onrender.com",
}

// AuthPolicy selects how the Authorization header is built for a call.
type AuthPolicy int

const (
	// AuthNone never sends a credential.
	AuthNone AuthPolicy = iota
	// AuthOptional sends a bearer token only when one is configured.
	AuthOptional
	// AuthRequired fails with a CredentialError before any request when no
	// credential is configured.
	AuthRequired
)

// FailurePolicy decides what a discovery call does with an upstream failure.
type FailurePolicy int

const (
	// FailStrict returns the error to the caller.
	FailStrict FailurePolicy = iota
	// FailSoft logs the error and returns an empty slice.
	FailSoft
)

// Discovery on these platforms is soft unless overridden.
var defaultSoft = map[Name]bool{
	Colony:       true,
	MoltX:        true,
	MoltExchange: true,
	ClawNews:     true,
	AgentChan:    true,
	Directory:    true,
	SwarmHub:     true,
}

// Client talks to every platform. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	creds     Credentials
	baseURLs  map[Name]string
	policies  map[Name]FailurePolicy
	images    ImageGenerator
	log       logging.Logger
	userAgent string

	colonyToken tokenCell
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is left as given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL overrides the base URL for a platform (or YouTubeWeb).
func WithBaseURL(name Name, baseURL string) Option {
	return func(c *Client) {
		if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
			c.baseURLs[name] = baseURL
		}
	}
}

// WithImageGenerator sets the generator used for image prompts on posts.
func WithImageGenerator(g ImageGenerator) Option {
	return func(c *Client) { c.images = g }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithFailurePolicy overrides the discovery failure policy for one platform.
func WithFailurePolicy(name Name, p FailurePolicy) Option {
	return func(c *Client) { c.policies[name] = p }
}

// WithUserAgent overrides the product User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client. creds may be nil; missing entries disable write
// calls for that platform.
func New(creds Credentials, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		creds:     Credentials{},
		baseURLs:  make(map[Name]string, len(defaultBaseURLs)),
		policies:  make(map[Name]FailurePolicy),
		images:    imagegen.TemplateGenerator{},
		log:       logging.NewNop(),
		userAgent: UserAgent,
	}
	for k, v := range creds {
		if v = strings.TrimSpace(v); v != "" {
			c.creds[k] = v
		}
	}
	for k, v := range defaultBaseURLs {
		c.baseURLs[k] = v
	}
	for k := range defaultSoft {
		c.policies[k] = FailSoft
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredential reports whether a credential is configured for the platform.
func (c *Client) HasCredential(name Name) bool {
	return c.creds[name] != ""
}

// BaseURL returns the effective base URL for a platform.
func (c *Client) BaseURL(name Name) string {
	return c.baseURLs[name]
}

func (c *Client) failurePolicy(name Name) FailurePolicy {
	return c.policies[name]
}

// authorize applies policy to h using credential. It is the only place an
// Authorization header is built.
func authorize(h http.Header, name Name, policy AuthPolicy, credential string) error {
	switch policy {
	case AuthOptional:
		if credential != "" {
			h.Set("Authorization", "Bearer "+credential)
		}
	case AuthRequired:
		if credential == "" {
			return &CredentialError{Platform: name}
		}
		h.Set("Authorization", "Bearer "+credential)
	}
	return nil
}

// call describes one HTTP request to a platform.
type call struct {
	platform Name
	op       string
	method   string
	path     string
	query    url.Values
	body     any
	auth     AuthPolicy
	bearer   string // used instead of the configured credential when set
}

// requireCredential fails fast for write calls that must not do any work
// (such as image generation) without a credential.
func (c *Client) requireCredential(name Name) error {
	if !c.HasCredential(name) {
		return &CredentialError{Platform: name}
	}
	return nil
}

// do sends the call and decodes a JSON response body into out (when non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	header := make(http.Header)
	credential := cl.bearer
	if credential == "" {
		credential = c.creds[cl.platform]
	}
	if err := authorize(header, cl.platform, cl.auth, credential); err != nil {
		return err
	}

	raw, status, err := c.send(ctx, cl, header)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &UpstreamError{Platform: cl.platform, Op: cl.op, StatusCode: status, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &UpstreamError{Platform: cl.platform, Op: cl.op, StatusCode: 0, Message: "malformed response", Err: err}
	}
	return nil
}

// send performs the request and returns the raw body and status.
func (c *Client) send(ctx context.Context, cl call, header http.Header) ([]byte, int, error) {
	endpoint := c.baseURLs[cl.platform] + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return nil, 0, fmt.Errorf("%s %s: marshal request: %w", cl.platform, cl.op, err)
		}
		body = bytes.NewReader(buf)
		header.Set("Content-Type", "application/json")
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, body)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: create request: %w", cl.platform, cl.op, err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	c.log.Debug("platform request",
		logging.String("platform", string(cl.platform)),
		logging.String("op", cl.op),
		logging.String("method", cl.method),
		logging.String("path", cl.path))

	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = maskQuery(uerr.URL)
		}
		return nil, 0, &UpstreamError{Platform: cl.platform, Op: cl.op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, &UpstreamError{Platform: cl.platform, Op: cl.op, Message: "read body", Err: err}
	}
	return raw, resp.StatusCode, nil
}

// errorMessage pulls a human message out of an error body.
func errorMessage(raw []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			if s, ok := obj[key].(string); ok && s != "" {
				return s
			}
			if nested, ok := obj[key].(map[string]any); ok {
				if s, ok := nested["message"].(string); ok && s != "" {
					return s
				}
			}
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > maxErrorExcerpt {
		cut := maxErrorExcerpt
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	return msg
}

// secretParams are query parameters that carry credentials.
var secretParams = []string{"key", "api_key", "token", "access_token"}

// maskQuery replaces credential query values in a request URL so transport
// errors can be logged.
func maskQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	masked := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			masked = true
		}
	}
	if masked {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// settle applies the platform's failure policy to a discovery result and
// guarantees a non-nil slice on success.
func settle[T any](c *Client, name Name, op string, items []T, err error) ([]T, error) {
	if err == nil {
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
	if c.failurePolicy(name) == FailSoft {
		if errors.Is(err, ErrCredentialRequired) {
			c.log.Debug("discovery skipped, no credential",
				logging.String("platform", string(name)),
				logging.String("op", op))
			return []T{}, nil
		}
		c.log.Warn("discovery failed, returning no results",
			logging.String("platform", string(name)),
			logging.String("op", op),
			logging.Error(err))
		return []T{}, nil
	}
	return nil, err
}

// decodeList finds a list in a response that may be a bare array or an
// object carrying the list under one of keys (dotted paths allowed).
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []T{}, nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	for _, key := range keys {
		sub, ok, err := subObject(raw, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var items []T
		if err := json.Unmarshal(sub, &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	}
	return []T{}, nil
}

func subObject(raw json.RawMessage, path string) (json.RawMessage, bool, error) {
	cur := raw
	for _, part := range strings.Split(path, ".") {
		cur = bytes.TrimSpace(cur)
		if len(cur) == 0 || cur[0] != '{' {
			return nil, false, nil
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil {
			return nil, false, err
		}
		next, ok := obj[part]
		if !ok || bytes.Equal(bytes.TrimSpace(next), []byte("null")) {
			return nil, false, nil
		}
		cur = next
	}
	return cur, true, nil
}

func capLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func limitQuery(limit int) url.Values {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	return q
}

// decodeOrWrap is decodeList with decode failures reported as UpstreamError.
func decodeOrWrap[T any](name Name, op string, raw json.RawMessage, keys ...string) ([]T, error) {
	items, err := decodeList[T](raw, keys...)
	if err != nil {
		return nil, &UpstreamError{Platform: name, Op: op, Message: "malformed response", Err: err}
	}
	return items, nil
}

// write sends a write call and returns the decoded response object.
func (c *Client) write(ctx context.Context, cl call) (Response, error) {
	resp := Response{}
	if err := c.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
