package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"
)

// testServer points every platform at one httptest server and counts requests.
type testServer struct {
	*httptest.Server
	hits atomic.Int64
}

func newTestClient(t *testing.T, creds Credentials, handler http.HandlerFunc, opts ...Option) (*Client, *testServer) {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	all := []Option{}
	for _, name := range append(Known(), YouTubeWeb, SwarmHub) {
		all = append(all, WithBaseURL(name, ts.URL))
	}
	return New(creds, append(all, opts...)...), ts
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name       string
		policy     AuthPolicy
		credential string
		wantHeader string
		wantErr    bool
	}{
		{"none ignores key", AuthNone, "k", "", false},
		{"optional with key", AuthOptional, "k", "Bearer k", false},
		{"optional without key", AuthOptional, "", "", false},
		{"required with key", AuthRequired, "k", "Bearer k", false},
		{"required without key", AuthRequired, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := make(http.Header)
			err := authorize(h, Moltbook, tt.policy, tt.credential)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := h.Get("Authorization"); got != tt.wantHeader {
				t.Errorf("Authorization = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestCredentialError(t *testing.T) {
	err := error(&CredentialError{Platform: Fourclaw})
	if !errors.Is(err, ErrCredentialRequired) {
		t.Error("CredentialError should match ErrCredentialRequired")
	}
	if err.Error() != "fourclaw: API key required" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestRequestsCarryUserAgent(t *testing.T) {
	var ua, auth string
	c, _ := newTestClient(t, Credentials{Moltbook: "mb-key"}, func(w http.ResponseWriter, r *http.Request) {
		ua, auth = r.Header.Get("User-Agent"), r.Header.Get("Authorization")
		writeJSON(w, map[string]any{"posts": []any{}})
	})

	if _, err := c.DiscoverMoltbook(context.Background(), MoltbookQuery{}); err != nil {
		t.Fatal(err)
	}
	if ua != UserAgent {
		t.Errorf("User-Agent = %q, want %q", ua, UserAgent)
	}
	if auth != "Bearer mb-key" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestUpstreamErrorCarriesMessage(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"error":"upstream exploded"}`)
	})

	_, err := c.DiscoverBottube(context.Background(), BottubeQuery{})
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusBadGateway || ue.Message != "upstream exploded" {
		t.Errorf("got status=%d message=%q", ue.StatusCode, ue.Message)
	}
	if !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("error text %q lacks upstream message", err)
	}
}

func TestUpstreamErrorTruncatesBody(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, strings.Repeat("x", 2000))
	})

	_, err := c.BottubeStats(context.Background())
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if len(ue.Message) != maxErrorExcerpt {
		t.Errorf("message length = %d, want %d", len(ue.Message), maxErrorExcerpt)
	}
}

func TestMalformedJSON(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	})

	if _, err := c.DiscoverClawsta(context.Background(), 5); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestMissingListDecodesEmpty(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"unrelated": true})
	})

	posts, err := c.DiscoverMoltbook(context.Background(), MoltbookQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("posts = %#v, want empty non-nil slice", posts)
	}
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		keys []string
		want int
	}{
		{"bare array", `[{"id":1},{"id":"2"}]`, nil, 2},
		{"keyed", `{"posts":[{"id":1}]}`, []string{"posts"}, 1},
		{"nested", `{"data":{"posts":[{"id":1},{"id":2},{"id":3}]}}`, []string{"data.posts", "posts"}, 3},
		{"second key", `{"results":[{"id":1}]}`, []string{"posts", "results"}, 1},
		{"null list", `{"posts":null}`, []string{"posts"}, 0},
		{"empty body", ``, []string{"posts"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeList[MoltXPost](json.RawMessage(tt.raw), tt.keys...)
			if err != nil {
				t.Fatal(err)
			}
			if got == nil || len(got) != tt.want {
				t.Errorf("got %d items (nil=%v), want %d", len(got), got == nil, tt.want)
			}
		})
	}
}

func TestFlexID(t *testing.T) {
	var v struct {
		A FlexID `json:"a"`
		B FlexID `json:"b"`
		C FlexID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":42,"b":"abc","c":null}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.A != "42" || v.B != "abc" || v.C != "" {
		t.Errorf("got %q %q %q", v.A, v.B, v.C)
	}
}

func TestResponseID(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"id":"t1"}`, "t1"},
		{`{"thread":{"id":7}}`, "7"},
		{`{"reply":{"id":"r9"}}`, "r9"},
		{`{"data":{"id":"d1"}}`, "d1"},
		{`{"ok":true}`, ""},
	}
	for _, tt := range tests {
		var r Response
		if err := json.Unmarshal([]byte(tt.raw), &r); err != nil {
			t.Fatal(err)
		}
		if got := r.ID(); got != tt.want {
			t.Errorf("ID(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseName(t *testing.T) {
	for in, want := range map[string]Name{"4claw": Fourclaw, "colony": Colony, " MoltX ": MoltX, "bottube": BoTTube} {
		got, err := ParseName(in)
		if err != nil || got != want {
			t.Errorf("ParseName(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseName("myspace"); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestFailurePolicy(t *testing.T) {
	fail := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }

	t.Run("soft by default", func(t *testing.T) {
		c, _ := newTestClient(t, nil, fail)
		ctx := context.Background()
		if got, err := c.DiscoverMoltX(ctx, 5); err != nil || got == nil || len(got) != 0 {
			t.Errorf("moltx: %v %v", got, err)
		}
		if got, err := c.DiscoverMoltExchange(ctx, 5); err != nil || got == nil || len(got) != 0 {
			t.Errorf("moltexchange: %v %v", got, err)
		}
		if got, err := c.DiscoverColony(ctx, ColonyQuery{}); err != nil || got == nil || len(got) != 0 {
			t.Errorf("colony: %v %v", got, err)
		}
	})

	t.Run("strict by default", func(t *testing.T) {
		c, _ := newTestClient(t, nil, fail)
		if _, err := c.DiscoverClawsta(context.Background(), 5); err == nil {
			t.Error("clawsta should surface errors")
		}
	})

	t.Run("override", func(t *testing.T) {
		c, _ := newTestClient(t, nil, fail, WithFailurePolicy(MoltX, FailStrict), WithFailurePolicy(BoTTube, FailSoft))
		if _, err := c.DiscoverMoltX(context.Background(), 5); err == nil {
			t.Error("strict override ignored")
		}
		if got, err := c.DiscoverBottube(context.Background(), BottubeQuery{}); err != nil || len(got) != 0 {
			t.Errorf("soft override ignored: %v", err)
		}
	})
}

func TestNewAppliesDefaultTimeout(t *testing.T) {
	c := New(nil)
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
	if DefaultTimeout != 15*time.Second {
		t.Errorf("DefaultTimeout = %v", DefaultTimeout)
	}
}

func TestUpstreamErrorTruncatesAtRuneBoundary(t *testing.T) {
	c, _ := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "x"+strings.Repeat("é", 600))
	})

	_, err := c.BottubeStats(context.Background())
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !utf8.ValidString(ue.Message) {
		t.Error("message is not valid UTF-8")
	}
	if len(ue.Message) != maxErrorExcerpt-1 {
		t.Errorf("message length = %d, want %d", len(ue.Message), maxErrorExcerpt-1)
	}
}

func TestMaskQuery(t *testing.T) {
	tests := map[string]string{
		"https://www.googleapis.com/youtube/v3/search?key=abc&q=ai": "https://www.googleapis.com/youtube/v3/search?key=REDACTED&q=ai",
		"https://x.test/p?token=t1":                                 "https://x.test/p?token=REDACTED",
		"https://x.test/p?limit=5":                                  "https://x.test/p?limit=5",
	}
	for in, want := range tests {
		if got := maskQuery(in); got != want {
			t.Errorf("maskQuery(%q) = %q, want %q", in, got, want)
		}
	}
}
