package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func testCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func allPlatformRoutes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"bottube.ai":       jsonHandler(`{"videos":[{"id":"v1","title":"Rust agents demo","agent":"sophia","views":12,"category":"tech"}]}`),
		"www.moltbook.com": jsonHandler(`{"posts":[{"id":7,"title":"rust agents win","submolt":"tech","upvotes":3,"url":"/post/7"}]}`),
		"clawsta.io":       jsonHandler(`{"posts":[{"id":"c1","content":"lobster pics","author":"claw","likes":1}]}`),
		"www.youtube.com": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<a href="/watch?v=abcdefghijk">x</a>`))
		},
		"thecolony.cc":    jsonHandler(`{"posts":[{"id":"p1","title":"colony finding","author":{"username":"ant"}}]}`),
		"moltx.io":        jsonHandler(`{"data":{"posts":[{"id":"m1","content":"hello moltx","author_display_name":"mx"}]}}`),
		"moltexchange.ai": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusBadGateway) },
	}
}

func TestDiscoverSinglePlatform(t *testing.T) {
	var gotCategory string
	setupCLI(t, "", map[string]http.HandlerFunc{
		"bottube.ai": func(w http.ResponseWriter, r *http.Request) {
			gotCategory = r.URL.Query().Get("category")
			jsonHandler(`[{"id":"v1","title":"Rust agents demo","agent":"sophia","views":12,"category":"tech"}]`)(w, r)
		},
	})
	discoverPlatform = "bottube"
	discoverCategory = "tech"

	out, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if gotCategory != "tech" {
		t.Errorf("category = %q", gotCategory)
	}
	requireContains(t, out, "--- BoTTube Videos (1) ---")
	requireContains(t, out, "Rust agents demo")
	requireContains(t, out, "by sophia | 12 views | tech")
	requireContains(t, out, "https://bottube.ai/api/videos/v1/stream")
}

func TestDiscoverSinglePlatformStrictError(t *testing.T) {
	env := setupCLI(t, "", nil)
	discoverPlatform = "4claw"

	_, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) })
	if err == nil || !strings.Contains(err.Error(), "fourclaw: API key required") {
		t.Fatalf("err = %v", err)
	}
	if n := env.routes.count("www.4claw.org"); n != 0 {
		t.Errorf("4claw requests = %d, want 0", n)
	}
}

func TestDiscoverAllJSON(t *testing.T) {
	setupCLI(t, "digest:\n  watch_keywords: [rust]\n", allPlatformRoutes())
	discoverFormat = "json"

	out, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("discover all: %v", err)
	}

	var got struct {
		Platforms map[string][]map[string]any `json:"platforms"`
		Errors    map[string]string           `json:"errors"`
		Trending  []struct {
			Keyword   string   `json:"keyword"`
			Platforms []string `json:"platforms"`
		} `json:"trending"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}

	for _, key := range []string{"bottube", "moltbook", "clawcities", "clawsta", "fourclaw", "youtube", "thecolony", "moltx", "moltexchange"} {
		list, ok := got.Platforms[key]
		if !ok || list == nil {
			t.Errorf("platform %s missing", key)
		}
	}
	if len(got.Platforms["fourclaw"]) != 0 || got.Errors["fourclaw"] == "" {
		t.Errorf("fourclaw = %v, error %q", got.Platforms["fourclaw"], got.Errors["fourclaw"])
	}
	// MoltExchange is soft: empty list, no error.
	if len(got.Platforms["moltexchange"]) != 0 || got.Errors["moltexchange"] != "" {
		t.Errorf("moltexchange = %v, error %q", got.Platforms["moltexchange"], got.Errors["moltexchange"])
	}
	if len(got.Platforms["clawcities"]) != 3 || len(got.Platforms["youtube"]) != 1 || len(got.Platforms["moltx"]) != 1 {
		t.Errorf("counts: clawcities=%d youtube=%d moltx=%d",
			len(got.Platforms["clawcities"]), len(got.Platforms["youtube"]), len(got.Platforms["moltx"]))
	}
	if len(got.Trending) != 1 || got.Trending[0].Keyword != "rust" || len(got.Trending[0].Platforms) != 2 {
		t.Errorf("trending = %+v", got.Trending)
	}
}

func TestDiscoverSaveAndHistory(t *testing.T) {
	setupCLI(t, "", map[string]http.HandlerFunc{
		"moltx.io": jsonHandler(`{"posts":[{"id":"m1","content":"first"},{"id":"m2","content":"second"}]}`),
	})
	discoverPlatform = "moltx"
	discoverSave = true

	for i := 0; i < 2; i++ {
		if _, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) }); err != nil {
			t.Fatalf("discover run %d: %v", i, err)
		}
	}

	out, err := captureStdout(t, func() error { return historyAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "2 items seen in the last 24h")
	requireContains(t, out, "[moltx] second")
	requireContains(t, out, "seen 2x")

	historyCounts = true
	out, err = captureStdout(t, func() error { return historyAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("history counts: %v", err)
	}
	requireContains(t, out, "2 items from 1 platforms")
}

func TestHistoryEmpty(t *testing.T) {
	setupCLI(t, "", nil)
	out, err := captureStdout(t, func() error { return historyAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Run 'grazer discover --save' first.")
}

func TestDiscoverUnknownFormat(t *testing.T) {
	setupCLI(t, "", nil)
	discoverFormat = "xml"
	if err := discoverAction(testCmd(), nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestSearchYouTubeAPI(t *testing.T) {
	var gotQuery string
	setupCLI(t, "youtube:\n  api_key: yt-test-key\n", map[string]http.HandlerFunc{
		"www.googleapis.com": func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			jsonHandler(`{"items":[{"id":{"videoId":"abcdefghijk"},"snippet":{"title":"Agents in Go","channelTitle":"gophers"}}]}`)(w, r)
		},
	})
	searchPlatform = "youtube"

	out, err := captureStdout(t, func() error { return searchAction(testCmd(), []string{"agents", "go"}) })
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "agents go" {
		t.Errorf("q = %q", gotQuery)
	}
	requireContains(t, out, "Agents in Go")
	requireContains(t, out, "by gophers")
}

func TestSearchRejectsPlatform(t *testing.T) {
	setupCLI(t, "", nil)
	searchPlatform = "moltx"
	if err := searchAction(testCmd(), []string{"x"}); err == nil {
		t.Fatal("expected error")
	}
}
