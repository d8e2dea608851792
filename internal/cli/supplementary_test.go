package cli

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/ppiankov/grazer/internal/platform"
)

func TestDiscoverClawTasks(t *testing.T) {
	var status string
	setupCLI(t, "clawtasks:\n  api_key: ct_key_123456\n", map[string]http.HandlerFunc{
		"clawtasks.com": func(w http.ResponseWriter, r *http.Request) {
			status = r.URL.Query().Get("status")
			jsonHandler(`{"bounties":[{"id":12,"title":"Fix the parser","status":"claimed","tags":["go"],"deadline_hours":48}]}`)(w, r)
		},
	})
	discoverPlatform, discoverStatus = "clawtasks", "claimed"

	out, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if status != "claimed" {
		t.Errorf("status = %q", status)
	}
	requireContains(t, out, "--- ClawTasks Bounties (1) ---")
	requireContains(t, out, "Fix the parser")
	requireContains(t, out, "status: claimed | tags: go | deadline: 48h")
}

func TestDiscoverPinchedInJobs(t *testing.T) {
	var path string
	setupCLI(t, "pinchedin:\n  api_key: pi_key_123456\n", map[string]http.HandlerFunc{
		"www.pinchedin.com": func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			jsonHandler(`{"jobs":[{"id":"j1","title":"Need a scraper","status":"open","poster":{"name":"Bo"}}]}`)(w, r)
		},
	})
	discoverPlatform = "pinchedin-jobs"

	out, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if path != "/api/jobs" {
		t.Errorf("path = %q", path)
	}
	requireContains(t, out, "Need a scraper")
	requireContains(t, out, "by Bo | status: open")
}

func TestDiscoverAgentChanBoard(t *testing.T) {
	var path string
	setupCLI(t, "", map[string]http.HandlerFunc{
		"chan.alphakek.ai": func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			jsonHandler(`{"data":[{"id":5,"subject":"hello agents","reply_count":2}]}`)(w, r)
		},
	})
	discoverPlatform, discoverBoard = "agentchan", "dev"

	out, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if path != "/api/boards/dev/catalog" {
		t.Errorf("path = %q", path)
	}
	requireContains(t, out, "hello agents")
	requireContains(t, out, "/dev/ | 2 replies")
}

func TestDiscoverAllIncludesConfiguredSupplementary(t *testing.T) {
	routes := allPlatformRoutes()
	routes["clawnews.io"] = jsonHandler(`{"stories":[{"id":"s1","headline":"Agents ship news","url":"https://example.com/s1"}]}`)
	env := setupCLI(t, "clawnews:\n  api_key: cn_key_123456\n", routes)

	out, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("discover all: %v", err)
	}
	requireContains(t, out, "--- ClawNews Stories (1) ---")
	requireContains(t, out, "Agents ship news")
	if strings.Contains(out, "PinchedIn") || strings.Contains(out, "ClawTasks") {
		t.Errorf("unconfigured supplementary platforms shown:\n%s", out)
	}
	if n := env.routes.count("www.pinchedin.com") + env.routes.count("clawtasks.com"); n != 0 {
		t.Errorf("keyless strict platforms saw %d requests", n)
	}
}

func TestPostClawTasksTags(t *testing.T) {
	var body map[string]any
	setupCLI(t, "clawtasks:\n  api_key: ct_key_123456\n", map[string]http.HandlerFunc{
		"clawtasks.com": func(w http.ResponseWriter, r *http.Request) {
			body = decodeBody(t, r)
			jsonHandler(`{"id":"b-1"}`)(w, r)
		},
	})
	postPlatform, postTitle, postMessage, postBoard = "clawtasks", "Write docs", "README please", "docs, go"

	out, err := captureStdout(t, func() error { return postAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	tags, _ := body["tags"].([]any)
	if len(tags) != 2 || tags[0] != "docs" || tags[1] != "go" {
		t.Errorf("tags = %v", body["tags"])
	}
	if body["description"] != "README please" || body["deadline_hours"] != float64(168) {
		t.Errorf("body = %v", body)
	}
	requireContains(t, out, "Posted to ClawTasks")
	requireContains(t, out, "ID: b-1")
}

func TestPostClawNewsRequiresURL(t *testing.T) {
	env := setupCLI(t, "clawnews:\n  api_key: cn_key_123456\n", nil)
	postPlatform, postTitle, postMessage = "clawnews", "Headline", "summary"

	err := postAction(testCmd(), nil)
	if err == nil || !strings.Contains(err.Error(), "--url") {
		t.Fatalf("err = %v, want url error", err)
	}
	if n := env.routes.count("clawnews.io"); n != 0 {
		t.Errorf("clawnews requests = %d", n)
	}
}

func TestPostPinchedInWithoutKey(t *testing.T) {
	env := setupCLI(t, "", nil)
	postPlatform, postMessage = "pinchedin", "hello network"

	_, err := captureStdout(t, func() error { return postAction(testCmd(), nil) })
	if !errors.Is(err, platform.ErrCredentialRequired) {
		t.Fatalf("err = %v, want credential error", err)
	}
	if n := env.routes.count("www.pinchedin.com"); n != 0 {
		t.Errorf("pinchedin requests = %d", n)
	}
}

func TestPostAgentChanDefaultBoard(t *testing.T) {
	var path, auth string
	var body map[string]any
	setupCLI(t, "", map[string]http.HandlerFunc{
		"chan.alphakek.ai": func(w http.ResponseWriter, r *http.Request) {
			path, auth = r.URL.Path, r.Header.Get("Authorization")
			body = decodeBody(t, r)
			jsonHandler(`{"data":{"id":77}}`)(w, r)
		},
	})
	postPlatform, postMessage, postName = "agentchan", "first thread", "grazer#trip"

	out, err := captureStdout(t, func() error { return postAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if path != "/api/boards/ai/threads" || auth != "" {
		t.Errorf("path = %q auth = %q", path, auth)
	}
	if body["content"] != "first thread" || body["name"] != "grazer#trip" {
		t.Errorf("body = %v", body)
	}
	requireContains(t, out, "Posted to AgentChan /ai/")
	requireContains(t, out, "ID: 77")
}

func TestCommentAgentChanReply(t *testing.T) {
	var path string
	setupCLI(t, "agentchan:\n  api_key: ac_key_123456\n", map[string]http.HandlerFunc{
		"chan.alphakek.ai": func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			jsonHandler(`{"data":{"id":78}}`)(w, r)
		},
	})
	commentPlatform, commentTarget, commentMessage, commentBoard = "agentchan", "101", "agreed", "dev"

	out, err := captureStdout(t, func() error { return commentAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if path != "/api/boards/dev/threads/101/posts" {
		t.Errorf("path = %q", path)
	}
	requireContains(t, out, "Comment posted on agentchan 101")
}

func TestCommentPinchedIn(t *testing.T) {
	var path string
	var body map[string]any
	setupCLI(t, "pinchedin:\n  api_key: pi_key_123456\n", map[string]http.HandlerFunc{
		"www.pinchedin.com": func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			body = decodeBody(t, r)
			jsonHandler(`{"comment":{"id":"c-9"}}`)(w, r)
		},
	})
	commentPlatform, commentTarget, commentMessage = "pinchedin", "p1", "congrats"

	out, err := captureStdout(t, func() error { return commentAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if path != "/api/posts/p1/comment" || body["content"] != "congrats" {
		t.Errorf("path = %q body = %v", path, body)
	}
	requireContains(t, out, "ID: c-9")
}

func TestAgentchanRegisterStoresKey(t *testing.T) {
	env := setupCLI(t, "", map[string]http.HandlerFunc{
		"chan.alphakek.ai": jsonHandler(`{"agent":{"label":"grazer","api_key":"agentchan_fresh_key"}}`),
	})

	out, err := captureStdout(t, func() error { return agentchanRegisterAction(testCmd(), []string{"grazer"}) })
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	got, err := env.secrets.Get("agentchan")
	if err != nil || got != "agentchan_fresh_key" {
		t.Fatalf("stored key = %q, %v", got, err)
	}
	requireContains(t, out, `Registered "grazer" on AgentChan`)
	if strings.Contains(out, "agentchan_fresh_key") {
		t.Errorf("full key printed:\n%s", out)
	}
}

func TestPinchedinRespond(t *testing.T) {
	var method, path string
	setupCLI(t, "pinchedin:\n  api_key: pi_key_123456\n", map[string]http.HandlerFunc{
		"www.pinchedin.com": func(w http.ResponseWriter, r *http.Request) {
			method, path = r.Method, r.URL.Path
			jsonHandler(`{"id":"req-1","status":"accepted"}`)(w, r)
		},
	})

	out, err := captureStdout(t, func() error { return pinchedinRespondAction(testCmd(), []string{"req-1", "accepted"}) })
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if method != http.MethodPatch || path != "/api/hiring/req-1" {
		t.Errorf("got %s %s", method, path)
	}
	requireContains(t, out, "Hiring request req-1 marked accepted")
}

func TestPinchedinHireSendsTaskDetails(t *testing.T) {
	var body map[string]any
	setupCLI(t, "pinchedin:\n  api_key: pi_key_123456\n", map[string]http.HandlerFunc{
		"www.pinchedin.com": func(w http.ResponseWriter, r *http.Request) {
			body = decodeBody(t, r)
			jsonHandler(`{"id":"h-1"}`)(w, r)
		},
	})
	pinchedinMessage, pinchedinTitle, pinchedinRequirements = "can you help?", "Index docs", "go, sqlite"

	if _, err := captureStdout(t, func() error { return pinchedinHireAction(testCmd(), []string{"bot-9"}) }); err != nil {
		t.Fatalf("hire: %v", err)
	}
	td, _ := body["taskDetails"].(map[string]any)
	reqs, _ := td["requirements"].([]any)
	if body["targetBotId"] != "bot-9" || td["title"] != "Index docs" || len(reqs) != 2 {
		t.Errorf("body = %v", body)
	}
}

func TestDiscoverSwarmHub(t *testing.T) {
	setupCLI(t, "", map[string]http.HandlerFunc{
		"swarmhub.onrender.com": func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/v1/agents":
				jsonHandler(`{"agents":[{"id":"a1","name":"scout","capabilities":["search","summarize"]}]}`)(w, r)
			case "/api/v1/swarms":
				jsonHandler(`{"swarms":[{"id":"s1","name":"research crew","member_count":3}]}`)(w, r)
			default:
				http.NotFound(w, r)
			}
		},
	})
	discoverPlatform = "swarmhub"

	out, err := captureStdout(t, func() error { return discoverAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	requireContains(t, out, "--- SwarmHub (2) ---")
	requireContains(t, out, "agent | search, summarize")
	requireContains(t, out, "swarm | 3 members")
}
