package cli

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/grazer/internal/platform"
)

func TestPostFourclawWithoutKey(t *testing.T) {
	env := setupCLI(t, "", nil)
	postPlatform, postBoard, postTitle, postMessage = "4claw", "b", "hello", "first post"

	_, err := captureStdout(t, func() error { return postAction(testCmd(), nil) })
	if !errors.Is(err, platform.ErrCredentialRequired) {
		t.Fatalf("err = %v, want credential error", err)
	}
	if n := env.routes.count("www.4claw.org"); n != 0 {
		t.Errorf("4claw requests = %d, want 0", n)
	}
}

func TestPostFourclawRequiresBoardAndTitle(t *testing.T) {
	setupCLI(t, "fourclaw:\n  api_key: clawchan_key_123\n", nil)
	postPlatform, postMessage = "fourclaw", "x"

	if err := postAction(testCmd(), nil); err == nil || !strings.Contains(err.Error(), "--board") {
		t.Errorf("err = %v, want board error", err)
	}
	postBoard = "b"
	if err := postAction(testCmd(), nil); err == nil || !strings.Contains(err.Error(), "--title") {
		t.Errorf("err = %v, want title error", err)
	}
}

func TestPostMoltbook(t *testing.T) {
	var body map[string]any
	var auth string
	setupCLI(t, "moltbook:\n  api_key: moltbook_sk_test\n", map[string]http.HandlerFunc{
		"www.moltbook.com": func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			body = decodeBody(t, r)
			jsonHandler(`{"post":{"id":"mb-42"}}`)(w, r)
		},
	})
	postPlatform, postTitle, postMessage = "moltbook", "Hi", "hello moltbook"

	out, err := captureStdout(t, func() error { return postAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if auth != "Bearer moltbook_sk_test" {
		t.Errorf("auth = %q", auth)
	}
	if body["submolt_name"] != "tech" || body["content"] != "hello moltbook" {
		t.Errorf("body = %v", body)
	}
	requireContains(t, out, "Posted to m/tech")
	requireContains(t, out, "Title: Hi")
	requireContains(t, out, "ID: mb-42")
}

func TestPostFourclawWithKeyringCredential(t *testing.T) {
	var auth, path string
	var body map[string]any
	env := setupCLI(t, "", map[string]http.HandlerFunc{
		"www.4claw.org": func(w http.ResponseWriter, r *http.Request) {
			auth, path = r.Header.Get("Authorization"), r.URL.Path
			body = decodeBody(t, r)
			jsonHandler(`{"thread":{"id":"t-9"}}`)(w, r)
		},
	})
	if err := env.secrets.Set("fourclaw", "clawchan_from_keyring"); err != nil {
		t.Fatal(err)
	}
	postPlatform, postBoard, postTitle, postMessage = "fourclaw", "singularity", "Art", "see attached"
	postSVGFile = filepath.Join(env.dir, "art.svg")
	if err := os.WriteFile(postSVGFile, []byte("<svg></svg>"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := captureStdout(t, func() error { return postAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if auth != "Bearer clawchan_from_keyring" {
		t.Errorf("auth = %q", auth)
	}
	if path != "/api/v1/boards/singularity/threads" {
		t.Errorf("path = %q", path)
	}
	media, _ := body["media"].([]any)
	if len(media) != 1 {
		t.Fatalf("media = %v", body["media"])
	}
	if m := media[0].(map[string]any); m["type"] != "svg" || m["data"] != "<svg></svg>" || m["generated"] != false {
		t.Errorf("media[0] = %v", m)
	}
	requireContains(t, out, "Posted to /singularity/")
	requireContains(t, out, "ID: t-9")
}

func TestPostFourclawImageUsesConfiguredLLM(t *testing.T) {
	const svg = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 300"><circle r="9"/></svg>`
	var llmHits int
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llmHits++
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("llm path = %q", r.URL.Path)
		}
		jsonHandler(`{"choices":[{"message":{"content":"here you go ` + strings.ReplaceAll(svg, `"`, `\"`) + `"}}]}`)(w, r)
	}))
	t.Cleanup(llm.Close)

	var body map[string]any
	setupCLI(t, "fourclaw:\n  api_key: clawchan_key_123\nimagegen:\n  llm_url: "+llm.URL+"\n", map[string]http.HandlerFunc{
		"www.4claw.org": func(w http.ResponseWriter, r *http.Request) {
			body = decodeBody(t, r)
			jsonHandler(`{"thread":{"id":"t-10"}}`)(w, r)
		},
	})
	postPlatform, postBoard, postTitle, postMessage = "fourclaw", "singularity", "Dot", "drawn"
	postImage = "a single dot"

	if _, err := captureStdout(t, func() error { return postAction(testCmd(), nil) }); err != nil {
		t.Fatalf("post: %v", err)
	}
	if llmHits != 1 {
		t.Fatalf("llm requests = %d, want 1", llmHits)
	}
	media, _ := body["media"].([]any)
	if len(media) != 1 {
		t.Fatalf("media = %v", body["media"])
	}
	if m := media[0].(map[string]any); m["data"] != svg || m["generated"] != true {
		t.Errorf("media[0] = %v", m)
	}
}

func TestPostFourclawImageLLMDisabled(t *testing.T) {
	var llmHits int
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llmHits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(llm.Close)

	var body map[string]any
	setupCLI(t, "fourclaw:\n  api_key: clawchan_key_123\nimagegen:\n  llm_url: "+llm.URL+"\n", map[string]http.HandlerFunc{
		"www.4claw.org": func(w http.ResponseWriter, r *http.Request) {
			body = decodeBody(t, r)
			jsonHandler(`{"thread":{"id":"t-11"}}`)(w, r)
		},
	})
	postPlatform, postBoard, postTitle, postMessage = "fourclaw", "b", "Grid", "templated"
	postImage, postLLM = "grid of squares", false

	if _, err := captureStdout(t, func() error { return postAction(testCmd(), nil) }); err != nil {
		t.Fatalf("post: %v", err)
	}
	if llmHits != 0 {
		t.Errorf("llm requests = %d, want 0 with --llm=false", llmHits)
	}
	media, _ := body["media"].([]any)
	if len(media) != 1 || !strings.HasPrefix(media[0].(map[string]any)["data"].(string), "<svg") {
		t.Errorf("media = %v", body["media"])
	}
}

func TestPostLLMFlagDefaultsOn(t *testing.T) {
	f := postCmd.Flags().Lookup("llm")
	if f == nil || f.DefValue != "true" {
		t.Fatalf("--llm flag = %+v, want default true", f)
	}
}

func TestPostUnsupportedPlatform(t *testing.T) {
	setupCLI(t, "", nil)
	postPlatform, postMessage = "bottube", "x"
	if err := postAction(testCmd(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestCommentRequiresTarget(t *testing.T) {
	setupCLI(t, "", nil)
	commentPlatform, commentMessage = "clawcities", "nice site"
	err := commentAction(testCmd(), nil)
	if err == nil || !strings.Contains(err.Error(), "--target") {
		t.Fatalf("err = %v", err)
	}
}

func TestCommentMoltExchange(t *testing.T) {
	var path string
	setupCLI(t, "moltexchange:\n  api_key: mx_key_abcdef\n", map[string]http.HandlerFunc{
		"moltexchange.ai": func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			jsonHandler(`{"id":17}`)(w, r)
		},
	})
	commentPlatform, commentTarget, commentMessage = "moltexchange", "q1", "42"

	out, err := captureStdout(t, func() error { return commentAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if path != "/v1/questions/q1/answers" {
		t.Errorf("path = %q", path)
	}
	requireContains(t, out, "Comment posted on moltexchange q1")
	requireContains(t, out, "ID: 17")
}

func TestKeysLifecycle(t *testing.T) {
	env := setupCLI(t, "", nil)

	out, err := captureStdout(t, func() error { return keysListAction(testCmd(), nil) })
	if err != nil {
		t.Fatal(err)
	}
	requireContains(t, out, "No keys stored.")

	out, err = captureStdout(t, func() error { return keysSetAction(testCmd(), []string{"4claw", "clawchan_secret_99"}) })
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	requireContains(t, out, "Stored fourclaw key (claw**********t_99)")
	if v, _ := env.secrets.Get("fourclaw"); v != "clawchan_secret_99" {
		t.Errorf("stored = %q", v)
	}

	keysInput = strings.NewReader("moltbook_sk_stdin\n")
	t.Cleanup(func() { keysInput = os.Stdin })
	if _, err := captureStdout(t, func() error { return keysSetAction(testCmd(), []string{"moltbook"}) }); err != nil {
		t.Fatalf("set from stdin: %v", err)
	}

	out, _ = captureStdout(t, func() error { return keysGetAction(testCmd(), []string{"moltbook"}) })
	requireContains(t, out, "molt*********tdin")
	keysShow = true
	out, _ = captureStdout(t, func() error { return keysGetAction(testCmd(), []string{"moltbook"}) })
	requireContains(t, out, "moltbook_sk_stdin")

	out, _ = captureStdout(t, func() error { return keysListAction(testCmd(), nil) })
	requireContains(t, out, "fourclaw\nmoltbook\n")

	if _, err := captureStdout(t, func() error { return keysRemoveAction(testCmd(), []string{"fourclaw"}) }); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := env.secrets.Get("fourclaw"); err == nil {
		t.Error("key still present after remove")
	}
}

func TestKeysSetRejectsEmpty(t *testing.T) {
	setupCLI(t, "", nil)
	keysInput = strings.NewReader("\n")
	t.Cleanup(func() { keysInput = os.Stdin })
	if err := keysSetAction(testCmd(), []string{"moltx"}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

type stubRunner struct {
	out  string
	args []string
}

func (s *stubRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	s.args = args
	return []byte(s.out), nil
}

func TestClawhubTrending(t *testing.T) {
	setupCLI(t, "", nil)
	r := &stubRunner{out: "memory-vault v1.2.0 Persistent memory for agents (by sophia, 1.2k downloads)\n"}
	clawhubRunner = r
	clawhubLimit = 5

	out, err := captureStdout(t, func() error { return clawhubTrendingAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if strings.Join(r.args, " ") != "explore --limit 5 --sort trending" {
		t.Errorf("args = %v", r.args)
	}
	requireContains(t, out, "1. memory-vault v1.2.0")
	requireContains(t, out, "by sophia | 1200 downloads | https://clawhub.ai/memory-vault")
}

func TestClawhubExplore(t *testing.T) {
	setupCLI(t, "", nil)
	r := &stubRunner{out: "fresh-skill v0.1.0 2d Handy skill\n"}
	clawhubRunner = r
	clawhubLimit = 3

	out, err := captureStdout(t, func() error { return clawhubExploreAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	if strings.Join(r.args, " ") != "explore --limit 3" {
		t.Errorf("args = %v", r.args)
	}
	requireContains(t, out, "ClawHub recently updated skills")
	requireContains(t, out, "1. fresh-skill v0.1.0")
	requireContains(t, out, "by unknown | 0 downloads")
}

func TestClawhubSearchEmpty(t *testing.T) {
	setupCLI(t, "", nil)
	clawhubRunner = &stubRunner{out: "\n"}

	out, err := captureStdout(t, func() error { return clawhubSearchAction(testCmd(), []string{"nothing"}) })
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "No skills found.")
}

func TestImagegenToFile(t *testing.T) {
	env := setupCLI(t, "", nil)
	imagegenOutput = filepath.Join(env.dir, "out.svg")
	imagegenTemplate = "grid"
	imagegenPalette = "ocean"

	out, err := captureStdout(t, func() error { return imagegenAction(testCmd(), []string{"data", "lake"}) })
	if err != nil {
		t.Fatalf("imagegen: %v", err)
	}
	requireContains(t, out, "SVG generated (template,")
	requireContains(t, out, "template: grid, palette: ocean")
	requireContains(t, out, "saved to: "+imagegenOutput)

	data, err := os.ReadFile(imagegenOutput)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("file is not svg: %.40q", data)
	}
}

func TestInitTwice(t *testing.T) {
	setupCLI(t, "", nil)
	configDir = filepath.Join(t.TempDir(), "fresh")

	out, err := captureStdout(t, func() error { return initAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	requireContains(t, out, "created: ")
	requireContains(t, out, "Initialized "+configDir)

	info, err := os.Stat(filepath.Join(configDir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config perm = %o", perm)
	}

	out, err = captureStdout(t, func() error { return initAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	requireContains(t, out, "already initialized")
}

func TestInitExampleConfigLoads(t *testing.T) {
	setupCLI(t, "", nil)
	configDir = filepath.Join(t.TempDir(), "example")
	if _, err := captureStdout(t, func() error { return initAction(testCmd(), nil) }); err != nil {
		t.Fatal(err)
	}
	if _, err := loadApp(); err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
}

func TestStatusClawCities(t *testing.T) {
	env := setupCLI(t, "", nil)
	statusPlatform = "clawcities"

	out, err := captureStdout(t, func() error { return statusAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[ UP ] clawcities")
	requireContains(t, out, "built-in directory, no request made")
	requireContains(t, out, "1/1 platforms reachable")
	if n := env.routes.count("clawcities.com"); n != 0 {
		t.Errorf("clawcities requests = %d", n)
	}
}

func TestStatusRedactsKey(t *testing.T) {
	setupCLI(t, "youtube:\n  api_key: AIzaTopSecretKey\n", map[string]http.HandlerFunc{
		"www.googleapis.com": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"message":"bad key AIzaTopSecretKey"}}`))
		},
	})
	statusPlatform = "youtube"

	out, err := captureStdout(t, func() error { return statusAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[DOWN] youtube")
	if strings.Contains(out, "AIzaTopSecretKey") {
		t.Errorf("key leaked into status output:\n%s", out)
	}
}

func TestRedactConfiguredKey(t *testing.T) {
	setupCLI(t, "moltx:\n  api_key: moltx_live_abcdef\n", nil)
	if _, err := loadApp(); err != nil {
		t.Fatal(err)
	}
	got := Redact("moltx post: HTTP 401: token moltx_live_abcdef rejected")
	if strings.Contains(got, "moltx_live_abcdef") {
		t.Errorf("Redact = %q", got)
	}
}

func TestDoctorReportsMissingConfig(t *testing.T) {
	setupCLI(t, "", nil)
	_, err := captureStdout(t, func() error { return doctorAction(testCmd(), nil) })
	if err == nil {
		t.Fatal("expected doctor to fail without a config file")
	}
}

func TestDoctorPasses(t *testing.T) {
	setupCLI(t, "moltbook:\n  api_key: moltbook_sk_test\n", nil)
	out, err := captureStdout(t, func() error { return doctorAction(testCmd(), nil) })
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "credentials for 1/14 platforms")
	requireContains(t, out, "All checks passed.")
}
