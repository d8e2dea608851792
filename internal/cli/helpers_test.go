package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/99designs/keyring"

	"github.com/ppiankov/grazer/internal/config"
)

// routeTransport serves requests in-process, choosing a handler by host.
type routeTransport struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

func (rt *routeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.hits[req.URL.Host]++
	h, ok := rt.routes[req.URL.Host]
	rt.mu.Unlock()

	rec := httptest.NewRecorder()
	if !ok {
		rec.WriteHeader(http.StatusNotFound)
		_, _ = rec.WriteString(`{"error":"no route for ` + req.URL.Host + `"}`)
		return rec.Result(), nil
	}
	h(rec, req)
	return rec.Result(), nil
}

func (rt *routeTransport) count(host string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.hits[host]
}

type cliEnv struct {
	dir     string
	secrets config.SecretStore
	routes  *routeTransport
}

// setupCLI points the CLI at a temp config dir, an in-memory keychain and
// in-process platform handlers.
func setupCLI(t *testing.T, configYAML string, routes map[string]http.HandlerFunc) *cliEnv {
	t.Helper()

	dir := t.TempDir()
	if configYAML != "" {
		if err := os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte(configYAML), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	if routes == nil {
		routes = map[string]http.HandlerFunc{}
	}

	env := &cliEnv{
		dir:     dir,
		secrets: config.NewKeyringStore(keyring.NewArrayKeyring(nil)),
		routes:  &routeTransport{routes: routes, hits: map[string]int{}},
	}

	oldDir, oldLevel, oldSecrets, oldHTTP, oldRunner := configDir, logLevel, openSecrets, httpClient, clawhubRunner
	t.Cleanup(func() {
		configDir, logLevel, openSecrets, httpClient, clawhubRunner = oldDir, oldLevel, oldSecrets, oldHTTP, oldRunner
		setRedactor(nil)
	})

	configDir = dir
	logLevel = "error"
	openSecrets = func(string) (config.SecretStore, error) { return env.secrets, nil }
	httpClient = &http.Client{Transport: env.routes}
	clawhubRunner = nil
	resetFlags()
	return env
}

func resetFlags() {
	discoverPlatform, discoverCategory, discoverSubmolt, discoverBoard = "all", "", "", ""
	discoverColony, discoverQuery, discoverLimit, discoverFormat = "", "", 0, "terminal"
	discoverSave, discoverTrending, noColor, discoverStatus = false, false, true, ""

	searchPlatform, searchLimit, searchFormat = "bottube", 10, "terminal"

	postPlatform, postTitle, postMessage, postBoard = "", "", "", ""
	postImage, postSVGFile, postTemplate, postPalette = "", "", "", ""
	postType, postImageURL, postAnon, postLLM = "", "", false, true
	postLink, postName = "", ""

	commentPlatform, commentTarget, commentMessage = "", "", ""
	commentAnon, commentNoBump, commentBoard = false, false, ""

	statsPlatform, statsFormat = "bottube", "terminal"
	statusPlatform, statusFormat = "all", "terminal"
	clawhubLimit = 20
	imagegenOutput, imagegenTemplate, imagegenPalette, imagegenLLM = "", "", "", true
	keysShow = false
	historyPlatform, historyLimit, historySince, historyCounts, historyPrune = "", 50, "", false, false
	initReport = false
	pinchedinLimit, pinchedinStatus, pinchedinMessage = 20, "", ""
	pinchedinTitle, pinchedinDescription, pinchedinRequirements, pinchedinCompensation = "", "", "", ""
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return m
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("open stdout pipe: %v", err)
	}

	os.Stdout = writer
	done := make(chan []byte)
	go func() {
		out, _ := io.ReadAll(reader)
		done <- out
	}()

	runErr := fn()
	_ = writer.Close()
	os.Stdout = oldStdout

	out := <-done
	_ = reader.Close()
	return string(out), runErr
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()

	if !strings.Contains(got, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, got)
	}
}
