//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agentlaunch-labs/agentlaunch/internal/clock"
	"github.com/agentlaunch-labs/agentlaunch/internal/hosting"
	"github.com/agentlaunch-labs/agentlaunch/internal/launch"
	"github.com/agentlaunch-labs/agentlaunch/internal/logging"
	"github.com/agentlaunch-labs/agentlaunch/internal/registry"
)

// Fixed values the fake platform hands out.
const (
	testAPIKey   = "test-api-key"
	frontendURL  = "https://launchpad.test"
	uploadDigest = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
	testWallet   = "fetch1qtestwallet00000000"
)

// testEnv holds the sandboxed directories and fake platform servers one
// test runs against.
type testEnv struct {
	HomeDir  string // AGENTLAUNCH_HOME — config and state live here
	WorkDir  string // scratch directory for generated projects
	Hosting  *hostingFake
	Registry *registryFake
}

// setupTestEnv creates isolated temp directories, points AGENTLAUNCH_HOME
// at them and starts fake hosting and registry servers. Everything is
// torn down when the test finishes.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:  t.TempDir(),
		WorkDir:  t.TempDir(),
		Hosting:  newHostingFake(t),
		Registry: newRegistryFake(t),
	}
	t.Setenv("AGENTLAUNCH_HOME", env.HomeDir)
	return env
}

// launchPipeline wires the full stage sequence against the fake platform
// the same way the launch command does, with a fast poll loop so tests
// finish quickly.
func launchPipeline(env *testEnv, apiKey string, budget time.Duration, fn launch.ScaffoldFunc, secrets map[string]string) *launch.Pipeline {
	host := hosting.New(env.Hosting.srv.URL, apiKey)
	reg := registry.New(env.Registry.srv.URL, apiKey)
	poller := launch.NewPoller(host, clock.Real(), 10*time.Millisecond, logging.Nop())
	session := launch.NewSession(host, poller, budget, logging.Nop())
	return launch.NewPipeline(logging.Nop(),
		launch.NewScaffoldStage(fn),
		launch.NewDeployStage(session, secrets),
		launch.NewTokenizeStage(reg, frontendURL),
	)
}

// staticScaffold returns a ScaffoldFunc serving a fixed single-file
// payload, for scenarios that do not exercise the template generator.
func staticScaffold(code string) launch.ScaffoldFunc {
	return func(_ context.Context, _ *launch.Request) (*launch.ScaffoldResult, error) {
		return &launch.ScaffoldResult{
			Files: []string{"agent.py"},
			Code:  []hosting.CodeFile{{Language: "python", Name: "agent.py", Value: code}},
		}, nil
	}
}

// defaultRequest returns a valid launch request with deploy and tokenize
// both enabled.
func defaultRequest() *launch.Request {
	return &launch.Request{
		Name:       "my-launcher",
		Ticker:     "MYL",
		Template:   "launcher",
		ChainID:    launch.ChainBSCTestnet,
		DoDeploy:   true,
		DoTokenize: true,
	}
}

// secretRecord is one secret as received by the fake hosting API, in
// arrival order.
type secretRecord struct {
	Name  string
	Value string
}

// hostingFake simulates the hosting API with in-memory agent state. Every
// request is recorded; requests whose bearer token does not match
// testAPIKey are rejected, so auth failures are produced by constructing
// a client with the wrong key.
type hostingFake struct {
	srv *httptest.Server

	mu            sync.Mutex
	requests      []string // "METHOD /path" in arrival order
	nextID        int
	uploads       map[string][]hosting.CodeFile
	secrets       map[string][]secretRecord
	started       map[string]bool
	statusQueries int

	// Knobs, set before the first request.
	pendingPolls int    // status queries answered "still compiling" first
	compileError string // non-empty: compilation fails with this message
}

func newHostingFake(t *testing.T) *hostingFake {
	t.Helper()

	f := &hostingFake{
		uploads: make(map[string][]hosting.CodeFile),
		secrets: make(map[string][]secretRecord),
		started: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /hosting/agents", f.handleCreate)
	mux.HandleFunc("PUT /hosting/agents/{address}/code", f.handleUpload)
	mux.HandleFunc("POST /hosting/secrets", f.handleSecret)
	mux.HandleFunc("POST /hosting/agents/{address}/start", f.handleStart)
	mux.HandleFunc("GET /hosting/agents/{address}", f.handleStatus)

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.Header.Get("Authorization") != "bearer "+testAPIKey {
			http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *hostingFake) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func (f *hostingFake) handleCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.nextID++
	address := fmt.Sprintf("agent1q%04d", f.nextID)
	f.mu.Unlock()

	writeJSON(w, hosting.Agent{Name: body.Name, Address: address})
}

// handleUpload expects the code field to be a JSON string that itself
// contains the serialized file array. A payload that is not encoded twice
// fails the decode and the request.
func (f *hostingFake) handleUpload(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var files []hosting.CodeFile
	if err := json.Unmarshal([]byte(body.Code), &files); err != nil {
		http.Error(w, "code field is not an encoded file array: "+err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.uploads[r.PathValue("address")] = files
	f.mu.Unlock()

	writeJSON(w, map[string]string{"digest": uploadDigest})
}

func (f *hostingFake) handleSecret(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Secret  string `json:"secret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.secrets[body.Address] = append(f.secrets[body.Address], secretRecord{Name: body.Name, Value: body.Secret})
	f.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

func (f *hostingFake) handleStart(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.started[r.PathValue("address")] = true
	f.mu.Unlock()

	w.WriteHeader(http.StatusOK)
}

func (f *hostingFake) handleStatus(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	f.statusQueries++
	pending := f.statusQueries <= f.pendingPolls
	compileErr := f.compileError
	f.mu.Unlock()

	status := hosting.AgentStatus{Running: true}
	switch {
	case pending:
		// still compiling
	case compileErr != "":
		status.CompileError = compileErr
	default:
		status.Compiled = true
		status.WalletAddress = testWallet
	}
	writeJSON(w, status)
}

// requestLog returns the requests received so far as "METHOD /path".
func (f *hostingFake) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *hostingFake) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *hostingFake) statusCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusQueries
}

// uploadFor returns the decoded code files uploaded for the address.
func (f *hostingFake) uploadFor(address string) []hosting.CodeFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploads[address]
}

// secretsFor returns the secrets set on the address in arrival order.
func (f *hostingFake) secretsFor(address string) []secretRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.secrets[address]
}

func (f *hostingFake) startedFor(address string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started[address]
}

// launchRequest mirrors the registry launch payload for assertions.
type launchRequest struct {
	AgentAddress string `json:"agentAddress"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Description  string `json:"description"`
	Category     struct {
		ID int `json:"id"`
	} `json:"category"`
	Logo    string `json:"logo"`
	ChainID int    `json:"chainId"`
}

// registryFake simulates the launchpad registry. By default every launch
// succeeds with a fixed numeric token id; setting failMessage switches
// responses to the success=false envelope the real API uses for
// duplicates.
type registryFake struct {
	srv *httptest.Server

	mu       sync.Mutex
	launches []launchRequest

	tokenID     int
	failMessage string
}

func newRegistryFake(t *testing.T) *registryFake {
	t.Helper()

	f := &registryFake{tokenID: 4821}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/agents/launch", f.handleLaunch)

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != testAPIKey {
			http.Error(w, `{"success":false,"message":"invalid api key"}`, http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *registryFake) handleLaunch(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.launches = append(f.launches, req)
	fail := f.failMessage
	id := f.tokenID
	f.mu.Unlock()

	if fail != "" {
		writeJSON(w, map[string]any{"success": false, "message": fail})
		return
	}
	writeJSON(w, map[string]any{
		"success": true,
		"data": map[string]any{
			"id":     id,
			"name":   req.Name,
			"symbol": req.Symbol,
			"status": "CREATED",
			"logo":   req.Logo,
		},
	})
}

func (f *registryFake) launchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.launches)
}

// lastLaunch returns the most recent launch payload, failing the test
// when none arrived.
func (f *registryFake) lastLaunch(t *testing.T) launchRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.launches) == 0 {
		t.Fatal("no launch request reached the registry")
	}
	return f.launches[len(f.launches)-1]
}

// writeJSON encodes v to the response with a 200 status.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
