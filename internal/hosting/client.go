package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentlaunch-labs/agentlaunch/internal/logging"
)

// defaultTimeout bounds every single round-trip to the hosting API.
// The only long wait in a launch is the compilation poll loop, which is
// budgeted separately by its caller.
const defaultTimeout = 30 * time.Second

// Client is a typed HTTP client for the Agentverse hosting API.
// It mirrors the wire format with its own response types; callers never
// see raw JSON.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *logging.Logger) Option {
	return func(cl *Client) {
		cl.log = l
	}
}

// New creates a Client for the hosting API at baseURL, authenticating
// every request with the given API key.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError reports a non-2xx response from the hosting API.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// Agent is one hosted agent record as returned by the list and create
// endpoints.
type Agent struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Running  bool   `json:"running"`
	Compiled bool   `json:"compiled"`
	// Field name is capitalized like this in the hosting API response.
	PendingMessages int `json:"Pending_messages"`
}

// AgentStatus is the wire format for GET /hosting/agents/{address}.
type AgentStatus struct {
	Compiled      bool   `json:"compiled"`
	Running       bool   `json:"running"`
	WalletAddress string `json:"wallet_address"`
	CompileError  string `json:"compile_error"`
}

// CodeFile is one source file in a code upload payload.
type CodeFile struct {
	Language string `json:"language"`
	Name     string `json:"name"`
	Value    string `json:"value"`
}

// LogEntry is one line from an agent's hosted log stream.
type LogEntry struct {
	Timestamp string `json:"log_timestamp"`
	Entry     string `json:"log_entry"`
}

// Create registers a new hosted agent and returns its record, including
// the opaque address every later call is keyed by.
func (c *Client) Create(ctx context.Context, name string) (*Agent, error) {
	const op = "creating agent"
	body, err := c.do(ctx, op, http.MethodPost, "/hosting/agents", map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	var agent Agent
	if err := json.Unmarshal(body, &agent); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	if agent.Address == "" {
		return nil, fmt.Errorf("%s: response missing agent address", op)
	}
	c.log.Debug("agent created", "address", agent.Address)
	return &agent, nil
}

// UploadCode replaces the agent's source with the given files and
// returns the upload digest. The API requires the code field to be a
// JSON string that itself contains the serialized file array, so the
// payload is encoded twice.
func (c *Client) UploadCode(ctx context.Context, address string, files []CodeFile) (string, error) {
	const op = "uploading code"
	encoded, err := json.Marshal(files)
	if err != nil {
		return "", fmt.Errorf("%s: encoding file array: %w", op, err)
	}

	body, err := c.do(ctx, op, http.MethodPut, "/hosting/agents/"+address+"/code", map[string]string{"code": string(encoded)})
	if err != nil {
		return "", err
	}

	var resp struct {
		Digest string `json:"digest"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%s: decoding response: %w", op, err)
	}
	c.log.Debug("code uploaded", "address", address, "digest", resp.Digest)
	return resp.Digest, nil
}

// SetSecret sets one named runtime secret on the agent.
func (c *Client) SetSecret(ctx context.Context, address, name, secret string) error {
	const op = "setting secret"
	payload := map[string]string{
		"address": address,
		"name":    name,
		"secret":  secret,
	}
	if _, err := c.do(ctx, op, http.MethodPost, "/hosting/secrets", payload); err != nil {
		return err
	}
	c.log.Debug("secret set", "address", address, "name", name)
	return nil
}

// Start starts the hosted agent, which also triggers remote compilation.
func (c *Client) Start(ctx context.Context, address string) error {
	const op = "starting agent"
	if _, err := c.do(ctx, op, http.MethodPost, "/hosting/agents/"+address+"/start", nil); err != nil {
		return err
	}
	c.log.Debug("agent started", "address", address)
	return nil
}

// Status fetches the agent's current compile/run state.
func (c *Client) Status(ctx context.Context, address string) (*AgentStatus, error) {
	const op = "fetching agent status"
	body, err := c.do(ctx, op, http.MethodGet, "/hosting/agents/"+address, nil)
	if err != nil {
		return nil, err
	}

	var status AgentStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return &status, nil
}

// List returns all hosted agents owned by the credential.
func (c *Client) List(ctx context.Context) ([]Agent, error) {
	const op = "listing agents"
	body, err := c.do(ctx, op, http.MethodGet, "/hosting/agents", nil)
	if err != nil {
		return nil, err
	}

	var agents []Agent
	if err := json.Unmarshal(body, &agents); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return agents, nil
}

// Logs returns the agent's most recent log lines.
func (c *Client) Logs(ctx context.Context, address string) ([]LogEntry, error) {
	const op = "fetching agent logs"
	body, err := c.do(ctx, op, http.MethodGet, "/hosting/agents/"+address+"/logs/latest", nil)
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return entries, nil
}

// do executes one request and returns the response body. Non-2xx
// responses become a *StatusError carrying the status code and body.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Authorization", "bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
