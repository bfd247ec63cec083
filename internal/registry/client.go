package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agentlaunch-labs/agentlaunch/internal/logging"
)

const defaultTimeout = 30 * time.Second

// Limits enforced by the launchpad API.
const (
	MaxNameLen   = 32
	MaxSymbolLen = 11
)

// CategoryAI is the launchpad category identifier for AI/ML tokens.
const CategoryAI = 5

// Client talks to the launchpad registry API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client for the registry at baseURL authenticated by apiKey.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned when the registry responds with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// APIError is returned when the registry responds 2xx but reports failure
// in the envelope, for example when the agent is already tokenized.
type APIError struct {
	Op      string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// LaunchParams describes the token record to create. Name and Symbol are
// clamped to the API limits before sending.
type LaunchParams struct {
	AgentAddress string
	Name         string
	Symbol       string
	Description  string
	Logo         string
	ChainID      int
}

// Token is a created tokenization record.
type Token struct {
	ID          string
	Name        string
	Symbol      string
	Status      string
	Image       string
	HandoffLink string
}

// tokenID accepts both numeric and string identifiers.
type tokenID string

func (t *tokenID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = tokenID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = tokenID(n.String())
	return nil
}

type launchBody struct {
	AgentAddress string   `json:"agentAddress,omitempty"`
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	Description  string   `json:"description"`
	Category     category `json:"category"`
	Logo         string   `json:"logo"`
	ChainID      int      `json:"chainId"`
}

type category struct {
	ID int `json:"id"`
}

type launchEnvelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    *tokenData `json:"data"`
}

// tokenData mirrors the registry response. Older deployments use the
// token_id, ticker and picture field names.
type tokenData struct {
	ID          tokenID `json:"id"`
	TokenID     tokenID `json:"token_id"`
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Ticker      string  `json:"ticker"`
	Status      string  `json:"status"`
	Logo        string  `json:"logo"`
	Picture     string  `json:"picture"`
	HandoffLink string  `json:"handoff_link"`
}

// Launch creates a tokenization record for an agent. A 2xx response with
// success=false in the envelope is reported as an *APIError.
func (c *Client) Launch(ctx context.Context, params LaunchParams) (*Token, error) {
	const op = "launching token"

	body := launchBody{
		AgentAddress: params.AgentAddress,
		Name:         clamp(params.Name, MaxNameLen),
		Symbol:       clamp(params.Symbol, MaxSymbolLen),
		Description:  params.Description,
		Category:     category{ID: CategoryAI},
		Logo:         params.Logo,
		ChainID:      params.ChainID,
	}

	var envelope launchEnvelope
	if err := c.do(ctx, op, http.MethodPost, "/api/agents/launch", body, &envelope); err != nil {
		return nil, err
	}

	if !envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = "registry reported failure without a message"
		}
		return nil, &APIError{Op: op, Message: msg}
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%s: response missing token data", op)
	}

	return newToken(envelope.Data), nil
}

func newToken(d *tokenData) *Token {
	t := &Token{
		ID:          string(d.ID),
		Name:        d.Name,
		Symbol:      d.Symbol,
		Status:      d.Status,
		Image:       d.Logo,
		HandoffLink: d.HandoffLink,
	}
	if t.ID == "" {
		t.ID = string(d.TokenID)
	}
	if t.Symbol == "" {
		t.Symbol = d.Ticker
	}
	if t.Image == "" {
		t.Image = d.Picture
	}
	return t
}

// HandoffURL returns the frontend page where a human completes the token
// deployment for the given token identifier.
func HandoffURL(frontendURL, tokenID string) string {
	return strings.TrimSuffix(frontendURL, "/") + "/deploy/" + tokenID
}

func clamp(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func (c *Client) do(ctx context.Context, op, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("registry request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: reading response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decoding response: %w", op, err)
		}
	}
	return nil
}
