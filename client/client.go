package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client is the single outbound gateway to the SoulSync API. Every request
// flows through it: the session token is attached, failures are normalized
// into the APIError taxonomy, and any 401 tears the session down globally.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	log     zerolog.Logger
}

// New constructs a Client for the given base URL (e.g.
// "http://localhost:5001"). The session hydrates from the configured token
// store; call Bootstrap to confirm a persisted token against the server.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     zerolog.Nop(),
	}

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(c, cfg); err != nil {
			return nil, err
		}
	}

	store := cfg.tokenStore
	if store == nil {
		store = NewMemoryTokenStore()
	}
	c.session = newSession(store, c.log)
	c.session.onForcedLogout = cfg.onForcedLogout

	// The transport wrapper attaches the current session token to every
	// outgoing request.
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &tokenTransport{base: base, session: c.session}

	return c, nil
}

// Session exposes the session state machine for guards and views.
func (c *Client) Session() *Session { return c.session }

// tokenTransport injects the Authorization header when a session token is
// held. Requests are cloned, never mutated.
type tokenTransport struct {
	base    http.RoundTripper
	session *Session
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := t.session.currentToken()
	if !ok {
		return t.base.RoundTrip(req)
	}
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(cloned)
}

// do issues one request and decodes the response into out (when non-nil).
// All error normalization happens here, exactly once, so calling code never
// sees a raw transport error or an unclassified status.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, wantStatus int) error {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: KindValidation, Err: err}
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return &APIError{Kind: KindValidation, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := classifyTransport(err)
		requestsTotal.WithLabelValues(method, apiErr.Kind.String()).Inc()
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		apiErr := classifyResponse(resp)
		requestsTotal.WithLabelValues(method, apiErr.Kind.String()).Inc()
		if apiErr.Kind == KindUnauthorized {
			c.session.handleUnauthorized(apiErr)
		}
		return apiErr
	}

	requestsTotal.WithLabelValues(method, "ok").Inc()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{Kind: KindServer, StatusCode: resp.StatusCode, Message: "invalid response body", Err: err}
		}
	}
	return nil
}
