package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext holds state shared by the steps of one scenario.
type TestContext struct {
	BaseURL          string
	AdminToken       string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte

	participants map[string]string
	saved        map[string]string
}

func NewTestContext() *TestContext {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	adminToken := os.Getenv("ADMIN_API_TOKEN")
	if adminToken == "" {
		adminToken = "dev-admin-token"
	}

	return &TestContext{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		AdminToken:   adminToken,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
		participants: map[string]string{},
		saved:        map[string]string{},
	}
}

// Do sends a request with an optional JSON body and records the response.
func (tc *TestContext) Do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// AsParticipant sends a request carrying the named participant's identity.
func (tc *TestContext) AsParticipant(name, method, path string, body any) error {
	userID, ok := tc.participants[name]
	if !ok {
		return fmt.Errorf("participant %q is not registered in this scenario", name)
	}
	return tc.Do(method, path, body, map[string]string{"X-User-ID": userID})
}

// AsAdmin sends a request with the admin token.
func (tc *TestContext) AsAdmin(method, path string, body any) error {
	return tc.Do(method, path, body, map[string]string{"X-Admin-Token": tc.AdminToken})
}

func (tc *TestContext) RememberParticipant(name, userID string) {
	tc.participants[name] = userID
}

func (tc *TestContext) ParticipantID(name string) (string, bool) {
	userID, ok := tc.participants[name]
	return userID, ok
}

func (tc *TestContext) Save(key, value string) {
	tc.saved[key] = value
}

func (tc *TestContext) Saved(key string) (string, bool) {
	v, ok := tc.saved[key]
	return v, ok
}

// ResponseField walks a dotted path ("level.number", "results.0.status")
// through the last JSON response.
func (tc *TestContext) ResponseField(path string) (any, error) {
	var data any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return walk(data, path)
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}

func walk(data any, path string) (any, error) {
	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %s not found in response", path)
			}
			current = v
		case []any:
			var idx int
			if _, err := fmt.Sscanf(part, "%d", &idx); err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %s", part, path)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("cannot descend into %s at %q", path, part)
		}
	}
	return current, nil
}
