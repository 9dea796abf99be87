package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	headerUserID    = "X-User-ID"
	headerSessionID = "X-Session-ID"
)

type APIClient struct {
	baseURL    string
	userID     string
	sessionID  string
	httpClient *http.Client
	onSession  func(userID, sessionID string) error
}

// NewAPIClientWithCmd creates an APIClient with identity resolved by ResolveIdentity.
// If cmd is nil, skips flag checking.
func NewAPIClientWithCmd(cmd *cobra.Command) (*APIClient, error) {
	_ = godotenv.Load()

	var flagUser, flagURL string
	if cmd != nil {
		flagUser, _ = cmd.Flags().GetString("user")
		flagURL, _ = cmd.Flags().GetString("api-url")
	}

	id := ResolveIdentity(flagUser, flagURL)
	if id.Source == FromNowhere {
		return nil, fmt.Errorf("%s not set (run 'hrnexus login' or set environment variable)", envUserID)
	}

	c := NewAPIClientWithConfig(id.UserID, id.APIURL)
	if id.Source == FromProfile {
		c.sessionID = id.Profile.SessionID
		c.onSession = rememberSession
	}
	return c, nil
}

// NewAPIClientWithConfig creates an APIClient with an explicit identity.
func NewAPIClientWithConfig(userID, baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		userID:  userID,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SessionID returns the session the server last assigned.
func (c *APIClient) SessionID() string {
	return c.sessionID
}

// APIResponse represents the standard API response format.
type APIResponse struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
	Code  string          `json:"code,omitempty"`
}

// APIError represents an error from the API. Data carries any partial result
// the server returned with the error.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Data       json.RawMessage
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (%d %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// Get performs a GET request.
func (c *APIClient) Get(path string) (*APIResponse, error) {
	return c.do(http.MethodGet, path, nil)
}

// Post performs a POST request with JSON body.
func (c *APIClient) Post(path string, body any) (*APIResponse, error) {
	return c.do(http.MethodPost, path, body)
}

// Put performs a PUT request with JSON body.
func (c *APIClient) Put(path string, body any) (*APIResponse, error) {
	return c.do(http.MethodPut, path, body)
}

// Patch performs a PATCH request with JSON body.
func (c *APIClient) Patch(path string, body any) (*APIResponse, error) {
	return c.do(http.MethodPatch, path, body)
}

func (c *APIClient) do(method, path string, body any) (*APIResponse, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(headerUserID, c.userID)
	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.Header.Set(headerSessionID, c.sessionID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.trackSession(resp.Header.Get(headerSessionID))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    string(respBody),
			}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       apiResp.Code,
			Message:    apiResp.Error,
			Data:       apiResp.Data,
		}
	}

	return &apiResp, nil
}

func (c *APIClient) trackSession(id string) {
	if id == "" || id == c.sessionID {
		return
	}
	c.sessionID = id
	if c.onSession != nil {
		_ = c.onSession(c.userID, id)
	}
}
