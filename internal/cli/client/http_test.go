package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestAPIClient_SendsIdentityAndTracksSession(t *testing.T) {
	var seenSessions []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "HR001", r.Header.Get(headerUserID))
		seenSessions = append(seenSessions, r.Header.Get(headerSessionID))
		w.Header().Set(headerSessionID, "sess-1")
		writeEnvelope(t, w, http.StatusOK, map[string]any{"data": map[string]string{"id": "HR001"}})
	}))
	defer srv.Close()

	var remembered []string
	api := NewAPIClientWithConfig("HR001", srv.URL)
	api.onSession = func(userID, sessionID string) error {
		remembered = append(remembered, userID+"/"+sessionID)
		return nil
	}

	_, err := api.Get("/me")
	require.NoError(t, err)
	_, err = api.Get("/me")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "sess-1"}, seenSessions)
	assert.Equal(t, []string{"HR001/sess-1"}, remembered)
	assert.Equal(t, "sess-1", api.SessionID())
}

func TestAPIClient_ErrorCarriesCodeAndData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusServiceUnavailable, map[string]any{
			"error": "storage unavailable",
			"code":  "STORAGE_FAILURE",
			"data":  map[string]string{"reply": "try later"},
		})
	}))
	defer srv.Close()

	_, err := NewAPIClientWithConfig("EMP001", srv.URL).Post("/inquiries", map[string]string{"text": "hi"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "STORAGE_FAILURE", apiErr.Code)
	assert.Equal(t, "storage unavailable", apiErr.Message)
	assert.JSONEq(t, `{"reply":"try later"}`, string(apiErr.Data))
}

func TestAPIClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewAPIClientWithConfig("EMP001", srv.URL).Get("/health")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "bad gateway")
}
