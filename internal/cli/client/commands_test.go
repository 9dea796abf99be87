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

func TestRunLogin_StoresIdentityAndSession(t *testing.T) {
	useTempConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me", r.URL.Path)
		w.Header().Set(headerSessionID, "sess-login")
		writeEnvelope(t, w, http.StatusOK, map[string]any{"data": Me{
			ID: "HR001", Name: "Alice (HR)", Role: "HR", Region: "US", Language: "English",
		}})
	}))
	defer srv.Close()

	me, err := runLogin(" HR001 ", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Alice (HR)", me.Name)

	config, err := LoadProfile()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, Profile{UserID: "HR001", APIURL: srv.URL, SessionID: "sess-login"}, *config)
}

func TestRunLogin_UnknownUserStoresNothing(t *testing.T) {
	useTempConfig(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusUnauthorized, map[string]string{"error": "unknown user", "code": "UNAUTHORIZED"})
	}))
	defer srv.Close()

	_, err := runLogin("NOBODY", srv.URL)
	require.Error(t, err)

	config, err := LoadProfile()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestRunLogin_InvalidID(t *testing.T) {
	useTempConfig(t)
	_, err := runLogin("two words", "http://unused")
	assert.Error(t, err)
}

func TestRunAsk(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      map[string]any
		wantReply string
		wantErr   bool
	}{
		{
			name:   "answered",
			status: http.StatusOK,
			body: map[string]any{"data": Answer{
				Reply: "Notice period is 30 days.", Grounded: true, Sources: []string{"leave_policy_US.txt"},
			}},
			wantReply: "Notice period is 30 days.",
		},
		{
			name:   "escalated",
			status: http.StatusCreated,
			body: map[string]any{"data": Answer{
				Reply: "Ticket #7 created.", Escalated: true, Ticket: &Ticket{ID: 7, AssignedTo: "HR001"},
			}},
			wantReply: "Ticket #7 created.",
		},
		{
			name:   "failure still carries reply",
			status: http.StatusBadGateway,
			body: map[string]any{
				"error": "generation failed",
				"code":  "UPSTREAM_FAILURE",
				"data":  Answer{Reply: "We could not process your request right now."},
			},
			wantReply: "We could not process your request right now.",
			wantErr:   true,
		},
		{
			name:    "failure without reply",
			status:  http.StatusUnauthorized,
			body:    map[string]any{"error": "unknown user", "code": "UNAUTHORIZED"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/inquiries", r.URL.Path)
				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "what is the notice period", req["text"])
				writeEnvelope(t, w, tt.status, tt.body)
			}))
			defer srv.Close()

			answer, err := runAsk(NewAPIClientWithConfig("EMP001", srv.URL), "what is the notice period")
			if tt.wantErr {
				var apiErr *APIError
				assert.True(t, errors.As(err, &apiErr))
			} else {
				require.NoError(t, err)
			}
			if tt.wantReply == "" {
				assert.Nil(t, answer)
				return
			}
			require.NotNil(t, answer)
			assert.Equal(t, tt.wantReply, answer.Reply)
		})
	}
}

func TestRequestDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tickets/12/draft", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, map[string]any{"data": map[string]any{
			"ticket_id": 12,
			"text":      "You are owed USD 125.00.",
			"payroll":   map[string]any{"currency": "USD", "shortfall": 125.0},
		}})
	}))
	defer srv.Close()

	draft, err := requestDraft(NewAPIClientWithConfig("HR001", srv.URL), 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), draft.TicketID)
	require.NotNil(t, draft.Payroll)
	assert.InDelta(t, 125.0, draft.Payroll.Shortfall, 1e-9)
}

func TestParseTicketID(t *testing.T) {
	id, err := parseTicketID("#42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseTicketID(bad)
		assert.Error(t, err, bad)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
