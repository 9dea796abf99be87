package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/pagination"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleTicket(status domain.TicketStatus) *domain.Ticket {
	return &domain.Ticket{ID: 12, EmployeeID: "EMP001", Question: "Where is my overtime?", Score: 3.5, AssignedTo: "HR001", Status: status}
}

func TestTicketHandler_List(t *testing.T) {
	svc := new(MockTicketService)
	h := NewTicketHandler(svc)
	svc.On("List", mock.Anything, alice, service.ListTicketsInput{Status: "Open", Cursor: "c1", Limit: 10}).
		Return(&pagination.PageResult[*domain.Ticket]{Items: []*domain.Ticket{sampleTicket(domain.TicketStatusOpen)}}, nil)

	w := httptest.NewRecorder()
	h.List(w, newRequest(http.MethodGet, "/tickets?status=Open&cursor=c1&limit=10", "", alice, nil, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[TicketListResponse](t, w)
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "EMP001", resp.Data.Items[0].EmployeeID)
	assert.False(t, resp.Data.HasMore)
}

func TestTicketHandler_Stats(t *testing.T) {
	svc := new(MockTicketService)
	svc.On("Stats", mock.Anything, alice).Return(&domain.TicketStats{Total: 2, Pending: 1, HighRisk: 2, Resolved: 1}, nil)

	w := httptest.NewRecorder()
	NewTicketHandler(svc).Stats(w, newRequest(http.MethodGet, "/tickets/stats", "", alice, nil, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"total":2,"pending":1,"high_risk":2,"resolved":1}}`, w.Body.String())
}

func TestTicketHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		setup      func(*MockTicketService)
		wantStatus int
	}{
		{
			name: "found",
			id:   "12",
			setup: func(m *MockTicketService) {
				m.On("Get", mock.Anything, alice, int64(12)).Return(sampleTicket(domain.TicketStatusOpen), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not assigned to caller",
			id:   "13",
			setup: func(m *MockTicketService) {
				m.On("Get", mock.Anything, alice, int64(13)).Return(nil, domain.ErrTicketNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{name: "bad id", id: "abc", setup: func(*MockTicketService) {}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTicketService)
			tt.setup(svc)
			w := httptest.NewRecorder()

			NewTicketHandler(svc).Get(w, newRequest(http.MethodGet, "/tickets/"+tt.id, "", alice, nil, map[string]string{"id": tt.id}))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTicketHandler_UpdateStatus(t *testing.T) {
	svc := new(MockTicketService)
	h := NewTicketHandler(svc)
	svc.On("UpdateStatus", mock.Anything, alice, int64(12), "In Progress").Return(sampleTicket(domain.TicketStatusInProgress), nil)

	w := httptest.NewRecorder()
	h.UpdateStatus(w, newRequest(http.MethodPatch, "/tickets/12/status", `{"status":"In Progress"}`, alice, nil, map[string]string{"id": "12"}))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[TicketResponse](t, w)
	assert.Equal(t, "In Progress", resp.Data.Status)
}

func TestTicketHandler_UpdateStatus_ResolvedConflict(t *testing.T) {
	svc := new(MockTicketService)
	svc.On("UpdateStatus", mock.Anything, alice, int64(12), "Open").Return(nil, domain.ErrTicketResolved)

	w := httptest.NewRecorder()
	NewTicketHandler(svc).UpdateStatus(w, newRequest(http.MethodPatch, "/tickets/12/status", `{"status":"Open"}`, alice, nil, map[string]string{"id": "12"}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "resolved")
}

func TestTicketHandler_Reply(t *testing.T) {
	svc := new(MockTicketService)
	svc.On("Reply", mock.Anything, alice, service.ReplyInput{TicketID: 12, Text: "Paid today.", Status: "Resolved"}).
		Return(sampleTicket(domain.TicketStatusResolved), nil)

	w := httptest.NewRecorder()
	NewTicketHandler(svc).Reply(w, newRequest(http.MethodPost, "/tickets/12/reply", `{"text":"Paid today.","status":"Resolved"}`, alice, nil, map[string]string{"id": "12"}))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestTicketHandler_Reply_StorageFailure(t *testing.T) {
	svc := new(MockTicketService)
	svc.On("Reply", mock.Anything, alice, mock.Anything).Return(nil, domain.StorageError("reply to ticket", errors.New("tx aborted")))

	w := httptest.NewRecorder()
	NewTicketHandler(svc).Reply(w, newRequest(http.MethodPost, "/tickets/12/reply", `{"text":"x"}`, alice, nil, map[string]string{"id": "12"}))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "tx aborted")
}

func TestTicketHandler_Draft(t *testing.T) {
	svc := new(MockTicketService)
	sess := session.New(alice.ID)
	draft := &answer.Draft{
		TicketID: 12,
		Text:     "Dear John, ...",
		Payroll:  &answer.PayrollSummary{Currency: "USD", Shortfall: 250},
	}
	svc.On("Draft", mock.Anything, alice, sess, int64(12)).Return(draft, nil)

	w := httptest.NewRecorder()
	NewTicketHandler(svc).Draft(w, newRequest(http.MethodPost, "/tickets/12/draft", "", alice, sess, map[string]string{"id": "12"}))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode[answer.Draft](t, w)
	assert.Equal(t, "Dear John, ...", resp.Data.Text)
	assert.Equal(t, 250.0, resp.Data.Payroll.Shortfall)
}

func TestTicketHandler_Draft_UpstreamFailure(t *testing.T) {
	svc := new(MockTicketService)
	sess := session.New(alice.ID)
	svc.On("Draft", mock.Anything, alice, sess, int64(12)).Return(nil, domain.GenerationError("draft resolution", errors.New("429")))

	w := httptest.NewRecorder()
	NewTicketHandler(svc).Draft(w, newRequest(http.MethodPost, "/tickets/12/draft", "", alice, sess, map[string]string{"id": "12"}))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
