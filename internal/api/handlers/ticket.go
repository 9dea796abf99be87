package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/pagination"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
)

type TicketService interface {
	Get(ctx context.Context, actor *domain.User, id int64) (*domain.Ticket, error)
	List(ctx context.Context, actor *domain.User, input service.ListTicketsInput) (*pagination.PageResult[*domain.Ticket], error)
	Stats(ctx context.Context, actor *domain.User) (*domain.TicketStats, error)
	UpdateStatus(ctx context.Context, actor *domain.User, id int64, status string) (*domain.Ticket, error)
	Reply(ctx context.Context, actor *domain.User, input service.ReplyInput) (*domain.Ticket, error)
	Draft(ctx context.Context, actor *domain.User, sess *session.Session, id int64) (*answer.Draft, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{svc: svc}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ReplyRequest struct {
	Text   string `json:"text"`
	Status string `json:"status,omitempty"`
}

type TicketResponse struct {
	ID         int64   `json:"id"`
	EmployeeID string  `json:"emp_id"`
	Question   string  `json:"question"`
	Score      float64 `json:"score"`
	AssignedTo string  `json:"assigned_to"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type TicketListResponse struct {
	Items   []*TicketResponse `json:"items"`
	Cursor  string            `json:"cursor,omitempty"`
	HasMore bool              `json:"has_more"`
}

type TicketStatsResponse struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	HighRisk int `json:"high_risk"`
	Resolved int `json:"resolved"`
}

func ticketToResponse(t *domain.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:         t.ID,
		EmployeeID: t.EmployeeID,
		Question:   t.Question,
		Score:      t.Score,
		AssignedTo: t.AssignedTo,
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt.Format(timeLayout),
		UpdatedAt:  t.UpdatedAt.Format(timeLayout),
	}
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	page, err := h.svc.List(r.Context(), user, service.ListTicketsInput{
		Status: q.Get("status"),
		Cursor: q.Get("cursor"),
		Limit:  limitParam(r),
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*TicketResponse, len(page.Items))
	for i, t := range page.Items {
		items[i] = ticketToResponse(t)
	}
	api.Success(w, http.StatusOK, TicketListResponse{Items: items, Cursor: page.Cursor, HasMore: page.HasMore})
}

func (h *TicketHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(r.Context(), user)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, TicketStatsResponse{
		Total:    stats.Total,
		Pending:  stats.Pending,
		HighRisk: stats.HighRisk,
		Resolved: stats.Resolved,
	})
}

func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := ticketIDParam(w, r)
	if !ok {
		return
	}

	ticket, err := h.svc.Get(r.Context(), user, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, ticketToResponse(ticket))
}

func (h *TicketHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := ticketIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		api.Error(w, http.StatusBadRequest, "status is required")
		return
	}

	ticket, err := h.svc.UpdateStatus(r.Context(), user, id, req.Status)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, ticketToResponse(ticket))
}

func (h *TicketHandler) Reply(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := ticketIDParam(w, r)
	if !ok {
		return
	}

	var req ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	ticket, err := h.svc.Reply(r.Context(), user, service.ReplyInput{TicketID: id, Text: req.Text, Status: req.Status})
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, ticketToResponse(ticket))
}

// Draft handles POST /tickets/{id}/draft; the draft is also kept in the
// caller's session.
func (h *TicketHandler) Draft(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := ticketIDParam(w, r)
	if !ok {
		return
	}
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	draft, err := h.svc.Draft(r.Context(), user, sess, id)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, draft)
}
