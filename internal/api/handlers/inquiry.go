package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/pagination"
	"github.com/GaurishMcK/HR-Nexus/internal/service"
)

type HelpdeskService interface {
	Ask(ctx context.Context, user *domain.User, text string) (*service.AskResult, error)
	History(ctx context.Context, userID, cursor string, limit int) (*pagination.PageResult[*domain.ChatMessage], error)
}

type InquiryHandler struct {
	svc HelpdeskService
}

func NewInquiryHandler(svc HelpdeskService) *InquiryHandler {
	return &InquiryHandler{svc: svc}
}

type AskRequest struct {
	Text string `json:"text"`
}

type RoutingResponse struct {
	Intent   string  `json:"intent"`
	Type     string  `json:"type"`
	Tone     int     `json:"tone"`
	Score    float64 `json:"score"`
	Rule     string  `json:"rule"`
	Escalate bool    `json:"escalate"`
}

type AskResponse struct {
	Reply     string           `json:"reply"`
	Escalated bool             `json:"escalated"`
	Grounded  bool             `json:"grounded"`
	Routing   *RoutingResponse `json:"routing,omitempty"`
	Ticket    *TicketResponse  `json:"ticket,omitempty"`
	Sources   []string         `json:"sources,omitempty"`
}

type ChatMessageResponse struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type HistoryResponse struct {
	Items   []*ChatMessageResponse `json:"items"`
	Cursor  string                 `json:"cursor,omitempty"`
	HasMore bool                   `json:"has_more"`
}

func askResultToResponse(res *service.AskResult) *AskResponse {
	out := &AskResponse{
		Reply:     res.Reply,
		Escalated: res.Escalated,
		Grounded:  res.Grounded,
		Sources:   res.Sources,
	}
	d := res.Decision
	if d.Rule != "" {
		out.Routing = &RoutingResponse{
			Intent:   string(d.Classification.Intent),
			Type:     string(d.Classification.Complexity),
			Tone:     d.Classification.Tone,
			Score:    d.Score,
			Rule:     string(d.Rule),
			Escalate: d.Escalate,
		}
	}
	if res.Ticket != nil {
		out.Ticket = ticketToResponse(res.Ticket)
	}
	return out
}

func chatMessageToResponse(m *domain.ChatMessage) *ChatMessageResponse {
	return &ChatMessageResponse{
		ID:        m.ID,
		Role:      string(m.Role),
		Content:   m.Content,
		Timestamp: m.CreatedAt.Format(timeLayout),
	}
}

// Ask handles POST /inquiries. Failed inquiries still carry the reply text
// in the error body.
func (h *InquiryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		api.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	res, err := h.svc.Ask(r.Context(), user, req.Text)
	if err != nil {
		if res != nil {
			api.HandleErrorWithData(w, err, askResultToResponse(res))
			return
		}
		api.HandleError(w, err)
		return
	}

	status := http.StatusOK
	if res.Escalated {
		status = http.StatusCreated
	}
	api.Success(w, status, askResultToResponse(res))
}

// History handles GET /history.
func (h *InquiryHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	page, err := h.svc.History(r.Context(), user.ID, r.URL.Query().Get("cursor"), limitParam(r))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*ChatMessageResponse, len(page.Items))
	for i, m := range page.Items {
		items[i] = chatMessageToResponse(m)
	}
	api.Success(w, http.StatusOK, HistoryResponse{
		Items:   items,
		Cursor:  page.Cursor,
		HasMore: page.HasMore,
	})
}
