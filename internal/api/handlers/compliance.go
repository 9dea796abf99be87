package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/GaurishMcK/HR-Nexus/internal/api"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/notify"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
)

type ComplianceService interface {
	Scan(ctx context.Context, sess *session.Session) (*domain.RegulationSnapshot, error)
	Analyze(ctx context.Context, sess *session.Session) (*domain.ImpactAnalysis, error)
	Draft(ctx context.Context, sess *session.Session, recipient string) (*domain.NotificationDraft, error)
	Dispatch(ctx context.Context, sess *session.Session) (*notify.Event, error)
}

type ComplianceHandler struct {
	svc ComplianceService
}

func NewComplianceHandler(svc ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{svc: svc}
}

type DraftNotificationRequest struct {
	Recipient string `json:"recipient"`
}

type DispatchResponse struct {
	EventID   string `json:"event_id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	SentAt    string `json:"sent_at"`
}

func (h *ComplianceHandler) Scan(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	reg, err := h.svc.Scan(r.Context(), sess)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, reg)
}

func (h *ComplianceHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	analysis, err := h.svc.Analyze(r.Context(), sess)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, analysis)
}

// Draft handles POST /admin/compliance/draft. The body is optional; without
// a recipient the configured legal contact is used.
func (h *ComplianceHandler) Draft(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req DraftNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	draft, err := h.svc.Draft(r.Context(), sess, req.Recipient)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusOK, draft)
}

func (h *ComplianceHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	event, err := h.svc.Dispatch(r.Context(), sess)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusAccepted, DispatchResponse{
		EventID:   event.ID,
		Recipient: event.Message.Recipient,
		Subject:   event.Message.Subject,
		SentAt:    event.Timestamp.Format(timeLayout),
	})
}
