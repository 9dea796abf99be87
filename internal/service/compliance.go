package service

import (
	"context"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/notify"
	"github.com/GaurishMcK/HR-Nexus/internal/session"
	"github.com/GaurishMcK/HR-Nexus/internal/telemetry"
	"go.uber.org/zap"
)

// ComplianceEngine runs the regulation pipeline stages.
type ComplianceEngine interface {
	Fetch(ctx context.Context) (*domain.RegulationSnapshot, error)
	Analyze(ctx context.Context, reg *domain.RegulationSnapshot) (*domain.ImpactAnalysis, error)
	DraftNotification(ctx context.Context, analysis *domain.ImpactAnalysis, recipient string) (*domain.NotificationDraft, error)
}

// ComplianceService drives the regulation scan, analysis and notification
// steps, keeping each result in the caller's session.
type ComplianceService struct {
	engine           ComplianceEngine
	dispatcher       notify.Dispatcher
	defaultRecipient string
	logger           *zap.Logger
}

// NewComplianceService creates a new ComplianceService instance
func NewComplianceService(engine ComplianceEngine, dispatcher notify.Dispatcher, defaultRecipient string, logger *zap.Logger) *ComplianceService {
	return &ComplianceService{
		engine:           engine,
		dispatcher:       dispatcher,
		defaultRecipient: defaultRecipient,
		logger:           logging.OrNop(logger),
	}
}

// Scan fetches the current regulation and replaces the session's pipeline.
func (s *ComplianceService) Scan(ctx context.Context, sess *session.Session) (*domain.RegulationSnapshot, error) {
	reg, err := s.engine.Fetch(ctx)
	if err != nil {
		s.logger.Warn("regulation scan failed", zap.Error(err))
		return nil, err
	}
	sess.SetRegulation(reg)
	s.logger.Info("regulation scanned", zap.String("title", reg.Title), zap.String("location", reg.Location))
	return reg, nil
}

// Analyze compares the session's regulation with internal policy.
func (s *ComplianceService) Analyze(ctx context.Context, sess *session.Session) (*domain.ImpactAnalysis, error) {
	ctx, span := telemetry.StartSpan(ctx, "compliance.analyze", telemetry.SpanAttributes{
		UserID:    sess.UserID,
		Operation: "analyze",
	})
	defer span.End()

	analysis, err := s.engine.Analyze(ctx, sess.Regulation)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	sess.SetAnalysis(analysis)
	return analysis, nil
}

// Draft writes the notification for the session's analysis. An empty
// recipient falls back to the configured legal contact.
func (s *ComplianceService) Draft(ctx context.Context, sess *session.Session, recipient string) (*domain.NotificationDraft, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		recipient = s.defaultRecipient
	}
	draft, err := s.engine.DraftNotification(ctx, sess.Analysis, recipient)
	if err != nil {
		return nil, err
	}
	sess.Notification = draft
	return draft, nil
}

// Dispatch hands the session's notification draft to the notifier.
func (s *ComplianceService) Dispatch(ctx context.Context, sess *session.Session) (*notify.Event, error) {
	if sess.Notification == nil {
		return nil, domain.ErrNoDraftInSession
	}
	event := notify.NewEvent(notify.EventComplianceNotice, notify.Message{
		Recipient: sess.Notification.Recipient,
		Subject:   sess.Notification.Subject,
		Body:      sess.Notification.Body,
	})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "dispatch notification", err)
	}
	s.logger.Info("compliance notice dispatched",
		zap.String("event_id", event.ID),
		zap.String("recipient", event.Message.Recipient))
	return &event, nil
}
