package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/pagination"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"github.com/GaurishMcK/HR-Nexus/internal/telemetry"
	"github.com/GaurishMcK/HR-Nexus/internal/triage"
	"go.uber.org/zap"
)

// FallbackReplyText is returned when an inquiry could not be processed or
// recorded, so the employee always gets a reply.
const FallbackReplyText = "We could not process your request right now. Please try again in a few minutes or contact HR directly."

// InquiryClassifier labels inquiry text.
type InquiryClassifier interface {
	Classify(ctx context.Context, text string) domain.Classification
}

// InquiryRouter turns a classification into a routing decision.
type InquiryRouter interface {
	Route(c domain.Classification) triage.Decision
}

// GroundingRetriever finds policy excerpts for a question.
type GroundingRetriever interface {
	Retrieve(ctx context.Context, question string, region domain.Region) ([]retrieval.ScoredChunk, error)
}

// AnswerSynthesizer writes an answer from policy excerpts.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, req answer.Request) (string, error)
}

// Escalator opens a ticket for an escalated inquiry.
type Escalator interface {
	Create(ctx context.Context, input CreateTicketInput) (*EscalationResult, error)
}

// AskResult is the outcome of one inquiry.
type AskResult struct {
	Reply     string
	Decision  triage.Decision
	Escalated bool
	Grounded  bool
	Ticket    *domain.Ticket
	Sources   []string
}

// HelpdeskService answers employee inquiries or escalates them to HR.
type HelpdeskService struct {
	chat        ChatRepositoryInterface
	tx          TxRunner
	classifier  InquiryClassifier
	router      InquiryRouter
	retriever   GroundingRetriever
	synthesizer AnswerSynthesizer
	escalator   Escalator
	logger      *zap.Logger
}

// HelpdeskDeps bundles the collaborators of HelpdeskService.
type HelpdeskDeps struct {
	Chat        ChatRepositoryInterface
	Tx          TxRunner
	Classifier  InquiryClassifier
	Router      InquiryRouter
	Retriever   GroundingRetriever
	Synthesizer AnswerSynthesizer
	Escalator   Escalator
	Logger      *zap.Logger
}

func NewHelpdeskService(deps HelpdeskDeps) *HelpdeskService {
	return &HelpdeskService{
		chat:        deps.Chat,
		tx:          deps.Tx,
		classifier:  deps.Classifier,
		router:      deps.Router,
		retriever:   deps.Retriever,
		synthesizer: deps.Synthesizer,
		escalator:   deps.Escalator,
		logger:      logging.OrNop(deps.Logger),
	}
}

// Ask classifies an inquiry, then either answers it from policy or escalates
// it to a ticket. The result always carries reply text, also when an error is
// returned alongside it.
func (s *HelpdeskService) Ask(ctx context.Context, user *domain.User, text string) (*AskResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyInquiry
	}
	if user == nil {
		return nil, domain.ErrUnknownUser
	}
	region := domain.NormalizeRegion(string(user.Region))

	ctx, span := telemetry.StartSpan(ctx, "helpdesk.ask", telemetry.SpanAttributes{
		UserID:    user.ID,
		Region:    string(region),
		Operation: "ask",
	})
	defer span.End()

	decision := s.router.Route(s.classifier.Classify(ctx, text))
	s.logger.Info("inquiry routed",
		zap.String("user_id", user.ID),
		zap.String("intent", string(decision.Classification.Intent)),
		zap.String("type", string(decision.Classification.Complexity)),
		zap.Int("tone", decision.Classification.Tone),
		zap.Float64("score", decision.Score),
		zap.String("rule", string(decision.Rule)),
		zap.Bool("escalate", decision.Escalate))

	result := &AskResult{Decision: decision}

	if decision.Escalate {
		esc, err := s.escalator.Create(ctx, CreateTicketInput{
			EmployeeID: user.ID,
			Question:   text,
			Score:      decision.Score,
		})
		if err != nil {
			span.SetError(err)
			result.Reply = FallbackReplyText
			return result, err
		}
		telemetry.AddBreadcrumb(ctx, "helpdesk", fmt.Sprintf("escalated to ticket #%d", esc.Ticket.ID))
		result.Escalated = true
		result.Ticket = esc.Ticket
		result.Reply = esc.Notice
		return result, nil
	}

	reply, sources, err := s.answer(ctx, text, region, user.PreferredLanguage())
	if err != nil {
		span.SetError(err)
		s.logger.Warn("answer generation failed", zap.String("user_id", user.ID), zap.Error(err))
		result.Reply = answer.FallbackText
		return result, err
	}
	result.Reply = reply
	result.Sources = sources
	result.Grounded = len(sources) > 0

	if err := s.recordExchange(ctx, user.ID, text, reply); err != nil {
		span.SetError(err)
		result.Reply = FallbackReplyText
		return result, err
	}
	return result, nil
}

func (s *HelpdeskService) answer(ctx context.Context, question string, region domain.Region, language string) (string, []string, error) {
	hits, err := s.retriever.Retrieve(ctx, question, region)
	if errors.Is(err, retrieval.ErrNoGrounding) {
		return answer.FallbackText, nil, nil
	}
	if err != nil {
		return "", nil, domain.GenerationError("retrieve policy", err)
	}

	reply, err := s.synthesizer.Synthesize(ctx, answer.Request{
		Question: question,
		Region:   region,
		Language: language,
		Chunks:   hits,
	})
	if err != nil {
		return "", nil, err
	}
	return reply, retrieval.Sources(hits), nil
}

func (s *HelpdeskService) recordExchange(ctx context.Context, userID, question, reply string) error {
	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		if err := repos.Chat().Append(ctx, &domain.ChatMessage{UserID: userID, Role: domain.ChatRoleUser, Content: question}); err != nil {
			return err
		}
		return repos.Chat().Append(ctx, &domain.ChatMessage{UserID: userID, Role: domain.ChatRoleAssistant, Content: reply})
	})
	return domain.StorageError("record chat exchange", err)
}

// History returns a user's chat log in insertion order.
func (s *HelpdeskService) History(ctx context.Context, userID, cursor string, limit int) (*pagination.PageResult[*domain.ChatMessage], error) {
	afterID, err := pagination.DecodeCursor(cursor)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid cursor", err)
	}
	limit = pagination.NormalizeLimit(limit)

	msgs, err := s.chat.ListByUser(ctx, userID, afterID, limit+1)
	if err != nil {
		return nil, domain.StorageError("list chat history", err)
	}
	page := pagination.NewPage(msgs, limit, func(m *domain.ChatMessage) int64 { return m.ID })
	return &page, nil
}
