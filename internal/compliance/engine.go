// Package compliance compares an external regulation with internal policy
// and drafts a notice for legal counsel. Every stage can be run on its own.
package compliance

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/answer"
	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"go.uber.org/zap"
)

// RelatedK is how many internal policy chunks are compared with a regulation.
const RelatedK = 4

// NotificationSubject is the subject line of every legal notice.
const NotificationSubject = "URGENT: Policy Update Required - Compliance Gap Identified"

const (
	EmptyIndexText = "Internal Policy Database is empty."
	NoPolicyText   = "No specific internal policy found on this topic."
)

const analystSystemPrompt = "You are a Senior Legal Analyst reviewing HR policy compliance."

const keywordsPromptTemplate = `Extract the 3 main keywords from this new law. Reply with the keywords only, separated by commas.

%s`

const comparePromptTemplate = `You are a Senior Legal Analyst. Compare these two texts.

NEW EXTERNAL REGULATION:
%s

OUR CURRENT INTERNAL POLICY:
%s

Task:
1. Identify conflicts or gaps.
2. Create a Markdown table comparing "Current Policy" vs "New Requirement".
3. Assign a Compliance Risk Score (High/Medium/Low) on its own line, formatted as
   "Compliance Risk Score: <High|Medium|Low>".

Output format: Markdown.`

const notificationPromptTemplate = `Draft a formal email to Legal Counsel (%s).
Subject: %s

Body:
- Summarize the analysis below.
- Request approval to update our internal policy documents.
- Tone: Professional, Direct.

Reply with the email body only.

Analysis Data:
%s`

// Source fetches the current regulation.
type Source interface {
	Fetch(ctx context.Context) (*domain.RegulationSnapshot, error)
}

// PolicySearcher queries the policy index.
type PolicySearcher interface {
	Query(ctx context.Context, text string, region domain.Region, k int) ([]retrieval.ScoredChunk, error)
}

type sizer interface {
	Size() int
}

// Engine runs the regulation-to-policy comparison.
type Engine struct {
	source Source
	index  PolicySearcher
	llm    answer.Completer
	logger *zap.Logger
}

func NewEngine(source Source, index PolicySearcher, llm answer.Completer, logger *zap.Logger) *Engine {
	return &Engine{source: source, index: index, llm: llm, logger: logging.OrNop(logger)}
}

// Fetch reads the regulation from the configured source.
func (e *Engine) Fetch(ctx context.Context) (*domain.RegulationSnapshot, error) {
	snap, err := e.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	e.logger.Info("regulation fetched", zap.String("title", snap.Title), zap.String("location", snap.Location))
	return snap, nil
}

// ExtractKeywords asks for the three main keywords of the regulation.
func (e *Engine) ExtractKeywords(ctx context.Context, reg *domain.RegulationSnapshot) (string, error) {
	out, err := e.llm.Complete(ctx, analystSystemPrompt, fmt.Sprintf(keywordsPromptTemplate, regulationText(reg)))
	if err != nil {
		return "", domain.GenerationError("extract keywords", err)
	}
	return strings.TrimSpace(out), nil
}

// RelatedPolicies searches every region for policy related to keywords. With
// no keywords the regulation body is used as the query. The returned context
// text is never empty.
func (e *Engine) RelatedPolicies(ctx context.Context, reg *domain.RegulationSnapshot, keywords string) ([]retrieval.ScoredChunk, string, error) {
	if s, ok := e.index.(sizer); ok && s.Size() == 0 {
		return nil, EmptyIndexText, nil
	}

	query := strings.TrimSpace(keywords)
	if query == "" && reg != nil {
		query = reg.Body
	}

	hits, err := e.index.Query(ctx, query, "", RelatedK)
	if err != nil {
		return nil, "", domain.GenerationError("search related policies", err)
	}
	if len(hits) == 0 {
		return nil, NoPolicyText, nil
	}
	return hits, answer.JoinChunks(hits), nil
}

// Compare produces the Markdown gap analysis and its risk rating.
func (e *Engine) Compare(ctx context.Context, reg *domain.RegulationSnapshot, internalContext string) (string, domain.RiskRating, error) {
	out, err := e.llm.Complete(ctx, analystSystemPrompt, fmt.Sprintf(comparePromptTemplate, regulationText(reg), internalContext))
	if err != nil {
		return "", domain.RiskUnrated, domain.GenerationError("compare regulation", err)
	}
	markdown := strings.TrimSpace(out)
	return markdown, ParseRisk(markdown), nil
}

// Analyze chains keyword extraction, policy search and comparison.
func (e *Engine) Analyze(ctx context.Context, reg *domain.RegulationSnapshot) (*domain.ImpactAnalysis, error) {
	if reg == nil {
		return nil, domain.ErrNoRegulationInSession
	}

	keywords, err := e.ExtractKeywords(ctx, reg)
	if err != nil {
		return nil, err
	}

	hits, internal, err := e.RelatedPolicies(ctx, reg, keywords)
	if err != nil {
		return nil, err
	}

	markdown, risk, err := e.Compare(ctx, reg, internal)
	if err != nil {
		return nil, err
	}

	e.logger.Info("compliance analysis complete",
		zap.String("title", reg.Title),
		zap.String("risk", string(risk)),
		zap.Int("related_chunks", len(hits)))

	return &domain.ImpactAnalysis{
		Keywords:        keywords,
		InternalContext: internal,
		Markdown:        markdown,
		Risk:            risk,
		Sources:         retrieval.Sources(hits),
	}, nil
}

// DraftNotification drafts the email to legal counsel. It is never sent here.
func (e *Engine) DraftNotification(ctx context.Context, analysis *domain.ImpactAnalysis, recipient string) (*domain.NotificationDraft, error) {
	if analysis == nil {
		return nil, domain.ErrNoAnalysisInSession
	}
	if strings.TrimSpace(recipient) == "" {
		return nil, domain.ErrMissingRequiredField
	}

	out, err := e.llm.Complete(ctx, analystSystemPrompt, fmt.Sprintf(notificationPromptTemplate, recipient, NotificationSubject, analysis.Markdown))
	if err != nil {
		return nil, domain.GenerationError("draft notification", err)
	}

	return &domain.NotificationDraft{
		Recipient: recipient,
		Subject:   NotificationSubject,
		Body:      strings.TrimSpace(out),
	}, nil
}

var (
	riskLabel = regexp.MustCompile(`(?i)compliance\s+risk\s+score`)
	riskValue = regexp.MustCompile(`(?i)\b(high|medium|low)\b`)
)

// ParseRisk reads the rating from the "Compliance Risk Score" line, or the
// first non-empty line after it. Anything else is Unrated.
func ParseRisk(markdown string) domain.RiskRating {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		loc := riskLabel.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if r, ok := matchRisk(line[loc[1]:]); ok {
			return r
		}
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				continue
			}
			if r, ok := matchRisk(next); ok {
				return r
			}
			break
		}
		return domain.RiskUnrated
	}
	return domain.RiskUnrated
}

func matchRisk(s string) (domain.RiskRating, bool) {
	m := riskValue.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	switch strings.ToLower(m[1]) {
	case "high":
		return domain.RiskHigh, true
	case "medium":
		return domain.RiskMedium, true
	default:
		return domain.RiskLow, true
	}
}

func regulationText(reg *domain.RegulationSnapshot) string {
	if reg == nil {
		return ""
	}
	return reg.Title + "\n\n" + reg.Body
}
