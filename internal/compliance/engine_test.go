package compliance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Fetch(ctx context.Context) (*domain.RegulationSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegulationSnapshot), args.Error(1)
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Query(ctx context.Context, text string, region domain.Region, k int) ([]retrieval.ScoredChunk, error) {
	args := m.Called(ctx, text, region, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]retrieval.ScoredChunk), args.Error(1)
}

type sizedSearcher struct {
	*MockSearcher
	size int
}

func (s sizedSearcher) Size() int { return s.size }

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

func promptHas(substr string) interface{} {
	return mock.MatchedBy(func(p string) bool { return strings.Contains(p, substr) })
}

var disconnect = &domain.RegulationSnapshot{
	Title:      "New Remote Work Mandate 2026",
	Body:       "All employees are entitled to a Right to Disconnect after 6 PM.",
	DetectedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
}

func TestAnalyze(t *testing.T) {
	llm := new(MockCompleter)
	llm.On("Complete", mock.Anything, analystSystemPrompt, promptHas("Extract the 3 main keywords")).
		Return(" right to disconnect, after hours, penalty ", nil)
	llm.On("Complete", mock.Anything, analystSystemPrompt, promptHas("Employees must answer email within 1 hour.")).
		Return("| Current Policy | New Requirement |\n|---|---|\n\n**Compliance Risk Score:** High", nil)

	searcher := new(MockSearcher)
	searcher.On("Query", mock.Anything, "right to disconnect, after hours, penalty", domain.Region(""), RelatedK).
		Return([]retrieval.ScoredChunk{{PolicyChunk: domain.PolicyChunk{Source: "remote_US.txt", Content: "Employees must answer email within 1 hour."}}}, nil)

	analysis, err := NewEngine(new(MockSource), sizedSearcher{searcher, 10}, llm, nil).Analyze(context.Background(), disconnect)

	require.NoError(t, err)
	assert.Equal(t, "right to disconnect, after hours, penalty", analysis.Keywords)
	assert.Equal(t, domain.RiskHigh, analysis.Risk)
	assert.Equal(t, []string{"remote_US.txt"}, analysis.Sources)
	assert.Contains(t, analysis.Markdown, "| Current Policy |")
	llm.AssertExpectations(t)
	searcher.AssertExpectations(t)
}

func TestAnalyze_NoRegulation(t *testing.T) {
	_, err := NewEngine(nil, nil, nil, nil).Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrNoRegulationInSession)
}

func TestAnalyze_KeywordFailure(t *testing.T) {
	llm := new(MockCompleter)
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

	_, err := NewEngine(nil, new(MockSearcher), llm, nil).Analyze(context.Background(), disconnect)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeUpstreamFailure, de.Code)
}

func TestRelatedPolicies_EmptyIndex(t *testing.T) {
	searcher := new(MockSearcher)

	hits, text, err := NewEngine(nil, sizedSearcher{searcher, 0}, nil, nil).RelatedPolicies(context.Background(), disconnect, "disconnect")

	require.NoError(t, err)
	assert.Nil(t, hits)
	assert.Equal(t, EmptyIndexText, text)
	searcher.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRelatedPolicies_NoHitsAndBodyFallback(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("Query", mock.Anything, disconnect.Body, domain.Region(""), RelatedK).Return(nil, nil)

	_, text, err := NewEngine(nil, searcher, nil, nil).RelatedPolicies(context.Background(), disconnect, "  ")

	require.NoError(t, err)
	assert.Equal(t, NoPolicyText, text)
	searcher.AssertExpectations(t)
}

func TestFetch_PassesSourceErrors(t *testing.T) {
	src := new(MockSource)
	src.On("Fetch", mock.Anything).Return(nil, domain.ErrRegulationMalformed)

	_, err := NewEngine(src, nil, nil, nil).Fetch(context.Background())

	assert.ErrorIs(t, err, domain.ErrRegulationMalformed)
}

func TestDraftNotification(t *testing.T) {
	llm := new(MockCompleter)
	llm.On("Complete", mock.Anything, analystSystemPrompt, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "legal@company.com") && strings.Contains(p, NotificationSubject) && strings.Contains(p, "gap table")
	})).Return("Dear Counsel,\n...", nil)

	draft, err := NewEngine(nil, nil, llm, nil).DraftNotification(context.Background(),
		&domain.ImpactAnalysis{Markdown: "gap table"}, "legal@company.com")

	require.NoError(t, err)
	assert.Equal(t, NotificationSubject, draft.Subject)
	assert.Equal(t, "legal@company.com", draft.Recipient)
	assert.Equal(t, "Dear Counsel,\n...", draft.Body)
}

func TestDraftNotification_RequiresAnalysis(t *testing.T) {
	_, err := NewEngine(nil, nil, nil, nil).DraftNotification(context.Background(), nil, "legal@company.com")
	assert.ErrorIs(t, err, domain.ErrNoAnalysisInSession)
}

func TestParseRisk(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.RiskRating
	}{
		{"inline", "Compliance Risk Score: Medium", domain.RiskMedium},
		{"bold heading", "### **Compliance Risk Score**: **LOW**", domain.RiskLow},
		{"next line", "## Compliance Risk Score\n\n**High** because of penalties", domain.RiskHigh},
		{"label without value", "Compliance Risk Score: TBD\n\nPending review", domain.RiskUnrated},
		{"no label", "Risk is high", domain.RiskUnrated},
		{"empty", "", domain.RiskUnrated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRisk(tt.in))
		})
	}
}
