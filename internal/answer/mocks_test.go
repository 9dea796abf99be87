package answer

import (
	"context"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"github.com/stretchr/testify/mock"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Retrieve(ctx context.Context, question string, region domain.Region) ([]retrieval.ScoredChunk, error) {
	args := m.Called(ctx, question, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]retrieval.ScoredChunk), args.Error(1)
}

type MockPayrollReader struct {
	mock.Mock
}

func (m *MockPayrollReader) GetByEmployee(ctx context.Context, employeeID string) (*domain.PayrollRecord, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayrollRecord), args.Error(1)
}

func chunk(source, region, content string) retrieval.ScoredChunk {
	return retrieval.ScoredChunk{
		PolicyChunk: domain.PolicyChunk{Source: source, Region: domain.Region(region), Content: content},
		Score:       0.8,
	}
}
