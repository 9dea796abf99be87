package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_UsesContextRegionAndLanguage(t *testing.T) {
	llm := new(MockCompleter)
	llm.On("Complete", mock.Anything, synthesizerSystemPrompt, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "for the India region") &&
			strings.Contains(p, "Write the answer in Hindi.") &&
			strings.Contains(p, "Notice period is sixty days.") &&
			strings.Contains(p, "What is my notice period?")
	})).Return("  आपकी नोटिस अवधि साठ दिन है।  ", nil)

	s := NewSynthesizer(llm)
	got, err := s.Synthesize(context.Background(), Request{
		Question: "What is my notice period?",
		Region:   "India",
		Language: "Hindi",
		Chunks:   []retrieval.ScoredChunk{chunk("notice_India.txt", "India", "Notice period is sixty days.")},
	})

	require.NoError(t, err)
	assert.Equal(t, "आपकी नोटिस अवधि साठ दिन है।", got)
	llm.AssertExpectations(t)
}

func TestSynthesize_DefaultsToEnglish(t *testing.T) {
	llm := new(MockCompleter)
	llm.On("Complete", mock.Anything, mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Write the answer in English.")
	})).Return("Two weeks.", nil)

	_, err := NewSynthesizer(llm).Synthesize(context.Background(), Request{
		Question: "notice?",
		Region:   "US",
		Chunks:   []retrieval.ScoredChunk{chunk("a.txt", "US", "Two weeks.")},
	})

	require.NoError(t, err)
	llm.AssertExpectations(t)
}

func TestSynthesize_NoChunks(t *testing.T) {
	llm := new(MockCompleter)

	_, err := NewSynthesizer(llm).Synthesize(context.Background(), Request{Question: "q", Region: "US"})

	assert.ErrorIs(t, err, ErrNoContext)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestSynthesize_GenerationFailure(t *testing.T) {
	llm := new(MockCompleter)
	llm.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("503 from upstream"))

	_, err := NewSynthesizer(llm).Synthesize(context.Background(), Request{
		Question: "q",
		Chunks:   []retrieval.ScoredChunk{chunk("a.txt", "US", "x")},
	})

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeUpstreamFailure, de.Code)
}
