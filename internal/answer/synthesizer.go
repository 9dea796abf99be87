// Package answer turns retrieved policy excerpts into replies for employees
// and drafts for HR handlers.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/retrieval"
)

// Completer produces a free-text completion.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ErrNoContext is returned when Synthesize is called without excerpts.
var ErrNoContext = errors.New("no policy context supplied")

// FallbackText is the reply used when no policy grounds an answer.
const FallbackText = "I checked the policies but couldn't find a direct answer. I recommend raising a ticket for an HR Specialist."

const synthesizerSystemPrompt = "You are an HR Policy Specialist. You answer only from the policy context you are given."

const synthesizerPromptTemplate = `You are an HR Policy Specialist for the %s region.
Answer the employee's question based ONLY on the context below. If the context does not
contain the answer, say that the policy does not cover it.
Write the answer in %s.

CONTEXT:
%s

QUESTION:
%s

Start your answer directly. Do not say "Based on the context".`

// Request is one synthesis call.
type Request struct {
	Question string
	Region   domain.Region
	Language string
	Chunks   []retrieval.ScoredChunk
}

// Synthesizer writes a natural-language answer from retrieved excerpts.
//
// Grounding is a prompt-level contract: the model is instructed to answer only
// from the supplied excerpts, but nothing checks the output against them.
// Callers must treat the answer as advisory text, not as verified policy.
type Synthesizer struct {
	llm Completer
}

func NewSynthesizer(llm Completer) *Synthesizer {
	return &Synthesizer{llm: llm}
}

func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (string, error) {
	if len(req.Chunks) == 0 {
		return "", ErrNoContext
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = domain.DefaultLanguage
	}

	prompt := fmt.Sprintf(synthesizerPromptTemplate,
		domain.NormalizeRegion(string(req.Region)),
		language,
		JoinChunks(req.Chunks),
		req.Question,
	)

	text, err := s.llm.Complete(ctx, synthesizerSystemPrompt, prompt)
	if err != nil {
		return "", domain.GenerationError("synthesize answer", err)
	}
	return strings.TrimSpace(text), nil
}

// JoinChunks renders excerpts as prompt context, one per paragraph.
func JoinChunks(chunks []retrieval.ScoredChunk) string {
	parts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		parts = append(parts, strings.TrimSpace(c.Content))
	}
	return strings.Join(parts, "\n\n")
}
