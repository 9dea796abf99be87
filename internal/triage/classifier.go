// Package triage classifies inquiries and decides whether they need a human.
package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"go.uber.org/zap"
)

// Generator produces a JSON completion for a prompt.
type Generator interface {
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)
}

const classifierSystemPrompt = "You are a strict JSON classifier for an HR helpdesk. Reply with one JSON object and nothing else."

const classifierPromptTemplate = `Analyze this employee request: %q

Classify it into these exact categories.

1. intent (choose exactly one):
   - "POLICY_FACTS": specific numbers, definitions or rules.
   - "BENEFITS_INQUIRY": entitlement, insurance, health or perks.
   - "PROCEDURAL_GUIDE": how-to questions, forms, where to apply.
   - "GRIEVANCE_ESCALATION": complaints, something not working, no reply, frustration.
   - "GENERAL_CHITCHAT": greetings, thanks, goodbyes.

2. type (complexity):
   - "L1_FACTUAL": simple lookup.
   - "L2_COMPARATIVE": comparing regions or rules.
   - "L3_SUBJECTIVE": nuanced or opinion-based.

3. tone (integer):
   - 1: neutral or polite
   - 2: anxious or confused
   - 3: frustrated or annoyed
   - 4: hostile or aggressive

Output exactly: {"intent": "STRING", "type": "STRING", "tone": INT}`

var (
	errMissingField = errors.New("missing field")
	errTrailingData = errors.New("trailing data after JSON object")
)

// classifierOutput mirrors the JSON contract. Pointers detect absent fields.
type classifierOutput struct {
	Intent *string `json:"intent"`
	Type   *string `json:"type"`
	Tone   *int    `json:"tone"`
}

// Classifier derives intent, complexity and tone from raw inquiry text.
type Classifier struct {
	gen    Generator
	logger *zap.Logger
}

func NewClassifier(gen Generator, logger *zap.Logger) *Classifier {
	return &Classifier{gen: gen, logger: logging.OrNop(logger)}
}

// Classify never fails: any generation or parse problem yields
// domain.FailedClassification(), which always scores above the threshold.
func (c *Classifier) Classify(ctx context.Context, text string) domain.Classification {
	raw, err := c.gen.CompleteJSON(ctx, classifierSystemPrompt, fmt.Sprintf(classifierPromptTemplate, text))
	if err != nil {
		c.logger.Warn("classification generation failed", zap.Error(err))
		return domain.FailedClassification()
	}

	result, err := ParseClassification(raw)
	if err != nil {
		c.logger.Warn("classification output rejected", zap.Error(err), zap.String("raw", truncate(raw, 200)))
		return domain.FailedClassification()
	}
	return result
}

// ParseClassification strictly decodes classifier output. A single enclosing
// Markdown code fence is tolerated; anything else outside the object is not.
func ParseClassification(raw string) (domain.Classification, error) {
	body := unwrapCodeFence(strings.TrimSpace(raw))

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var out classifierOutput
	if err := dec.Decode(&out); err != nil {
		return domain.Classification{}, fmt.Errorf("decode classification: %w", err)
	}
	if strings.TrimSpace(body[dec.InputOffset():]) != "" {
		return domain.Classification{}, errTrailingData
	}

	if out.Intent == nil {
		return domain.Classification{}, fmt.Errorf("%w: intent", errMissingField)
	}
	if out.Type == nil {
		return domain.Classification{}, fmt.Errorf("%w: type", errMissingField)
	}
	if out.Tone == nil {
		return domain.Classification{}, fmt.Errorf("%w: tone", errMissingField)
	}

	result := domain.Classification{
		Intent:     domain.Intent(*out.Intent),
		Complexity: domain.Complexity(*out.Type),
		Tone:       *out.Tone,
	}
	if !domain.IsValidIntent(result.Intent) {
		return domain.Classification{}, fmt.Errorf("unknown intent %q", *out.Intent)
	}
	if !domain.IsValidComplexity(result.Complexity) {
		return domain.Classification{}, fmt.Errorf("unknown type %q", *out.Type)
	}
	if !domain.IsValidTone(result.Tone) {
		return domain.Classification{}, fmt.Errorf("tone %d out of range", result.Tone)
	}
	return result, nil
}

func unwrapCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

// truncate caps s at n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
