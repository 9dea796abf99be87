package triage

import "github.com/GaurishMcK/HR-Nexus/internal/domain"

// EscalationThreshold is the score above which an inquiry goes to a human.
const EscalationThreshold = 2.7

// Rule scores, in evaluation order.
const (
	FailSafeScore      = 3.0
	HostileToneScore   = 3.5
	GrievanceScore     = 3.0
	SubjectivePolicy   = 2.8
	ChitchatBaseScore  = 1.0
	ChitchatToneWeight = 0.1
	DefaultScore       = 1.0

	hostileToneMin = 3
)

// Rule names which scoring rule produced a score.
type Rule string

const (
	RuleClassificationFailed Rule = "classification_failed"
	RuleHostileTone          Rule = "hostile_tone"
	RuleGrievance            Rule = "grievance"
	RuleSubjectivePolicy     Rule = "subjective_policy"
	RuleChitchat             Rule = "chitchat"
	RuleDefault              Rule = "default"
)

// Decision is the routing outcome for one classification. Score and Escalate
// always travel together.
type Decision struct {
	Classification domain.Classification `json:"classification"`
	Score          float64               `json:"score"`
	Escalate       bool                  `json:"escalate"`
	Rule           Rule                  `json:"rule"`
}

// Score maps a classification to its risk score.
func Score(c domain.Classification) float64 {
	score, _ := evaluate(c)
	return score
}

// evaluate applies the rule table; the first matching rule wins.
func evaluate(c domain.Classification) (float64, Rule) {
	switch {
	case c.IsFailed():
		return FailSafeScore, RuleClassificationFailed
	case c.Tone >= hostileToneMin:
		return HostileToneScore, RuleHostileTone
	case c.Intent == domain.IntentGrievance:
		return GrievanceScore, RuleGrievance
	case isPolicyIntent(c.Intent) && c.Complexity == domain.ComplexitySubjective:
		return SubjectivePolicy, RuleSubjectivePolicy
	case c.Intent == domain.IntentChitchat:
		return ChitchatBaseScore + ChitchatToneWeight*float64(c.Tone), RuleChitchat
	default:
		return DefaultScore, RuleDefault
	}
}

func isPolicyIntent(i domain.Intent) bool {
	switch i {
	case domain.IntentProcedural, domain.IntentPolicyFacts, domain.IntentBenefits:
		return true
	default:
		return false
	}
}

// Router turns classifications into escalate/answer decisions.
type Router struct {
	threshold float64
}

// NewRouter returns a Router using EscalationThreshold.
func NewRouter() *Router {
	return &Router{threshold: EscalationThreshold}
}

// NewRouterWithThreshold returns a Router with a custom threshold.
func NewRouterWithThreshold(threshold float64) *Router {
	return &Router{threshold: threshold}
}

// Threshold returns the router's escalation threshold.
func (r *Router) Threshold() float64 {
	return r.threshold
}

// Route scores c and decides whether to escalate.
func (r *Router) Route(c domain.Classification) Decision {
	score, rule := evaluate(c)
	return Decision{
		Classification: c,
		Score:          score,
		Escalate:       score > r.threshold,
		Rule:           rule,
	}
}
