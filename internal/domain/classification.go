package domain

// Intent is the category of an inquiry.
type Intent string

const (
	IntentPolicyFacts     Intent = "POLICY_FACTS"
	IntentBenefits        Intent = "BENEFITS_INQUIRY"
	IntentProcedural      Intent = "PROCEDURAL_GUIDE"
	IntentGrievance       Intent = "GRIEVANCE_ESCALATION"
	IntentChitchat        Intent = "GENERAL_CHITCHAT"
	IntentClassifierError Intent = "ERROR"
)

// Complexity is the difficulty tier of an inquiry.
type Complexity string

const (
	ComplexityFactual     Complexity = "L1_FACTUAL"
	ComplexityComparative Complexity = "L2_COMPARATIVE"
	ComplexitySubjective  Complexity = "L3_SUBJECTIVE"
	ComplexityUnknown     Complexity = "UNKNOWN"
)

const (
	MinTone = 1
	MaxTone = 4
)

// Classification is the classifier's reading of an inquiry.
type Classification struct {
	Intent     Intent     `json:"intent"`
	Complexity Complexity `json:"type"`
	Tone       int        `json:"tone"`
}

// FailedClassification is substituted whenever classification cannot be
// trusted. Scoring always escalates it.
func FailedClassification() Classification {
	return Classification{
		Intent:     IntentClassifierError,
		Complexity: ComplexityUnknown,
		Tone:       0,
	}
}

// IsFailed reports whether c is the failure sentinel.
func (c Classification) IsFailed() bool {
	return c.Intent == IntentClassifierError
}

// IsValidIntent reports whether i is one of the classifier's output intents.
// The failure sentinel is not a valid classifier output.
func IsValidIntent(i Intent) bool {
	switch i {
	case IntentPolicyFacts, IntentBenefits, IntentProcedural, IntentGrievance, IntentChitchat:
		return true
	default:
		return false
	}
}

// IsValidComplexity reports whether c is one of the classifier's tiers.
func IsValidComplexity(c Complexity) bool {
	switch c {
	case ComplexityFactual, ComplexityComparative, ComplexitySubjective:
		return true
	default:
		return false
	}
}

// IsValidTone reports whether t is within the classifier's tone scale.
func IsValidTone(t int) bool {
	return t >= MinTone && t <= MaxTone
}

// Inquiry is an employee question as submitted.
type Inquiry struct {
	Text   string
	UserID string
	Region Region
}
