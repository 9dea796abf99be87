package domain

import "time"

// RiskRating is the compliance risk assigned to a regulation/policy comparison.
type RiskRating string

const (
	RiskHigh    RiskRating = "High"
	RiskMedium  RiskRating = "Medium"
	RiskLow     RiskRating = "Low"
	RiskUnrated RiskRating = "Unrated"
)

// RegulationSnapshot is external regulation text as fetched. It lives only in
// a session and is never stored in the database.
type RegulationSnapshot struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Location   string    `json:"location"`
	DetectedAt time.Time `json:"detected_at"`
}

// ImpactAnalysis compares a regulation with the internal policies it touches.
type ImpactAnalysis struct {
	Keywords        string     `json:"keywords"`
	InternalContext string     `json:"internal_context"`
	Markdown        string     `json:"markdown"`
	Risk            RiskRating `json:"risk"`
	Sources         []string   `json:"sources,omitempty"`
}

// NotificationDraft is an outbound message produced for humans to review.
type NotificationDraft struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}
