package tenders

import "time"

// GlobalDocumentsID is the tender that pools company and supporting documents.
const GlobalDocumentsID = "global_documents"

// Tender statuses.
const (
	StatusOpen      = "open"
	StatusSubmitted = "submitted"
	StatusWon       = "won"
	StatusLost      = "lost"
	StatusArchived  = "archived"
)

// Organization owns tenders.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Tender is a bid opportunity that documents attach to. Assessment fields are nil
// until requirements have been scored.
type Tender struct {
	ID                  string
	OrganizationID      string
	Title               string
	Description         string
	Status              string
	Budget              string
	Deadline            *time.Time
	Requirements        []string
	WinProbability      *float64
	CapabilityScore     *float64
	MatchedRequirements *int
	TotalRequirements   *int
	Strengths           []string
	Weaknesses          []string
	Recommendations     []string
	GapAnalysis         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Patch holds optional field updates.
type Patch struct {
	Title        *string
	Description  *string
	Status       *string
	Budget       *string
	Deadline     *time.Time
	Requirements *[]string
}

func validStatus(s string) bool {
	switch s {
	case StatusOpen, StatusSubmitted, StatusWon, StatusLost, StatusArchived:
		return true
	default:
		return false
	}
}
