package tenders

import "time"

// TenderResponse is the outward-facing representation of a tender.
type TenderResponse struct {
	ID                  string     `json:"id"`
	OrganizationID      string     `json:"organizationId"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Status              string     `json:"status"`
	Budget              string     `json:"budget,omitempty"`
	Deadline            *time.Time `json:"deadline,omitempty"`
	Requirements        []string   `json:"requirements"`
	WinProbability      *float64   `json:"winProbability"`
	CapabilityScore     *float64   `json:"capabilityScore"`
	MatchedRequirements *int       `json:"matchedRequirements"`
	TotalRequirements   *int       `json:"totalRequirements"`
	Strengths           []string   `json:"strengths"`
	Weaknesses          []string   `json:"weaknesses"`
	Recommendations     []string   `json:"recommendations"`
	GapAnalysis         string     `json:"gapAnalysis,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// ToResponse converts a Tender for JSON output.
func ToResponse(t Tender) TenderResponse {
	return TenderResponse{
		ID:                  t.ID,
		OrganizationID:      t.OrganizationID,
		Title:               t.Title,
		Description:         t.Description,
		Status:              t.Status,
		Budget:              t.Budget,
		Deadline:            t.Deadline,
		Requirements:        nonNil(t.Requirements),
		WinProbability:      t.WinProbability,
		CapabilityScore:     t.CapabilityScore,
		MatchedRequirements: t.MatchedRequirements,
		TotalRequirements:   t.TotalRequirements,
		Strengths:           nonNil(t.Strengths),
		Weaknesses:          nonNil(t.Weaknesses),
		Recommendations:     nonNil(t.Recommendations),
		GapAnalysis:         t.GapAnalysis,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

type createRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Budget       string     `json:"budget"`
	Deadline     *time.Time `json:"deadline"`
	Requirements []string   `json:"requirements"`
}

type patchRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Budget       *string    `json:"budget"`
	Deadline     *time.Time `json:"deadline"`
	Requirements *[]string  `json:"requirements"`
}
