// Package scoring compares tender requirements against the organization's
// capability knowledge base.
package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Assessment is the capability verdict for one set of requirements.
type Assessment struct {
	WinningProbability  int      `json:"winningProbability"`
	CapabilityScore     int      `json:"capabilityScore"`
	MatchedRequirements int      `json:"matchedRequirements"`
	TotalRequirements   int      `json:"totalRequirements"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	Recommendations     []string `json:"recommendations"`
	GapAnalysis         string   `json:"gapAnalysis"`
}

// Capability is one thing the organization can evidence.
type Capability struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Evidence string   `json:"evidence"`
}

// Scorer computes an Assessment from extracted requirements.
type Scorer interface {
	Assess(ctx context.Context, requirements []string) (Assessment, error)
}

// ErrNoRequirements is returned when there is nothing to assess.
var ErrNoRequirements = errors.New("no requirements to assess")

const maxListItems = 5

// KeywordScorer matches requirement text against capability keywords.
type KeywordScorer struct {
	capabilities []Capability
}

// NewKeywordScorer returns a scorer over caps, or the built-in base when caps is empty.
func NewKeywordScorer(caps []Capability) *KeywordScorer {
	if len(caps) == 0 {
		caps = DefaultCapabilities()
	}
	normalized := make([]Capability, 0, len(caps))
	for _, c := range caps {
		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			continue
		}
		c.Keywords = kws
		normalized = append(normalized, c)
	}
	return &KeywordScorer{capabilities: normalized}
}

// Capabilities returns the knowledge base in use.
func (s *KeywordScorer) Capabilities() []Capability {
	out := make([]Capability, len(s.capabilities))
	copy(out, s.capabilities)
	return out
}

// Assess scores requirements. The result is deterministic for a given input.
func (s *KeywordScorer) Assess(ctx context.Context, requirements []string) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}
	reqs := make([]string, 0, len(requirements))
	for _, r := range requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	if len(reqs) == 0 {
		return Assessment{}, ErrNoRequirements
	}

	out := Assessment{
		TotalRequirements: len(reqs),
		Strengths:         []string{},
		Weaknesses:        []string{},
		Recommendations:   []string{},
	}
	usedCaps := make(map[string]struct{})
	var gaps []string
	for _, req := range reqs {
		capability, ok := s.match(req)
		if !ok {
			gaps = append(gaps, req)
			continue
		}
		out.MatchedRequirements++
		if _, seen := usedCaps[capability.Name]; seen {
			continue
		}
		usedCaps[capability.Name] = struct{}{}
		if len(out.Strengths) < maxListItems {
			out.Strengths = append(out.Strengths, strength(capability))
		}
	}

	for _, gap := range gaps {
		if len(out.Weaknesses) >= maxListItems {
			break
		}
		out.Weaknesses = append(out.Weaknesses, "No documented capability for: "+gap)
		out.Recommendations = append(out.Recommendations, "Provide evidence, a subcontractor or a partner for: "+gap)
	}

	ratio := float64(out.MatchedRequirements) / float64(out.TotalRequirements)
	out.CapabilityScore = int(math.Round(ratio * 100))
	out.WinningProbability = winProbability(ratio, out.TotalRequirements)
	if out.CapabilityScore < 50 {
		out.Recommendations = append(out.Recommendations, "Consider a teaming arrangement before committing to this bid.")
	}
	if len(gaps) == 0 {
		out.Recommendations = append(out.Recommendations, "Attach the supporting certificates for every matched requirement.")
	}
	out.GapAnalysis = gapAnalysis(out, gaps)
	return out, nil
}

func (s *KeywordScorer) match(req string) (Capability, bool) {
	lower := strings.ToLower(req)
	for _, c := range s.capabilities {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c, true
			}
		}
	}
	return Capability{}, false
}

// winProbability maps coverage onto 5..95. Few requirements give less confidence
// so the estimate is pulled toward 50.
func winProbability(ratio float64, total int) int {
	weight := math.Min(float64(total), 10) / 10
	p := 50 + (ratio*100-50)*weight*0.9
	return int(math.Max(5, math.Min(95, math.Round(p))))
}

func strength(c Capability) string {
	if strings.TrimSpace(c.Evidence) == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Evidence)
}

func gapAnalysis(a Assessment, gaps []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Matched %d of %d requirements (capability score %d%%, estimated win probability %d%%).",
		a.MatchedRequirements, a.TotalRequirements, a.CapabilityScore, a.WinningProbability)
	if len(gaps) == 0 {
		b.WriteString(" No capability gaps identified.")
		return b.String()
	}
	b.WriteString(" Gaps:")
	for _, g := range gaps {
		b.WriteString("\n- ")
		b.WriteString(g)
	}
	return b.String()
}

// LoadCapabilities reads a capability base from a JSON file holding either an
// array or an object with a "capabilities" array.
func LoadCapabilities(path string) ([]Capability, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capabilities: %w", err)
	}
	var list []Capability
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Capabilities []Capability `json:"capabilities"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse capabilities: %w", err)
	}
	return wrapped.Capabilities, nil
}

// DefaultCapabilities is the built-in capability base for the demo organization.
func DefaultCapabilities() []Capability {
	return []Capability{
		{Name: "ISO 9001 quality management", Keywords: []string{"iso 9001", "quality management", "qms"}, Evidence: "ISO 9001:2015 certified"},
		{Name: "ISO 27001 information security", Keywords: []string{"iso 27001", "information security", "isms"}, Evidence: "ISO 27001 certified"},
		{Name: "Health and safety", Keywords: []string{"health and safety", "ohs", "iso 45001", "safety plan"}, Evidence: "ISO 45001 programme in place"},
		{Name: "Civil engineering", Keywords: []string{"civil", "road", "highway", "bridge", "construction"}, Evidence: "15 completed road projects"},
		{Name: "Project management", Keywords: []string{"project manage", "pmp", "prince2", "programme management"}, Evidence: "PMP-certified project managers"},
		{Name: "Software development", Keywords: []string{"software", "application development", "web", "api", "integration"}, Evidence: "In-house engineering team of 40"},
		{Name: "Cloud hosting", Keywords: []string{"cloud", "hosting", "aws", "azure", "data centre", "data center"}, Evidence: "AWS Advanced Partner"},
		{Name: "Support and maintenance", Keywords: []string{"support", "maintenance", "sla", "helpdesk"}, Evidence: "24/7 support desk"},
		{Name: "Training", Keywords: []string{"training", "skills transfer", "capacity building"}, Evidence: "Accredited training provider"},
		{Name: "Tax and company compliance", Keywords: []string{"tax clearance", "tax compliance", "company registration", "vat"}, Evidence: "Valid tax clearance certificate"},
		{Name: "B-BBEE", Keywords: []string{"b-bbee", "bbbee", "bee level"}, Evidence: "Level 2 B-BBEE contributor"},
		{Name: "Insurance cover", Keywords: []string{"insurance", "indemnity", "liability cover"}, Evidence: "R10m professional indemnity cover"},
		{Name: "Financial capacity", Keywords: []string{"audited financial", "financial statement", "turnover", "bank guarantee"}, Evidence: "Three years of audited financials"},
	}
}
