// Package dashboard aggregates tender and document statistics for the overview page.
package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"

	"tender-backend/internal/documents"
	"tender-backend/internal/tenders"
)

// TopTenderCount is how many tenders the overview ranks.
const TopTenderCount = 5

const pageSize = 100

// Summary is the dashboard payload.
type Summary struct {
	TotalTenders          int                      `json:"totalTenders"`
	TotalDocuments        int                      `json:"totalDocuments"`
	DocumentsByCategory   map[string]int           `json:"documentsByCategory"`
	AverageWinProbability *float64                 `json:"averageWinProbability"`
	TopTenders            []tenders.TenderResponse `json:"topTenders"`
}

// Service reads from the tender and document services.
type Service struct {
	Tenders   *tenders.Service
	Documents *documents.Service
}

// Summary computes the overview for the configured organization. The global
// documents pool is not counted as a tender.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	all, err := s.allTenders(ctx)
	if err != nil {
		return Summary{}, err
	}
	counts, err := s.Documents.CountByCategory(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count documents: %w", err)
	}

	out := Summary{
		DocumentsByCategory: counts,
		TopTenders:          []tenders.TenderResponse{},
	}
	for _, n := range counts {
		out.TotalDocuments += n
	}

	var scored []tenders.Tender
	var sum float64
	for _, t := range all {
		if t.ID == tenders.GlobalDocumentsID {
			continue
		}
		out.TotalTenders++
		if t.WinProbability != nil {
			scored = append(scored, t)
			sum += *t.WinProbability
		}
	}
	if len(scored) > 0 {
		avg := math.Round(sum/float64(len(scored))*10) / 10
		out.AverageWinProbability = &avg
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].WinProbability > *scored[j].WinProbability
	})
	if len(scored) > TopTenderCount {
		scored = scored[:TopTenderCount]
	}
	for _, t := range scored {
		out.TopTenders = append(out.TopTenders, tenders.ToResponse(t))
	}
	return out, nil
}

func (s *Service) allTenders(ctx context.Context) ([]tenders.Tender, error) {
	var out []tenders.Tender
	for offset := 0; ; offset += pageSize {
		page, err := s.Tenders.List(ctx, pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list tenders: %w", err)
		}
		out = append(out, page...)
		if len(page) < pageSize {
			return out, nil
		}
	}
}
