package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/langchain-flow/engine/internal/models"
	"github.com/langchain-flow/engine/internal/repository"
)

// CostSummary aggregates a run's cost events.
type CostSummary struct {
	RunID       uuid.UUID       `json:"runId"`
	TotalCost   float64         `json:"totalCost"`
	TotalTokens int64           `json:"totalTokens"`
	EventCount  int             `json:"eventCount"`
	Breakdown   []CostBreakdown `json:"breakdown"`
	TopSpenders []CostBreakdown `json:"topSpenders"`
}

// CostBreakdown is the per service+model slice of a summary.
type CostBreakdown struct {
	Service string  `json:"service"`
	Model   string  `json:"model"`
	Tokens  int64   `json:"tokens"`
	Cost    float64 `json:"cost"`
}

// CostService records cost events and computes run-level summaries.
type CostService interface {
	RecordCost(ctx context.Context, cost *models.Cost) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Cost, error)
	Summarize(ctx context.Context, runID uuid.UUID) (*CostSummary, error)
}

type costService struct {
	costRepo repository.CostRepository
}

func NewCostService(costRepo repository.CostRepository) CostService {
	return &costService{costRepo: costRepo}
}

var _ CostService = (*costService)(nil)

func (s *costService) RecordCost(ctx context.Context, cost *models.Cost) error {
	return s.costRepo.Create(ctx, cost)
}

func (s *costService) ListByRun(ctx context.Context, runID uuid.UUID) ([]models.Cost, error) {
	return s.costRepo.ListByRun(ctx, runID)
}

func (s *costService) Summarize(ctx context.Context, runID uuid.UUID) (*CostSummary, error) {
	costs, err := s.costRepo.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	summary := &CostSummary{
		RunID:       runID,
		EventCount:  len(costs),
		Breakdown:   []CostBreakdown{},
		TopSpenders: []CostBreakdown{},
	}

	type key struct{ service, model string }
	grouped := map[key]*CostBreakdown{}
	for _, c := range costs {
		tokens := c.TokensInput + c.TokensOutput
		summary.TotalCost += c.CostUSD
		summary.TotalTokens += tokens
		k := key{c.Service, c.Model}
		b, ok := grouped[k]
		if !ok {
			b = &CostBreakdown{Service: c.Service, Model: c.Model}
			grouped[k] = b
		}
		b.Tokens += tokens
		b.Cost += c.CostUSD
	}

	for _, b := range grouped {
		summary.Breakdown = append(summary.Breakdown, *b)
	}
	sort.Slice(summary.Breakdown, func(i, j int) bool {
		a, b := summary.Breakdown[i], summary.Breakdown[j]
		if a.Cost != b.Cost {
			return a.Cost > b.Cost
		}
		if a.Service != b.Service {
			return a.Service < b.Service
		}
		return a.Model < b.Model
	})

	top := summary.Breakdown
	if len(top) > 3 {
		top = top[:3]
	}
	summary.TopSpenders = append(summary.TopSpenders, top...)
	return summary, nil
}
