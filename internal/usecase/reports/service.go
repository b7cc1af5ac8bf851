package reports

import (
	"context"
	"errors"

	"opevents/internal/domain/event"
	"opevents/internal/errs"
	"opevents/internal/ports"
)

// Service reads the full event set from the repository and aggregates
// it in memory. The list store has no server-side grouping, so every
// report is a fresh read plus a pure computation.
type Service struct {
	repo ports.EventRepository
}

func NewService(repo ports.EventRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) load(ctx context.Context, f Filter) ([]event.Event, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	events, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyFilter(events, f), nil
}

func (s *Service) Summary(ctx context.Context, f Filter) (Summary, error) {
	events, err := s.load(ctx, f)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(events), nil
}

func (s *Service) Pareto(ctx context.Context, f Filter, field string) ([]ParetoRow, error) {
	events, err := s.load(ctx, f)
	if err != nil {
		return nil, err
	}
	return Pareto(events, field), nil
}

func (s *Service) CountBy(ctx context.Context, f Filter, field string, topN int) ([]ParetoRow, error) {
	events, err := s.load(ctx, f)
	if err != nil {
		return nil, err
	}
	return CountBy(events, field, topN), nil
}

func (s *Service) Trend(ctx context.Context, f Filter) ([]TrendRow, []TrendTotal, error) {
	events, err := s.load(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	rows, totals := MonthlyTrend(events)
	return rows, totals, nil
}

// Export renders the filtered event set as an xlsx workbook.
func (s *Service) Export(ctx context.Context, f Filter) ([]byte, error) {
	events, err := s.load(ctx, f)
	if err != nil {
		return nil, err
	}
	return Export(events)
}
