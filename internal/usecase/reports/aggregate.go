package reports

import (
	"math"
	"sort"
	"time"

	"opevents/internal/domain/event"
)

// ParetoRow is one frequency-ranked bucket with its running totals.
type ParetoRow struct {
	Category          string  `json:"category"`
	Count             int     `json:"count"`
	Cumulative        int     `json:"cumulative"`
	CumulativePercent float64 `json:"cumulative_percent"`
}

// fieldValue extracts the groupable value for the supported logical
// field keys. Empty values group under "Sin dato" like the dashboard.
func fieldValue(e event.Event, field string) string {
	var v string
	switch field {
	case event.FieldCategory:
		v = e.Category
	case event.FieldCause:
		v = e.Cause
	case event.FieldProjectNumber:
		v = e.ProjectNumber
	case event.FieldAssignee:
		v = e.Assignee
	case event.FieldStatus:
		v = string(e.Status)
	case event.FieldReporter:
		v = e.Reporter
	}
	if v == "" {
		return "Sin dato"
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Pareto groups events by the given field, sorts buckets by count
// descending (ties keep first-appearance order), and computes running
// counts and running percentage of the grand total. The final row
// always reads 100% within rounding.
func Pareto(events []event.Event, field string) []ParetoRow {
	if len(events) == 0 {
		return nil
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, e := range events {
		v := fieldValue(e, field)
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	rows := make([]ParetoRow, 0, len(order))
	for _, v := range order {
		rows = append(rows, ParetoRow{Category: v, Count: counts[v]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})

	total := len(events)
	cumulative := 0
	for i := range rows {
		cumulative += rows[i].Count
		rows[i].Cumulative = cumulative
		rows[i].CumulativePercent = round1(float64(cumulative) / float64(total) * 100)
	}
	return rows
}

// CountBy returns the topN most frequent values of a field, ordered by
// count descending with first-appearance tie-break. topN <= 0 keeps
// every bucket.
func CountBy(events []event.Event, field string, topN int) []ParetoRow {
	rows := Pareto(events, field)
	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}

type TrendRow struct {
	Month    string `json:"month"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TrendTotal struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// MonthlyTrend buckets events by calendar month of detection, grouped
// by impact category, plus an aggregate total per month. Events with
// no detection timestamp are skipped. Months sort ascending.
func MonthlyTrend(events []event.Event) ([]TrendRow, []TrendTotal) {
	type key struct {
		month    string
		category string
	}

	counts := make(map[key]int)
	totals := make(map[string]int)
	categoryOrder := make([]string, 0)
	seenCategory := make(map[string]struct{})

	for _, e := range events {
		if e.DetectedAt.IsZero() {
			continue
		}
		month := e.DetectedAt.Format("2006-01")
		category := fieldValue(e, event.FieldCategory)
		counts[key{month, category}]++
		totals[month]++
		if _, ok := seenCategory[category]; !ok {
			seenCategory[category] = struct{}{}
			categoryOrder = append(categoryOrder, category)
		}
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	rows := make([]TrendRow, 0, len(counts))
	totalRows := make([]TrendTotal, 0, len(months))
	for _, month := range months {
		for _, category := range categoryOrder {
			if n, ok := counts[key{month, category}]; ok {
				rows = append(rows, TrendRow{Month: month, Category: category, Count: n})
			}
		}
		totalRows = append(totalRows, TrendTotal{Month: month, Count: totals[month]})
	}
	return rows, totalRows
}

type Summary struct {
	Total                  int      `json:"total"`
	Open                   int      `json:"open"`
	InProgress             int      `json:"in_progress"`
	Closed                 int      `json:"closed"`
	AvgDaysToClose         *float64 `json:"avg_days_to_close"`
	CloseEfficiencyPercent float64  `json:"close_efficiency_percent"`
}

// Summarize computes status counts, the mean time-to-close in whole
// days over events carrying both timestamps, and the close efficiency
// (closed/total, defined as 0 for an empty set).
func Summarize(events []event.Event) Summary {
	s := Summary{Total: len(events)}

	var daysSum int
	var daysCount int
	for _, e := range events {
		switch e.Status {
		case event.StatusOpen:
			s.Open++
		case event.StatusInProgress:
			s.InProgress++
		case event.StatusClosed:
			s.Closed++
		}
		if !e.DetectedAt.IsZero() && e.ClosedAt != nil && !e.ClosedAt.IsZero() {
			daysSum += int(e.ClosedAt.Sub(e.DetectedAt) / (24 * time.Hour))
			daysCount++
		}
	}

	if daysCount > 0 {
		avg := round1(float64(daysSum) / float64(daysCount))
		s.AvgDaysToClose = &avg
	}
	if s.Total > 0 {
		s.CloseEfficiencyPercent = round1(float64(s.Closed) / float64(s.Total) * 100)
	}
	return s
}

// Filter narrows the event set before aggregation: inclusive date
// range over the detection timestamp, exact project, exact status.
type Filter struct {
	From    *time.Time
	To      *time.Time
	Project string
	Status  event.Status
}

func ApplyFilter(events []event.Event, f Filter) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if f.From != nil && e.DetectedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && e.DetectedAt.After(f.To.Add(24*time.Hour)) {
			continue
		}
		if f.Project != "" && e.ProjectNumber != f.Project {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out
}
