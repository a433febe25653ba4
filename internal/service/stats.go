package service

import (
	"context"
	"strings"

	"visadesk-data/internal/schema"
)

// Stats are the dashboard counters: population totals, per-category visa
// counts and how many authorizations expire inside the alert window.
type Stats struct {
	Total        int `json:"total"`
	Flagged      int `json:"flagged"`
	F1           int `json:"f1"`
	J1           int `json:"j1"`
	H1B          int `json:"h1b"`
	PR           int `json:"pr"`
	ExpiringSoon int `json:"expiringSoon"`
}

// IsPermanentResidentType reports whether a visa-type label describes a
// permanent resident, including adjustment-of-status cases.
func IsPermanentResidentType(visaType string) bool {
	t := schema.Fold(visaType)
	return strings.Contains(t, "permanent") ||
		strings.Contains(t, "green") ||
		strings.Contains(t, "adjust") ||
		strings.Contains(t, "aos")
}

func (s *TrackerService) Stats(ctx context.Context) (*Stats, error) {
	items, err := s.employees.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	limit := now.AddDate(0, 0, s.alertDays)
	stats := &Stats{}
	for _, e := range items {
		if e.Flagged {
			stats.Flagged++
		}
		v := e.CurrentVisa
		if v == nil {
			continue
		}
		stats.Total++
		countVisaType(stats, v.Type)
		if v.EndDate != nil && !v.EndDate.Before(now) && !v.EndDate.After(limit) {
			stats.ExpiringSoon++
		}
	}
	return stats, nil
}

func countVisaType(stats *Stats, visaType string) {
	t := schema.Fold(visaType)
	if strings.Contains(t, "f-1") || strings.Contains(t, "f1") {
		stats.F1++
	}
	if strings.Contains(t, "j-1") || strings.Contains(t, "j1") {
		stats.J1++
	}
	if strings.Contains(t, "h-1") || strings.Contains(t, "h1") {
		stats.H1B++
	}
	if IsPermanentResidentType(visaType) {
		stats.PR++
	}
}
