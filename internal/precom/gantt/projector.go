// Package gantt flattens activities and their inspection records into
// chart-ready rows. The projection is pure; callers re-run it with
// different filters against the same collections.
package gantt

import (
	"math"
	"time"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

// Bar colors, matching the dashboard palette.
const (
	ColorOverdue   = "#ef4444"
	ColorCompleted = "#22c55e"
	ColorActive    = "#f59e0b"
)

// Filter restricts the projection. Empty fields impose no constraint; an
// activity passes only when every set field matches exactly.
type Filter struct {
	ProjectID string
	System    string
	Subsystem string
}

func (f Filter) matches(a domain.Activity) bool {
	if f.ProjectID != "" && a.ProjectID != f.ProjectID {
		return false
	}
	if f.System != "" && a.System != f.System {
		return false
	}
	if f.Subsystem != "" && a.Subsystem != f.Subsystem {
		return false
	}
	return true
}

// Row is one chart bar. Identity is the source activity id, stable across
// re-projection.
type Row struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	System       string       `json:"system"`
	Subsystem    string       `json:"subsystem"`
	StartDate    time.Time    `json:"startDate"`
	EndDate      time.Time    `json:"endDate"`
	DurationDays int          `json:"durationDays"`
	ProgressPct  int          `json:"progressPct"`
	HasOverdue   bool         `json:"hasOverdue"`
	HasMCC       bool         `json:"hasMcc"`
	ProjectTitle string       `json:"projectTitle"`
	Color        string       `json:"color"`
	LinkedITRs   []domain.ITR `json:"linkedITRs"`
}

// Build projects the filtered activities into rows. Input order is
// preserved; no implicit sort is applied. now anchors the overdue check at
// call time.
func Build(activities []domain.Activity, itrs []domain.ITR, projects []domain.Project, f Filter, now time.Time) []Row {
	titles := make(map[string]string, len(projects))
	for _, p := range projects {
		titles[p.ID] = p.Title
	}

	linked := make(map[string][]domain.ITR, len(activities))
	for _, itr := range itrs {
		linked[itr.ActivityID] = append(linked[itr.ActivityID], itr)
	}

	rows := make([]Row, 0, len(activities))
	for _, a := range activities {
		if !f.matches(a) {
			continue
		}

		items := linked[a.ID]
		completed := 0
		overdue := false
		mcc := false
		for _, itr := range items {
			if itr.Status == domain.StatusCompleted {
				completed++
			}
			if itr.Overdue(now) {
				overdue = true
			}
			if itr.MCC {
				mcc = true
			}
		}

		progress := 0
		if len(items) > 0 {
			progress = int(math.Round(float64(completed) / float64(len(items)) * 100))
		}

		// Tie-break order: overdue wins over completed.
		color := ColorActive
		switch {
		case overdue:
			color = ColorOverdue
		case progress == 100:
			color = ColorCompleted
		}

		rows = append(rows, Row{
			ID:           a.ID,
			Name:         a.Name,
			System:       a.System,
			Subsystem:    a.Subsystem,
			StartDate:    a.StartDate,
			EndDate:      a.EndDate,
			DurationDays: a.DurationDays,
			ProgressPct:  progress,
			HasOverdue:   overdue,
			HasMCC:       mcc,
			ProjectTitle: titles[a.ProjectID],
			Color:        color,
			LinkedITRs:   append([]domain.ITR(nil), items...),
		})
	}
	return rows
}
