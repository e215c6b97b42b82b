// Package kpi computes the dashboard summary metrics from the activity and
// inspection record collections. All functions are pure and safe to call on
// every render.
package kpi

import (
	"time"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

// ScopeAll is the sentinel project filter meaning "no project scope".
const ScopeAll = "all"

// Summary holds the aggregate metrics for one scope.
type Summary struct {
	PhysicalProgressPct float64 `json:"physicalProgressPct"`
	TotalITR            int     `json:"totalITR"`
	CompletedITR        int     `json:"completedITR"`
	MCCSubsystemCount   int     `json:"mccSubsystemCount"`
	TotalSubsystemCount int     `json:"totalSubsystemCount"`
	OverdueCount        int     `json:"overdueCount"`
}

type subsystemKey struct {
	system    string
	subsystem string
}

// Compute aggregates the collections into a Summary. projectID scopes the
// result to records whose parent activity belongs to that project; "" and
// the "all" sentinel leave the scope open. ITRs whose activity id resolves
// to nothing are excluded from scoped results rather than reported as
// errors. Overdue is derived from the due date against now, never from a
// stored status value.
func Compute(activities []domain.Activity, itrs []domain.ITR, projectID string, now time.Time) Summary {
	scoped := projectID != "" && projectID != ScopeAll

	byID := make(map[string]domain.Activity, len(activities))
	for _, a := range activities {
		byID[a.ID] = a
	}

	var sum Summary
	withMCC := map[string]bool{}
	for _, itr := range itrs {
		act, ok := byID[itr.ActivityID]
		if scoped && (!ok || act.ProjectID != projectID) {
			continue
		}
		sum.TotalITR++
		if itr.Status == domain.StatusCompleted {
			sum.CompletedITR++
		}
		if itr.Overdue(now) {
			sum.OverdueCount++
		}
		if itr.MCC && ok {
			withMCC[act.ID] = true
		}
	}

	mccPairs := map[subsystemKey]bool{}
	totalPairs := map[subsystemKey]bool{}
	for _, a := range activities {
		if scoped && a.ProjectID != projectID {
			continue
		}
		key := subsystemKey{a.System, a.Subsystem}
		totalPairs[key] = true
		if withMCC[a.ID] {
			mccPairs[key] = true
		}
	}
	sum.MCCSubsystemCount = len(mccPairs)
	sum.TotalSubsystemCount = len(totalPairs)

	if sum.TotalITR > 0 {
		sum.PhysicalProgressPct = float64(sum.CompletedITR) / float64(sum.TotalITR) * 100
	}
	return sum
}
