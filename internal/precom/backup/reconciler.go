package backup

import (
	"fmt"
	"strings"
	"time"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

// TargetNew is the sentinel target meaning "create a fresh project for
// this backup".
const TargetNew = "new"

// Options controls one reconciliation.
type Options struct {
	// TargetProjectID is an existing project id, or TargetNew.
	TargetProjectID string
	// NewProjectTitle names the created project on the TargetNew path.
	// When blank, the first imported project's title is used.
	NewProjectTitle string
	// Now anchors generated ids and timestamps; zero means time.Now().
	Now time.Time
}

// Result reports what a reconciliation did.
type Result struct {
	ProjectID          string `json:"projectId"`
	CreatedProject     bool   `json:"createdProject"`
	ProjectsImported   int    `json:"projectsImported"`
	ProjectsSkipped    int    `json:"projectsSkipped"`
	ActivitiesImported int    `json:"activitiesImported"`
	ActivitiesSkipped  int    `json:"activitiesSkipped"`
	ITRsImported       int    `json:"itrsImported"`
	ITRsSkipped        int    `json:"itrsSkipped"`
	AlertsImported     int    `json:"alertsImported"`
}

type activityKey struct {
	name      string
	system    string
	subsystem string
}

func projectIDTaken(projects []domain.Project, id string) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Reconcile merges the backup into a copy of the live snapshot and returns
// the fully built next state. The live snapshot is never touched: any error
// return means no state changed anywhere, and the caller commits the result
// in a single store replace.
//
// Target resolution happens first. On the TargetNew path the backup's first
// project is treated as its primary project and is superseded by the
// freshly created target; activities under it are re-pointed and re-minted,
// and their inspection records follow via a (name, system, subsystem) match
// against the re-pointed copies.
func Reconcile(live domain.Snapshot, b *Backup, opts Options) (domain.Snapshot, Result, error) {
	if b == nil {
		return domain.Snapshot{}, Result{}, fmt.Errorf("%w: nil backup", ErrValidation)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	primaryID := ""
	if len(b.Projects) > 0 {
		primaryID = b.Projects[0].ID
	}

	// Resolve the target before anything else so invalid input can be
	// rejected with zero side effects.
	next := live.Clone()
	var res Result

	targetID := opts.TargetProjectID
	if targetID == TargetNew || targetID == "" {
		title := strings.TrimSpace(opts.NewProjectTitle)
		if title == "" && len(b.Projects) > 0 {
			title = strings.TrimSpace(b.Projects[0].Title)
		}
		if title == "" {
			return domain.Snapshot{}, Result{}, fmt.Errorf("%w: new project title required", ErrValidation)
		}
		// Two imports anchored at the same instant must not mint the
		// same project id.
		id := domain.NewProjectID(now)
		for bump := 1; projectIDTaken(next.Projects, id); bump++ {
			id = domain.NewProjectID(now.Add(time.Duration(bump) * time.Millisecond))
		}
		created := domain.Project{
			ID:        id,
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
		}
		next.Projects = append(next.Projects, created)
		targetID = created.ID
		res.CreatedProject = true
		res.ProjectsImported++
	} else {
		found := false
		for _, p := range live.Projects {
			if p.ID == targetID {
				found = true
				break
			}
		}
		if !found {
			return domain.Snapshot{}, Result{}, fmt.Errorf("%w: target project %q not found", ErrValidation, targetID)
		}
	}
	res.ProjectID = targetID

	// Secondary projects ride along verbatim when their id is unseen. The
	// primary one is always superseded by the resolved target.
	projectIDs := map[string]bool{}
	for _, p := range next.Projects {
		projectIDs[p.ID] = true
	}
	for idx, rec := range b.Projects {
		if idx == 0 {
			continue
		}
		if projectIDs[rec.ID] {
			res.ProjectsSkipped++
			continue
		}
		p := rec.Canonical()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		next.Projects = append(next.Projects, p)
		projectIDs[p.ID] = true
		res.ProjectsImported++
	}

	// Activities: dedup by id, re-point primary-project members to the
	// target. On the new-project path the re-pointed copies get fresh ids
	// so they cannot collide with a later import of the same file.
	activityIDs := map[string]bool{}
	for _, a := range next.Activities {
		activityIDs[a.ID] = true
	}
	seq := 0
	for _, rec := range b.Activities {
		if activityIDs[rec.ID] {
			res.ActivitiesSkipped++
			continue
		}
		a := rec.Canonical()
		if a.ProjectID == primaryID || a.ProjectID == "" {
			a.ProjectID = targetID
			if res.CreatedProject {
				// Fresh ids must also clear ids already in the snapshot,
				// or a second import anchored at the same instant would
				// mint duplicates.
				id := domain.NewActivityID(now, seq)
				for activityIDs[id] {
					seq++
					id = domain.NewActivityID(now, seq)
				}
				a.ID = id
				seq++
			}
		}
		next.Activities = append(next.Activities, a)
		activityIDs[a.ID] = true
		res.ActivitiesImported++
	}

	// Old-id -> new-id map for inspection records, resolved by matching
	// imported activities against the target's copies on the
	// (name, system, subsystem) tuple.
	remap := map[string]string{}
	if res.CreatedProject {
		byKey := map[activityKey]string{}
		for _, a := range next.Activities {
			if a.ProjectID == targetID {
				byKey[activityKey{a.Name, a.System, a.Subsystem}] = a.ID
			}
		}
		for _, rec := range b.Activities {
			if newID, ok := byKey[activityKey{rec.Name, rec.System, rec.Subsystem}]; ok && newID != rec.ID {
				remap[rec.ID] = newID
			}
		}
	}

	itrIDs := map[string]bool{}
	for _, i := range next.ITRs {
		itrIDs[i.ID] = true
	}
	for _, rec := range b.ITRItems {
		if itrIDs[rec.ID] {
			res.ITRsSkipped++
			continue
		}
		// Canonical() also normalizes legacy numeric timestamps and the
		// 4-value status in this pass.
		itr := rec.Canonical()
		if newID, ok := remap[itr.ActivityID]; ok {
			itr.ActivityID = newID
		}
		// Unmatched records keep their original activity id; readers
		// tolerate the dangling reference.
		next.ITRs = append(next.ITRs, itr)
		itrIDs[itr.ID] = true
		res.ITRsImported++
	}

	// Imported alerts replace the live collection wholesale, deduped
	// against each other. A backup without alerts keeps the live ones.
	if len(b.Alerts) > 0 {
		seen := map[string]bool{}
		alerts := make([]domain.Alert, 0, len(b.Alerts))
		for _, rec := range b.Alerts {
			if rec.ID != "" && seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			alerts = append(alerts, rec.Canonical())
		}
		next.Alerts = alerts
		res.AlertsImported = len(alerts)
	}

	if len(b.KPIConfig) > 0 {
		if next.KPIConfig == nil {
			next.KPIConfig = domain.KPIConfig{}
		}
		for k, v := range b.KPIConfig {
			next.KPIConfig[k] = v
		}
	}

	return next, res, nil
}
