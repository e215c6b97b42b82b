package domain

import "time"

// ITRStatus is the canonical execution status of an inspection record.
// Overdue is never stored: it is derived at read time from the due date,
// so there is exactly one authority for it.
type ITRStatus string

const (
	StatusInProgress ITRStatus = "in_progress"
	StatusCompleted  ITRStatus = "completed"
)

// Project is a precommissioning project. Identity is the external id; when
// the caller supplies none one is generated as "project-"+unix-millis.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Activity is a scheduled unit of work under a project, scoped to a
// system/subsystem pair. A dangling ProjectID is tolerated and filtered
// out at read time rather than rejected at write time.
type Activity struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId"`
	Name         string    `json:"name"`
	System       string    `json:"system"`
	Subsystem    string    `json:"subsystem"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	DurationDays int       `json:"durationDays"`
}

// ITR is an inspection and test record tracked against an activity.
type ITR struct {
	ID          string    `json:"id"`
	ActivityID  string    `json:"activityId"`
	Description string    `json:"description"`
	Code        string    `json:"code,omitempty"`
	TotalQty    int       `json:"totalQty"`
	DoneQty     int       `json:"doneQty"`
	StartDate   time.Time `json:"startDate"`
	DueDate     time.Time `json:"dueDate"`
	Status      ITRStatus `json:"status"`
	MCC         bool      `json:"mccFlag"`
	Notes       string    `json:"notes,omitempty"`
}

// Overdue reports whether the record is past due and not completed,
// evaluated against the supplied clock.
func (i ITR) Overdue(now time.Time) bool {
	return !i.DueDate.IsZero() && i.DueDate.Before(now) && i.Status != StatusCompleted
}

// Alert is a dashboard notification raised by the surrounding application.
// The core only flips the Read flag.
type Alert struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"createdAt"`
	Read           bool      `json:"read"`
	RelatedItemIDs []string  `json:"relatedItemIds,omitempty"`
	ProjectID      string    `json:"projectId,omitempty"`
}

// KPIConfig maps dashboard KPI slots to metric names. Display preference
// only, not domain data.
type KPIConfig map[string]string

// Snapshot is a deep, self-contained copy of the entity store contents.
// Reconciliation builds the next snapshot in full before anything commits.
type Snapshot struct {
	Projects   []Project
	Activities []Activity
	ITRs       []ITR
	Alerts     []Alert
	KPIConfig  KPIConfig
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Projects:   append([]Project(nil), s.Projects...),
		Activities: append([]Activity(nil), s.Activities...),
		ITRs:       append([]ITR(nil), s.ITRs...),
		Alerts:     make([]Alert, 0, len(s.Alerts)),
		KPIConfig:  make(KPIConfig, len(s.KPIConfig)),
	}
	for _, a := range s.Alerts {
		a.RelatedItemIDs = append([]string(nil), a.RelatedItemIDs...)
		out.Alerts = append(out.Alerts, a)
	}
	for k, v := range s.KPIConfig {
		out.KPIConfig[k] = v
	}
	return out
}
