// Package legacy is the only place that understands the historical ITRB
// wire shapes: 0/1 booleans, numeric epoch timestamps, bare date strings
// and the old 4-value status. Everything is translated to the canonical
// domain model here so no other package carries a parallel type hierarchy.
package legacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

// Date unmarshals from RFC3339 strings, bare "YYYY-MM-DD" dates and unix
// epoch numbers (seconds or milliseconds). It marshals back as RFC3339,
// the canonical date-string format.
type Date struct {
	time.Time
}

// epochMillisCutoff separates second-resolution epochs from millisecond
// ones; anything above it cannot be a plausible epoch in seconds.
const epochMillisCutoff = 1e11

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		d.Time = time.Time{}
		return nil
	}

	if data[0] != '"' {
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("legacy date: %w", err)
		}
		if n >= epochMillisCutoff {
			d.Time = time.UnixMilli(int64(n)).UTC()
		} else {
			d.Time = time.Unix(int64(n), 0).UTC()
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	// Numeric epochs occasionally arrive quoted.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if float64(n) >= epochMillisCutoff {
			d.Time = time.UnixMilli(n).UTC()
		} else {
			d.Time = time.Unix(n, 0).UTC()
		}
		return nil
	}
	return fmt.Errorf("legacy date: unrecognized value %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}

// Flag unmarshals booleans that the REST backend serves as 0/1 integers,
// and tolerates quoted variants.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(strings.TrimSpace(string(data)), `"`) {
	case "true", "1":
		*f = true
	case "false", "0", "", "null":
		*f = false
	default:
		return fmt.Errorf("legacy flag: unrecognized value %s", data)
	}
	return nil
}

// NormalizeStatus maps any historical status spelling onto the canonical
// two-value model. "overdue" and "pending" collapse to in_progress: overdue
// is derived from the due date at read time and never stored.
func NormalizeStatus(raw string) domain.ITRStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
	switch s {
	case "completed", "complete", "done":
		return domain.StatusCompleted
	default:
		// in_progress, pending, overdue, unknown
		return domain.StatusInProgress
	}
}

// ProjectRecord is the wire shape of a project in backups and REST bodies.
type ProjectRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   Date   `json:"createdAt"`
	UpdatedAt   Date   `json:"updatedAt"`
}

// Canonical converts the record to the domain model.
func (r ProjectRecord) Canonical() domain.Project {
	return domain.Project{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

// ActivityRecord is the wire shape of an activity.
type ActivityRecord struct {
	ID           string `json:"id"`
	ProjectID    string `json:"projectId"`
	Name         string `json:"name"`
	System       string `json:"system"`
	Subsystem    string `json:"subsystem"`
	StartDate    Date   `json:"startDate"`
	EndDate      Date   `json:"endDate"`
	DurationDays int    `json:"durationDays"`
}

// Canonical converts the record to the domain model.
func (r ActivityRecord) Canonical() domain.Activity {
	return domain.Activity{
		ID:           r.ID,
		ProjectID:    r.ProjectID,
		Name:         r.Name,
		System:       r.System,
		Subsystem:    r.Subsystem,
		StartDate:    r.StartDate.Time,
		EndDate:      r.EndDate.Time,
		DurationDays: r.DurationDays,
	}
}

// ITRRecord is the wire shape of an inspection record. The old ITRB
// serializer used qtyTotal/qtyDone; both spellings are accepted.
type ITRRecord struct {
	ID          string
	ActivityID  string
	Description string
	Code        string
	TotalQty    int
	DoneQty     int
	StartDate   Date
	DueDate     Date
	Status      string
	MCC         Flag
	Notes       string
}

func (r *ITRRecord) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID          string `json:"id"`
		ActivityID  string `json:"activityId"`
		Description string `json:"description"`
		Code        string `json:"code"`
		TotalQty    *int   `json:"totalQty"`
		DoneQty     *int   `json:"doneQty"`
		QtyTotal    *int   `json:"qtyTotal"`
		QtyDone     *int   `json:"qtyDone"`
		StartDate   Date   `json:"startDate"`
		DueDate     Date   `json:"dueDate"`
		Status      string `json:"status"`
		MCC         Flag   `json:"mccFlag"`
		MCCLegacy   *Flag  `json:"mcc"`
		Notes       string `json:"notes"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.ID = aux.ID
	r.ActivityID = aux.ActivityID
	r.Description = aux.Description
	r.Code = aux.Code
	r.StartDate = aux.StartDate
	r.DueDate = aux.DueDate
	r.Status = aux.Status
	r.Notes = aux.Notes
	r.MCC = aux.MCC
	if aux.MCCLegacy != nil {
		r.MCC = *aux.MCCLegacy
	}
	switch {
	case aux.TotalQty != nil:
		r.TotalQty = *aux.TotalQty
	case aux.QtyTotal != nil:
		r.TotalQty = *aux.QtyTotal
	}
	switch {
	case aux.DoneQty != nil:
		r.DoneQty = *aux.DoneQty
	case aux.QtyDone != nil:
		r.DoneQty = *aux.QtyDone
	}
	return nil
}

func (r ITRRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string `json:"id"`
		ActivityID  string `json:"activityId"`
		Description string `json:"description"`
		Code        string `json:"code,omitempty"`
		TotalQty    int    `json:"totalQty"`
		DoneQty     int    `json:"doneQty"`
		StartDate   Date   `json:"startDate"`
		DueDate     Date   `json:"dueDate"`
		Status      string `json:"status"`
		MCC         Flag   `json:"mccFlag"`
		Notes       string `json:"notes,omitempty"`
	}{r.ID, r.ActivityID, r.Description, r.Code, r.TotalQty, r.DoneQty, r.StartDate, r.DueDate, r.Status, r.MCC, r.Notes})
}

// Canonical converts the record to the domain model, normalizing status.
func (r ITRRecord) Canonical() domain.ITR {
	return domain.ITR{
		ID:          r.ID,
		ActivityID:  r.ActivityID,
		Description: r.Description,
		Code:        r.Code,
		TotalQty:    r.TotalQty,
		DoneQty:     r.DoneQty,
		StartDate:   r.StartDate.Time,
		DueDate:     r.DueDate.Time,
		Status:      NormalizeStatus(r.Status),
		MCC:         bool(r.MCC),
		Notes:       r.Notes,
	}
}

// AlertRecord is the wire shape of an alert.
type AlertRecord struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Message        string   `json:"message"`
	CreatedAt      Date     `json:"createdAt"`
	Read           Flag     `json:"read"`
	RelatedItemIDs []string `json:"relatedItemIds"`
	ProjectID      string   `json:"projectId"`
}

// Canonical converts the record to the domain model.
func (r AlertRecord) Canonical() domain.Alert {
	return domain.Alert{
		ID:             r.ID,
		Type:           r.Type,
		Message:        r.Message,
		CreatedAt:      r.CreatedAt.Time,
		Read:           bool(r.Read),
		RelatedItemIDs: r.RelatedItemIDs,
		ProjectID:      r.ProjectID,
	}
}

// FromITR converts a canonical record back to the wire shape served on the
// REST surface.
func FromITR(i domain.ITR) ITRRecord {
	return ITRRecord{
		ID:          i.ID,
		ActivityID:  i.ActivityID,
		Description: i.Description,
		Code:        i.Code,
		TotalQty:    i.TotalQty,
		DoneQty:     i.DoneQty,
		StartDate:   Date{i.StartDate},
		DueDate:     Date{i.DueDate},
		Status:      string(i.Status),
		MCC:         Flag(i.MCC),
		Notes:       i.Notes,
	}
}
