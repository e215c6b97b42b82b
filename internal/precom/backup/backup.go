// Package backup implements the snapshot export format and the
// reconciliation that merges an imported backup into live data.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/legacy"
)

// FormatVersion is the literal version string written into backup
// metadata. There is no negotiation beyond it.
const FormatVersion = "1.0.0"

// Metadata describes when and how a backup was produced.
type Metadata struct {
	Date      string         `json:"date"`
	Version   string         `json:"version"`
	Timestamp int64          `json:"timestamp"`
	Options   map[string]any `json:"options,omitempty"`
}

// Backup is the parsed snapshot file. All collections are optional; a
// missing or empty collection means "nothing to import" for that kind.
type Backup struct {
	Projects   []legacy.ProjectRecord  `json:"projects,omitempty"`
	Activities []legacy.ActivityRecord `json:"activities,omitempty"`
	ITRItems   []legacy.ITRRecord      `json:"itrItems,omitempty"`
	Alerts     []legacy.AlertRecord    `json:"alerts,omitempty"`
	KPIConfig  map[string]string       `json:"kpiConfig,omitempty"`
	Metadata   Metadata                `json:"metadata"`
}

// Parse decodes and validates a backup payload. Malformed JSON yields
// ErrParse; valid JSON that is not an object, or an object where none of
// projects/activities/itrItems is an array, yields ErrValidation.
func Parse(data []byte) (*Backup, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		trimmed := bytes.TrimSpace(data)
		if json.Valid(trimmed) {
			// Valid JSON but not an object (array, number, string...).
			return nil, fmt.Errorf("%w: backup must be a json object", ErrValidation)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	recognized := false
	for _, key := range []string{"projects", "activities", "itrItems"} {
		raw, ok := top[key]
		if !ok {
			continue
		}
		v := bytes.TrimSpace(raw)
		if len(v) == 0 || v[0] != '[' {
			return nil, fmt.Errorf("%w: %q must be an array", ErrValidation, key)
		}
		recognized = true
	}
	if !recognized {
		return nil, fmt.Errorf("%w: no importable collection found", ErrValidation)
	}

	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &b, nil
}

// Filename returns the conventional export file name,
// backup-projects-<YYYY-MM-DD>-<HH-MM>.json.
func Filename(now time.Time) string {
	return fmt.Sprintf("backup-projects-%s.json", now.Format("2006-01-02-15-04"))
}
