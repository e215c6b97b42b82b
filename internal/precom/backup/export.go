package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/legacy"
)

// Export builds a backup document from a snapshot.
func Export(snap domain.Snapshot, now time.Time, options map[string]any) *Backup {
	b := &Backup{
		Projects:   make([]legacy.ProjectRecord, 0, len(snap.Projects)),
		Activities: make([]legacy.ActivityRecord, 0, len(snap.Activities)),
		ITRItems:   make([]legacy.ITRRecord, 0, len(snap.ITRs)),
		Alerts:     make([]legacy.AlertRecord, 0, len(snap.Alerts)),
		KPIConfig:  map[string]string(snap.KPIConfig),
		Metadata: Metadata{
			Date:      now.UTC().Format(time.RFC3339),
			Version:   FormatVersion,
			Timestamp: now.UnixMilli(),
			Options:   options,
		},
	}
	for _, p := range snap.Projects {
		b.Projects = append(b.Projects, legacy.ProjectRecord{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			CreatedAt:   legacy.Date{Time: p.CreatedAt},
			UpdatedAt:   legacy.Date{Time: p.UpdatedAt},
		})
	}
	for _, a := range snap.Activities {
		b.Activities = append(b.Activities, legacy.ActivityRecord{
			ID:           a.ID,
			ProjectID:    a.ProjectID,
			Name:         a.Name,
			System:       a.System,
			Subsystem:    a.Subsystem,
			StartDate:    legacy.Date{Time: a.StartDate},
			EndDate:      legacy.Date{Time: a.EndDate},
			DurationDays: a.DurationDays,
		})
	}
	for _, i := range snap.ITRs {
		b.ITRItems = append(b.ITRItems, legacy.FromITR(i))
	}
	for _, al := range snap.Alerts {
		b.Alerts = append(b.Alerts, legacy.AlertRecord{
			ID:             al.ID,
			Type:           al.Type,
			Message:        al.Message,
			CreatedAt:      legacy.Date{Time: al.CreatedAt},
			Read:           legacy.Flag(al.Read),
			RelatedItemIDs: al.RelatedItemIDs,
			ProjectID:      al.ProjectID,
		})
	}
	return b
}

// WriteFile serializes the snapshot into dir using the conventional
// filename and returns the written path.
func WriteFile(dir string, snap domain.Snapshot, now time.Time) (string, error) {
	b := Export(snap, now, nil)
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}
