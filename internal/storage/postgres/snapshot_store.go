package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

// SnapshotStore persists whole entity snapshots. The dashboard treats the
// in-memory store as source of truth and writes the full state behind it,
// so persistence is replace-all inside one transaction per save.
type SnapshotStore struct {
	db *pgxpool.Pool
}

// NewSnapshotStore wraps a pgx pool.
func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// SaveSnapshot replaces all five collections transactionally.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"itrbs", "activities", "projects", "alerts", "kpiconfig"} {
		if _, err := tx.Exec(ctx, "delete from "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, p := range snap.Projects {
		const q = `
insert into projects (id, title, description, created_at, updated_at)
values ($1, $2, $3, $4, $5);
`
		if _, err := tx.Exec(ctx, q, p.ID, p.Title, p.Description, p.CreatedAt, p.UpdatedAt); err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
	}

	for _, a := range snap.Activities {
		const q = `
insert into activities (id, project_id, name, system, subsystem, start_date, end_date, duration_days)
values ($1, $2, $3, $4, $5, $6, $7, $8);
`
		if _, err := tx.Exec(ctx, q, a.ID, a.ProjectID, a.Name, a.System, a.Subsystem, a.StartDate, a.EndDate, a.DurationDays); err != nil {
			return fmt.Errorf("insert activity %s: %w", a.ID, err)
		}
	}

	for _, i := range snap.ITRs {
		const q = `
insert into itrbs (id, activity_id, description, code, total_qty, done_qty, start_date, due_date, status, mcc, notes)
values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`
		if _, err := tx.Exec(ctx, q, i.ID, i.ActivityID, i.Description, i.Code, i.TotalQty, i.DoneQty, i.StartDate, i.DueDate, string(i.Status), i.MCC, i.Notes); err != nil {
			return fmt.Errorf("insert itrb %s: %w", i.ID, err)
		}
	}

	for _, al := range snap.Alerts {
		const q = `
insert into alerts (id, type, message, created_at, read, related_item_ids, project_id)
values ($1, $2, $3, $4, $5, $6, $7);
`
		if _, err := tx.Exec(ctx, q, al.ID, al.Type, al.Message, al.CreatedAt, al.Read, al.RelatedItemIDs, al.ProjectID); err != nil {
			return fmt.Errorf("insert alert %s: %w", al.ID, err)
		}
	}

	for slot, metric := range snap.KPIConfig {
		const q = `insert into kpiconfig (slot, metric) values ($1, $2);`
		if _, err := tx.Exec(ctx, q, slot, metric); err != nil {
			return fmt.Errorf("insert kpiconfig %s: %w", slot, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads all collections back. Empty tables yield an empty
// snapshot, not an error.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (domain.Snapshot, error) {
	snap := domain.Snapshot{KPIConfig: domain.KPIConfig{}}

	rows, err := s.db.Query(ctx, `select id, title, description, created_at, updated_at from projects order by created_at;`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load projects: %w", err)
	}
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return domain.Snapshot{}, err
		}
		snap.Projects = append(snap.Projects, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	rows, err = s.db.Query(ctx, `select id, project_id, name, system, subsystem, start_date, end_date, duration_days from activities;`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load activities: %w", err)
	}
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Name, &a.System, &a.Subsystem, &a.StartDate, &a.EndDate, &a.DurationDays); err != nil {
			rows.Close()
			return domain.Snapshot{}, err
		}
		snap.Activities = append(snap.Activities, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	rows, err = s.db.Query(ctx, `select id, activity_id, description, code, total_qty, done_qty, start_date, due_date, status, mcc, notes from itrbs;`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load itrbs: %w", err)
	}
	for rows.Next() {
		var i domain.ITR
		var status string
		if err := rows.Scan(&i.ID, &i.ActivityID, &i.Description, &i.Code, &i.TotalQty, &i.DoneQty, &i.StartDate, &i.DueDate, &status, &i.MCC, &i.Notes); err != nil {
			rows.Close()
			return domain.Snapshot{}, err
		}
		i.Status = domain.ITRStatus(status)
		snap.ITRs = append(snap.ITRs, i)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	rows, err = s.db.Query(ctx, `select id, type, message, created_at, read, related_item_ids, project_id from alerts order by created_at;`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load alerts: %w", err)
	}
	for rows.Next() {
		var al domain.Alert
		if err := rows.Scan(&al.ID, &al.Type, &al.Message, &al.CreatedAt, &al.Read, &al.RelatedItemIDs, &al.ProjectID); err != nil {
			rows.Close()
			return domain.Snapshot{}, err
		}
		snap.Alerts = append(snap.Alerts, al)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	rows, err = s.db.Query(ctx, `select slot, metric from kpiconfig;`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load kpiconfig: %w", err)
	}
	for rows.Next() {
		var slot, metric string
		if err := rows.Scan(&slot, &metric); err != nil {
			rows.Close()
			return domain.Snapshot{}, err
		}
		snap.KPIConfig[slot] = metric
	}
	rows.Close()
	return snap, rows.Err()
}
