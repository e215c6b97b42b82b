// Package store holds the in-memory entity collections that the dashboard
// aggregates over. It is the single source of truth ahead of persistence;
// repositories load into it at boot and write behind it after mutations.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

// Store guards the five collections behind one mutex. All reads hand out
// copies; the only bulk write is Replace, which swaps the whole state in
// one step so a failed reconciliation can never leave a partial merge.
type Store struct {
	mu    sync.RWMutex
	state domain.Snapshot
}

// New returns an empty store.
func New() *Store {
	return &Store{state: domain.Snapshot{KPIConfig: domain.KPIConfig{}}}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Replace swaps the entire state for the given snapshot.
func (s *Store) Replace(next domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next.Clone()
}

// AddProject inserts a project, generating an id when absent.
func (s *Store) AddProject(p domain.Project) (domain.Project, error) {
	if strings.TrimSpace(p.Title) == "" {
		return domain.Project{}, domain.ErrInvalidInput
	}
	now := time.Now()
	if p.ID == "" {
		p.ID = domain.NewProjectID(now)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.Projects {
		if existing.ID == p.ID {
			return domain.Project{}, domain.ErrAlreadyExists
		}
	}
	s.state.Projects = append(s.state.Projects, p)
	return p, nil
}

// UpdateProject replaces the stored project with the same id.
func (s *Store) UpdateProject(p domain.Project) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, existing := range s.state.Projects {
		if existing.ID == p.ID {
			p.CreatedAt = existing.CreatedAt
			p.UpdatedAt = time.Now()
			s.state.Projects[idx] = p
			return p, nil
		}
	}
	return domain.Project{}, domain.ErrNotFound
}

// DeleteProject removes a project. Children are left in place with a
// dangling project id; readers filter them out.
func (s *Store) DeleteProject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, existing := range s.state.Projects {
		if existing.ID == id {
			s.state.Projects = append(s.state.Projects[:idx], s.state.Projects[idx+1:]...)
			return true
		}
	}
	return false
}

// Projects returns a copy of the project collection.
func (s *Store) Projects() []domain.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Project(nil), s.state.Projects...)
}

// AddActivity inserts an activity.
func (s *Store) AddActivity(a domain.Activity) (domain.Activity, error) {
	if strings.TrimSpace(a.Name) == "" {
		return domain.Activity{}, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		// A delete can shrink the collection back to a length whose
		// (millisecond, seq) pair was already issued; bump seq past
		// any live id instead of failing a valid insert.
		now := time.Now()
		seq := len(s.state.Activities)
		a.ID = domain.NewActivityID(now, seq)
		for s.activityIDTaken(a.ID) {
			seq++
			a.ID = domain.NewActivityID(now, seq)
		}
	}
	for _, existing := range s.state.Activities {
		if existing.ID == a.ID {
			return domain.Activity{}, domain.ErrAlreadyExists
		}
	}
	s.state.Activities = append(s.state.Activities, a)
	return a, nil
}

// activityIDTaken reports whether an activity id is in use. Callers hold
// the lock.
func (s *Store) activityIDTaken(id string) bool {
	for _, existing := range s.state.Activities {
		if existing.ID == id {
			return true
		}
	}
	return false
}

// UpdateActivity replaces the stored activity with the same id.
func (s *Store) UpdateActivity(a domain.Activity) (domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, existing := range s.state.Activities {
		if existing.ID == a.ID {
			s.state.Activities[idx] = a
			return a, nil
		}
	}
	return domain.Activity{}, domain.ErrNotFound
}

// DeleteActivity removes an activity by id.
func (s *Store) DeleteActivity(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, existing := range s.state.Activities {
		if existing.ID == id {
			s.state.Activities = append(s.state.Activities[:idx], s.state.Activities[idx+1:]...)
			return true
		}
	}
	return false
}

// Activities returns a copy of the activity collection.
func (s *Store) Activities() []domain.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Activity(nil), s.state.Activities...)
}

// AddITR inserts an inspection record. Quantities below zero are rejected.
func (s *Store) AddITR(i domain.ITR) (domain.ITR, error) {
	if i.ID == "" || i.DoneQty < 0 || i.TotalQty < 0 {
		return domain.ITR{}, domain.ErrInvalidInput
	}
	if i.Status == "" {
		i.Status = domain.StatusInProgress
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.state.ITRs {
		if existing.ID == i.ID {
			return domain.ITR{}, domain.ErrAlreadyExists
		}
	}
	s.state.ITRs = append(s.state.ITRs, i)
	return i, nil
}

// UpdateITR replaces the stored record with the same id.
func (s *Store) UpdateITR(i domain.ITR) (domain.ITR, error) {
	if i.DoneQty < 0 || i.TotalQty < 0 {
		return domain.ITR{}, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, existing := range s.state.ITRs {
		if existing.ID == i.ID {
			s.state.ITRs[idx] = i
			return i, nil
		}
	}
	return domain.ITR{}, domain.ErrNotFound
}

// DeleteITR removes a record by id.
func (s *Store) DeleteITR(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, existing := range s.state.ITRs {
		if existing.ID == id {
			s.state.ITRs = append(s.state.ITRs[:idx], s.state.ITRs[idx+1:]...)
			return true
		}
	}
	return false
}

// ITRs returns a copy of the inspection record collection.
func (s *Store) ITRs() []domain.ITR {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ITR(nil), s.state.ITRs...)
}

// AddAlert inserts an alert.
func (s *Store) AddAlert(a domain.Alert) domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.state.Alerts = append(s.state.Alerts, a)
	return a
}

// MarkAlertRead flips the read flag on one alert.
func (s *Store) MarkAlertRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, existing := range s.state.Alerts {
		if existing.ID == id {
			s.state.Alerts[idx].Read = true
			return true
		}
	}
	return false
}

// Alerts returns a copy of the alert collection.
func (s *Store) Alerts() []domain.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Alert(nil), s.state.Alerts...)
}

// KPIConfig returns a copy of the display configuration.
func (s *Store) KPIConfig() domain.KPIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(domain.KPIConfig, len(s.state.KPIConfig))
	for k, v := range s.state.KPIConfig {
		out[k] = v
	}
	return out
}

// SetKPIConfig shallow-merges the given slots into the configuration.
func (s *Store) SetKPIConfig(cfg domain.KPIConfig) domain.KPIConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.KPIConfig == nil {
		s.state.KPIConfig = domain.KPIConfig{}
	}
	for k, v := range cfg {
		s.state.KPIConfig[k] = v
	}
	out := make(domain.KPIConfig, len(s.state.KPIConfig))
	for k, v := range s.state.KPIConfig {
		out[k] = v
	}
	return out
}
