// Package cron schedules the nightly snapshot export.
package cronjob

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/backup"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/store"
)

// Scheduler writes dated backup files on a cron spec.
type Scheduler struct {
	store  *store.Store
	dir    string
	spec   string
	logger *zap.Logger
	cron   *cron.Cron
}

// NewScheduler builds a scheduler. spec uses the 6-field form with
// seconds; empty means nightly at midnight.
func NewScheduler(st *store.Store, dir, spec string, logger *zap.Logger) *Scheduler {
	if spec == "" {
		spec = "0 0 0 * * *"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{store: st, dir: dir, spec: spec, logger: logger}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(s.spec, s.runExport); err != nil {
		return err
	}

	s.logger.Info("backup scheduler started", zap.String("spec", s.spec), zap.String("dir", s.dir))
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the cron loop, waiting for a running export to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) runExport() {
	path, err := backup.WriteFile(s.dir, s.store.Snapshot(), time.Now())
	if err != nil {
		s.logger.Error("scheduled backup failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled backup written", zap.String("path", path))
}
