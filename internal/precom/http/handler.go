// Package http exposes the dashboard REST surface: CRUD for the entity
// collections plus the aggregated reads (/kpis, /gantt) and backup
// import/export.
package http

import (
	"context"

	"go.uber.org/zap"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/backup"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/store"
)

// Handler serves the precommissioning API.
type Handler struct {
	store      *store.Store
	importer   *backup.Importer
	persisters []backup.Persister
	logger     *zap.Logger
}

// New wires a handler. persisters receive the full snapshot after every
// successful mutation; a nil logger falls back to a no-op one.
func New(st *store.Store, importer *backup.Importer, logger *zap.Logger, persisters ...backup.Persister) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: st, importer: importer, persisters: persisters, logger: logger}
}

// persist writes the current snapshot behind a completed mutation.
// Persistence failures are logged, not surfaced: the in-memory commit
// already happened and readers keep working from it.
func (h *Handler) persist(ctx context.Context) {
	snap := h.store.Snapshot()
	for _, p := range h.persisters {
		if err := p.SaveSnapshot(ctx, snap); err != nil {
			h.logger.Warn("snapshot persistence failed", zap.Error(err))
		}
	}
}
