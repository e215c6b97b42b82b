package backup

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/store"
)

// Persister writes a committed snapshot to durable storage after a
// successful reconciliation. Implementations live at the storage layer.
type Persister interface {
	SaveSnapshot(ctx context.Context, snap domain.Snapshot) error
}

// Importer runs reconciliations against a store under a mutual-exclusion
// guard, so two imports can never interleave their commit and persistence
// steps.
type Importer struct {
	mu         sync.Mutex
	store      *store.Store
	persisters []Persister
	logger     *zap.Logger
}

// NewImporter wires an importer. persisters may be empty for memory-only
// operation; a nil logger falls back to a no-op one.
func NewImporter(st *store.Store, logger *zap.Logger, persisters ...Persister) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: st, persisters: persisters, logger: logger}
}

// Import parses, validates, reconciles, and commits one backup payload.
// Validation failures happen before any mutation; a second concurrent call
// fails fast with ErrImportInProgress. Persistence runs after the in-memory
// commit and its errors are reported but do not roll the commit back.
func (im *Importer) Import(ctx context.Context, payload []byte, opts Options) (Result, error) {
	if !im.mu.TryLock() {
		return Result{}, ErrImportInProgress
	}
	defer im.mu.Unlock()

	b, err := Parse(payload)
	if err != nil {
		return Result{}, err
	}

	next, res, err := Reconcile(im.store.Snapshot(), b, opts)
	if err != nil {
		return Result{}, err
	}

	im.store.Replace(next)
	im.logger.Info("backup imported",
		zap.String("project_id", res.ProjectID),
		zap.Bool("created_project", res.CreatedProject),
		zap.Int("activities_imported", res.ActivitiesImported),
		zap.Int("activities_skipped", res.ActivitiesSkipped),
		zap.Int("itrs_imported", res.ITRsImported),
		zap.Int("itrs_skipped", res.ITRsSkipped),
	)

	for _, p := range im.persisters {
		if err := p.SaveSnapshot(ctx, next); err != nil {
			im.logger.Warn("backup persistence failed", zap.Error(err))
			return res, err
		}
	}
	return res, nil
}
