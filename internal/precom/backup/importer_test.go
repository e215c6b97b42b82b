package backup

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/store"
)

// blockingPersister parks SaveSnapshot until released, to hold an import
// open across a second call.
type blockingPersister struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingPersister) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	close(p.entered)
	<-p.release
	return nil
}

type failingPersister struct{}

func (failingPersister) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	return errors.New("disk full")
}

func TestImporter_CommitsReconciledSnapshot(t *testing.T) {
	st := store.New()
	im := NewImporter(st, nil)

	res, err := im.Import(context.Background(), []byte(repointPayload), Options{
		TargetProjectID: TargetNew, NewProjectTitle: "Y",
	})
	require.NoError(t, err)
	assert.True(t, res.CreatedProject)

	snap := st.Snapshot()
	assert.Len(t, snap.Projects, 1)
	assert.Len(t, snap.Activities, 1)
	assert.Len(t, snap.ITRs, 1)
}

func TestImporter_ValidationLeavesStoreUnchanged(t *testing.T) {
	st := store.New()
	seed, err := st.AddProject(domain.Project{ID: "p1", Title: "Seed"})
	require.NoError(t, err)

	im := NewImporter(st, nil)
	_, ierr := im.Import(context.Background(), []byte(`{}`), Options{TargetProjectID: TargetNew, NewProjectTitle: "Y"})
	assert.ErrorIs(t, ierr, ErrValidation)

	snap := st.Snapshot()
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, seed.ID, snap.Projects[0].ID)
	assert.Empty(t, snap.Activities)
	assert.Empty(t, snap.ITRs)
}

func TestImporter_RejectsOverlappingImports(t *testing.T) {
	st := store.New()
	blocker := &blockingPersister{entered: make(chan struct{}), release: make(chan struct{})}
	im := NewImporter(st, nil, blocker)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := im.Import(context.Background(), []byte(repointPayload), Options{
			TargetProjectID: TargetNew, NewProjectTitle: "first",
		})
		assert.NoError(t, err)
	}()

	<-blocker.entered
	_, err := im.Import(context.Background(), []byte(repointPayload), Options{
		TargetProjectID: TargetNew, NewProjectTitle: "second",
	})
	assert.ErrorIs(t, err, ErrImportInProgress)

	close(blocker.release)
	wg.Wait()
}

func TestImporter_PersistenceFailureDoesNotRollBack(t *testing.T) {
	st := store.New()
	im := NewImporter(st, nil, failingPersister{})

	_, err := im.Import(context.Background(), []byte(repointPayload), Options{
		TargetProjectID: TargetNew, NewProjectTitle: "Y",
	})
	assert.Error(t, err)

	// The in-memory commit already happened; readers keep the new state.
	assert.Len(t, st.Snapshot().Projects, 1)
}
