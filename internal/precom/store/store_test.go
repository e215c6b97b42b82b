package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	st := New()
	_, err := st.AddProject(domain.Project{ID: "p1", Title: "Plant Alpha"})
	require.NoError(t, err)
	_, err = st.AddActivity(domain.Activity{ID: "a1", ProjectID: "p1", Name: "Loop checks", System: "S", Subsystem: "SS"})
	require.NoError(t, err)
	_, err = st.AddITR(domain.ITR{ID: "i1", ActivityID: "a1", Status: domain.StatusInProgress})
	require.NoError(t, err)
	return st
}

func TestStore_SnapshotIsolation(t *testing.T) {
	st := seeded(t)

	snap := st.Snapshot()
	snap.Projects[0].Title = "mutated"
	snap.ITRs[0].Status = domain.StatusCompleted

	assert.Equal(t, "Plant Alpha", st.Projects()[0].Title)
	assert.Equal(t, domain.StatusInProgress, st.ITRs()[0].Status)
}

func TestStore_ReplaceSwapsWholeState(t *testing.T) {
	st := seeded(t)

	st.Replace(domain.Snapshot{
		Projects:  []domain.Project{{ID: "p2", Title: "Plant Beta"}},
		KPIConfig: domain.KPIConfig{"slot1": "progress"},
	})

	require.Len(t, st.Projects(), 1)
	assert.Equal(t, "p2", st.Projects()[0].ID)
	assert.Empty(t, st.Activities())
	assert.Empty(t, st.ITRs())
	assert.Equal(t, "progress", st.KPIConfig()["slot1"])
}

func TestStore_ProjectLifecycle(t *testing.T) {
	st := New()

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := st.AddProject(domain.Project{Title: "  "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("id generated when absent", func(t *testing.T) {
		p, err := st.AddProject(domain.Project{Title: "Generated"})
		require.NoError(t, err)
		assert.Contains(t, p.ID, "project-")
		assert.False(t, p.CreatedAt.IsZero())
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := st.AddProject(domain.Project{ID: "dup", Title: "One"})
		require.NoError(t, err)
		_, err = st.AddProject(domain.Project{ID: "dup", Title: "Two"})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("update unknown id fails", func(t *testing.T) {
		_, err := st.UpdateProject(domain.Project{ID: "ghost", Title: "X"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete leaves children dangling", func(t *testing.T) {
		st := seeded(t)
		require.True(t, st.DeleteProject("p1"))
		assert.Len(t, st.Activities(), 1, "children are not cascaded")
		assert.False(t, st.DeleteProject("p1"))
	})
}

func TestStore_GeneratedActivityIDsSurviveDeletes(t *testing.T) {
	// Deleting shrinks the collection back to a length whose
	// (millisecond, seq) pair may already be live; inserts without an
	// id must still succeed and stay unique.
	st := New()
	ids := map[string]bool{}

	for i := 0; i < 100; i++ {
		a, err := st.AddActivity(domain.Activity{ProjectID: "p1", Name: "generated"})
		require.NoError(t, err)
		b, err := st.AddActivity(domain.Activity{ProjectID: "p1", Name: "generated"})
		require.NoError(t, err)
		require.True(t, st.DeleteActivity(a.ID))

		c, err := st.AddActivity(domain.Activity{ProjectID: "p1", Name: "generated"})
		require.NoError(t, err)

		assert.False(t, ids[b.ID], "activity id %q issued twice", b.ID)
		assert.False(t, ids[c.ID], "activity id %q issued twice", c.ID)
		ids[b.ID] = true
		ids[c.ID] = true
	}
}

func TestStore_ITRValidation(t *testing.T) {
	st := seeded(t)

	_, err := st.AddITR(domain.ITR{ID: "bad", DoneQty: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = st.AddITR(domain.ITR{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "id required")

	i, err := st.AddITR(domain.ITR{ID: "i2", ActivityID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, i.Status, "status defaults to in progress")
}

func TestStore_MarkAlertRead(t *testing.T) {
	st := New()
	st.AddAlert(domain.Alert{ID: "al1", Message: "overdue itrs", CreatedAt: time.Now()})

	require.True(t, st.MarkAlertRead("al1"))
	assert.True(t, st.Alerts()[0].Read)
	assert.False(t, st.MarkAlertRead("ghost"))
}

func TestStore_KPIConfigMerge(t *testing.T) {
	st := New()
	st.SetKPIConfig(domain.KPIConfig{"slot1": "progress", "slot2": "overdue"})
	merged := st.SetKPIConfig(domain.KPIConfig{"slot2": "mcc"})

	assert.Equal(t, domain.KPIConfig{"slot1": "progress", "slot2": "mcc"}, merged)
}
