package gantt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func fixture() ([]domain.Activity, []domain.ITR, []domain.Project) {
	projects := []domain.Project{{ID: "p1", Title: "Plant Alpha"}}
	activities := []domain.Activity{
		{ID: "a1", ProjectID: "p1", Name: "AX", System: "A", Subsystem: "X"},
		{ID: "a2", ProjectID: "p1", Name: "AY", System: "A", Subsystem: "Y"},
		{ID: "a3", ProjectID: "p1", Name: "BX", System: "B", Subsystem: "X"},
	}
	itrs := []domain.ITR{
		{ID: "i1", ActivityID: "a1", Status: domain.StatusCompleted},
		{ID: "i2", ActivityID: "a1", Status: domain.StatusInProgress, DueDate: testNow.Add(-time.Hour)},
		{ID: "i3", ActivityID: "a2", Status: domain.StatusCompleted, MCC: true},
	}
	return activities, itrs, projects
}

func TestBuild_FilterConjunction(t *testing.T) {
	activities, itrs, projects := fixture()

	t.Run("system and subsystem must both match", func(t *testing.T) {
		rows := Build(activities, itrs, projects, Filter{System: "A", Subsystem: "X"}, testNow)
		require.Len(t, rows, 1)
		assert.Equal(t, "a1", rows[0].ID)
	})

	t.Run("system alone matches all its subsystems", func(t *testing.T) {
		rows := Build(activities, itrs, projects, Filter{System: "A"}, testNow)
		require.Len(t, rows, 2)
		assert.Equal(t, "a1", rows[0].ID)
		assert.Equal(t, "a2", rows[1].ID)
	})

	t.Run("empty filter passes everything", func(t *testing.T) {
		rows := Build(activities, itrs, projects, Filter{}, testNow)
		assert.Len(t, rows, 3)
	})
}

func TestBuild_ColorTieBreak(t *testing.T) {
	activities, itrs, projects := fixture()
	rows := Build(activities, itrs, projects, Filter{}, testNow)
	require.Len(t, rows, 3)

	// a1 has one overdue incomplete record: overdue wins even though one
	// of its records is completed.
	assert.Equal(t, ColorOverdue, rows[0].Color)
	assert.True(t, rows[0].HasOverdue)
	assert.Equal(t, 50, rows[0].ProgressPct)

	// a2 is fully complete with nothing overdue.
	assert.Equal(t, ColorCompleted, rows[1].Color)
	assert.Equal(t, 100, rows[1].ProgressPct)
	assert.True(t, rows[1].HasMCC)

	// a3 has no linked records at all.
	assert.Equal(t, ColorActive, rows[2].Color)
	assert.Equal(t, 0, rows[2].ProgressPct)
}

func TestBuild_OverdueCompletedGetsOverdueColor(t *testing.T) {
	projects := []domain.Project{{ID: "p1", Title: "Plant Alpha"}}
	activities := []domain.Activity{{ID: "a1", ProjectID: "p1", Name: "N", System: "A", Subsystem: "X"}}
	itrs := []domain.ITR{
		{ID: "i1", ActivityID: "a1", Status: domain.StatusCompleted},
		{ID: "i2", ActivityID: "a1", Status: domain.StatusCompleted},
	}

	rows := Build(activities, itrs, projects, Filter{}, testNow)
	require.Len(t, rows, 1)
	assert.Equal(t, 100, rows[0].ProgressPct)
	assert.Equal(t, ColorCompleted, rows[0].Color)
	assert.False(t, rows[0].HasOverdue)
}

func TestBuild_ProjectTitleAndLinkage(t *testing.T) {
	activities, itrs, projects := fixture()
	rows := Build(activities, itrs, projects, Filter{ProjectID: "p1"}, testNow)
	require.Len(t, rows, 3)

	assert.Equal(t, "Plant Alpha", rows[0].ProjectTitle)
	assert.Len(t, rows[0].LinkedITRs, 2)
	assert.Empty(t, rows[2].LinkedITRs)
}

func TestBuild_DoesNotMutateInputs(t *testing.T) {
	activities, itrs, projects := fixture()
	before := append([]domain.ITR(nil), itrs...)

	rows := Build(activities, itrs, projects, Filter{}, testNow)
	require.NotEmpty(t, rows)
	rows[0].LinkedITRs[0].Status = domain.StatusInProgress
	rows[0].LinkedITRs[0].ID = "mutated"

	assert.Equal(t, before, itrs)
}
