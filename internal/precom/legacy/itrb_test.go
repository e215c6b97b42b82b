package legacy

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

func TestDate_UnmarshalVariants(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2026-03-01T10:30:00Z"`, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"bare date", `"2026-03-01"`, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"epoch millis", `1773921600000`, time.UnixMilli(1773921600000).UTC()},
		{"epoch seconds", `1773921600`, time.Unix(1773921600, 0).UTC()},
		{"quoted epoch millis", `"1773921600000"`, time.UnixMilli(1773921600000).UTC()},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tc.in), &d))
			assert.True(t, tc.want.Equal(d.Time), "got %v want %v", d.Time, tc.want)
		})
	}

	t.Run("garbage string fails", func(t *testing.T) {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(`"not a date"`), &d))
	})
}

func TestDate_MarshalCanonical(t *testing.T) {
	d := Date{time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)}
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01T10:30:00Z"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}

func TestFlag_UnmarshalVariants(t *testing.T) {
	cases := map[string]bool{
		`true`: true, `false`: false,
		`1`: true, `0`: false,
		`"1"`: true, `"0"`: false,
		`"true"`: true, `null`: false,
	}
	for in, want := range cases {
		var f Flag
		require.NoError(t, json.Unmarshal([]byte(in), &f), "input %s", in)
		assert.Equal(t, want, bool(f), "input %s", in)
	}

	var f Flag
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &f))
}

func TestNormalizeStatus(t *testing.T) {
	completed := []string{"completed", "Completed", "COMPLETE", "done", "Done"}
	for _, raw := range completed {
		assert.Equal(t, domain.StatusCompleted, NormalizeStatus(raw), raw)
	}

	inProgress := []string{"in_progress", "In Progress", "inprogress", "pending", "Pending", "overdue", "Overdue", "", "unknown"}
	for _, raw := range inProgress {
		assert.Equal(t, domain.StatusInProgress, NormalizeStatus(raw), raw)
	}
}

func TestITRRecord_QtyAliases(t *testing.T) {
	t.Run("current field names", func(t *testing.T) {
		var r ITRRecord
		require.NoError(t, json.Unmarshal([]byte(`{"id": "i1", "totalQty": 7, "doneQty": 3}`), &r))
		assert.Equal(t, 7, r.TotalQty)
		assert.Equal(t, 3, r.DoneQty)
	})

	t.Run("legacy itrb field names", func(t *testing.T) {
		var r ITRRecord
		require.NoError(t, json.Unmarshal([]byte(`{"id": "i1", "qtyTotal": 7, "qtyDone": 3, "mcc": 1}`), &r))
		assert.Equal(t, 7, r.TotalQty)
		assert.Equal(t, 3, r.DoneQty)
		assert.True(t, bool(r.MCC))
	})

	t.Run("current names win over legacy", func(t *testing.T) {
		var r ITRRecord
		require.NoError(t, json.Unmarshal([]byte(`{"id": "i1", "totalQty": 7, "qtyTotal": 99}`), &r))
		assert.Equal(t, 7, r.TotalQty)
	})
}

func TestITRRecord_RoundTrip(t *testing.T) {
	src := domain.ITR{
		ID:         "i1",
		ActivityID: "a1",
		TotalQty:   5,
		DoneQty:    5,
		Status:     domain.StatusCompleted,
		MCC:        true,
		DueDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(FromITR(src))
	require.NoError(t, err)

	var back ITRRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, src, back.Canonical())
}
