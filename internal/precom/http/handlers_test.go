package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/backup"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/store"
)

func setupRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	h := New(st, backup.NewImporter(st, nil), nil)

	r := gin.New()
	h.Register(r.Group("/api/v1"))
	return r, st
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequest(method, path, nil)
	} else {
		req, err = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func seedDashboard(t *testing.T, st *store.Store) {
	t.Helper()
	_, err := st.AddProject(domain.Project{ID: "p1", Title: "Plant Alpha"})
	require.NoError(t, err)
	_, err = st.AddActivity(domain.Activity{ID: "a1", ProjectID: "p1", Name: "Loop checks", System: "S", Subsystem: "SS"})
	require.NoError(t, err)
	_, err = st.AddITR(domain.ITR{ID: "i1", ActivityID: "a1", Status: domain.StatusCompleted})
	require.NoError(t, err)
	_, err = st.AddITR(domain.ITR{ID: "i2", ActivityID: "a1", Status: domain.StatusInProgress})
	require.NoError(t, err)
}

func TestGetKPIs(t *testing.T) {
	r, st := setupRouter(t)
	seedDashboard(t, st)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/kpis?projectId=p1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OK   bool `json:"ok"`
		KPIs struct {
			TotalITR     int `json:"totalITR"`
			CompletedITR int `json:"completedITR"`
		} `json:"kpis"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 2, resp.KPIs.TotalITR)
	assert.Equal(t, 1, resp.KPIs.CompletedITR)
}

func TestGetGantt(t *testing.T) {
	r, st := setupRouter(t)
	seedDashboard(t, st)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/gantt?system=S&subsystem=SS", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Rows []struct {
			ID           string `json:"id"`
			ProgressPct  int    `json:"progressPct"`
			ProjectTitle string `json:"projectTitle"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "a1", resp.Rows[0].ID)
	assert.Equal(t, 50, resp.Rows[0].ProgressPct)
	assert.Equal(t, "Plant Alpha", resp.Rows[0].ProjectTitle)

	rr = doJSON(t, r, http.MethodGet, "/api/v1/gantt?system=S&subsystem=other", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Rows)

	// The dashboard's unscoped view sends projectId=all, same as /kpis.
	rr = doJSON(t, r, http.MethodGet, "/api/v1/gantt?projectId=all", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Rows, 1)
}

func TestProjectCRUD(t *testing.T) {
	r, _ := setupRouter(t)

	rr := doJSON(t, r, http.MethodPost, "/api/v1/projects", `{"title": "Plant Beta"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		Project domain.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Contains(t, created.Project.ID, "project-")

	rr = doJSON(t, r, http.MethodPost, "/api/v1/projects", `{"title": "  "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, r, http.MethodDelete, "/api/v1/projects/ghost", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestITRLegacyDecoding(t *testing.T) {
	r, st := setupRouter(t)
	seedDashboard(t, st)

	// 0/1 booleans and epoch dates arrive from legacy clients.
	rr := doJSON(t, r, http.MethodPost, "/api/v1/itrbs",
		`{"id": "i3", "activityId": "a1", "mccFlag": 1, "dueDate": 1773921600000, "status": "Pending"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	items := st.ITRs()
	require.Len(t, items, 3)
	last := items[2]
	assert.True(t, last.MCC)
	assert.Equal(t, domain.StatusInProgress, last.Status)
	assert.False(t, last.DueDate.IsZero())

	rr = doJSON(t, r, http.MethodPost, "/api/v1/itrbs",
		`{"id": "i3", "activityId": "a1"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestBackupImportEndpoint(t *testing.T) {
	t.Run("valid backup into new project", func(t *testing.T) {
		r, st := setupRouter(t)
		payload := `{
			"projects":   [{"id": "p-old", "title": "X"}],
			"activities": [{"id": "a1", "projectId": "p-old", "name": "N", "system": "S", "subsystem": "Sub"}],
			"itrItems":   [{"id": "i1", "activityId": "a1"}]
		}`

		rr := doJSON(t, r, http.MethodPost, "/api/v1/backups/import?target=new&title=Restored", payload)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		snap := st.Snapshot()
		require.Len(t, snap.Projects, 1)
		assert.Equal(t, "Restored", snap.Projects[0].Title)
		require.Len(t, snap.ITRs, 1)
		assert.Equal(t, snap.Activities[0].ID, snap.ITRs[0].ActivityID)
	})

	t.Run("unrecognized shape is rejected without side effects", func(t *testing.T) {
		r, st := setupRouter(t)
		before := st.Snapshot()

		rr := doJSON(t, r, http.MethodPost, "/api/v1/backups/import?target=new&title=X", `{"foo": 1}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, before, st.Snapshot())
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		r, _ := setupRouter(t)
		rr := doJSON(t, r, http.MethodPost, "/api/v1/backups/import?target=new&title=X", `{"projects": [`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestBackupExportEndpoint(t *testing.T) {
	r, st := setupRouter(t)
	seedDashboard(t, st)

	rr := doJSON(t, r, http.MethodGet, "/api/v1/backups/export", "")
	require.Equal(t, http.StatusOK, rr.Code)

	disposition := rr.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "backup-projects-")
	assert.Contains(t, disposition, ".json")

	var b backup.Backup
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &b))
	assert.Len(t, b.Projects, 1)
	assert.Len(t, b.ITRItems, 2)
	assert.Equal(t, backup.FormatVersion, b.Metadata.Version)
}

func TestMarkAlertRead(t *testing.T) {
	r, st := setupRouter(t)
	st.AddAlert(domain.Alert{ID: "al1", Message: "overdue itrs"})

	rr := doJSON(t, r, http.MethodPatch, "/api/v1/alerts/al1/read", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, st.Alerts()[0].Read)

	rr = doJSON(t, r, http.MethodPatch, "/api/v1/alerts/ghost/read", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestKPIConfigEndpoints(t *testing.T) {
	r, _ := setupRouter(t)

	rr := doJSON(t, r, http.MethodPut, "/api/v1/kpiconfig", `{"slot1": "progress"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, r, http.MethodGet, "/api/v1/kpiconfig", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		KPIConfig map[string]string `json:"kpiconfig"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "progress", resp.KPIConfig["slot1"])
}
