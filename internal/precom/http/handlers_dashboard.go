package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/gantt"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/kpi"
)

// getKPIs recomputes the summary on every read; the aggregator is pure
// over the snapshot.
func (h *Handler) getKPIs(c *gin.Context) {
	snap := h.store.Snapshot()
	summary := kpi.Compute(snap.Activities, snap.ITRs, c.Query("projectId"), time.Now())
	c.JSON(http.StatusOK, gin.H{"ok": true, "kpis": summary})
}

func (h *Handler) getGantt(c *gin.Context) {
	// The dashboard sends projectId=all for the unscoped view.
	projectID := c.Query("projectId")
	if projectID == kpi.ScopeAll {
		projectID = ""
	}

	snap := h.store.Snapshot()
	rows := gantt.Build(snap.Activities, snap.ITRs, snap.Projects, gantt.Filter{
		ProjectID: projectID,
		System:    c.Query("system"),
		Subsystem: c.Query("subsystem"),
	}, time.Now())
	c.JSON(http.StatusOK, gin.H{"ok": true, "rows": rows})
}

func (h *Handler) getKPIConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "kpiconfig": h.store.KPIConfig()})
}

func (h *Handler) setKPIConfig(c *gin.Context) {
	var req domain.KPIConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	merged := h.store.SetKPIConfig(req)
	h.persist(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "kpiconfig": merged})
}
