package http

import "github.com/gin-gonic/gin"

// Register attaches the dashboard routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects", h.listProjects)
	rg.POST("/projects", h.createProject)
	rg.PATCH("/projects/:id", h.updateProject)
	rg.DELETE("/projects/:id", h.deleteProject)

	rg.GET("/activities", h.listActivities)
	rg.POST("/activities", h.createActivity)
	rg.PATCH("/activities/:id", h.updateActivity)
	rg.DELETE("/activities/:id", h.deleteActivity)

	rg.GET("/itrbs", h.listITRs)
	rg.POST("/itrbs", h.createITR)
	rg.PATCH("/itrbs/:id", h.updateITR)
	rg.DELETE("/itrbs/:id", h.deleteITR)

	rg.GET("/alerts", h.listAlerts)
	rg.POST("/alerts", h.createAlert)
	rg.PATCH("/alerts/:id/read", h.markAlertRead)

	rg.GET("/kpiconfig", h.getKPIConfig)
	rg.PUT("/kpiconfig", h.setKPIConfig)

	rg.GET("/kpis", h.getKPIs)
	rg.GET("/gantt", h.getGantt)

	rg.POST("/backups/import", h.importBackup)
	rg.GET("/backups/export", h.exportBackup)
}
