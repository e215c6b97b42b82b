package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
)

func (h *Handler) listAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "alerts": h.store.Alerts()})
}

type createAlertReq struct {
	Type           string   `json:"type"`
	Message        string   `json:"message"`
	RelatedItemIDs []string `json:"relatedItemIds"`
	ProjectID      string   `json:"projectId"`
}

func (h *Handler) createAlert(c *gin.Context) {
	var req createAlertReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	a := h.store.AddAlert(domain.Alert{
		ID:             uuid.NewString(),
		Type:           req.Type,
		Message:        req.Message,
		CreatedAt:      time.Now(),
		RelatedItemIDs: req.RelatedItemIDs,
		ProjectID:      req.ProjectID,
	})

	h.persist(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"ok": true, "alert": a})
}

func (h *Handler) markAlertRead(c *gin.Context) {
	if !h.store.MarkAlertRead(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "alert not found"})
		return
	}
	h.persist(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
