package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/legacy"
)

func (h *Handler) listActivities(c *gin.Context) {
	items := h.store.Activities()
	if projectID := c.Query("projectId"); projectID != "" {
		filtered := items[:0]
		for _, a := range items {
			if a.ProjectID == projectID {
				filtered = append(filtered, a)
			}
		}
		items = filtered
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "activities": items})
}

func (h *Handler) createActivity(c *gin.Context) {
	var req legacy.ActivityRecord
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	a, err := h.store.AddActivity(req.Canonical())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "activity already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	h.persist(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"ok": true, "activity": a})
}

func (h *Handler) updateActivity(c *gin.Context) {
	var req legacy.ActivityRecord
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	req.ID = c.Param("id")

	a, err := h.store.UpdateActivity(req.Canonical())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "activity not found"})
		return
	}

	h.persist(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "activity": a})
}

func (h *Handler) deleteActivity(c *gin.Context) {
	if !h.store.DeleteActivity(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "activity not found"})
		return
	}
	h.persist(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
