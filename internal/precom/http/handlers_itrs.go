package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/domain"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/legacy"
)

// ITRs are served under /itrbs and in the legacy wire shape: that is what
// the deployed dashboard consumes. Translation happens in the legacy
// package only.

func (h *Handler) listITRs(c *gin.Context) {
	items := h.store.ITRs()
	activityID := c.Query("activityId")

	out := make([]legacy.ITRRecord, 0, len(items))
	for _, i := range items {
		if activityID != "" && i.ActivityID != activityID {
			continue
		}
		out = append(out, legacy.FromITR(i))
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "itrbs": out})
}

func (h *Handler) createITR(c *gin.Context) {
	var req legacy.ITRRecord
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	i, err := h.store.AddITR(req.Canonical())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "itrb already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	h.persist(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"ok": true, "itrb": legacy.FromITR(i)})
}

func (h *Handler) updateITR(c *gin.Context) {
	var req legacy.ITRRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	req.ID = c.Param("id")

	i, err := h.store.UpdateITR(req.Canonical())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "itrb not found"})
		return
	}

	h.persist(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true, "itrb": legacy.FromITR(i)})
}

func (h *Handler) deleteITR(c *gin.Context) {
	if !h.store.DeleteITR(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "itrb not found"})
		return
	}
	h.persist(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
