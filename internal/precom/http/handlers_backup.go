package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/backup"
)

// maxBackupBytes caps import payloads. Real backups are a few megabytes.
const maxBackupBytes = 64 << 20

type importQuery struct {
	Target string `form:"target"`
	Title  string `form:"title"`
}

func (h *Handler) importBackup(c *gin.Context) {
	var q importQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid query"})
		return
	}
	if q.Target == "" {
		q.Target = backup.TargetNew
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBackupBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "read body failed"})
		return
	}

	res, err := h.importer.Import(c.Request.Context(), payload, backup.Options{
		TargetProjectID: q.Target,
		NewProjectTitle: q.Title,
	})
	switch {
	case errors.Is(err, backup.ErrImportInProgress):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
		return
	case errors.Is(err, backup.ErrParse), errors.Is(err, backup.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "result": res})
}

func (h *Handler) exportBackup(c *gin.Context) {
	now := time.Now()
	b := backup.Export(h.store.Snapshot(), now, nil)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.Filename(now)))
	c.JSON(http.StatusOK, b)
}
