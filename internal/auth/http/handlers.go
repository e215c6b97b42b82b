// Package http serves the authentication stub: a login endpoint that
// exchanges an api key for a session with a role label, and api key
// administration. No authorization is enforced beyond labeling.
package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/auth/domain"
)

const sessionTTL = 12 * time.Hour

// KeyStore is the persistence surface the handlers need.
type KeyStore interface {
	GetByKey(ctx context.Context, key string) (*domain.APIKey, error)
	Create(ctx context.Context, owner, role string) (*domain.APIKey, error)
	List(ctx context.Context) ([]domain.APIKey, error)
	Revoke(ctx context.Context, key string) (bool, error)
}

// Handler serves /login and /apikeys.
type Handler struct {
	keys    KeyStore
	limiter *rate.Limiter
}

// New creates a handler. Login attempts share one limiter to blunt key
// guessing.
func New(keys KeyStore) *Handler {
	return &Handler{
		keys:    keys,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

type loginReq struct {
	APIKey string `json:"apiKey"`
}

func (h *Handler) login(c *gin.Context) {
	if !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "too many login attempts"})
		return
	}

	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.APIKey) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	rec, err := h.keys.GetByKey(c.Request.Context(), strings.TrimSpace(req.APIKey))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid API key"})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": domain.Session{
		Token:     uuid.NewString(),
		Owner:     rec.Owner,
		Role:      rec.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(sessionTTL),
	}})
}

type createKeyReq struct {
	Owner string `json:"owner"`
	Role  string `json:"role"`
}

func (h *Handler) createKey(c *gin.Context) {
	var req createKeyReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Owner) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	k, err := h.keys.Create(c.Request.Context(), strings.TrimSpace(req.Owner), req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "apikey": k})
}

func (h *Handler) listKeys(c *gin.Context) {
	items, err := h.keys.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "apikeys": items})
}

func (h *Handler) revokeKey(c *gin.Context) {
	ok, err := h.keys.Revoke(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "api key not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Register attaches auth routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
	rg.POST("/apikeys", h.createKey)
	rg.GET("/apikeys", h.listKeys)
	rg.DELETE("/apikeys/:key", h.revokeKey)
}
