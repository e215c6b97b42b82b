package middleware

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/auth/domain"
)

// KeyLookup resolves an api key value to its record.
type KeyLookup interface {
	GetByKey(ctx context.Context, key string) (*domain.APIKey, error)
}

// APIKeyMiddleware checks X-API-Key against the key store. When no store
// is wired (memory-only deployments) it falls back to the API_KEY env
// value. The resolved owner and role label are stored on the gin context.
func APIKeyMiddleware(lookup KeyLookup) gin.HandlerFunc {
	fallback := os.Getenv("API_KEY")

	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "missing API key",
			})
			return
		}

		if lookup != nil {
			rec, err := lookup.GetByKey(c.Request.Context(), key)
			if err == nil {
				c.Set("owner", rec.Owner)
				c.Set("role", rec.Role)
				c.Next()
				return
			}
		}

		if fallback != "" && key == fallback {
			c.Set("owner", "env")
			c.Set("role", domain.RoleAdmin)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"ok":    false,
			"error": "invalid API key",
		})
	}
}
