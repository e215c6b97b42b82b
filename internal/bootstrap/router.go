package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpapi "github.com/GermanFOSSIL/precom-planner-backend/internal/api/http"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/api/http/middleware"
	authhttp "github.com/GermanFOSSIL/precom-planner-backend/internal/auth/http"
	authmw "github.com/GermanFOSSIL/precom-planner-backend/internal/auth/middleware"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/backup"
	precomhttp "github.com/GermanFOSSIL/precom-planner-backend/internal/precom/http"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/precom/store"
	"github.com/GermanFOSSIL/precom-planner-backend/internal/storage/postgres"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Store          *store.Store
	Importer       *backup.Importer
	Persisters     []backup.Persister
	DB             *pgxpool.Pool
	AuthDB         *sql.DB
	Cache          *redis.Client
	Logger         *zap.Logger
}

// BuildRouter assembles the gin engine: health on the root, auth and
// dashboard routes under /api/v1 behind the api-key check.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(dep.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = dep.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-API-Key", "X-Request-Id")
	corsCfg.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsCfg))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB).WithCache(dep.Cache)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	var keys *postgres.APIKeyRepository
	if dep.AuthDB != nil {
		keys = postgres.NewAPIKeyRepository(dep.AuthDB)
		authHandler := authhttp.New(keys)
		authHandler.Register(api)
	}

	dashboard := api.Group("")
	if keys != nil {
		dashboard.Use(authmw.APIKeyMiddleware(keys))
	} else {
		dashboard.Use(authmw.APIKeyMiddleware(nil))
	}

	precomHandler := precomhttp.New(dep.Store, dep.Importer, dep.Logger, dep.Persisters...)
	precomHandler.Register(dashboard)

	return r
}
