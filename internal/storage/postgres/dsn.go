package postgres

import (
	"fmt"

	"github.com/GermanFOSSIL/precom-planner-backend/config"
)

// DSN returns the configured connection string, composing one from the
// discrete fields only when no full DSN was given. Both the pgx pool
// and the database/sql handle go through here so they always hit the
// same database.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
