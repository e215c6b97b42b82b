package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GermanFOSSIL/precom-planner-backend/internal/auth/domain"
)

// APIKeyRepository provides persistence operations for API keys.
type APIKeyRepository struct {
	db *sql.DB
}

// NewAPIKeyRepository creates a new api key repository.
func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create issues a new key for the given owner and role label.
func (r *APIKeyRepository) Create(ctx context.Context, owner, role string) (*domain.APIKey, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner required")
	}
	if role == "" {
		role = domain.RoleViewer
	}

	const q = `
INSERT INTO apikeys (key, owner, role, created_at)
VALUES ($1, $2, $3, $4)
RETURNING key, owner, role, created_at;
`
	var k domain.APIKey
	err := r.db.QueryRowContext(ctx, q, uuid.NewString(), owner, role, time.Now()).
		Scan(&k.Key, &k.Owner, &k.Role, &k.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// GetByKey looks a key up by its value.
func (r *APIKeyRepository) GetByKey(ctx context.Context, key string) (*domain.APIKey, error) {
	const q = `
SELECT key, owner, role, created_at
FROM apikeys
WHERE key = $1 AND revoked_at IS NULL;
`
	var k domain.APIKey
	err := r.db.QueryRowContext(ctx, q, key).Scan(&k.Key, &k.Owner, &k.Role, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, err
	}
	return &k, nil
}

// List returns all active keys.
func (r *APIKeyRepository) List(ctx context.Context) ([]domain.APIKey, error) {
	const q = `
SELECT key, owner, role, created_at
FROM apikeys
WHERE revoked_at IS NULL
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.APIKey, 0, 8)
	for rows.Next() {
		var k domain.APIKey
		if err := rows.Scan(&k.Key, &k.Owner, &k.Role, &k.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// Revoke marks a key revoked.
func (r *APIKeyRepository) Revoke(ctx context.Context, key string) (bool, error) {
	const q = `
UPDATE apikeys
SET revoked_at = now()
WHERE key = $1 AND revoked_at IS NULL;
`
	result, err := r.db.ExecContext(ctx, q, key)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
