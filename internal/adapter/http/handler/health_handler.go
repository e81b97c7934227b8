package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// healthDB is the slice of the pgx pool the readiness probe needs.
type healthDB interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db          healthDB
	redisClient redis.UniversalClient
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:          pool,
		redisClient: redisClient,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
// Beyond connectivity, the database is ready only once the schema
// migrations have run to completion: every posting touches the closure
// and record tables, so a half-migrated schema must keep traffic away.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "postgres unhealthy", err.Error())
		return
	}

	var dirty bool
	if err := h.db.QueryRow(ctx, `SELECT dirty FROM schema_migrations LIMIT 1`).Scan(&dirty); err != nil {
		writeError(w, http.StatusServiceUnavailable, "migrations not applied", err.Error())
		return
	}
	if dirty {
		writeError(w, http.StatusServiceUnavailable, "migrations dirty", "schema_migrations reports a failed migration")
		return
	}

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "redis unhealthy", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ready",
		"postgres":   "ok",
		"migrations": "ok",
		"redis":      "ok",
	})
}
