package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var errRelationMissing = errors.New(`relation "schema_migrations" does not exist`)

func newHealthFixture(t *testing.T) (*HealthHandler, pgxmock.PgxPoolIface) {
	t.Helper()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &HealthHandler{db: mockPool, redisClient: client}, mockPool
}

func TestReadiness(t *testing.T) {
	t.Run("ready once migrations are clean", func(t *testing.T) {
		h, mockPool := newHealthFixture(t)
		mockPool.ExpectPing()
		mockPool.ExpectQuery(`SELECT dirty FROM schema_migrations LIMIT 1`).
			WillReturnRows(pgxmock.NewRows([]string{"dirty"}).AddRow(false))

		rec := httptest.NewRecorder()
		h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"migrations":"ok"`)
		require.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("dirty migration keeps traffic away", func(t *testing.T) {
		h, mockPool := newHealthFixture(t)
		mockPool.ExpectPing()
		mockPool.ExpectQuery(`SELECT dirty FROM schema_migrations LIMIT 1`).
			WillReturnRows(pgxmock.NewRows([]string{"dirty"}).AddRow(true))

		rec := httptest.NewRecorder()
		h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "migrations dirty")
	})

	t.Run("missing schema_migrations is not ready", func(t *testing.T) {
		h, mockPool := newHealthFixture(t)
		mockPool.ExpectPing()
		mockPool.ExpectQuery(`SELECT dirty FROM schema_migrations LIMIT 1`).
			WillReturnError(errRelationMissing)

		rec := httptest.NewRecorder()
		h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "migrations not applied")
	})
}
