package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qa-workers/internal/common/config"
)

func TestPostgres_PoolSettingsAndPing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	pg := newPostgres(db, config.PostgresConfig{MaxConnections: 4, MaxIdle: 2})
	assert.Equal(t, 4, db.Stats().MaxOpenConnections)

	require.NoError(t, pg.Ping(context.Background()))

	mock.ExpectClose()
	require.NoError(t, pg.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CloseWithoutPool(t *testing.T) {
	assert.NoError(t, (&Postgres{}).Close())
}
