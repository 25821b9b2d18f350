package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/beatspawn/internal/testutil"
)

func TestRunMigrations_AlreadyApplied(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	dsn := pool.Config().ConnString()

	for range 2 {
		version, err := RunMigrations(context.Background(), dsn)
		require.NoError(t, err)
		assert.Equal(t, int64(1), version)
	}
}

func TestRunMigrations_BadDSN(t *testing.T) {
	_, err := RunMigrations(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	assert.Error(t, err)
}
