package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/beatspawn/internal/config"
	"github.com/udisondev/beatspawn/internal/sim"
	"github.com/udisondev/beatspawn/internal/spawner"
	"github.com/udisondev/beatspawn/internal/testutil"
)

func sampleResult(name, fingerprint string, startedAt time.Time) sim.Result {
	var acc spawner.AccuracyMatrix
	acc[0][0] = spawner.AccuracyCell{Spawns: 4, Hits: 3}
	acc[2][2] = spawner.AccuracyCell{Spawns: 10, Hits: 10}
	acc[4][1] = spawner.AccuracyCell{Spawns: 1}

	return sim.Result{
		Name:            name,
		Mode:            config.ModeMultiBeat,
		Fingerprint:     fingerprint,
		Seed:            1<<63 + 7,
		Duration:        60,
		TargetsSpawned:  15,
		Hits:            13,
		Misses:          2,
		BestStreak:      9,
		FinalDifficulty: 37,
		Accuracy:        acc,
		StartedAt:       startedAt,
		Elapsed:         1500 * time.Millisecond,
	}
}

func TestSessionRepository_SaveAndLoad(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewSessionRepository(pool)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	want := sampleResult("multi", "0123456789abcdef0123456789abcdef", started)

	id, err := repo.Save(ctx, want)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := repo.LoadByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Mode, got.Mode)
	assert.Equal(t, want.Fingerprint, got.Fingerprint)
	assert.Equal(t, want.Seed, got.Seed, "uint64 seed must survive the bigint round trip")
	assert.Equal(t, want.Hits, got.Hits)
	assert.Equal(t, want.Misses, got.Misses)
	assert.Equal(t, want.BestStreak, got.BestStreak)
	assert.Equal(t, want.FinalDifficulty, got.FinalDifficulty)
	assert.Equal(t, want.Elapsed, got.Elapsed)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, want.Accuracy, got.Accuracy)
}

func TestSessionRepository_LoadByID_NotFound(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewSessionRepository(pool)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	got, err := repo.LoadByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepository_ListByFingerprint(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewSessionRepository(pool)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	const fp = "ffffffffffffffffffffffffffffffff"
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 3 {
		_, err := repo.Save(ctx, sampleResult("run", fp, base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, sampleResult("other", "00000000000000000000000000000000", base))
	require.NoError(t, err)

	list, err := repo.ListByFingerprint(ctx, fp, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].StartedAt.After(list[1].StartedAt), "newest first")
	for _, s := range list {
		assert.Equal(t, fp, s.Fingerprint)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := NewSessionRepository(pool)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	id, err := repo.Save(ctx, sampleResult("gone", "0123456789abcdef0123456789abcdef", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	got, err := repo.LoadByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM session_accuracy WHERE session_id = $1`, id).Scan(&n))
	assert.Zero(t, n, "accuracy rows cascade")
}
