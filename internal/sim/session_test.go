package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/beatspawn/internal/config"
	"github.com/udisondev/beatspawn/internal/geom"
	"github.com/udisondev/beatspawn/internal/testutil"
)

func testSession(t *testing.T, preset string) config.Session {
	t.Helper()
	sp, err := config.Preset(preset)
	require.NoError(t, err)
	sp.Seed = 7

	s := config.DefaultSession()
	s.Name = preset
	s.Preset = preset
	s.Duration = 20
	s.Spawner = sp
	return s
}

func TestRun_PerfectPlayer(t *testing.T) {
	s := testSession(t, config.PresetNarrowSingleBeat)
	s.HitProbability = 1
	s.ReactionTime = 0.3

	res, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.Positive(t, res.Hits)
	assert.Zero(t, res.Misses)
	assert.Equal(t, res.Hits, res.BestStreak)
	assert.GreaterOrEqual(t, res.TargetsSpawned, res.Hits)
	assert.Positive(t, res.FinalDifficulty)
	assert.Equal(t, 1.0, res.HitRate())
	assert.Equal(t, uint64(7), res.Seed)
	assert.Len(t, res.Fingerprint, 32)
	assert.Equal(t, res.Hits, res.Accuracy.Totals().Hits)
}

func TestRun_HopelessPlayer(t *testing.T) {
	s := testSession(t, config.PresetNarrowMultiBeat)
	s.HitProbability = 0

	res, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.Zero(t, res.Hits)
	assert.Positive(t, res.Misses)
	assert.Zero(t, res.BestStreak)
	assert.Zero(t, res.FinalDifficulty)
	assert.Zero(t, res.HitRate())
}

func TestRun_Deterministic(t *testing.T) {
	s := testSession(t, config.PresetWideMultiBeat)
	s.HitProbability = 0.6

	a, err := Run(context.Background(), s)
	require.NoError(t, err)
	b, err := Run(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, a.TargetsSpawned, b.TargetsSpawned)
	assert.Equal(t, a.Hits, b.Hits)
	assert.Equal(t, a.Misses, b.Misses)
	assert.Equal(t, a.BestStreak, b.BestStreak)
	assert.Equal(t, a.FinalDifficulty, b.FinalDifficulty)
	assert.Equal(t, a.Accuracy, b.Accuracy)
}

func TestRun_AllPresets(t *testing.T) {
	for _, name := range config.PresetNames() {
		t.Run(name, func(t *testing.T) {
			ctx := testutil.ContextWithTimeout(t, time.Minute)
			res, err := Run(ctx, testSession(t, name))
			require.NoError(t, err)
			assert.Positive(t, res.TargetsSpawned)
			assert.Positive(t, res.Hits+res.Misses)
			assert.Equal(t, name, res.Name)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testSession(t, config.PresetBeatGrid))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_InvalidSession(t *testing.T) {
	s := testSession(t, config.PresetBeatGrid)
	s.Duration = 0
	_, err := Run(context.Background(), s)
	assert.Error(t, err)

	s = testSession(t, config.PresetBeatGrid)
	s.Spawner.SpawnPeriod = 0
	_, err = Run(context.Background(), s)
	assert.Error(t, err)
}

func TestPlayer_Engage(t *testing.T) {
	h := uuid.New()
	pos := geom.Vec3{X: 3700, Z: 360}

	sure := NewPlayer(1, 0.4, testutil.Rand(3))
	for range 100 {
		l := sure.engage(h, pos, 10, 1.5)
		assert.True(t, l.hit)
		assert.GreaterOrEqual(t, l.resolveAt, 10+0.4*0.75)
		assert.LessOrEqual(t, l.resolveAt, 10+0.4*1.25)
	}

	// reaction slower than the lifespan never hits
	slow := NewPlayer(1, 2, testutil.Rand(3))
	l := slow.engage(h, pos, 0, 1.5)
	assert.False(t, l.hit)
	assert.Equal(t, 1.5, l.resolveAt)

	never := NewPlayer(-3, 0.1, testutil.Rand(3))
	assert.False(t, never.engage(h, pos, 0, 1).hit, "probability is clamped to 0")
}
