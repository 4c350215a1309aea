package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/Garsondee/Combat-Trainer/internal/game"
)

func TestNew_WithNoopProvider(t *testing.T) {
	r, err := New(noop.NewMeterProvider())
	require.NoError(t, err)

	_, seen := r.AIState()
	assert.False(t, seen)
}

func TestNew_GlobalProviderFallback(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, r)
}

func TestObserve_TracksAIState(t *testing.T) {
	r, err := New(noop.NewMeterProvider())
	require.NoError(t, err)

	s, err := game.NewSession(game.DefaultSessionConfig())
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 300; i++ {
		res, err := s.Step(1.0/60, game.PlayerInput{Fire: i%30 == 0, Aim: game.Vec3{Z: -1}})
		require.NoError(t, err)
		r.Observe(ctx, res)
	}
	state, seen := r.AIState()
	assert.True(t, seen)
	assert.Equal(t, s.AI().State, state)
}
