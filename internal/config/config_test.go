package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Combat-Trainer/internal/game"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "normal", s.Difficulty)
	assert.Equal(t, 30.0, s.SessionDuration)
	assert.Equal(t, int64(1), s.Seed)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "seeking", s.AIInitialState)
	assert.False(t, s.Metrics)
	assert.False(t, s.CoversSet)

	cfg, err := s.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, game.DefaultSessionConfig(), cfg)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"difficulty": "hard",
		"sessionDuration": 45,
		"seed": 99,
		"logLevel": "debug",
		"aiInitialState": "patrolling",
		"enemySpawn": { "z": -14 },
		"metrics": true,
		"covers": [
			{ "center": { "x": 3, "y": 1, "z": -4 }, "size": { "x": 2, "y": 2, "z": 1 } }
		]
	}`)
	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.True(t, s.Metrics)

	cfg, err := s.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, game.TierHard, cfg.Tier)
	assert.Equal(t, 45.0, cfg.Duration)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, game.AIPatrolling, cfg.InitialAIState)
	assert.Equal(t, game.Vec3{X: 0, Y: 0, Z: -14}, cfg.EnemySpawn)
	assert.Equal(t, game.Vec3{X: 0, Y: 1.7, Z: 5}, cfg.PlayerSpawn)
	require.Len(t, cfg.Covers, 1)
	assert.Equal(t, game.Vec3{X: 1, Y: 1, Z: 0.5}, cfg.Covers[0].HalfExtents)
}

func TestLoad_EmptyCoverListMeansOpenArena(t *testing.T) {
	t.Cleanup(viper.Reset)

	s, err := Load(writeConfig(t, `{"covers": []}`))
	require.NoError(t, err)
	require.True(t, s.CoversSet)

	cfg, err := s.SessionConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.Covers)
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load(writeConfig(t, `{"difficulty": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestSessionConfig_RejectsBadValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	s, err := Load(writeConfig(t, `{"difficulty": "nightmare"}`))
	require.NoError(t, err)
	_, err = s.SessionConfig()
	assert.ErrorIs(t, err, game.ErrUnknownTier)

	s.Difficulty = "easy"
	s.AIInitialState = "shooting"
	_, err = s.SessionConfig()
	assert.Error(t, err)
}
