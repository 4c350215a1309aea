// Package config loads trainer settings from trainer.cfg.json via viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Garsondee/Combat-Trainer/internal/game"
)

// FileName is the settings file looked up in the config directory.
const FileName = "trainer.cfg.json"

// Point is a position in world units.
type Point struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	Z float64 `json:"z" mapstructure:"z"`
}

func (p Point) vec() game.Vec3 {
	return game.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// Cover is an axis-aligned cover box given by centre and full size.
type Cover struct {
	Center Point `json:"center" mapstructure:"center"`
	Size   Point `json:"size" mapstructure:"size"`
}

// Settings is the decoded settings file.
type Settings struct {
	Difficulty      string  `json:"difficulty" mapstructure:"difficulty"`
	SessionDuration float64 `json:"sessionDuration" mapstructure:"sessionDuration"`
	Seed            int64   `json:"seed" mapstructure:"seed"`
	LogLevel        string  `json:"logLevel" mapstructure:"logLevel"`
	LogFormat       string  `json:"logFormat" mapstructure:"logFormat"`
	PlayerSpawn     Point   `json:"playerSpawn" mapstructure:"playerSpawn"`
	EnemySpawn      Point   `json:"enemySpawn" mapstructure:"enemySpawn"`
	AIInitialState  string  `json:"aiInitialState" mapstructure:"aiInitialState"`
	PlayerHealth    float64 `json:"playerHealth" mapstructure:"playerHealth"`
	Metrics         bool    `json:"metrics" mapstructure:"metrics"`

	// Covers replaces the default layout when present in the file. An
	// explicit empty list means an open arena.
	Covers    []Cover `json:"covers" mapstructure:"covers"`
	CoversSet bool    `json:"-" mapstructure:"-"`
}

func setDefaults() {
	def := game.DefaultSessionConfig()

	viper.SetDefault("difficulty", def.Tier.String())
	viper.SetDefault("sessionDuration", def.Duration)
	viper.SetDefault("seed", def.Seed)
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFormat", "text")
	viper.SetDefault("aiInitialState", def.InitialAIState.String())
	viper.SetDefault("playerHealth", def.PlayerHealth)
	viper.SetDefault("metrics", false)

	viper.SetDefault("playerSpawn.x", def.PlayerSpawn.X)
	viper.SetDefault("playerSpawn.y", def.PlayerSpawn.Y)
	viper.SetDefault("playerSpawn.z", def.PlayerSpawn.Z)
	viper.SetDefault("enemySpawn.x", def.EnemySpawn.X)
	viper.SetDefault("enemySpawn.y", def.EnemySpawn.Y)
	viper.SetDefault("enemySpawn.z", def.EnemySpawn.Z)
}

// Load reads configDir/trainer.cfg.json over the defaults. A missing file is
// not an error; the defaults are returned.
func Load(configDir string) (Settings, error) {
	setDefaults()

	viper.SetConfigFile(filepath.Join(configDir, FileName))
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("error reading config file: %w", err)
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	s.CoversSet = viper.IsSet("covers")
	return s, nil
}

// SessionConfig converts the settings into a game session config.
func (s Settings) SessionConfig() (game.SessionConfig, error) {
	cfg := game.DefaultSessionConfig()

	tier, err := game.ParseTier(s.Difficulty)
	if err != nil {
		return cfg, err
	}
	state, err := game.ParseAIState(s.AIInitialState)
	if err != nil {
		return cfg, err
	}
	if state != game.AIPatrolling && state != game.AISeeking {
		return cfg, fmt.Errorf("ai initial state %q: must be patrolling or seeking", s.AIInitialState)
	}

	cfg.Tier = tier
	cfg.InitialAIState = state
	cfg.Duration = s.SessionDuration
	cfg.Seed = s.Seed
	cfg.PlayerHealth = s.PlayerHealth
	cfg.PlayerSpawn = s.PlayerSpawn.vec()
	cfg.EnemySpawn = s.EnemySpawn.vec()
	if s.CoversSet {
		cfg.Covers = make([]game.CoverBox, 0, len(s.Covers))
		for _, c := range s.Covers {
			cfg.Covers = append(cfg.Covers, game.CoverBox{
				Center:      c.Center.vec(),
				HalfExtents: c.Size.vec().Scale(0.5),
			})
		}
	}
	return cfg, nil
}
