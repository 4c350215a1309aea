package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier is returned for a difficulty tier outside the table.
var ErrUnknownTier = errors.New("unknown difficulty tier")

// Tier is a named difficulty configuration.
type Tier int

const (
	TierEasy Tier = iota
	TierNormal
	TierHard
	TierImmortal
)

// Tiers lists every tier in increasing order of challenge.
var Tiers = []Tier{TierEasy, TierNormal, TierHard, TierImmortal}

func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "easy"
	case TierNormal:
		return "normal"
	case TierHard:
		return "hard"
	case TierImmortal:
		return "immortal"
	default:
		return "unknown"
	}
}

// ParseTier maps a tier name (case-insensitive) to its Tier.
func ParseTier(name string) (Tier, error) {
	for _, t := range Tiers {
		if strings.EqualFold(strings.TrimSpace(name), t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("parse tier %q: %w", name, ErrUnknownTier)
}

// DifficultyProfile is the AI and damage tuning for one tier. It is chosen
// once per session and never changed afterwards.
type DifficultyProfile struct {
	Tier Tier

	// AI behaviour.
	DetectionRange float64 // world units; patrolling → seeking inside this
	ShootingRange  float64 // world units; engagement envelope
	ReactionTime   float64 // seconds between shots
	Accuracy       float64 // 0-1; spread shrinks as this grows
	MoveSpeed      float64 // movement interpolation multiplier

	// AI tactics.
	CoverSeekingChance float64 // 0-1; chance weight of seeking cover after being hit
	FlankingChance     float64 // 0-1; chance weight of flanking after being hit
	PredictiveAiming   bool

	// Health and damage.
	EnemyHealth float64
	EnemyDamage float64

	// Presentation only.
	Color       string
	Description string
}

var difficultyTable = map[Tier]DifficultyProfile{
	TierEasy: {
		Tier:               TierEasy,
		DetectionRange:     12,
		ShootingRange:      10,
		ReactionTime:       4.0,
		Accuracy:           0.2,
		MoveSpeed:          0.5,
		CoverSeekingChance: 0.1,
		FlankingChance:     0.0,
		PredictiveAiming:   false,
		EnemyHealth:        100,
		EnemyDamage:        15,
		Color:              "#00ff00",
		Description:        "Slow reactions, poor aim, low health",
	},
	TierNormal: {
		Tier:               TierNormal,
		DetectionRange:     15,
		ShootingRange:      12,
		ReactionTime:       3.0,
		Accuracy:           0.4,
		MoveSpeed:          0.7,
		CoverSeekingChance: 0.2,
		FlankingChance:     0.1,
		PredictiveAiming:   false,
		EnemyHealth:        150,
		EnemyDamage:        25,
		Color:              "#ffff00",
		Description:        "Balanced AI with moderate skills",
	},
	TierHard: {
		Tier:               TierHard,
		DetectionRange:     18,
		ShootingRange:      15,
		ReactionTime:       2.0,
		Accuracy:           0.6,
		MoveSpeed:          0.9,
		CoverSeekingChance: 0.4,
		FlankingChance:     0.3,
		PredictiveAiming:   true,
		EnemyHealth:        200,
		EnemyDamage:        35,
		Color:              "#ff6600",
		Description:        "Fast, accurate, tactical AI",
	},
	TierImmortal: {
		Tier:               TierImmortal,
		DetectionRange:     22,
		ShootingRange:      18,
		ReactionTime:       1.5,
		Accuracy:           0.8,
		MoveSpeed:          1.1,
		CoverSeekingChance: 0.6,
		FlankingChance:     0.5,
		PredictiveAiming:   true,
		EnemyHealth:        300,
		EnemyDamage:        50,
		Color:              "#ff0000",
		Description:        "Extremely intelligent, deadly accurate",
	},
}

// ProfileFor returns the profile for tier. The returned value is a copy.
func ProfileFor(t Tier) (DifficultyProfile, error) {
	p, ok := difficultyTable[t]
	if !ok {
		return DifficultyProfile{}, fmt.Errorf("profile for tier %d: %w", int(t), ErrUnknownTier)
	}
	return p, nil
}

// Spread returns the per-axis aim jitter magnitude for this profile.
func (p DifficultyProfile) Spread() float64 {
	return (1 - clamp01(p.Accuracy)) * 0.2
}
