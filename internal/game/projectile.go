package game

import (
	"errors"
	"fmt"
	"math"
)

// --- Projectile constants ---

const (
	projectileSpeed       = 50.0  // world units per second
	projectileMaxRange    = 100.0 // retired once total distance reaches this
	projectileMaxLifetime = 3.0   // seconds; hard safety net against leaked shots
	projectileRayEpsilon  = 0.1   // extra ray length so fast shots don't skip thin targets
	playerShotDamage      = 25.0  // fallback damage when a region has no fixed value
)

var (
	// ErrZeroDirection is returned when a shot is requested with no direction.
	ErrZeroDirection = errors.New("zero-length direction")
	// ErrInvalidSpeed is returned for a non-positive or non-finite projectile speed.
	ErrInvalidSpeed = errors.New("invalid projectile speed")
)

// OutcomeKind is the terminal state of a projectile.
type OutcomeKind int

const (
	OutcomeHit OutcomeKind = iota
	OutcomeObstructedByCover
	OutcomeObstructedByArena
	OutcomeExpired
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeHit:
		return "hit"
	case OutcomeObstructedByCover:
		return "obstructed_cover"
	case OutcomeObstructedByArena:
		return "obstructed_arena"
	case OutcomeExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Expiry reasons carried in HitOutcome.Reason.
const (
	ExpiredLifetime = "lifetime"
	ExpiredRange    = "range"
	ExpiredBounds   = "bounds"
)

// HitOutcome describes how a projectile's flight ended.
type HitOutcome struct {
	Kind   OutcomeKind
	Point  Vec3
	Reason string // expiry reason or struck surface name

	// Set for OutcomeHit.
	Target CombatantID
	Region Region
	Damage float64
}

// Projectile is a single shot in flight.
type Projectile struct {
	ID        uint64
	Origin    Vec3
	Position  Vec3
	Direction Vec3 // unit length
	Speed     float64
	Distance  float64 // total distance travelled
	Owner     CombatantID
	Damage    float64
	SpawnedAt float64

	retired bool
}

// SpawnProjectile creates a projectile. The direction is normalized; a
// zero-length direction is rejected and nothing is created.
func SpawnProjectile(id uint64, origin, dir Vec3, speed, damage float64, owner CombatantID, now float64) (*Projectile, error) {
	unit, ok := dir.Normalize()
	if !ok {
		return nil, fmt.Errorf("spawn projectile %d: %w", id, ErrZeroDirection)
	}
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return nil, fmt.Errorf("spawn projectile %d (speed %v): %w", id, speed, ErrInvalidSpeed)
	}
	return &Projectile{
		ID:        id,
		Origin:    origin,
		Position:  origin,
		Direction: unit,
		Speed:     speed,
		Owner:     owner,
		Damage:    damage,
		SpawnedAt: now,
	}, nil
}

// FromPlayer reports whether the player fired this projectile.
func (p *Projectile) FromPlayer() bool {
	return p.Owner == PlayerID
}

// Retired reports whether the projectile has reached a terminal outcome.
func (p *Projectile) Retired() bool {
	return p.retired
}

// Advance moves the projectile for dt seconds and returns its new position and
// the distance covered this tick. A retired projectile does not move.
func (p *Projectile) Advance(dt float64) (Vec3, float64) {
	if p.retired || dt <= 0 {
		return p.Position, 0
	}
	step := p.Direction.Scale(p.Speed * dt)
	p.Position = p.Position.Add(step)
	travelled := step.Len()
	p.Distance += travelled
	return p.Position, travelled
}

// Resolve checks the tick's flight segment, which started at from and covered
// travelled units, for a terminal outcome. The bool is false while the
// projectile is still in flight. Once a terminal outcome has been reported the
// projectile is retired and Resolve always returns false.
func (p *Projectile) Resolve(arena *Arena, targets []*Combatant, from Vec3, travelled, now float64) (HitOutcome, bool) {
	if p.retired {
		return HitOutcome{}, false
	}

	if now-p.SpawnedAt >= projectileMaxLifetime {
		return p.retire(HitOutcome{Kind: OutcomeExpired, Point: p.Position, Reason: ExpiredLifetime})
	}

	if travelled > 0 {
		if hit, ok := arena.Raycast(from, p.Direction, travelled+projectileRayEpsilon, targets, p.Owner); ok {
			switch hit.Kind {
			case ObjectCover:
				return p.retire(HitOutcome{Kind: OutcomeObstructedByCover, Point: hit.Point, Reason: "cover"})
			case ObjectArena:
				return p.retire(HitOutcome{Kind: OutcomeObstructedByArena, Point: hit.Point, Reason: hit.Surface})
			case ObjectHitbox:
				dmg := p.Damage
				if hit.FixedDamage > 0 {
					dmg = hit.FixedDamage
				}
				return p.retire(HitOutcome{
					Kind:   OutcomeHit,
					Point:  hit.Point,
					Target: hit.Target,
					Region: hit.Region,
					Damage: dmg,
				})
			}
		}
	}

	if p.Distance >= projectileMaxRange {
		return p.retire(HitOutcome{Kind: OutcomeExpired, Point: p.Position, Reason: ExpiredRange})
	}
	if !InFlightBounds(p.Position) {
		return p.retire(HitOutcome{Kind: OutcomeExpired, Point: p.Position, Reason: ExpiredBounds})
	}
	return HitOutcome{}, false
}

func (p *Projectile) retire(o HitOutcome) (HitOutcome, bool) {
	p.retired = true
	return o, true
}

// ProjectileSnapshot is a read-only copy for external consumers.
type ProjectileSnapshot struct {
	ID         uint64
	Position   Vec3
	Direction  Vec3
	FromPlayer bool
}

// Snapshot copies the projectile's externally visible state.
func (p *Projectile) Snapshot() ProjectileSnapshot {
	return ProjectileSnapshot{
		ID:         p.ID,
		Position:   p.Position,
		Direction:  p.Direction,
		FromPlayer: p.FromPlayer(),
	}
}
