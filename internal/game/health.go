package game

import "math"

// CombatantID identifies one of the two sides of a session.
type CombatantID int

const (
	PlayerID CombatantID = iota
	EnemyID
)

func (id CombatantID) String() string {
	switch id {
	case PlayerID:
		return "player"
	case EnemyID:
		return "enemy"
	default:
		return "unknown"
	}
}

// Region is a named hit zone on a combatant.
type Region int

const (
	RegionNone Region = iota
	RegionHead
	RegionBody
	RegionLegs
)

func (r Region) String() string {
	switch r {
	case RegionHead:
		return "head"
	case RegionBody:
		return "body"
	case RegionLegs:
		return "legs"
	default:
		return "none"
	}
}

// Fixed per-region damage applied to the enemy soldier by player fire.
const (
	headDamage = 50.0
	bodyDamage = 25.0
	legsDamage = 15.0
)

// HitRegion is one hittable volume, positioned relative to a combatant's root.
// Exactly one of Radius (sphere) or HalfExtents (box) describes the shape.
type HitRegion struct {
	Region      Region
	Offset      Vec3
	Radius      float64
	HalfExtents Vec3
	FixedDamage float64 // 0 = use the projectile's damage

	root Vec3
}

func (h HitRegion) centre() Vec3 {
	return h.root.Add(h.Offset)
}

func (h HitRegion) intersect(o, e Vec3) (float64, bool) {
	c := h.centre()
	if h.Radius > 0 {
		return segmentSphereHitT(o, e, c, h.Radius)
	}
	return segmentAABBHitT(o, e, c.Sub(h.HalfExtents), c.Add(h.HalfExtents))
}

// soldierHitRegions are the enemy soldier's hitboxes. Root is the standing
// position (feet); each region carries its fixed damage.
var soldierHitRegions = []HitRegion{
	{Region: RegionHead, Offset: Vec3{Y: 1.7}, Radius: 0.15, FixedDamage: headDamage},
	{Region: RegionBody, Offset: Vec3{Y: 1.1}, HalfExtents: Vec3{0.2, 0.4, 0.15}, FixedDamage: bodyDamage},
	{Region: RegionLegs, Offset: Vec3{Y: 0.5}, HalfExtents: Vec3{0.15, 0.3, 0.125}, FixedDamage: legsDamage},
}

// playerHitRegions are the player's hitboxes. Root is the eye position; the
// enemy's configured damage applies to every region.
var playerHitRegions = []HitRegion{
	{Region: RegionHead, Offset: Vec3{}, Radius: 0.2},
	{Region: RegionBody, Offset: Vec3{Y: -0.65}, HalfExtents: Vec3{0.25, 0.45, 0.2}},
	{Region: RegionLegs, Offset: Vec3{Y: -1.3}, HalfExtents: Vec3{0.2, 0.3, 0.15}},
}

// Combatant is the health model shared by the player and the enemy soldier.
type Combatant struct {
	ID           CombatantID
	Position     Vec3
	Health       float64
	MaxHealth    float64
	Alive        bool
	LastDamageAt float64 // sim seconds; -Inf until first damage
	DiedAt       float64 // sim seconds of the most recent death

	regions []HitRegion
}

// NewCombatant creates a combatant at full health.
func NewCombatant(id CombatantID, pos Vec3, maxHealth float64) *Combatant {
	regions := soldierHitRegions
	if id == PlayerID {
		regions = playerHitRegions
	}
	return &Combatant{
		ID:           id,
		Position:     pos,
		Health:       maxHealth,
		MaxHealth:    maxHealth,
		Alive:        maxHealth > 0,
		LastDamageAt: math.Inf(-1),
		DiedAt:       math.Inf(-1),
		regions:      regions,
	}
}

// TakeDamage subtracts amount from health, clamping at zero. It returns true
// when this call killed the combatant. A combatant already at zero health, or
// a negative amount, is left untouched.
func (c *Combatant) TakeDamage(amount, now float64) bool {
	if c.Health <= 0 || amount < 0 || math.IsNaN(amount) {
		return false
	}
	c.Health = math.Max(0, c.Health-amount)
	c.LastDamageAt = now
	c.Alive = c.Health > 0
	if !c.Alive {
		c.DiedAt = now
		return true
	}
	return false
}

// Heal restores up to amount health, never beyond MaxHealth. The dead stay dead
// until Respawn.
func (c *Combatant) Heal(amount float64) {
	if !c.Alive || amount <= 0 {
		return
	}
	c.Health = math.Min(c.MaxHealth, c.Health+amount)
}

// Respawn restores full health at pos.
func (c *Combatant) Respawn(pos Vec3) {
	c.Health = c.MaxHealth
	c.Alive = true
	c.Position = pos
}

// HealthPercentage returns health as a 0-100 value.
func (c *Combatant) HealthPercentage() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return 100 * clamp01(c.Health/c.MaxHealth)
}

// HitRegions returns the combatant's hit volumes placed at its current position.
func (c *Combatant) HitRegions() []HitRegion {
	out := make([]HitRegion, len(c.regions))
	for i, r := range c.regions {
		r.root = c.Position
		out[i] = r
	}
	return out
}

// CombatantSnapshot is a read-only copy handed to external consumers.
type CombatantSnapshot struct {
	ID        CombatantID
	Position  Vec3
	Health    float64
	MaxHealth float64
	Alive     bool
}

// Snapshot copies the combatant's externally visible state.
func (c *Combatant) Snapshot() CombatantSnapshot {
	return CombatantSnapshot{
		ID:        c.ID,
		Position:  c.Position,
		Health:    c.Health,
		MaxHealth: c.MaxHealth,
		Alive:     c.Alive,
	}
}
