package game

import (
	"fmt"
	"math"
	"strings"
)

// --- AI tuning constants ---

const (
	aiBaseLerpRate   = 2.0   // movement interpolation rate, scaled by MoveSpeed
	aiFlankSpeedMul  = 1.5   // flanking moves faster than seeking
	aiRangeBand      = 2.0   // hysteresis around ShootingRange for advance/retreat
	aiAdvanceStep    = 2.0   // world units per advance re-target
	aiRetreatStep    = 1.5   // world units per retreat re-target
	aiFlankStep      = 3.0   // lateral distance per flank re-target
	aiPatrolRadius   = 4.0   // patrol picks stay within ±this of home
	aiPatrolChance   = 0.005 // per 60 Hz frame
	aiFlankChanceMul = 0.01  // FlankingChance scale per 60 Hz frame
	aiCoverChanceMul = 0.1   // CoverSeekingChance scale per 60 Hz frame
	aiChanceRefFPS   = 60.0  // per-frame chances are defined at this frame rate

	aiRecentHitWindow = 3.0 // seconds after a hit during which flank/cover rolls happen
	aiShotHold        = 0.5 // seconds in shooting after the shot before seeking again
	aiFlankDuration   = 3.0 // seconds of flanking before seeking again
	aiCoverArrive     = 2.0 // horizontal distance to the cover centre that counts as "in cover"
	aiCoverDwell      = 2.0 // seconds to wait once in cover
	aiCoverGiveUp     = 6.0 // seconds to reach cover before giving up
	aiCoverStandOff   = 1.9 // stand this far from the cover centre, on the side away from the player
	aiFacingRate      = 3.0 // facing yaw interpolation rate

	muzzleForward = 1.2 // weapon tip forward of the root
	muzzleHeight  = 1.2 // weapon tip above the root
)

// AIState is the enemy's behavioural state. Exactly one is active at a time.
type AIState int

const (
	AIPatrolling AIState = iota
	AISeeking
	AIShooting
	AITakingCover
	AIFlanking
	AIDead
)

func (s AIState) String() string {
	switch s {
	case AIPatrolling:
		return "patrolling"
	case AISeeking:
		return "seeking"
	case AIShooting:
		return "shooting"
	case AITakingCover:
		return "taking_cover"
	case AIFlanking:
		return "flanking"
	case AIDead:
		return "dead"
	default:
		return "unknown"
	}
}

// ParseAIState maps a state name such as "seeking" back to its AIState.
func ParseAIState(name string) (AIState, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s := AIPatrolling; s <= AIDead; s++ {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown ai state %q", name)
}

// RandSource is the randomness the AI draws from. *rand.Rand satisfies it;
// tests inject scripted sources.
type RandSource interface {
	Float64() float64
}

// AIAgent is the enemy's mutable decision state. Position is authoritative
// for the enemy combatant.
type AIAgent struct {
	Position   Vec3
	Target     Vec3
	Look       Vec3    // unit; last aim/look direction
	Facing     float64 // smoothed yaw (radians, atan2(x,z)) for animation consumers
	State      AIState
	LastShotAt float64
	LastHitAt  float64
	FlankSign  float64 // +1 or -1
	Home       Vec3    // patrol anchor

	enteredAt     float64 // when the current state was entered
	firedAt       float64 // shot time within the current shooting residency; NaN until fired
	coverArrived  bool
	coverArriveAt float64
}

// FireRequest is a request to spawn a projectile.
type FireRequest struct {
	Origin    Vec3
	Direction Vec3
}

// Transition records one state change.
type Transition struct {
	From, To AIState
	At       float64
}

// AIInput is everything the controller needs for one tick.
type AIInput struct {
	Now       float64
	Dt        float64
	PlayerPos Vec3
	Alive     bool
}

// AIOutput is what a tick produced. At most one transition happens per tick.
type AIOutput struct {
	Fire       *FireRequest
	Transition *Transition
}

// AIController runs the enemy state machine.
type AIController struct {
	Agent   AIAgent
	profile DifficultyProfile
	arena   *Arena
	rng     RandSource

	changed *Transition // set by setState during the current Update
}

// AIOption customizes an AIController.
type AIOption func(*AIController)

// WithInitialState starts the agent in the given state instead of seeking.
// Only patrolling and seeking are accepted.
func WithInitialState(s AIState) AIOption {
	return func(c *AIController) {
		if s == AIPatrolling || s == AISeeking {
			c.Agent.State = s
		}
	}
}

// NewAIController creates a controller with the agent standing at spawn.
func NewAIController(profile DifficultyProfile, arena *Arena, rng RandSource, spawn Vec3, now float64, opts ...AIOption) *AIController {
	c := &AIController{
		profile: profile,
		arena:   arena,
		rng:     rng,
	}
	c.place(spawn, now)
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *AIController) place(pos Vec3, now float64) {
	h, _ := c.arena.GroundHeight(pos)
	pos.Y = h
	c.Agent = AIAgent{
		Position:   pos,
		Target:     pos,
		Look:       Vec3{Z: 1},
		State:      AISeeking,
		LastShotAt: now,
		LastHitAt:  math.Inf(-1),
		FlankSign:  1,
		Home:       pos,
		enteredAt:  now,
		firedAt:    math.NaN(),
	}
}

// State returns the current behavioural state.
func (c *AIController) State() AIState {
	return c.Agent.State
}

// Profile returns the difficulty profile in use.
func (c *AIController) Profile() DifficultyProfile {
	return c.profile
}

// NotifyHit records that the agent was damaged at now. It opens the recent-hit
// window used by the flank and cover rolls.
func (c *AIController) NotifyHit(now float64) {
	c.Agent.LastHitAt = now
}

// Respawn places a dead agent at pos and re-enters seeking.
func (c *AIController) Respawn(pos Vec3, now float64) Transition {
	from := c.Agent.State
	c.place(pos, now)
	return Transition{From: from, To: AISeeking, At: now}
}

// Update advances the state machine by one tick.
func (c *AIController) Update(in AIInput) AIOutput {
	c.changed = nil
	a := &c.Agent

	if !in.Alive {
		if a.State != AIDead {
			c.setState(AIDead, in.Now)
		}
		return c.output(nil)
	}
	if a.State == AIDead {
		// Health came back without a Respawn call; nothing to do until then.
		return c.output(nil)
	}
	if in.Dt < 0 {
		return c.output(nil)
	}

	speedMul := 1.0
	if a.State == AIFlanking {
		speedMul = aiFlankSpeedMul
	}
	c.move(in.Dt, speedMul)

	var fire *FireRequest
	switch a.State {
	case AIPatrolling:
		c.patrol(in)
	case AISeeking:
		c.seek(in)
	case AIShooting:
		fire = c.shoot(in)
	case AIFlanking:
		c.flank(in)
	case AITakingCover:
		c.takeCover(in)
	}

	c.updateFacing(in.Dt)
	return c.output(fire)
}

func (c *AIController) output(fire *FireRequest) AIOutput {
	return AIOutput{Fire: fire, Transition: c.changed}
}

func (c *AIController) setState(s AIState, now float64) {
	a := &c.Agent
	if a.State == s {
		return
	}
	c.changed = &Transition{From: a.State, To: s, At: now}
	a.State = s
	a.enteredAt = now
	a.firedAt = math.NaN()
	a.coverArrived = false
}

// move approaches the current target exponentially. The move is frozen when the
// target is blocked, or when the step would enter a blocked cell from a free
// one. Height is re-clamped to the ground every tick regardless.
func (c *AIController) move(dt, speedMul float64) {
	a := &c.Agent
	_, targetBlocked := c.arena.GroundHeight(a.Target)
	if !targetBlocked {
		t := clamp01(dt * aiBaseLerpRate * c.profile.MoveSpeed * speedMul)
		next := a.Position.Lerp(a.Target, t)
		_, curBlocked := c.arena.GroundHeight(a.Position)
		if _, nextBlocked := c.arena.GroundHeight(next); !nextBlocked || curBlocked {
			a.Position = next
		}
	}
	h, _ := c.arena.GroundHeight(a.Position)
	a.Position.Y = h
}

// retarget sets the movement target to pos if pos is standable.
func (c *AIController) retarget(pos Vec3) bool {
	h, blocked := c.arena.GroundHeight(pos)
	if blocked {
		return false
	}
	pos.Y = h
	c.Agent.Target = pos
	return true
}

// chance rolls a per-60Hz-frame probability scaled to this tick's dt.
func (c *AIController) chance(perFrame, dt float64) bool {
	p := clamp01(perFrame * dt * aiChanceRefFPS)
	return c.rng.Float64() < p
}

func (c *AIController) recentlyHit(now float64) bool {
	return now-c.Agent.LastHitAt < aiRecentHitWindow
}

func (c *AIController) patrol(in AIInput) {
	a := &c.Agent
	if c.chance(aiPatrolChance, in.Dt) {
		x := a.Home.X + (c.rng.Float64()-0.5)*2*aiPatrolRadius
		z := a.Home.Z + (c.rng.Float64()-0.5)*2*aiPatrolRadius
		c.retarget(Vec3{X: x, Z: z})
	}
	if a.Position.Dist(in.PlayerPos) < c.profile.DetectionRange {
		c.setState(AISeeking, in.Now)
	}
}

func (c *AIController) seek(in AIInput) {
	a := &c.Agent
	dir, ok := in.PlayerPos.Sub(a.Position).Normalize()
	if !ok {
		return
	}
	a.Look = dir
	dist := a.Position.Dist(in.PlayerPos)
	hit := c.recentlyHit(in.Now)

	if hit && c.chance(c.profile.FlankingChance*aiFlankChanceMul, in.Dt) {
		if c.rng.Float64() > 0.5 {
			a.FlankSign = 1
		} else {
			a.FlankSign = -1
		}
		c.setState(AIFlanking, in.Now)
		return
	}

	switch {
	case dist > c.profile.ShootingRange+aiRangeBand:
		c.retarget(a.Position.Add(dir.Scale(aiAdvanceStep)))
	case dist < c.profile.ShootingRange-aiRangeBand:
		c.retarget(a.Position.Sub(dir.Scale(aiRetreatStep)))
	}

	next := AISeeking
	if dist <= c.profile.ShootingRange && in.Now-a.LastShotAt >= c.profile.ReactionTime {
		next = AIShooting
	}
	// Cover wins over shooting when both trigger on the same tick.
	if hit && len(c.arena.Covers) > 0 && c.chance(c.profile.CoverSeekingChance*aiCoverChanceMul, in.Dt) {
		next = AITakingCover
	}
	c.setState(next, in.Now)
}

func (c *AIController) shoot(in AIInput) *FireRequest {
	a := &c.Agent
	if !math.IsNaN(a.firedAt) {
		if in.Now-a.firedAt >= aiShotHold {
			c.setState(AISeeking, in.Now)
		}
		return nil
	}

	// The muzzle faces the player on the horizontal plane; the aim then runs
	// from the muzzle, not the root, so the line passes through the eye.
	// Predictive profiles lead to the player's current position too.
	muzzle := c.MuzzlePosition(in.PlayerPos.Sub(a.Position))
	aim, ok := in.PlayerPos.Sub(muzzle).Normalize()
	if !ok {
		c.setState(AISeeking, in.Now)
		return nil
	}
	dir := c.jitter(aim)
	a.Look = dir
	a.LastShotAt = in.Now
	a.firedAt = in.Now
	return &FireRequest{Origin: muzzle, Direction: dir}
}

// aimOffset draws the per-axis aim error, uniform in ±Spread/2.
func (c *AIController) aimOffset() Vec3 {
	spread := c.profile.Spread()
	return Vec3{
		X: (c.rng.Float64() - 0.5) * spread,
		Y: (c.rng.Float64() - 0.5) * spread,
		Z: (c.rng.Float64() - 0.5) * spread,
	}
}

// jitter perturbs aim by aimOffset and renormalizes.
func (c *AIController) jitter(aim Vec3) Vec3 {
	if n, ok := aim.Add(c.aimOffset()).Normalize(); ok {
		return n
	}
	return aim
}

// MuzzlePosition returns the weapon tip for a shot along dir: forward of the
// root on the horizontal plane and raised to chest height.
func (c *AIController) MuzzlePosition(dir Vec3) Vec3 {
	fwd, ok := dir.Flat().Normalize()
	if !ok {
		fwd = Vec3{X: math.Sin(c.Agent.Facing), Z: math.Cos(c.Agent.Facing)}
	}
	return c.Agent.Position.Add(fwd.Scale(muzzleForward)).Add(Vec3{Y: muzzleHeight})
}

func (c *AIController) flank(in AIInput) {
	a := &c.Agent
	toPlayer := in.PlayerPos.Sub(a.Position)
	if right, ok := toPlayer.Cross(Up).Normalize(); ok {
		c.retarget(a.Position.Add(right.Scale(a.FlankSign * aiFlankStep)))
	}
	if look, ok := toPlayer.Normalize(); ok {
		a.Look = look
	}
	if in.Now-a.enteredAt >= aiFlankDuration {
		c.setState(AISeeking, in.Now)
	}
}

func (c *AIController) takeCover(in AIInput) {
	a := &c.Agent
	cover, ok := NearestCover(a.Position, c.arena.Covers)
	if !ok {
		c.setState(AISeeking, in.Now)
		return
	}
	c.retarget(coverSpot(cover, in.PlayerPos))

	if a.Position.DistXZ(cover.Center) < aiCoverArrive {
		if !a.coverArrived {
			a.coverArrived = true
			a.coverArriveAt = in.Now
		}
		if in.Now-a.coverArriveAt >= aiCoverDwell {
			c.setState(AISeeking, in.Now)
		}
		return
	}
	if in.Now-a.enteredAt >= aiCoverGiveUp {
		c.setState(AISeeking, in.Now)
	}
}

// coverSpot is the standing point just outside a cover box on the side facing
// away from the player.
func coverSpot(cover CoverBox, player Vec3) Vec3 {
	away, ok := cover.Center.Sub(player).Flat().Normalize()
	if !ok {
		away = Vec3{Z: -1}
	}
	p := cover.Center.Add(away.Scale(aiCoverStandOff))
	p.Y = 0
	return p
}

func (c *AIController) updateFacing(dt float64) {
	a := &c.Agent
	switch a.State {
	case AISeeking, AIShooting, AIFlanking:
	default:
		return
	}
	flat, ok := a.Look.Flat().Normalize()
	if !ok {
		return
	}
	want := math.Atan2(flat.X, flat.Z)
	diff := math.Remainder(want-a.Facing, 2*math.Pi)
	a.Facing += diff * clamp01(dt*aiFacingRate)
}

// Snapshot returns the agent state for external consumers.
func (c *AIController) Snapshot() AIAgent {
	return c.Agent
}
