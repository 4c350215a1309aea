package game

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// --- Session constants ---

const (
	defaultSessionDuration = 30.0 // seconds
	defaultPlayerHealth    = 100.0
	respawnDelay           = 3.0 // seconds from death to respawn, both sides
	aiFireCooldown         = 0.4 // minimum seconds between accepted AI shots
	enemyRespawnRange      = 10.0
	enemyRespawnAttempts   = 16
)

var (
	// ErrNegativeDelta is returned by Step for a negative or NaN time step.
	ErrNegativeDelta = errors.New("negative time step")
	// ErrSessionEnded is returned when stepping a session whose timer ran out.
	ErrSessionEnded = errors.New("session has ended")
)

// SessionConfig is everything needed to start a session.
type SessionConfig struct {
	Tier           Tier
	Duration       float64 // seconds; <= 0 uses the default
	Seed           int64
	PlayerSpawn    Vec3 // eye position
	EnemySpawn     Vec3 // feet position; height is re-clamped to the ground
	Covers         []CoverBox
	InitialAIState AIState // patrolling or seeking
	PlayerHealth   float64 // <= 0 uses the default
}

// DefaultSessionConfig returns the standard 30 second normal-tier session.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Tier:           TierNormal,
		Duration:       defaultSessionDuration,
		Seed:           1,
		PlayerSpawn:    Vec3{X: 0, Y: playerEyeHeight, Z: 5},
		EnemySpawn:     Vec3{X: 0, Y: 0, Z: -10},
		Covers:         DefaultCovers(),
		InitialAIState: AISeeking,
		PlayerHealth:   defaultPlayerHealth,
	}
}

// PlayerInput is the player's contribution to one tick.
type PlayerInput struct {
	Position *Vec3 // new eye position; nil keeps the current one
	Fire     bool
	Aim      Vec3  // shot direction; need not be normalized
	Muzzle   *Vec3 // shot origin; nil fires from the eye
}

// StepResult is everything a tick produced, for rendering and reporting.
type StepResult struct {
	Tick        int
	Time        float64
	Events      []Event
	AIState     AIState
	Player      CombatantSnapshot
	Enemy       CombatantSnapshot
	Projectiles []ProjectileSnapshot
	Remaining   float64
	Ended       bool
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithLogger routes session logging to l. The default discards everything.
func WithLogger(l logrus.FieldLogger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSimLog records structured events into sl.
func WithSimLog(sl *SimLog) SessionOption {
	return func(s *Session) {
		s.simLog = sl
	}
}

// WithRand replaces the seeded generator with r.
func WithRand(r RandSource) SessionOption {
	return func(s *Session) {
		if r != nil {
			s.rng = r
		}
	}
}

// Session is one timed engagement between the player and the AI soldier. It
// owns both combatants, the AI controller and every projectile in flight.
// A Session is not safe for concurrent use.
type Session struct {
	ID string

	cfg     SessionConfig
	profile DifficultyProfile
	arena   *Arena
	rng     RandSource
	log     logrus.FieldLogger
	simLog  *SimLog
	score   *Scoreboard

	player *Combatant
	enemy  *Combatant
	ai     *AIController

	projectiles      []*Projectile
	nextProjectileID uint64

	now          float64
	tick         int
	remaining    float64
	lastAIShotAt float64
	respawnAt    map[CombatantID]float64
	paused       bool
	ended        bool

	events []Event // events of the step in progress
}

// NewSession validates cfg and builds a ready-to-step session at time zero.
func NewSession(cfg SessionConfig, opts ...SessionOption) (*Session, error) {
	profile, err := ProfileFor(cfg.Tier)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if cfg.Duration <= 0 {
		cfg.Duration = defaultSessionDuration
	}
	if cfg.PlayerHealth <= 0 {
		cfg.PlayerHealth = defaultPlayerHealth
	}

	s := &Session{
		ID:           uuid.NewString(),
		cfg:          cfg,
		profile:      profile,
		arena:        NewArena(cfg.Covers),
		rng:          rand.New(rand.NewSource(cfg.Seed)), // #nosec G404 -- gameplay randomness
		log:          discardLogger(),
		score:        NewScoreboard(),
		remaining:    cfg.Duration,
		lastAIShotAt: math.Inf(-1),
		respawnAt:    make(map[CombatantID]float64, 2),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.WithFields(logrus.Fields{
		"session": s.ID,
		"tier":    profile.Tier.String(),
	})
	if dropped := len(cfg.Covers) - len(s.arena.Covers); dropped > 0 {
		s.log.WithField("dropped", dropped).Warn("invalid cover boxes ignored")
	}

	s.player = NewCombatant(PlayerID, cfg.PlayerSpawn, cfg.PlayerHealth)
	s.ai = NewAIController(profile, s.arena, s.rng, cfg.EnemySpawn, 0, WithInitialState(cfg.InitialAIState))
	s.enemy = NewCombatant(EnemyID, s.ai.Agent.Position, profile.EnemyHealth)

	s.log.WithFields(logrus.Fields{
		"duration": cfg.Duration,
		"seed":     cfg.Seed,
		"covers":   len(s.arena.Covers),
		"ai_state": s.ai.State().String(),
	}).Info("session started")
	return s, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Step advances the session by dt seconds. A negative dt is rejected with no
// state change. While paused Step is a no-op that reports the frozen state.
func (s *Session) Step(dt float64, in PlayerInput) (StepResult, error) {
	if dt < 0 || math.IsNaN(dt) {
		return StepResult{}, fmt.Errorf("step dt=%v: %w", dt, ErrNegativeDelta)
	}
	if s.ended {
		return s.result(), fmt.Errorf("step at %.2fs: %w", s.now, ErrSessionEnded)
	}
	s.events = nil
	if s.paused {
		return s.result(), nil
	}

	s.tick++
	s.now += dt
	now := s.now

	s.runRespawns(now)
	s.applyPlayerInput(in, now)
	s.updateAI(dt, now)
	s.stepProjectiles(dt, now)

	if s.simLog != nil && s.simLog.Verbose() {
		s.simLog.AddVerbose(s.tick, now, PlayerID.String(), "move", "position", s.player.Position.String(), 0)
		s.simLog.AddVerbose(s.tick, now, EnemyID.String(), "move", "position", s.enemy.Position.String(), 0)
	}

	s.remaining -= dt
	if s.remaining <= 0 {
		s.remaining = 0
		s.end(now)
	}
	return s.result(), nil
}

// End stops the session immediately: projectiles in flight are discarded and
// both combatants are reset to their spawns at full health.
func (s *Session) End() (StepResult, error) {
	if s.ended {
		return s.result(), fmt.Errorf("end: %w", ErrSessionEnded)
	}
	s.events = nil
	s.end(s.now)
	return s.result(), nil
}

// Pause freezes simulated time. Steps while paused change nothing.
func (s *Session) Pause() {
	if s.paused || s.ended {
		return
	}
	s.paused = true
	s.log.WithField("at", s.now).Debug("session paused")
}

// Resume unfreezes a paused session.
func (s *Session) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.log.WithField("at", s.now).Debug("session resumed")
}

func (s *Session) runRespawns(now float64) {
	for _, id := range []CombatantID{PlayerID, EnemyID} {
		at, ok := s.respawnAt[id]
		if !ok || now < at {
			continue
		}
		delete(s.respawnAt, id)

		var pos Vec3
		switch id {
		case PlayerID:
			pos = s.cfg.PlayerSpawn
			s.player.Respawn(pos)
		case EnemyID:
			tr := s.ai.Respawn(s.enemyRespawnPoint(), now)
			pos = s.ai.Agent.Position
			s.enemy.Respawn(pos)
			s.recordTransition(tr)
		}
		s.emit(Event{Kind: EventRespawn, Target: id, Position: pos})
	}
}

// enemyRespawnPoint picks a random standable point near the arena centre,
// falling back to the configured spawn.
func (s *Session) enemyRespawnPoint() Vec3 {
	for i := 0; i < enemyRespawnAttempts; i++ {
		p := Vec3{
			X: (s.rng.Float64()*2 - 1) * enemyRespawnRange,
			Z: (s.rng.Float64()*2 - 1) * enemyRespawnRange,
		}
		if !s.arena.Blocked(p) {
			return p
		}
	}
	return s.cfg.EnemySpawn
}

func (s *Session) applyPlayerInput(in PlayerInput, now float64) {
	if !s.player.Alive {
		return
	}
	if in.Position != nil {
		s.player.Position = *in.Position
	}
	if !in.Fire {
		return
	}
	origin := s.player.Position
	if in.Muzzle != nil {
		origin = *in.Muzzle
	}
	if err := s.spawnProjectile(origin, in.Aim, playerShotDamage, PlayerID, now); err != nil {
		s.log.WithError(err).Warn("player shot rejected")
	}
}

func (s *Session) updateAI(dt, now float64) {
	out := s.ai.Update(AIInput{
		Now:       now,
		Dt:        dt,
		PlayerPos: s.player.Position,
		Alive:     s.enemy.Alive,
	})
	if s.enemy.Alive {
		s.enemy.Position = s.ai.Agent.Position
	}
	if out.Transition != nil {
		s.recordTransition(*out.Transition)
	}
	if out.Fire == nil {
		return
	}
	if now-s.lastAIShotAt < aiFireCooldown {
		s.log.WithField("since_last", now-s.lastAIShotAt).Debug("ai shot throttled")
		return
	}
	if err := s.spawnProjectile(out.Fire.Origin, out.Fire.Direction, s.profile.EnemyDamage, EnemyID, now); err != nil {
		s.log.WithError(err).Warn("ai shot rejected")
		return
	}
	s.lastAIShotAt = now
}

func (s *Session) spawnProjectile(origin, dir Vec3, damage float64, owner CombatantID, now float64) error {
	id := s.nextProjectileID + 1
	p, err := SpawnProjectile(id, origin, dir, projectileSpeed, damage, owner, now)
	if err != nil {
		return err
	}
	s.nextProjectileID = id
	s.projectiles = append(s.projectiles, p)
	s.emit(Event{Kind: EventShotFired, Actor: owner, Projectile: id, Position: origin})
	return nil
}

func (s *Session) stepProjectiles(dt, now float64) {
	targets := []*Combatant{s.player, s.enemy}
	live := s.projectiles[:0]
	for _, p := range s.projectiles {
		from := p.Position
		_, travelled := p.Advance(dt)
		o, done := p.Resolve(s.arena, targets, from, travelled, now)
		if !done {
			live = append(live, p)
			continue
		}
		s.emit(Event{
			Kind:       EventProjectileRetired,
			Actor:      p.Owner,
			Projectile: p.ID,
			Outcome:    o.Kind,
			Reason:     o.Reason,
			Position:   o.Point,
		})
		if o.Kind == OutcomeHit {
			s.applyHit(p, o, now)
		}
	}
	for i := len(live); i < len(s.projectiles); i++ {
		s.projectiles[i] = nil
	}
	s.projectiles = live
}

func (s *Session) applyHit(p *Projectile, o HitOutcome, now float64) {
	victim := s.combatant(o.Target)
	if victim == nil || !victim.Alive {
		return
	}
	killed := victim.TakeDamage(o.Damage, now)
	s.emit(Event{
		Kind:     EventDamage,
		Actor:    p.Owner,
		Target:   o.Target,
		Region:   o.Region,
		Amount:   o.Damage,
		Position: o.Point,
	})

	if p.Owner == PlayerID && o.Target == EnemyID {
		s.emit(Event{Kind: EventScore, Actor: PlayerID, Target: EnemyID, Region: o.Region, Amount: scorePoints(o.Region)})
		s.ai.NotifyHit(now)
	}
	if !killed {
		return
	}

	s.emit(Event{Kind: EventDeath, Actor: p.Owner, Target: o.Target, Position: victim.Position})
	s.respawnAt[o.Target] = now + respawnDelay
	if o.Target == EnemyID {
		// Enter dead on the killing tick rather than the next update.
		out := s.ai.Update(AIInput{Now: now, Alive: false})
		if out.Transition != nil {
			s.recordTransition(*out.Transition)
		}
	}
}

func (s *Session) combatant(id CombatantID) *Combatant {
	switch id {
	case PlayerID:
		return s.player
	case EnemyID:
		return s.enemy
	default:
		return nil
	}
}

func (s *Session) end(now float64) {
	for _, p := range s.projectiles {
		p.retired = true
	}
	s.projectiles = nil
	clear(s.respawnAt)

	s.player.Respawn(s.cfg.PlayerSpawn)
	tr := s.ai.Respawn(s.cfg.EnemySpawn, now)
	s.enemy.Respawn(s.ai.Agent.Position)
	if tr.From != tr.To {
		s.recordTransition(tr)
	}

	s.ended = true
	s.paused = false
	s.emit(Event{Kind: EventSessionEnded})
}

func (s *Session) recordTransition(tr Transition) {
	change := fmt.Sprintf("%s → %s", tr.From, tr.To)
	if s.simLog != nil {
		s.simLog.Add(s.tick, tr.At, EnemyID.String(), "state", "change", change, 0)
	}
	s.log.WithFields(logrus.Fields{
		"from": tr.From.String(),
		"to":   tr.To.String(),
		"at":   tr.At,
	}).Debug("ai state change")
}

func (s *Session) emit(ev Event) {
	ev.Tick, ev.At = s.tick, s.now
	s.events = append(s.events, ev)
	s.score.Record(ev)

	switch ev.Kind {
	case EventDeath:
		s.log.WithFields(logrus.Fields{"victim": ev.Target.String(), "killer": ev.Actor.String(), "at": ev.At}).Info("combatant killed")
	case EventRespawn:
		s.log.WithFields(logrus.Fields{"who": ev.Target.String(), "pos": ev.Position.String()}).Info("combatant respawned")
	case EventSessionEnded:
		sc := s.score
		s.log.WithFields(logrus.Fields{"score": sc.Score, "kills": sc.Kills, "deaths": sc.Deaths, "accuracy": sc.Accuracy()}).Info("session ended")
	}

	if s.simLog == nil {
		return
	}
	actor := "--"
	switch ev.Kind {
	case EventShotFired, EventDamage, EventScore, EventProjectileRetired:
		actor = ev.Actor.String()
	case EventDeath, EventRespawn:
		actor = ev.Target.String()
	}
	category, key := simLogKey(ev)
	s.simLog.Add(ev.Tick, ev.At, actor, category, key, ev.String(), ev.Amount)
}

// simLogKey maps an event to its SimLog category and key.
func simLogKey(ev Event) (string, string) {
	switch ev.Kind {
	case EventShotFired:
		return "fire", "shot"
	case EventDamage:
		return "hit", ev.Region.String()
	case EventScore:
		return "score", ev.Region.String()
	case EventDeath:
		return "death", "killed"
	case EventRespawn:
		return "respawn", "placed"
	case EventProjectileRetired:
		return "projectile", ev.Outcome.String()
	case EventSessionEnded:
		return "session", "ended"
	default:
		return "misc", ev.Kind.String()
	}
}

func (s *Session) result() StepResult {
	snaps := make([]ProjectileSnapshot, 0, len(s.projectiles))
	for _, p := range s.projectiles {
		snaps = append(snaps, p.Snapshot())
	}
	return StepResult{
		Tick:        s.tick,
		Time:        s.now,
		Events:      s.events,
		AIState:     s.ai.State(),
		Player:      s.player.Snapshot(),
		Enemy:       s.enemy.Snapshot(),
		Projectiles: snaps,
		Remaining:   s.remaining,
		Ended:       s.ended,
	}
}

// --- Accessors ---

// Now is the simulated time in seconds.
func (s *Session) Now() float64 {
	return s.now
}

// Tick is the number of steps applied so far.
func (s *Session) Tick() int {
	return s.tick
}

// Remaining is the session time left, in seconds.
func (s *Session) Remaining() float64 {
	return s.remaining
}

// Ended reports whether the timer has run out.
func (s *Session) Ended() bool {
	return s.ended
}

func (s *Session) Paused() bool {
	return s.paused
}

// Profile is the difficulty in force for this session.
func (s *Session) Profile() DifficultyProfile {
	return s.profile
}

// Config returns the validated config the session was built from.
func (s *Session) Config() SessionConfig {
	return s.cfg
}

func (s *Session) Arena() *Arena {
	return s.arena
}

// AI returns a copy of the enemy agent state.
func (s *Session) AI() AIAgent {
	return s.ai.Snapshot()
}

// Scoreboard returns a copy of the player's score.
func (s *Session) Scoreboard() Scoreboard {
	return *s.score
}

// SimLog is the attached structured log, or nil.
func (s *Session) SimLog() *SimLog {
	return s.simLog
}

func (s *Session) Player() CombatantSnapshot {
	return s.player.Snapshot()
}

func (s *Session) Enemy() CombatantSnapshot {
	return s.enemy.Snapshot()
}

// InFlight is the number of live projectiles.
func (s *Session) InFlight() int {
	return len(s.projectiles)
}

// LastAIShotAt is when the AI last fired; it drives the fire throttle.
func (s *Session) LastAIShotAt() float64 {
	return s.lastAIShotAt
}

// PendingRespawn reports when a dead combatant is due back.
func (s *Session) PendingRespawn(id CombatantID) (float64, bool) {
	at, ok := s.respawnAt[id]
	return at, ok
}
