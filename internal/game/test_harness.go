package game

import (
	"github.com/sirupsen/logrus"
)

// PlayerScript decides the player's input for a tick. It sees the session
// before the tick is applied.
type PlayerScript func(ts *TestSim) PlayerInput

// TestSim is a headless harness around a Session. It has no Ebiten
// dependency and supports deterministic seeding and structured logging.
type TestSim struct {
	Session  *Session
	SimLog   *SimLog
	Reporter *SessionReporter // nil unless WithReporter
	Dt       float64
	Results  []StepResult // one per successful step, when Keep is set
	Keep     bool

	cfg    SessionConfig
	script PlayerScript
	rng    RandSource
	logger logrus.FieldLogger
	err    error
}

// SimOption is a builder function applied to a TestSim during construction.
type SimOption func(*TestSim)

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return func(ts *TestSim) { ts.cfg.Seed = seed }
}

// WithTier selects the difficulty tier.
func WithTier(t Tier) SimOption {
	return func(ts *TestSim) { ts.cfg.Tier = t }
}

// WithDuration sets the session length in seconds.
func WithDuration(d float64) SimOption {
	return func(ts *TestSim) { ts.cfg.Duration = d }
}

// WithDt sets the fixed tick length used by RunTicks and RunUntil.
func WithDt(dt float64) SimOption {
	return func(ts *TestSim) { ts.Dt = dt }
}

// WithPlayerAt places the player's eye at pos.
func WithPlayerAt(pos Vec3) SimOption {
	return func(ts *TestSim) { ts.cfg.PlayerSpawn = pos }
}

// WithAIAt places the enemy soldier at pos.
func WithAIAt(pos Vec3) SimOption {
	return func(ts *TestSim) { ts.cfg.EnemySpawn = pos }
}

// WithAIState sets the enemy's initial state.
func WithAIState(s AIState) SimOption {
	return func(ts *TestSim) { ts.cfg.InitialAIState = s }
}

// WithCovers replaces the cover layout.
func WithCovers(covers ...CoverBox) SimOption {
	return func(ts *TestSim) { ts.cfg.Covers = covers }
}

// WithoutCovers removes every cover box.
func WithoutCovers() SimOption {
	return func(ts *TestSim) { ts.cfg.Covers = nil }
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) SimOption {
	return func(ts *TestSim) { ts.SimLog = NewSimLog(v) }
}

// WithScriptedPlayer drives the player from fn every tick.
func WithScriptedPlayer(fn PlayerScript) SimOption {
	return func(ts *TestSim) { ts.script = fn }
}

// WithSimRand injects a random source into the session.
func WithSimRand(r RandSource) SimOption {
	return func(ts *TestSim) { ts.rng = r }
}

// WithSimLogger routes session logging to l.
func WithSimLogger(l logrus.FieldLogger) SimOption {
	return func(ts *TestSim) { ts.logger = l }
}

// WithReporter collects every step into a SessionReporter.
func WithReporter(windowSeconds float64) SimOption {
	return func(ts *TestSim) { ts.Reporter = NewSessionReporter(windowSeconds) }
}

// WithKeepResults stores every StepResult in Results.
func WithKeepResults() SimOption {
	return func(ts *TestSim) { ts.Keep = true }
}

// NewTestSim builds a TestSim from the default session config plus opts. It
// panics if the resulting config is invalid, which only tests can cause.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		cfg:    DefaultSessionConfig(),
		Dt:     1.0 / 60,
		SimLog: NewSimLog(false),
	}
	for _, o := range opts {
		o(ts)
	}
	sopts := []SessionOption{WithSimLog(ts.SimLog)}
	if ts.rng != nil {
		sopts = append(sopts, WithRand(ts.rng))
	}
	if ts.logger != nil {
		sopts = append(sopts, WithLogger(ts.logger))
	}
	s, err := NewSession(ts.cfg, sopts...)
	if err != nil {
		panic(err)
	}
	ts.Session = s
	return ts
}

// Step runs a single tick of length dt.
func (ts *TestSim) Step(dt float64) (StepResult, error) {
	var in PlayerInput
	if ts.script != nil {
		in = ts.script(ts)
	}
	r, err := ts.Session.Step(dt, in)
	if err != nil {
		ts.err = err
		return r, err
	}
	if ts.Keep {
		ts.Results = append(ts.Results, r)
	}
	if ts.Reporter != nil {
		ts.Reporter.Collect(r)
	}
	return r, nil
}

// RunTicks advances the simulation n ticks. It stops early once the session
// ends and returns the number of ticks run.
func (ts *TestSim) RunTicks(n int) int {
	for i := 0; i < n; i++ {
		r, err := ts.Step(ts.Dt)
		if err != nil || r.Ended {
			return i + 1
		}
	}
	return n
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim, StepResult) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		r, err := ts.Step(ts.Dt)
		if err != nil {
			return -1
		}
		if predicate(ts, r) {
			return ts.Session.Tick()
		}
		if r.Ended {
			return -1
		}
	}
	return -1
}

// RunToEnd steps until the session's timer expires.
func (ts *TestSim) RunToEnd() {
	for !ts.Session.Ended() {
		if _, err := ts.Step(ts.Dt); err != nil {
			return
		}
	}
}

// Err returns the first step error, if any.
func (ts *TestSim) Err() error {
	return ts.err
}

// SimSnapshot is a lightweight state summary at a tick.
type SimSnapshot struct {
	Tick    int
	Time    float64
	Player  CombatantSnapshot
	Enemy   CombatantSnapshot
	AI      AIState
	Flight  int
	Scoring Scoreboard
}

// Snapshot captures the current session state.
func (ts *TestSim) Snapshot() SimSnapshot {
	s := ts.Session
	return SimSnapshot{
		Tick:    s.Tick(),
		Time:    s.Now(),
		Player:  s.Player(),
		Enemy:   s.Enemy(),
		AI:      s.AI().State,
		Flight:  s.InFlight(),
		Scoring: s.Scoreboard(),
	}
}

// AimAtEnemy is a PlayerScript that fires at the enemy's chest every interval
// seconds while standing still.
func AimAtEnemy(interval float64) PlayerScript {
	last := -interval
	return func(ts *TestSim) PlayerInput {
		s := ts.Session
		e := s.Enemy()
		now := s.Now() + ts.Dt
		if !e.Alive || now-last < interval {
			return PlayerInput{}
		}
		last = now
		chest := e.Position.Add(Vec3{Y: 1.1})
		return PlayerInput{Fire: true, Aim: chest.Sub(s.Player().Position)}
	}
}
