// Package view is the top-down ebiten front end for a training session.
package view

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Combat-Trainer/internal/game"
	"github.com/Garsondee/Combat-Trainer/internal/telemetry"
)

// pitchRate is how fast Q/E tilt the aim, radians per second.
const pitchRate = 1.2

// enemyEyeHeight is the enemy's eye above its root, level with its head hitbox.
const enemyEyeHeight = 1.7

// simSpeeds are the selectable time multipliers.
var simSpeeds = []float64{0.25, 0.5, 1, 2}

// Option customizes a Viewer.
type Option func(*Viewer)

// WithLogger routes viewer logging to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.log = l
		}
	}
}

// WithRecorder feeds every step into r.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(v *Viewer) { v.recorder = r }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(v *Viewer) {
		if write != nil {
			v.copyText = write
		}
	}
}

// Viewer implements ebiten.Game around one Session at a time.
type Viewer struct {
	cfg      game.SessionConfig
	session  *game.Session
	simLog   *game.SimLog
	reporter *game.SessionReporter
	player   *game.PlayerController
	feed     *EventFeed
	face     text.Face
	log      logrus.FieldLogger
	recorder *telemetry.Recorder
	copyText func(string) error

	last     game.StepResult
	restarts int
	speedIdx int
	showHUD  bool
	status   string // transient HUD message, e.g. clipboard result
}

// New creates a viewer and starts its first session.
func New(cfg game.SessionConfig, opts ...Option) (*Viewer, error) {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	v := &Viewer{
		cfg:      cfg,
		feed:     NewEventFeed(),
		face:     text.NewGoXFace(basicfont.Face7x13),
		log:      discard,
		copyText: clipboard.WriteAll,
		speedIdx: 2,
		showHUD:  true,
	}
	for _, o := range opts {
		o(v)
	}
	if err := v.restart(); err != nil {
		return nil, err
	}
	return v, nil
}

// restart begins a fresh session. Each restart bumps the seed so repeated
// rounds differ while staying reproducible from the config.
func (v *Viewer) restart() error {
	cfg := v.cfg
	cfg.Seed += int64(v.restarts)

	v.simLog = game.NewSimLog(false)
	s, err := game.NewSession(cfg,
		game.WithLogger(v.log),
		game.WithSimLog(v.simLog),
	)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	v.session = s
	v.reporter = game.NewSessionReporter(0)
	v.player = game.NewPlayerController(cfg.PlayerSpawn)
	v.feed.Clear()
	v.last = game.StepResult{
		AIState:   s.AI().State,
		Player:    s.Player(),
		Enemy:     s.Enemy(),
		Remaining: s.Remaining(),
	}
	v.restarts++
	v.log.WithFields(logrus.Fields{"session": s.ID, "seed": cfg.Seed}).Info("viewer session started")
	return nil
}

// Session returns the session currently on screen.
func (v *Viewer) Session() *game.Session {
	return v.session
}

func (v *Viewer) Update() error {
	v.handleKeys()
	if v.session.Ended() || v.session.Paused() {
		return nil
	}

	dt := simSpeeds[v.speedIdx] / float64(ebiten.TPS())
	in := v.playerInput(dt)
	res, err := v.session.Step(dt, in)
	if err != nil {
		v.log.WithError(err).Warn("step rejected")
		return nil
	}
	v.apply(res)
	return nil
}

func (v *Viewer) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.restart(); err != nil {
			v.log.WithError(err).Error("restart failed")
		}
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if v.session.Paused() {
			v.session.Resume()
		} else {
			v.session.Pause()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) && v.speedIdx > 0 {
		v.speedIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) && v.speedIdx < len(simSpeeds)-1 {
		v.speedIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.copyReport()
	}
}

// playerInput reads movement, aim and fire for one tick.
func (v *Viewer) playerInput(dt float64) game.PlayerInput {
	if !v.last.Player.Alive {
		return game.PlayerInput{}
	}

	mx, my := ebiten.CursorPosition()
	cursor := screenToWorld(mx, my)
	if yaw, ok := yawTowards(v.player.Position, cursor); ok {
		v.player.Yaw = yaw
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyQ):
		v.player.Look(0, pitchRate*dt)
	case ebiten.IsKeyPressed(ebiten.KeyE):
		v.player.Look(0, -pitchRate*dt)
	}

	v.player.Update(dt, game.MoveIntent{
		Forward:  ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Backward: ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:     ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:    ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	})

	pos := v.player.Position
	return game.PlayerInput{
		Position: &pos,
		Fire:     inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && insideField(mx, my),
		Aim:      v.player.Aim(),
	}
}

// apply folds a step result into the viewer's state and sinks.
func (v *Viewer) apply(res game.StepResult) {
	v.last = res
	v.feed.AddEvents(res.Events)
	v.reporter.Collect(res)
	if v.recorder != nil {
		v.recorder.Observe(context.Background(), res)
	}

	for _, ev := range res.Events {
		if ev.Kind == game.EventRespawn && ev.Target == game.PlayerID {
			v.player.Reset(ev.Position)
		}
	}
	if res.Ended {
		v.player.Reset(v.cfg.PlayerSpawn)
		sb := v.session.Scoreboard()
		out := game.DetermineSessionOutcome(&sb)
		v.log.WithFields(logrus.Fields{
			"outcome":  out.Outcome.String(),
			"score":    sb.Score,
			"accuracy": sb.Accuracy(),
		}).Info(out.Description)
	}
}

// Report is the text copied to the clipboard: the session summary, the
// engagement report and the full sim log.
func (v *Viewer) Report() string {
	s := v.simLog.Summary(v.session)
	if wr := v.reporter.Summary(); wr != nil {
		s += "\n" + wr.Format()
	}
	return s + "\n" + v.simLog.Format()
}

func (v *Viewer) copyReport() {
	if err := v.copyText(v.Report()); err != nil {
		v.log.WithError(err).Warn("clipboard copy failed")
		v.status = "copy failed"
		return
	}
	v.status = fmt.Sprintf("copied %d log entries", len(v.simLog.Entries()))
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// sightLine is the enemy's eye-to-eye line to the player and whether covers
// and walls leave it open.
func sightLine(s *game.Session) (from, to game.Vec3, clear bool) {
	from = s.Enemy().Position.Add(game.Vec3{Y: enemyEyeHeight})
	to = s.Player().Position
	return from, to, s.Arena().HasLineOfSight(from, to)
}

// yawTowards returns the player yaw that faces target from eye, ignoring
// height. It reports false when target is directly above or below.
func yawTowards(eye, target game.Vec3) (float64, bool) {
	dx, dz := target.X-eye.X, target.Z-eye.Z
	if dx == 0 && dz == 0 {
		return 0, false
	}
	return math.Atan2(-dx, -dz), true
}
