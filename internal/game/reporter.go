package game

import (
	"fmt"
	"strings"
)

// reportWindowSeconds is the default sliding window for recent-behaviour reports.
const reportWindowSeconds = 10.0

// AllAIStates lists every AI state in display order.
var AllAIStates = []AIState{AIPatrolling, AISeeking, AIShooting, AITakingCover, AIFlanking, AIDead}

// --- Snapshot types ---

// SessionReport captures the session at one step.
type SessionReport struct {
	Tick int
	Time float64
	Dt   float64

	AIState      AIState
	PlayerHealth float64
	EnemyHealth  float64
	Distance     float64 // player eye to enemy feet
	InFlight     int

	// Counts within this step.
	PlayerShots int
	EnemyShots  int
	PlayerHits  int
	EnemyHits   int
	Headshots   int
	Obstructed  int
	Expired     int
	Kills       int
	Deaths      int
}

// --- Reporter ---

// SessionReporter collects per-step reports and produces summaries over
// sliding time windows and over the whole run.
type SessionReporter struct {
	history       []SessionReport
	windowSeconds float64
	last          float64
}

// NewSessionReporter creates a reporter with the given window in seconds.
func NewSessionReporter(windowSeconds float64) *SessionReporter {
	if windowSeconds <= 0 {
		windowSeconds = reportWindowSeconds
	}
	return &SessionReporter{windowSeconds: windowSeconds}
}

// Collect folds one step result into the history.
func (r *SessionReporter) Collect(res StepResult) {
	rpt := SessionReport{
		Tick:         res.Tick,
		Time:         res.Time,
		Dt:           res.Time - r.last,
		AIState:      res.AIState,
		PlayerHealth: res.Player.Health,
		EnemyHealth:  res.Enemy.Health,
		Distance:     res.Player.Position.Dist(res.Enemy.Position),
		InFlight:     len(res.Projectiles),
	}
	r.last = res.Time

	for _, ev := range res.Events {
		switch ev.Kind {
		case EventShotFired:
			if ev.Actor == PlayerID {
				rpt.PlayerShots++
			} else {
				rpt.EnemyShots++
			}
		case EventDamage:
			if ev.Actor == PlayerID {
				rpt.PlayerHits++
				if ev.Region == RegionHead {
					rpt.Headshots++
				}
			} else {
				rpt.EnemyHits++
			}
		case EventProjectileRetired:
			switch ev.Outcome {
			case OutcomeObstructedByCover, OutcomeObstructedByArena:
				rpt.Obstructed++
			case OutcomeExpired:
				rpt.Expired++
			}
		case EventDeath:
			if ev.Target == EnemyID {
				rpt.Kills++
			} else {
				rpt.Deaths++
			}
		}
	}
	r.history = append(r.history, rpt)
}

// Latest returns the most recent report, or nil.
func (r *SessionReporter) Latest() *SessionReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *SessionReporter) History() []SessionReport {
	return r.history
}

// WindowSummary aggregates the reports of the most recent window.
func (r *SessionReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	cutoff := r.history[len(r.history)-1].Time - r.windowSeconds
	start := len(r.history)
	for start > 0 && r.history[start-1].Time >= cutoff {
		start--
	}
	return summarize(r.history[start:])
}

// Summary aggregates every collected report.
func (r *SessionReporter) Summary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	return summarize(r.history)
}

func summarize(window []SessionReport) *WindowReport {
	if len(window) == 0 {
		return nil
	}
	wr := &WindowReport{
		FromTick:    window[0].Tick,
		ToTick:      window[len(window)-1].Tick,
		SampleCount: len(window),
		StatePct:    make(map[AIState]float64),
	}

	var total float64
	for _, rpt := range window {
		wr.StatePct[rpt.AIState] += rpt.Dt
		total += rpt.Dt
		wr.AvgDistance += rpt.Distance * rpt.Dt

		wr.PlayerShots += rpt.PlayerShots
		wr.EnemyShots += rpt.EnemyShots
		wr.PlayerHits += rpt.PlayerHits
		wr.EnemyHits += rpt.EnemyHits
		wr.Headshots += rpt.Headshots
		wr.Obstructed += rpt.Obstructed
		wr.Expired += rpt.Expired
		wr.Kills += rpt.Kills
		wr.Deaths += rpt.Deaths
		if rpt.InFlight > wr.PeakInFlight {
			wr.PeakInFlight = rpt.InFlight
		}
	}
	if total > 0 {
		for s, d := range wr.StatePct {
			wr.StatePct[s] = d / total * 100
		}
		wr.AvgDistance /= total
	}
	wr.Seconds = total
	return wr
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int
	Seconds          float64

	// Share of simulated time spent in each AI state (0-100).
	StatePct map[AIState]float64

	AvgDistance  float64
	PeakInFlight int

	PlayerShots, EnemyShots int
	PlayerHits, EnemyHits   int
	Headshots               int
	Obstructed, Expired     int
	Kills, Deaths           int
}

// PlayerAccuracy is player hits per shot as a 0-100 percentage.
func (wr *WindowReport) PlayerAccuracy() float64 {
	if wr.PlayerShots == 0 {
		return 0
	}
	return 100 * float64(wr.PlayerHits) / float64(wr.PlayerShots)
}

// EnemyAccuracy is enemy hits per shot as a 0-100 percentage.
func (wr *WindowReport) EnemyAccuracy() float64 {
	if wr.EnemyShots == 0 {
		return 0
	}
	return 100 * float64(wr.EnemyHits) / float64(wr.EnemyShots)
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Engagement Report (T=%d..%d, %d samples, %.1fs) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount, wr.Seconds)

	sb.WriteString("\n--- AI State Residency ---\n")
	for _, s := range AllAIStates {
		if pct, ok := wr.StatePct[s]; ok && pct > 0.5 {
			fmt.Fprintf(&sb, "  %-14s %5.1f%%\n", s, pct)
		}
	}

	sb.WriteString("\n--- Fire ---\n")
	fmt.Fprintf(&sb, "  Player: shots=%d hits=%d headshots=%d acc=%.0f%%\n",
		wr.PlayerShots, wr.PlayerHits, wr.Headshots, wr.PlayerAccuracy())
	fmt.Fprintf(&sb, "  Enemy:  shots=%d hits=%d acc=%.0f%%\n",
		wr.EnemyShots, wr.EnemyHits, wr.EnemyAccuracy())
	fmt.Fprintf(&sb, "  Obstructed=%d  expired=%d  peak_in_flight=%d\n",
		wr.Obstructed, wr.Expired, wr.PeakInFlight)

	sb.WriteString("\n--- Engagement ---\n")
	fmt.Fprintf(&sb, "  kills=%d deaths=%d  avg_distance=%.1f (%s)\n",
		wr.Kills, wr.Deaths, wr.AvgDistance, rangeLabel(wr.AvgDistance))

	return sb.String()
}

func rangeLabel(d float64) string {
	switch {
	case d < 6:
		return "point blank"
	case d < 12:
		return "close"
	case d < 18:
		return "medium"
	default:
		return "long"
	}
}

// FormatLatest returns a concise snapshot of the most recent report.
func (r *SessionReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	return fmt.Sprintf("--- Snapshot T=%d (%.2fs) ---\nai=%s  player_hp=%.0f  enemy_hp=%.0f  dist=%.1f  in_flight=%d\n",
		rpt.Tick, rpt.Time, rpt.AIState, rpt.PlayerHealth, rpt.EnemyHealth, rpt.Distance, rpt.InFlight)
}
