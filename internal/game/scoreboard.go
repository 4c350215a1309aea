package game

import "math"

const (
	pointsPerHit      = 100
	pointsPerHeadshot = 150
	hitMarkerDuration = 0.15 // seconds the hit marker stays up after a scoring hit
)

// Scoreboard accumulates the player's session statistics from step events.
type Scoreboard struct {
	Shots     int
	Hits      int
	Headshots int
	Score     int
	Kills     int
	Deaths    int

	hitMarkerUntil float64
}

// NewScoreboard returns an empty scoreboard.
func NewScoreboard() *Scoreboard {
	return &Scoreboard{hitMarkerUntil: math.Inf(-1)}
}

// Record folds one event into the totals.
func (sb *Scoreboard) Record(ev Event) {
	switch ev.Kind {
	case EventShotFired:
		if ev.Actor == PlayerID {
			sb.Shots++
		}
	case EventScore:
		sb.Hits++
		if ev.Region == RegionHead {
			sb.Headshots++
		}
		sb.Score += int(ev.Amount)
		sb.hitMarkerUntil = ev.At + hitMarkerDuration
	case EventDeath:
		switch ev.Target {
		case EnemyID:
			sb.Kills++
		case PlayerID:
			sb.Deaths++
		}
	}
}

// Accuracy is hits per shot as a 0-100 percentage.
func (sb *Scoreboard) Accuracy() float64 {
	if sb.Shots == 0 {
		return 0
	}
	return 100 * float64(sb.Hits) / float64(sb.Shots)
}

// HitMarkerVisible reports whether the hit marker should be drawn at now.
func (sb *Scoreboard) HitMarkerVisible(now float64) bool {
	return now < sb.hitMarkerUntil
}

// Reset clears every counter.
func (sb *Scoreboard) Reset() {
	*sb = Scoreboard{hitMarkerUntil: math.Inf(-1)}
}

// scorePoints returns the points awarded for a player hit on region.
func scorePoints(r Region) float64 {
	if r == RegionHead {
		return pointsPerHeadshot
	}
	return pointsPerHit
}
