package game

import "fmt"

// EventKind classifies a step event.
type EventKind int

const (
	EventShotFired EventKind = iota
	EventDamage
	EventScore
	EventDeath
	EventRespawn
	EventProjectileRetired
	EventSessionEnded
)

func (k EventKind) String() string {
	switch k {
	case EventShotFired:
		return "shot_fired"
	case EventDamage:
		return "damage"
	case EventScore:
		return "score"
	case EventDeath:
		return "death"
	case EventRespawn:
		return "respawn"
	case EventProjectileRetired:
		return "projectile_retired"
	case EventSessionEnded:
		return "session_ended"
	default:
		return "unknown"
	}
}

// Event is one notification produced by Session.Step. Which fields are
// meaningful depends on Kind:
//
//	shot_fired          Actor (shooter), Projectile, Position (origin)
//	damage              Actor (shooter), Target (victim), Region, Amount, Position
//	score               Actor (player), Target, Region, Amount (points)
//	death               Target (the dead), Actor (killer)
//	respawn             Target, Position
//	projectile_retired  Actor (owner), Projectile, Outcome, Reason, Position
//	session_ended       none
type Event struct {
	Kind EventKind
	Tick int
	At   float64

	Actor      CombatantID
	Target     CombatantID
	Region     Region
	Amount     float64
	Position   Vec3
	Projectile uint64
	Outcome    OutcomeKind
	Reason     string
}

// Headshot reports whether a damage or score event landed on the head.
func (e Event) Headshot() bool {
	return e.Region == RegionHead && (e.Kind == EventDamage || e.Kind == EventScore)
}

func (e Event) String() string {
	switch e.Kind {
	case EventShotFired:
		return fmt.Sprintf("%s fired #%d from %s", e.Actor, e.Projectile, e.Position)
	case EventDamage:
		return fmt.Sprintf("%s hit %s (%s) for %.0f", e.Actor, e.Target, e.Region, e.Amount)
	case EventScore:
		return fmt.Sprintf("+%.0f (%s)", e.Amount, e.Region)
	case EventDeath:
		return fmt.Sprintf("%s killed by %s", e.Target, e.Actor)
	case EventRespawn:
		return fmt.Sprintf("%s respawned at %s", e.Target, e.Position)
	case EventProjectileRetired:
		return fmt.Sprintf("#%d %s %s", e.Projectile, e.Outcome, e.Reason)
	case EventSessionEnded:
		return "session ended"
	default:
		return e.Kind.String()
	}
}
