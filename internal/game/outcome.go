package game

import "fmt"

// SessionOutcome grades a finished session from the player's point of view.
type SessionOutcome int

const (
	OutcomeInconclusive SessionOutcome = iota
	OutcomePlayerVictory
	OutcomeEnemyVictory
	OutcomeDraw
)

func (o SessionOutcome) String() string {
	switch o {
	case OutcomePlayerVictory:
		return "player_victory"
	case OutcomeEnemyVictory:
		return "enemy_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// SessionOutcomeReason is the outcome plus the figures it was derived from.
type SessionOutcomeReason struct {
	Outcome     SessionOutcome
	Kills       int
	Deaths      int
	Hits        int
	Accuracy    float64
	Description string
}

// DetermineSessionOutcome grades a scoreboard. Kills decide first; with
// equal kills the side that landed damage without dying edges it.
func DetermineSessionOutcome(sb *Scoreboard) SessionOutcomeReason {
	r := SessionOutcomeReason{
		Kills:    sb.Kills,
		Deaths:   sb.Deaths,
		Hits:     sb.Hits,
		Accuracy: sb.Accuracy(),
	}

	switch {
	case sb.Kills > sb.Deaths:
		r.Outcome = OutcomePlayerVictory
		r.Description = fmt.Sprintf("player_victory_%d_to_%d", sb.Kills, sb.Deaths)
	case sb.Deaths > sb.Kills:
		r.Outcome = OutcomeEnemyVictory
		r.Description = fmt.Sprintf("enemy_victory_%d_to_%d", sb.Deaths, sb.Kills)
	case sb.Kills > 0:
		r.Outcome = OutcomeDraw
		r.Description = "draw_traded_kills"
	case sb.Hits > 0:
		r.Outcome = OutcomeDraw
		r.Description = "draw_no_kills_damage_dealt"
	default:
		r.Outcome = OutcomeInconclusive
		r.Description = "inconclusive_no_contact"
	}
	return r
}
