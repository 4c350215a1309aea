package game

import (
	"strings"
	"testing"
)

func TestReporter_CountsEvents(t *testing.T) {
	r := NewSessionReporter(0)
	r.Collect(StepResult{
		Tick:    1,
		Time:    0.5,
		AIState: AISeeking,
		Player:  CombatantSnapshot{Position: Vec3{0, 1.7, 0}},
		Enemy:   CombatantSnapshot{Position: Vec3{0, 1.7, -8}},
		Events: []Event{
			{Kind: EventShotFired, Actor: PlayerID},
			{Kind: EventShotFired, Actor: EnemyID},
			{Kind: EventDamage, Actor: PlayerID, Target: EnemyID, Region: RegionHead},
			{Kind: EventProjectileRetired, Outcome: OutcomeObstructedByCover},
			{Kind: EventProjectileRetired, Outcome: OutcomeExpired},
			{Kind: EventDeath, Target: EnemyID},
		},
	})
	r.Collect(StepResult{Tick: 2, Time: 1.5, AIState: AIDead})

	rpt := r.Latest()
	if rpt.Tick != 2 || rpt.Dt != 1 {
		t.Fatalf("latest report %+v", rpt)
	}
	wr := r.Summary()
	if wr.PlayerShots != 1 || wr.EnemyShots != 1 || wr.PlayerHits != 1 || wr.Headshots != 1 {
		t.Fatalf("fire counts wrong: %+v", wr)
	}
	if wr.Obstructed != 1 || wr.Expired != 1 || wr.Kills != 1 {
		t.Fatalf("outcome counts wrong: %+v", wr)
	}
	if !approx(wr.StatePct[AISeeking], 100.0/3) || !approx(wr.StatePct[AIDead], 200.0/3) {
		t.Fatalf("residency should be time weighted: %v", wr.StatePct)
	}
	if wr.PlayerAccuracy() != 100 || wr.EnemyAccuracy() != 0 {
		t.Fatal("accuracy figures wrong")
	}
	if !strings.Contains(wr.Format(), "Engagement Report") {
		t.Fatal("formatted report missing its header")
	}
}

func TestReporter_WindowDropsOldSamples(t *testing.T) {
	r := NewSessionReporter(2)
	for i := 1; i <= 10; i++ {
		r.Collect(StepResult{Tick: i, Time: float64(i), AIState: AISeeking})
	}
	wr := r.WindowSummary()
	if wr.FromTick != 8 || wr.ToTick != 10 {
		t.Fatalf("window covers T=%d..%d, want 8..10", wr.FromTick, wr.ToTick)
	}
	if len(r.History()) != 10 {
		t.Fatal("history should keep every sample")
	}
}

func TestReporter_Empty(t *testing.T) {
	r := NewSessionReporter(5)
	if r.Latest() != nil || r.Summary() != nil || r.WindowSummary() != nil {
		t.Fatal("empty reporter should report nothing")
	}
	if r.FormatLatest() != "No data.\n" {
		t.Fatal("unexpected empty snapshot text")
	}
	var wr *WindowReport
	if !strings.HasPrefix(wr.Format(), "No data") {
		t.Fatal("nil report should format as no data")
	}
}

func TestRangeLabel(t *testing.T) {
	for d, want := range map[float64]string{3: "point blank", 10: "close", 15: "medium", 30: "long"} {
		if got := rangeLabel(d); got != want {
			t.Fatalf("rangeLabel(%v)=%q, want %q", d, got, want)
		}
	}
}
