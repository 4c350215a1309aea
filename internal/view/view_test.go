package view

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/Combat-Trainer/internal/game"
)

func TestEventFeed_RingBuffer(t *testing.T) {
	f := NewEventFeed()
	for i := 0; i < feedMaxEntries+5; i++ {
		f.Add(FeedEntry{Tick: i})
	}
	got := f.Recent()
	if len(got) != feedMaxEntries {
		t.Fatalf("len=%d, want %d", len(got), feedMaxEntries)
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != feedMaxEntries+4 {
		t.Fatalf("expected oldest 5 and newest %d, got %d..%d", feedMaxEntries+4, got[0].Tick, got[len(got)-1].Tick)
	}
	f.Clear()
	if len(f.Recent()) != 0 {
		t.Fatal("clear left entries behind")
	}
}

func TestEventFeed_SkipsQuietRetirements(t *testing.T) {
	f := NewEventFeed()
	f.AddEvents([]game.Event{
		{Kind: game.EventProjectileRetired, Outcome: game.OutcomeExpired},
		{Kind: game.EventProjectileRetired, Outcome: game.OutcomeObstructedByCover},
		{Kind: game.EventDeath, Actor: game.PlayerID, Target: game.EnemyID},
	})
	got := f.Recent()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[1].Actor != game.EnemyID {
		t.Fatal("death entries should be attributed to the victim")
	}
}

func TestScreenMapping_RoundTrip(t *testing.T) {
	for _, p := range []game.Vec3{{X: 0, Z: 0}, {X: -20, Z: -40}, {X: 13.5, Z: 7.25}} {
		x, y := worldToScreen(p)
		back := screenToWorld(int(x), int(y))
		if math.Abs(back.X-p.X) > 1/pxPerUnit || math.Abs(back.Z-p.Z) > 1/pxPerUnit {
			t.Fatalf("%v mapped back to %v", p, back)
		}
	}
	if !insideField(borderWidth, borderWidth) || insideField(borderWidth+fieldWidth, borderWidth) {
		t.Fatal("field bounds are off by one")
	}
}

func TestYawTowards_MatchesPlayerForward(t *testing.T) {
	eye := game.Vec3{X: 1, Y: 1.7, Z: 2}
	target := game.Vec3{X: 4, Z: -2}
	yaw, ok := yawTowards(eye, target)
	if !ok {
		t.Fatal("expected a yaw")
	}
	pc := game.NewPlayerController(eye)
	pc.Yaw = yaw
	f := pc.Forward()
	if math.Abs(f.X-0.6) > 1e-9 || math.Abs(f.Z+0.8) > 1e-9 {
		t.Fatalf("forward %v does not face the target", f)
	}
	if _, ok := yawTowards(eye, game.Vec3{X: 1, Y: 9, Z: 2}); ok {
		t.Fatal("a target straight above has no yaw")
	}
}

func TestStateColor_Distinct(t *testing.T) {
	seen := map[[4]uint8]game.AIState{}
	for _, s := range game.AllAIStates {
		c := stateColor(s)
		key := [4]uint8{c.R, c.G, c.B, c.A}
		if prev, dup := seen[key]; dup {
			t.Fatalf("%s and %s share a colour", prev, s)
		}
		seen[key] = s
	}
}

func TestViewer_CopyReport(t *testing.T) {
	var copied string
	v, err := New(game.DefaultSessionConfig(), WithClipboard(func(s string) error {
		copied = s
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 240; i++ {
		res, err := v.Session().Step(1.0/60, game.PlayerInput{})
		if err != nil {
			t.Fatal(err)
		}
		v.apply(res)
	}
	v.copyReport()
	if !strings.Contains(copied, "--- Summary") || !strings.Contains(copied, "Engagement Report") {
		t.Fatalf("report missing sections:\n%s", copied)
	}
	if !strings.HasPrefix(v.status, "copied") {
		t.Fatalf("status %q", v.status)
	}

	v.copyText = func(string) error { return errors.New("no display") }
	v.copyReport()
	if v.status != "copy failed" {
		t.Fatalf("status %q after a failed copy", v.status)
	}
}

func TestViewer_RestartBumpsSeed(t *testing.T) {
	v, err := New(game.DefaultSessionConfig())
	if err != nil {
		t.Fatal(err)
	}
	first := v.Session()
	if err := v.restart(); err != nil {
		t.Fatal(err)
	}
	if v.Session() == first || v.Session().Config().Seed != first.Config().Seed+1 {
		t.Fatal("restart should start a new session on the next seed")
	}

	cfg := game.DefaultSessionConfig()
	cfg.Tier = game.Tier(99)
	if _, err := New(cfg); !errors.Is(err, game.ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}

func TestSightLine_BlockedByCover(t *testing.T) {
	cfg := game.DefaultSessionConfig()
	cfg.Covers = nil
	open, err := game.NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	from, to, clear := sightLine(open)
	if !clear || losLine(open) != "enemy LOS: clear" {
		t.Fatal("open arena should leave the sight line clear")
	}
	if math.Abs(from.Y-(open.Enemy().Position.Y+enemyEyeHeight)) > 1e-9 || to != open.Player().Position {
		t.Fatalf("sight line %v -> %v is not eye to eye", from, to)
	}

	cfg.Covers = []game.CoverBox{{Center: game.Vec3{Y: 1, Z: -3}, HalfExtents: game.Vec3{X: 1, Y: 1, Z: 0.5}}}
	walled, err := game.NewSession(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, clear := sightLine(walled); clear || losLine(walled) != "enemy LOS: blocked" {
		t.Fatal("a box between the combatants should block the sight line")
	}
}
