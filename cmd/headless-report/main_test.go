package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Garsondee/Combat-Trainer/internal/config"
	"github.com/Garsondee/Combat-Trainer/internal/game"
)

func TestDetectStalemate_TrueWhenHitsTradedWithoutKills(t *testing.T) {
	rs := runStats{
		score:      game.Scoreboard{Shots: 40, Hits: 4},
		enemyHits:  3,
		coverMoves: 2,
	}

	isStalemate, reason := detectStalemate(rs)
	if !isStalemate {
		t.Fatalf("expected stalemate=true, got false (reason=%s)", reason)
	}
	if !strings.Contains(reason, "no_kills_despite_7_hits") || !strings.Contains(reason, "cover") {
		t.Fatalf("unexpected reason: %s", reason)
	}
}

func TestDetectStalemate_FalseWhenKillsOccur(t *testing.T) {
	rs := runStats{score: game.Scoreboard{Hits: 10, Kills: 1}, enemyHits: 5}
	if isStalemate, reason := detectStalemate(rs); isStalemate {
		t.Fatalf("expected stalemate=false with a kill (reason=%s)", reason)
	}
}

func TestDetectStalemate_FalseWhenContactLow(t *testing.T) {
	rs := runStats{score: game.Scoreboard{Hits: 1}, enemyHits: 1}
	isStalemate, reason := detectStalemate(rs)
	if isStalemate || !strings.HasPrefix(reason, "low_contact") {
		t.Fatalf("expected low contact, got %v %s", isStalemate, reason)
	}
}

func TestParseTiers(t *testing.T) {
	all, err := parseTiers("ALL")
	if err != nil || len(all) != len(game.Tiers) {
		t.Fatalf("all tiers: %v %v", all, err)
	}
	one, err := parseTiers("hard")
	if err != nil || len(one) != 1 || one[0] != game.TierHard {
		t.Fatalf("hard: %v %v", one, err)
	}
	if _, err := parseTiers("brutal"); err == nil {
		t.Fatal("expected an error for an unknown tier")
	}
}

func TestFirstTick(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 3, Actor: "player", Category: "fire", Key: "shot"},
		{Tick: 9, Actor: "enemy", Category: "fire", Key: "shot"},
		{Tick: 12, Actor: "player", Category: "hit", Key: "body"},
	}
	if got := firstTick(entries, "fire", "shot", "enemy"); got != 9 {
		t.Fatalf("first enemy shot=%d, want 9", got)
	}
	if got := firstTick(entries, "hit", "", ""); got != 12 {
		t.Fatalf("first hit=%d, want 12", got)
	}
	if got := firstTick(entries, "death", "killed", ""); got != -1 {
		t.Fatalf("missing category should give -1, got %d", got)
	}
}

func TestRunSession_Deterministic(t *testing.T) {
	a := runSession(1, 99, game.TierNormal, 10, 1.0/60, 0.5)
	b := runSession(1, 99, game.TierNormal, 10, 1.0/60, 0.5)
	if a.score != b.score || a.enemyShots != b.enemyShots || a.stateChanges != b.stateChanges {
		t.Fatalf("same seed diverged:\n%+v\n%+v", a.score, b.score)
	}
	if a.score.Shots == 0 {
		t.Fatal("scripted player never fired")
	}

	var buf bytes.Buffer
	printRun(&buf, a)
	printAggregate(&buf, game.TierNormal, []runStats{a, b})
	out := buf.String()
	for _, want := range []string{"--- Run 1 (tier=normal seed=99) ---", "=== Aggregate (normal, 2 runs) ===", "outcome:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestLoadCovers_FromConfigFile(t *testing.T) {
	dir := t.TempDir()
	body := `{"covers": [{"center": {"x": 4, "y": 1, "z": -6}, "size": {"x": 2, "y": 2, "z": 1}}]}`
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	covers, err := loadCovers(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := game.CoverBox{Center: game.Vec3{X: 4, Y: 1, Z: -6}, HalfExtents: game.Vec3{X: 1, Y: 1, Z: 0.5}}
	if len(covers) != 1 || covers[0] != want {
		t.Fatalf("covers=%+v, want [%+v]", covers, want)
	}
}

func TestRunSession_TraceAndLastTransition(t *testing.T) {
	cover := game.CoverBox{Center: game.Vec3{X: 6, Y: 1, Z: -4}, HalfExtents: game.Vec3{X: 1, Y: 1, Z: 0.5}}
	rs := runSession(1, 3, game.TierHard, 10, 1.0/60, 0.3, game.WithCovers(cover), game.WithVerbose(true))

	if !strings.Contains(rs.lastTransition, "→") {
		t.Fatalf("last transition %q", rs.lastTransition)
	}
	if (rs.firstKillTick >= 0) != (rs.trace != "") {
		t.Fatalf("trace present=%v but first kill tick=%d", rs.trace != "", rs.firstKillTick)
	}
	if rs.trace != "" && !strings.Contains(rs.trace, "killed") {
		t.Fatalf("trace does not end at the kill:\n%s", rs.trace)
	}

	var buf bytes.Buffer
	printRun(&buf, rs)
	if !strings.Contains(buf.String(), "last_transition: ") {
		t.Fatalf("run line missing last transition:\n%s", buf.String())
	}
}
