package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Combat-Trainer/internal/config"
	"github.com/Garsondee/Combat-Trainer/internal/game"
	"github.com/Garsondee/Combat-Trainer/internal/logging"
)

// stalemateMinHits is the combined hit count above which a kill-less run is
// flagged as a stalemate rather than a non-engagement.
const stalemateMinHits = 6

// traceWindowSeconds is how much log before the first kill -trace prints.
const traceWindowSeconds = 2.0

type runStats struct {
	runIndex int
	seed     int64
	tier     game.Tier

	firstEnemyShotTick int
	firstHitTick       int
	firstKillTick      int
	firstDeathTick     int

	stateChanges   int
	flanks         int
	coverMoves     int
	lastTransition string

	score      game.Scoreboard
	enemyShots int
	enemyHits  int
	obstructed int

	outcome       game.SessionOutcomeReason
	windowSummary *game.WindowReport
	summary       *game.WindowReport
	trace         string
}

func main() {
	var runs int
	var duration float64
	var dt float64
	var seedBase int64
	var seedStep int64
	var tierName string
	var fireInterval float64
	var copyOut bool
	var logLevel string
	var trace bool
	var verbose bool
	var configDir string

	flag.IntVar(&runs, "runs", 5, "number of headless sessions per tier")
	flag.Float64Var(&duration, "duration", 30, "session length in seconds")
	flag.Float64Var(&dt, "dt", 1.0/60, "simulation step in seconds")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&tierName, "tier", "all", "difficulty tier (easy, normal, hard, immortal or all)")
	flag.Float64Var(&fireInterval, "fire-interval", 0.5, "seconds between scripted player shots")
	flag.BoolVar(&copyOut, "copy", false, "also copy the report to the clipboard")
	flag.StringVar(&logLevel, "log-level", "warn", "session log level")
	flag.BoolVar(&trace, "trace", false, "print the sim log leading up to each run's first kill")
	flag.BoolVar(&verbose, "verbose", false, "include per-tick positions in the sim log")
	flag.StringVar(&configDir, "config", "", "directory holding trainer.cfg.json whose cover layout to use")
	flag.Parse()

	logging.InitTo(os.Stderr, logLevel, "")

	var extra []game.SimOption
	if verbose {
		extra = append(extra, game.WithVerbose(true))
	}
	if configDir != "" {
		covers, err := loadCovers(configDir)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		extra = append(extra, game.WithCovers(covers...))
	}

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if duration <= 0 || dt <= 0 {
		fmt.Println("error: -duration and -dt must be > 0")
		return
	}
	tiers, err := parseTiers(tierName)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	var buf bytes.Buffer
	w := io.MultiWriter(os.Stdout, &buf)

	fmt.Fprintf(w, "=== Headless Combat Report ===\n")
	fmt.Fprintf(w, "tiers=%s runs=%d duration=%.0fs dt=%.4f seed_base=%d seed_step=%d fire_interval=%.2f\n\n",
		tierName, runs, duration, dt, seedBase, seedStep, fireInterval)

	for _, tier := range tiers {
		all := make([]runStats, 0, runs)
		for i := 0; i < runs; i++ {
			seed := seedBase + int64(i)*seedStep
			rs := runSession(i+1, seed, tier, duration, dt, fireInterval, extra...)
			all = append(all, rs)
			printRun(w, rs)
			if trace && rs.trace != "" {
				fmt.Fprintf(w, "trace (first kill at T=%d):\n%s\n", rs.firstKillTick, rs.trace)
			}
		}
		printAggregate(w, tier, all)
	}

	if copyOut {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			logging.Log.WithError(err).Warn("clipboard copy failed")
		} else {
			fmt.Println("(report copied to clipboard)")
		}
	}
}

func parseTiers(name string) ([]game.Tier, error) {
	if strings.EqualFold(name, "all") {
		return game.Tiers, nil
	}
	t, err := game.ParseTier(name)
	if err != nil {
		return nil, err
	}
	return []game.Tier{t}, nil
}

// loadCovers reads the cover layout from a trainer config directory.
func loadCovers(dir string) ([]game.CoverBox, error) {
	settings, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := settings.SessionConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Covers, nil
}

func runSession(runIndex int, seed int64, tier game.Tier, duration, dt, fireInterval float64, extra ...game.SimOption) runStats {
	opts := []game.SimOption{
		game.WithSeed(seed),
		game.WithTier(tier),
		game.WithDuration(duration),
		game.WithDt(dt),
		game.WithScriptedPlayer(game.AimAtEnemy(fireInterval)),
		game.WithReporter(10),
		game.WithSimLogger(logging.ForComponent("headless").WithField("run", runIndex)),
	}
	ts := game.NewTestSim(append(opts, extra...)...)
	ts.RunToEnd()

	entries := ts.SimLog.Entries()
	sb := ts.Session.Scoreboard()
	summary := ts.Reporter.Summary()

	rs := runStats{
		runIndex:           runIndex,
		seed:               seed,
		tier:               tier,
		firstEnemyShotTick: firstTick(entries, "fire", "shot", game.EnemyID.String()),
		firstHitTick:       firstTick(entries, "hit", "", ""),
		firstKillTick:      firstTick(entries, "death", "killed", game.EnemyID.String()),
		firstDeathTick:     firstTick(entries, "death", "killed", game.PlayerID.String()),
		stateChanges:       ts.SimLog.CountCategory("state", "change"),
		score:              sb,
		outcome:            game.DetermineSessionOutcome(&sb),
		windowSummary:      ts.Reporter.WindowSummary(),
		summary:            summary,
	}
	for _, e := range ts.SimLog.Filter("state", "change") {
		switch {
		case strings.HasSuffix(e.Value, "→ flanking"):
			rs.flanks++
		case strings.HasSuffix(e.Value, "→ taking_cover"):
			rs.coverMoves++
		}
	}
	if last, ok := ts.SimLog.LastOf("state", "change"); ok {
		rs.lastTransition = fmt.Sprintf("%s@T=%d", last.Value, last.Tick)
	}
	if rs.firstKillTick >= 0 {
		from := rs.firstKillTick - int(traceWindowSeconds/dt)
		rs.trace = ts.SimLog.FormatRange(max(from, 0), rs.firstKillTick)
	}
	if summary != nil {
		rs.enemyShots = summary.EnemyShots
		rs.enemyHits = summary.EnemyHits
		rs.obstructed = summary.Obstructed
	}
	return rs
}

// firstTick returns the tick of the first entry matching category, key (any
// when empty) and, when given, an actor label. It returns -1 when none match.
func firstTick(entries []game.SimLogEntry, category, key, actor string) int {
	for _, e := range entries {
		if e.Category != category || (key != "" && e.Key != key) {
			continue
		}
		if actor == "" || e.Actor == actor {
			return e.Tick
		}
	}
	return -1
}

// detectStalemate flags runs where both sides traded hits but nobody died.
func detectStalemate(rs runStats) (bool, string) {
	if rs.score.Kills > 0 || rs.score.Deaths > 0 {
		return false, "kills_recorded"
	}
	hits := rs.score.Hits + rs.enemyHits
	if hits < stalemateMinHits {
		return false, fmt.Sprintf("low_contact_%d_hits", hits)
	}
	reason := fmt.Sprintf("no_kills_despite_%d_hits", hits)
	if rs.coverMoves > 0 {
		reason += "_ai_used_cover"
	}
	return true, reason
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (tier=%s seed=%d) ---\n", rs.runIndex, rs.tier, rs.seed)
	fmt.Fprintf(w, "phase_markers: first_enemy_shot=%d first_hit=%d first_kill=%d first_death=%d\n",
		rs.firstEnemyShotTick, rs.firstHitTick, rs.firstKillTick, rs.firstDeathTick)
	fmt.Fprintf(w, "player: shots=%d hits=%d headshots=%d acc=%.0f%% score=%d\n",
		rs.score.Shots, rs.score.Hits, rs.score.Headshots, rs.score.Accuracy(), rs.score.Score)
	fmt.Fprintf(w, "enemy: shots=%d hits=%d obstructed=%d state_changes=%d flanks=%d cover_moves=%d\n",
		rs.enemyShots, rs.enemyHits, rs.obstructed, rs.stateChanges, rs.flanks, rs.coverMoves)
	if rs.lastTransition != "" {
		fmt.Fprintf(w, "last_transition: %s\n", rs.lastTransition)
	}
	fmt.Fprintf(w, "outcome: %s (%s) K/D=%d/%d\n", rs.outcome.Outcome, rs.outcome.Description, rs.score.Kills, rs.score.Deaths)
	if stale, reason := detectStalemate(rs); stale {
		fmt.Fprintf(w, "stalemate: %s\n", reason)
	}
	if rs.windowSummary != nil {
		fmt.Fprintf(w, "window_samples=%d window_tick_range=%d..%d avg_distance=%.1f\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick, rs.windowSummary.AvgDistance)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, tier game.Tier, all []runStats) {
	outcomes := map[string]int{}
	residency := map[game.AIState]float64{}
	totalScore, totalKills, totalDeaths, totalEnemyShots, totalEnemyHits := 0, 0, 0, 0, 0
	totalShots, totalHits := 0, 0
	stalemates := 0
	killTicks := make([]int, 0, len(all))

	for _, rs := range all {
		outcomes[rs.outcome.Outcome.String()]++
		totalScore += rs.score.Score
		totalKills += rs.score.Kills
		totalDeaths += rs.score.Deaths
		totalShots += rs.score.Shots
		totalHits += rs.score.Hits
		totalEnemyShots += rs.enemyShots
		totalEnemyHits += rs.enemyHits
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if stale, _ := detectStalemate(rs); stale {
			stalemates++
		}
		if rs.summary != nil {
			for s, pct := range rs.summary.StatePct {
				residency[s] += pct / float64(len(all))
			}
		}
	}

	fmt.Fprintf(w, "=== Aggregate (%s, %d runs) ===\n", tier, len(all))
	fmt.Fprintf(w, "avg_per_run: score=%.0f kills=%.2f deaths=%.2f enemy_shots=%.1f\n",
		avg(totalScore, len(all)), avg(totalKills, len(all)), avg(totalDeaths, len(all)), avg(totalEnemyShots, len(all)))
	fmt.Fprintf(w, "accuracy: player=%.0f%% enemy=%.0f%%\n", pct(totalHits, totalShots), pct(totalEnemyHits, totalEnemyShots))
	fmt.Fprintf(w, "first_kill_avg_tick=%s stalemates=%d\n", avgTickString(killTicks), stalemates)
	fmt.Fprintf(w, "outcomes: %s\n", joinCounts(outcomes))
	fmt.Fprint(w, "ai_residency:")
	for _, s := range game.AllAIStates {
		if p := residency[s]; p > 0 {
			fmt.Fprintf(w, " %s=%.1f%%", s, p)
		}
	}
	fmt.Fprint(w, "\n\n")
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return 100 * float64(num) / float64(den)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ",")
}
