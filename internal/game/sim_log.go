package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a simulation.
type SimLogEntry struct {
	Tick     int
	Time     float64 // sim seconds
	Actor    string  // "player", "enemy", or "--" for session events
	Category string  // state, fire, hit, death, respawn, projectile, session, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0182  3.03s] enemy  state     change           seeking → shooting
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d %6.2fs] %-6s %-9s %-16s %s",
		e.Tick, e.Time, e.Actor, e.Category, e.Key, e.Value)
}

// SimLog collects structured events from a Session. It is unbounded and
// machine-readable; the viewer's event feed is the bounded UI counterpart.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position entries
// are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, at float64, actor, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Time:     at,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, at float64, actor, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, at, actor, category, key, value, numVal)
}

// Verbose reports whether per-tick entries are recorded.
func (sl *SimLog) Verbose() bool {
	return sl.verbose
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of a session's state.
func (sl *SimLog) Summary(s *Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d (%.2fs) ---\n", s.Tick(), s.Now())

	p, e := s.player, s.enemy
	fmt.Fprintf(&sb, "Player: %s  hp=%.0f/%.0f  alive=%t\n", p.Position, p.Health, p.MaxHealth, p.Alive)
	fmt.Fprintf(&sb, "Enemy:  %s  hp=%.0f/%.0f  alive=%t  state=%s\n",
		e.Position, e.Health, e.MaxHealth, e.Alive, s.ai.State())

	sc := s.Scoreboard()
	fmt.Fprintf(&sb, "Score: %d  shots=%d hits=%d headshots=%d acc=%.0f%%  K/D=%d/%d\n",
		sc.Score, sc.Shots, sc.Hits, sc.Headshots, sc.Accuracy(), sc.Kills, sc.Deaths)

	fmt.Fprintf(&sb, "In flight: %d  remaining=%.1fs\n", len(s.projectiles), s.Remaining())
	return sb.String()
}
