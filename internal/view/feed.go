package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Combat-Trainer/internal/game"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 14
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick    int
	Actor   game.CombatantID
	Kind    game.EventKind
	Message string
}

// EventFeed is a ring buffer of recent session events rendered on-screen.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (f *EventFeed) Add(e FeedEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// AddEvents feeds the events worth showing. Projectile retirements other
// than obstructions are too noisy for the panel.
func (f *EventFeed) AddEvents(events []game.Event) {
	for _, ev := range events {
		if ev.Kind == game.EventProjectileRetired && ev.Outcome != game.OutcomeObstructedByCover {
			continue
		}
		actor := ev.Actor
		if ev.Kind == game.EventDeath || ev.Kind == game.EventRespawn {
			actor = ev.Target
		}
		f.Add(FeedEntry{Tick: ev.Tick, Actor: actor, Kind: ev.Kind, Message: ev.String()})
	}
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	out := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		out[i] = f.entries[idx]
	}
	return out
}

// Clear empties the feed.
func (f *EventFeed) Clear() {
	f.head, f.count = 0, 0
}

// Draw renders the feed panel at panelX, newest entry at the bottom.
func (f *EventFeed) Draw(screen *ebiten.Image, face text.Face, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, 18, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	drawText(screen, face, "EVENT FEED", panelX+8, 3, colorText)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 22
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(panelX+2), float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 30, G: 40, B: 30, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, actorColor(e.Actor), false)
		drawText(screen, face, fmt.Sprintf("%5d %s", e.Tick, e.Message), panelX+12, y+1, feedColor(e.Kind))
		y += feedLineHeight
	}
}

func feedColor(k game.EventKind) color.RGBA {
	switch k {
	case game.EventScore:
		return color.RGBA{R: 255, G: 220, B: 80, A: 255}
	case game.EventDeath:
		return color.RGBA{R: 255, G: 90, B: 90, A: 255}
	case game.EventSessionEnded:
		return color.RGBA{R: 120, G: 200, B: 255, A: 255}
	default:
		return colorText
	}
}
