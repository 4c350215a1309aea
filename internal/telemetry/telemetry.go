// Package telemetry turns session step results into OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/Combat-Trainer/internal/game"
)

const instrumentationName = "github.com/Garsondee/Combat-Trainer/internal/telemetry"

// Recorder counts combat events. It is safe to call Observe from the game
// goroutine while the SDK collects on another.
type Recorder struct {
	shots      metric.Int64Counter
	hits       metric.Int64Counter
	score      metric.Int64Counter
	deaths     metric.Int64Counter
	respawns   metric.Int64Counter
	retired    metric.Int64Counter
	sessions   metric.Int64Counter
	stateGauge metric.Int64ObservableGauge

	mu      sync.RWMutex
	aiState game.AIState
	seen    bool
}

// New builds a Recorder on mp. A nil mp uses the global provider, which is a
// no-op unless the process configured one.
func New(mp metric.MeterProvider) (*Recorder, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(instrumentationName)
	r := &Recorder{}

	var err error
	if r.shots, err = m.Int64Counter("trainer.shots", metric.WithDescription("Projectiles fired")); err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}
	if r.hits, err = m.Int64Counter("trainer.hits", metric.WithDescription("Damage events by region")); err != nil {
		return nil, fmt.Errorf("creating hits counter: %w", err)
	}
	if r.score, err = m.Int64Counter("trainer.score", metric.WithDescription("Points awarded to the player")); err != nil {
		return nil, fmt.Errorf("creating score counter: %w", err)
	}
	if r.deaths, err = m.Int64Counter("trainer.deaths", metric.WithDescription("Combatant deaths")); err != nil {
		return nil, fmt.Errorf("creating deaths counter: %w", err)
	}
	if r.respawns, err = m.Int64Counter("trainer.respawns", metric.WithDescription("Combatant respawns")); err != nil {
		return nil, fmt.Errorf("creating respawns counter: %w", err)
	}
	if r.retired, err = m.Int64Counter("trainer.projectiles.retired", metric.WithDescription("Projectile terminal outcomes")); err != nil {
		return nil, fmt.Errorf("creating retired counter: %w", err)
	}
	if r.sessions, err = m.Int64Counter("trainer.sessions.ended", metric.WithDescription("Sessions that ran to completion")); err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	r.stateGauge, err = m.Int64ObservableGauge(
		"trainer.ai.state",
		metric.WithDescription("Current AI state, 1 for the active state"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ai state gauge: %w", err)
	}
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			r.mu.RLock()
			defer r.mu.RUnlock()
			if !r.seen {
				return nil
			}
			o.ObserveInt64(r.stateGauge, 1,
				metric.WithAttributes(attribute.String("state", r.aiState.String())))
			return nil
		},
		r.stateGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering ai state callback: %w", err)
	}
	return r, nil
}

// Observe records one step's events.
func (r *Recorder) Observe(ctx context.Context, res game.StepResult) {
	r.mu.Lock()
	r.aiState, r.seen = res.AIState, true
	r.mu.Unlock()

	for _, ev := range res.Events {
		actor := attribute.String("actor", ev.Actor.String())
		switch ev.Kind {
		case game.EventShotFired:
			r.shots.Add(ctx, 1, metric.WithAttributes(actor))
		case game.EventDamage:
			r.hits.Add(ctx, 1, metric.WithAttributes(actor,
				attribute.String("target", ev.Target.String()),
				attribute.String("region", ev.Region.String())))
		case game.EventScore:
			r.score.Add(ctx, int64(ev.Amount), metric.WithAttributes(attribute.String("region", ev.Region.String())))
		case game.EventDeath:
			r.deaths.Add(ctx, 1, metric.WithAttributes(attribute.String("victim", ev.Target.String())))
		case game.EventRespawn:
			r.respawns.Add(ctx, 1, metric.WithAttributes(attribute.String("who", ev.Target.String())))
		case game.EventProjectileRetired:
			r.retired.Add(ctx, 1, metric.WithAttributes(actor,
				attribute.String("outcome", ev.Outcome.String())))
		case game.EventSessionEnded:
			r.sessions.Add(ctx, 1)
		}
	}
}

// AIState returns the last observed AI state and whether any step was seen.
func (r *Recorder) AIState() (game.AIState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.aiState, r.seen
}
