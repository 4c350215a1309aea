package game

import (
	"math"
	"testing"
)

func TestTakeDamage_ClampsAtZero(t *testing.T) {
	c := NewCombatant(EnemyID, Vec3{}, 150)
	killed := c.TakeDamage(200, 4)
	if !killed {
		t.Fatal("expected lethal damage to report a kill")
	}
	if c.Health != 0 || c.Alive {
		t.Fatalf("health=%v alive=%v, want 0/false", c.Health, c.Alive)
	}
	if c.DiedAt != 4 || c.LastDamageAt != 4 {
		t.Fatalf("timestamps not recorded: died=%v last=%v", c.DiedAt, c.LastDamageAt)
	}
}

func TestTakeDamage_NoEffectWhenDead(t *testing.T) {
	c := NewCombatant(PlayerID, Vec3{}, 100)
	c.TakeDamage(100, 1)
	if c.TakeDamage(50, 2) {
		t.Fatal("damaging the dead must not report another kill")
	}
	if c.Health != 0 || c.LastDamageAt != 1 {
		t.Fatalf("dead combatant changed: health=%v last=%v", c.Health, c.LastDamageAt)
	}
}

func TestTakeDamage_NeverNegative(t *testing.T) {
	c := NewCombatant(PlayerID, Vec3{}, 100)
	for i, d := range []float64{35, 35, 35, 35} {
		c.TakeDamage(d, float64(i))
		if c.Health < 0 {
			t.Fatalf("health went negative: %v", c.Health)
		}
	}
	if c.Alive {
		t.Fatal("140 damage on 100 health should kill")
	}
}

func TestTakeDamage_IgnoresNegativeAndNaN(t *testing.T) {
	c := NewCombatant(PlayerID, Vec3{}, 100)
	c.TakeDamage(-20, 1)
	c.TakeDamage(math.NaN(), 2)
	if c.Health != 100 || !math.IsInf(c.LastDamageAt, -1) {
		t.Fatalf("invalid damage applied: health=%v last=%v", c.Health, c.LastDamageAt)
	}
}

func TestHeal_CapsAtMax(t *testing.T) {
	c := NewCombatant(PlayerID, Vec3{}, 100)
	c.TakeDamage(30, 0)
	c.Heal(50)
	if c.Health != 100 {
		t.Fatalf("heal should cap at max, got %v", c.Health)
	}
}

func TestHeal_DeadStaysDead(t *testing.T) {
	c := NewCombatant(PlayerID, Vec3{}, 100)
	c.TakeDamage(100, 0)
	c.Heal(50)
	if c.Alive || c.Health != 0 {
		t.Fatalf("heal revived the dead: health=%v alive=%v", c.Health, c.Alive)
	}
}

func TestRespawn_RestoresFullHealth(t *testing.T) {
	c := NewCombatant(EnemyID, Vec3{}, 200)
	c.TakeDamage(500, 0)
	c.Respawn(Vec3{3, 0.1, -4})
	if !c.Alive || c.Health != 200 || c.Position != (Vec3{3, 0.1, -4}) {
		t.Fatalf("respawn incomplete: %+v", c.Snapshot())
	}
}

func TestHealthPercentage(t *testing.T) {
	c := NewCombatant(EnemyID, Vec3{}, 200)
	c.TakeDamage(50, 0)
	if got := c.HealthPercentage(); got != 75 {
		t.Fatalf("HealthPercentage=%v, want 75", got)
	}
	c.TakeDamage(1000, 1)
	if got := c.HealthPercentage(); got != 0 {
		t.Fatalf("HealthPercentage=%v, want 0", got)
	}
}

func TestHitRegions_FollowPosition(t *testing.T) {
	c := NewCombatant(EnemyID, Vec3{5, 0.1, -3}, 100)
	for _, r := range c.HitRegions() {
		ctr := r.centre()
		if ctr.X != 5 || ctr.Z != -3 {
			t.Fatalf("%s region not centred on the combatant: %v", r.Region, ctr)
		}
	}
	if len(NewCombatant(PlayerID, Vec3{}, 100).HitRegions()) != 3 {
		t.Fatal("player should have head, body and legs")
	}
}
