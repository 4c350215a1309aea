package game

import (
	"math"
	"testing"
)

func TestGroundHeight_OutsideBoundsBlocked(t *testing.T) {
	a := NewArena(nil)
	for _, p := range []Vec3{{26, 0, 0}, {-26, 5, 0}, {0, 0, 25.5}, {0, 0, -30}} {
		h, blocked := a.GroundHeight(p)
		if !blocked || h != groundStandHeight {
			t.Fatalf("%v: got (%v,%v), want (%v,true)", p, h, blocked, groundStandHeight)
		}
	}
}

func TestGroundHeight_OpenFloor(t *testing.T) {
	a := NewArena(DefaultCovers())
	h, blocked := a.GroundHeight(Vec3{0, 0, 0})
	if blocked || h != groundStandHeight {
		t.Fatalf("open floor: got (%v,%v)", h, blocked)
	}
}

func TestGroundHeight_BesideCoverBlocked(t *testing.T) {
	a := NewArena(DefaultCovers())
	// 1.0 units from the (-10,-10) box centre, at floor level.
	if _, blocked := a.GroundHeight(Vec3{-10, 0, -9}); !blocked {
		t.Fatal("position inside cover radius at floor level should be blocked")
	}
	// Just outside the 1.5 radius.
	if _, blocked := a.GroundHeight(Vec3{-10, 0, -8.4}); blocked {
		t.Fatal("position outside cover radius should be free")
	}
}

func TestGroundHeight_AboveCoverSnapsToTop(t *testing.T) {
	a := NewArena(DefaultCovers())
	h, blocked := a.GroundHeight(Vec3{-10, 2.5, -10})
	if blocked || h != 2 {
		t.Fatalf("above cover: got (%v,%v), want (2,false)", h, blocked)
	}
	// Once snapped to the top it must stay standable.
	h, blocked = a.GroundHeight(Vec3{-10, h, -10})
	if blocked || h != 2 {
		t.Fatalf("standing on cover: got (%v,%v), want (2,false)", h, blocked)
	}
}

func TestNewArena_DropsInvalidCovers(t *testing.T) {
	a := NewArena([]CoverBox{
		{Center: Vec3{0, 1, 0}, HalfExtents: Vec3{1, 1, 1}},
		{Center: Vec3{5, 1, 0}, HalfExtents: Vec3{0, 1, 1}},
		{Center: Vec3{9, 1, 0}, HalfExtents: Vec3{1, -1, 1}},
	})
	if len(a.Covers) != 1 {
		t.Fatalf("expected 1 valid cover, got %d", len(a.Covers))
	}
}

func TestNearestCover_TieKeepsListOrder(t *testing.T) {
	covers := []CoverBox{
		{Center: Vec3{X: 2}, HalfExtents: Vec3{1, 1, 1}},
		{Center: Vec3{X: -2}, HalfExtents: Vec3{1, 1, 1}},
	}
	c, ok := NearestCover(Vec3{}, covers)
	if !ok || c.Center.X != 2 {
		t.Fatalf("tie should keep first cover, got %v ok=%v", c.Center, ok)
	}
	if _, ok := NearestCover(Vec3{}, nil); ok {
		t.Fatal("empty cover list should report none")
	}
}

func TestNearestCover_PicksClosest(t *testing.T) {
	c, ok := NearestCover(Vec3{9, 0, -9}, DefaultCovers())
	if !ok || c.Center != (Vec3{10, 1, -10}) {
		t.Fatalf("nearest to (9,0,-9) should be (10,1,-10), got %v", c.Center)
	}
}

func TestRaycast_HitsCover(t *testing.T) {
	a := NewArena(DefaultCovers())
	hit, ok := a.Raycast(Vec3{0, 1, 0}, Vec3{Z: -1}, 100, nil, PlayerID)
	if !ok || hit.Kind != ObjectCover {
		t.Fatalf("expected cover hit, got %+v ok=%v", hit, ok)
	}
	if math.Abs(hit.Distance-19.5) > 1e-9 {
		t.Fatalf("cover front face at 19.5, got %v", hit.Distance)
	}
}

func TestRaycast_HitsBackWall(t *testing.T) {
	a := NewArena(DefaultCovers())
	hit, ok := a.Raycast(Vec3{5, 1, 0}, Vec3{Z: -1}, 100, nil, PlayerID)
	if !ok || hit.Kind != ObjectArena || hit.Surface != "back_wall" {
		t.Fatalf("expected back wall, got %+v ok=%v", hit, ok)
	}
	if math.Abs(hit.Distance-40) > 1e-9 {
		t.Fatalf("back wall at 40, got %v", hit.Distance)
	}
}

func TestRaycast_HitboxBeforeCover(t *testing.T) {
	a := NewArena(DefaultCovers())
	enemy := NewCombatant(EnemyID, Vec3{0, groundStandHeight, -10}, 150)
	hit, ok := a.Raycast(Vec3{0, 1.2, 0}, Vec3{Z: -1}, 100, []*Combatant{enemy}, PlayerID)
	if !ok || hit.Kind != ObjectHitbox {
		t.Fatalf("expected hitbox, got %+v ok=%v", hit, ok)
	}
	if hit.Target != EnemyID || hit.Region != RegionBody || hit.FixedDamage != bodyDamage {
		t.Fatalf("expected enemy body hit, got %+v", hit)
	}
	if math.Abs(hit.Distance-9.85) > 1e-9 {
		t.Fatalf("body front face at 9.85, got %v", hit.Distance)
	}
}

func TestRaycast_HeadSphere(t *testing.T) {
	a := NewArena(nil)
	enemy := NewCombatant(EnemyID, Vec3{0, groundStandHeight, -10}, 150)
	hit, ok := a.Raycast(Vec3{0, 1.8, 0}, Vec3{Z: -1}, 50, []*Combatant{enemy}, PlayerID)
	if !ok || hit.Region != RegionHead || hit.FixedDamage != headDamage {
		t.Fatalf("expected head hit, got %+v ok=%v", hit, ok)
	}
}

func TestRaycast_IgnoresShooterAndDead(t *testing.T) {
	a := NewArena(DefaultCovers())
	enemy := NewCombatant(EnemyID, Vec3{0, groundStandHeight, -10}, 150)

	hit, _ := a.Raycast(Vec3{0, 1.2, 0}, Vec3{Z: -1}, 100, []*Combatant{enemy}, EnemyID)
	if hit.Kind == ObjectHitbox {
		t.Fatal("ignored combatant must not be hit")
	}

	enemy.TakeDamage(1000, 0)
	hit, _ = a.Raycast(Vec3{0, 1.2, 0}, Vec3{Z: -1}, 100, []*Combatant{enemy}, PlayerID)
	if hit.Kind == ObjectHitbox {
		t.Fatal("dead combatant must not be hit")
	}
}

func TestRaycast_ShortRayMisses(t *testing.T) {
	a := NewArena(DefaultCovers())
	if _, ok := a.Raycast(Vec3{0, 1, 0}, Vec3{Z: -1}, 5, nil, PlayerID); ok {
		t.Fatal("ray shorter than the nearest obstacle should miss")
	}
	if _, ok := a.Raycast(Vec3{0, 1, 0}, Vec3{Z: -1}, 0, nil, PlayerID); ok {
		t.Fatal("zero-length ray should miss")
	}
}

func TestRaycast_Deterministic(t *testing.T) {
	a := NewArena(DefaultCovers())
	dir, _ := Vec3{0.3, -0.05, -1}.Normalize()
	first, ok1 := a.Raycast(Vec3{0, 1.7, 5}, dir, 100, nil, PlayerID)
	for i := 0; i < 10; i++ {
		again, ok2 := a.Raycast(Vec3{0, 1.7, 5}, dir, 100, nil, PlayerID)
		if ok1 != ok2 || again != first {
			t.Fatalf("raycast not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestLOS_ClearInOpen(t *testing.T) {
	a := NewArena(DefaultCovers())
	if !a.HasLineOfSight(Vec3{0, 1.7, 5}, Vec3{0, 1.5, -10}) {
		t.Fatal("expected clear LOS across the open centre")
	}
}

func TestLOS_BlockedByCover(t *testing.T) {
	a := NewArena(DefaultCovers())
	if a.HasLineOfSight(Vec3{0, 1, -15}, Vec3{0, 1, -25}) {
		t.Fatal("expected LOS blocked by the (0,1,-20) box")
	}
}

func TestLOS_OverCover(t *testing.T) {
	a := NewArena(DefaultCovers())
	if !a.HasLineOfSight(Vec3{0, 3, -15}, Vec3{0, 3, -25}) {
		t.Fatal("a line above the box top should be clear")
	}
}

func TestSegmentAABB_StartInside(t *testing.T) {
	tHit, ok := segmentAABBHitT(Vec3{0, 0, 0}, Vec3{5, 0, 0}, Vec3{-1, -1, -1}, Vec3{1, 1, 1})
	if !ok || tHit != 0 {
		t.Fatalf("segment starting inside should hit at t=0, got %v ok=%v", tHit, ok)
	}
}

func TestSegmentAABB_ZeroLength(t *testing.T) {
	// A point segment must not panic and reports containment.
	if _, ok := segmentAABBHitT(Vec3{5, 5, 5}, Vec3{5, 5, 5}, Vec3{-1, -1, -1}, Vec3{1, 1, 1}); ok {
		t.Fatal("point outside the box should miss")
	}
}

func TestSegmentSphere_Miss(t *testing.T) {
	if _, ok := segmentSphereHitT(Vec3{0, 2, 0}, Vec3{0, 2, -10}, Vec3{0, 0, -5}, 0.5); ok {
		t.Fatal("segment passing above the sphere should miss")
	}
}
