package game

import "math"

// ObjectKind classifies what a ray struck.
type ObjectKind int

const (
	ObjectCover  ObjectKind = iota // a cover box
	ObjectArena                    // floor or wall
	ObjectHitbox                   // a combatant hit region
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectCover:
		return "cover"
	case ObjectArena:
		return "arena"
	case ObjectHitbox:
		return "hitbox"
	default:
		return "unknown"
	}
}

// RayHit is the nearest intersection found by Arena.Raycast.
type RayHit struct {
	Kind     ObjectKind
	Distance float64
	Point    Vec3

	// Set for ObjectHitbox.
	Target      CombatantID
	Region      Region
	FixedDamage float64 // 0 = use the projectile's own damage

	// Set for ObjectCover / ObjectArena.
	CoverIndex int
	Surface    string
}

// Raycast returns the first object intersected by the segment starting at
// origin along dir (unit) for maxDist. Cover boxes, arena surfaces and the
// hit regions of every alive target are tested; the nearest wins and equal
// distances keep that scene order. Targets whose ID equals ignore are skipped
// so a shooter never hits itself.
func (a *Arena) Raycast(origin, dir Vec3, maxDist float64, targets []*Combatant, ignore CombatantID) (RayHit, bool) {
	if maxDist <= 0 {
		return RayHit{}, false
	}
	end := origin.Add(dir.Scale(maxDist))

	best := RayHit{Distance: math.Inf(1)}
	found := false
	consider := func(h RayHit) {
		if h.Distance < best.Distance {
			best = h
			found = true
		}
	}

	for i, c := range a.Covers {
		lo, hi := c.Bounds()
		if t, ok := segmentAABBHitT(origin, end, lo, hi); ok {
			consider(RayHit{Kind: ObjectCover, Distance: t * maxDist, CoverIndex: i})
		}
	}
	for _, s := range a.surfaces {
		if t, ok := segmentAABBHitT(origin, end, s.lo, s.hi); ok {
			consider(RayHit{Kind: ObjectArena, Distance: t * maxDist, Surface: s.name})
		}
	}
	for _, tgt := range targets {
		if tgt == nil || tgt.ID == ignore || !tgt.Alive {
			continue
		}
		for _, r := range tgt.HitRegions() {
			t, ok := r.intersect(origin, end)
			if !ok {
				continue
			}
			consider(RayHit{
				Kind:        ObjectHitbox,
				Distance:    t * maxDist,
				Target:      tgt.ID,
				Region:      r.Region,
				FixedDamage: r.FixedDamage,
			})
		}
	}

	if !found {
		return RayHit{}, false
	}
	best.Point = origin.Add(dir.Scale(best.Distance))
	return best, true
}

// HasLineOfSight returns true if the segment a→b is not interrupted by a
// cover box or an arena wall. The floor is ignored.
func (a *Arena) HasLineOfSight(from, to Vec3) bool {
	for _, c := range a.Covers {
		lo, hi := c.Bounds()
		if _, hit := segmentAABBHitT(from, to, lo, hi); hit {
			return false
		}
	}
	for _, s := range a.surfaces[1:] {
		if _, hit := segmentAABBHitT(from, to, s.lo, s.hi); hit {
			return false
		}
	}
	return true
}

// segmentAABBHitT returns the first segment parameter t in [0,1] where the
// segment o→e enters the box [lo,hi]. Degenerate (zero-thickness) boxes are
// valid, which is how the floor and walls are modelled.
func segmentAABBHitT(o, e, lo, hi Vec3) (float64, bool) {
	tMin, tMax := 0.0, 1.0
	axes := [3][4]float64{
		{o.X, e.X - o.X, lo.X, hi.X},
		{o.Y, e.Y - o.Y, lo.Y, hi.Y},
		{o.Z, e.Z - o.Z, lo.Z, hi.Z},
	}
	for _, ax := range axes {
		start, d, mn, mx := ax[0], ax[1], ax[2], ax[3]
		if math.Abs(d) < 1e-12 {
			if start < mn || start > mx {
				return 0, false
			}
			continue
		}
		inv := 1.0 / d
		t1 := (mn - start) * inv
		t2 := (mx - start) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// segmentSphereHitT returns the first segment parameter t in [0,1] where the
// segment o→e enters the sphere. A segment starting inside reports t=0.
func segmentSphereHitT(o, e, centre Vec3, radius float64) (float64, bool) {
	d := e.Sub(o)
	f := o.Sub(centre)
	a := d.Dot(d)
	c := f.Dot(f) - radius*radius
	if c <= 0 {
		return 0, true
	}
	if a < 1e-12 {
		return 0, false
	}
	b := 2 * f.Dot(d)
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}
