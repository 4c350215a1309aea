package game

// --- Arena constants ---

const (
	arenaHalfSize      = 25.0 // movement bounds: |x|,|z| beyond this are off the arena floor
	groundStandHeight  = 0.1  // standing height above the floor plane (keeps feet out of the mesh)
	coverRadius        = 1.5  // horizontal collision radius around a cover box centre
	coverStepTolerance = 0.2  // how far below the top face still counts as standing on it

	// Projectile flight bounds. Wider than the movement bounds so shots can
	// leave the floor area before being retired.
	flightHalfSize = 30.0
	flightMinY     = -5.0
	flightMaxY     = 20.0

	// Arena surfaces: floor plane, back wall and two side walls.
	floorHalfSize  = 50.0
	wallHeight     = 20.0
	backWallZ      = -40.0
	sideWallX      = 20.0
	wallHalfLength = 50.0
)

// CoverBox is a static obstacle. It blocks projectiles and line of sight, and
// its top face can be stood on.
type CoverBox struct {
	Center      Vec3
	HalfExtents Vec3
}

// Top returns the height of the box's top face.
func (c CoverBox) Top() float64 {
	return c.Center.Y + c.HalfExtents.Y
}

// Bounds returns the axis-aligned min/max corners of the box.
func (c CoverBox) Bounds() (lo, hi Vec3) {
	return c.Center.Sub(c.HalfExtents), c.Center.Add(c.HalfExtents)
}

// Valid reports whether the box has a usable, positive volume.
func (c CoverBox) Valid() bool {
	return c.HalfExtents.X > 0 && c.HalfExtents.Y > 0 && c.HalfExtents.Z > 0
}

// DefaultCovers returns the standard eight-box arena layout (2x2x1 boxes).
func DefaultCovers() []CoverBox {
	half := Vec3{X: 1, Y: 1, Z: 0.5}
	centres := []Vec3{
		{-10, 1, -10},
		{10, 1, -10},
		{-15, 1, 0},
		{15, 1, 0},
		{0, 1, -20},
		{-8, 1, 8},
		{8, 1, 8},
		{0, 1, 15},
	}
	out := make([]CoverBox, 0, len(centres))
	for _, c := range centres {
		out = append(out, CoverBox{Center: c, HalfExtents: half})
	}
	return out
}

// surface is a fixed arena boundary (floor or wall) used for projectile obstruction.
type surface struct {
	name   string
	lo, hi Vec3
}

// Arena holds the static geometry of a session. It has no mutable state: every
// method is a pure query.
type Arena struct {
	Covers   []CoverBox
	surfaces []surface
}

// NewArena builds an arena with the given cover layout. Invalid boxes are dropped.
func NewArena(covers []CoverBox) *Arena {
	kept := make([]CoverBox, 0, len(covers))
	for _, c := range covers {
		if c.Valid() {
			kept = append(kept, c)
		}
	}
	return &Arena{
		Covers: kept,
		surfaces: []surface{
			{name: "floor", lo: Vec3{-floorHalfSize, 0, -floorHalfSize}, hi: Vec3{floorHalfSize, 0, floorHalfSize}},
			{name: "back_wall", lo: Vec3{-wallHalfLength, 0, backWallZ}, hi: Vec3{wallHalfLength, wallHeight, backWallZ}},
			{name: "left_wall", lo: Vec3{-sideWallX, 0, -wallHalfLength}, hi: Vec3{-sideWallX, wallHeight, wallHalfLength}},
			{name: "right_wall", lo: Vec3{sideWallX, 0, -wallHalfLength}, hi: Vec3{sideWallX, wallHeight, wallHalfLength}},
		},
	}
}

// GroundHeight returns the height a standing combatant at pos clamps to, and
// whether pos is blocked. Blocked positions must not be moved into.
//
// Outside the arena bounds is always blocked. Within coverRadius of a cover box
// the position is blocked unless it is already above the box, in which case it
// snaps onto the top face. The first cover in list order decides.
func (a *Arena) GroundHeight(pos Vec3) (float64, bool) {
	if pos.X > arenaHalfSize || pos.X < -arenaHalfSize || pos.Z > arenaHalfSize || pos.Z < -arenaHalfSize {
		return groundStandHeight, true
	}
	for _, c := range a.Covers {
		if pos.DistXZ(c.Center) >= coverRadius {
			continue
		}
		if IsAboveCover(pos, c) {
			return c.Top(), false
		}
		return groundStandHeight, true
	}
	return groundStandHeight, false
}

// Blocked is shorthand for the blocked half of GroundHeight.
func (a *Arena) Blocked(pos Vec3) bool {
	_, blocked := a.GroundHeight(pos)
	return blocked
}

// IsAboveCover returns true when pos is at or above the cover's top face
// (within coverStepTolerance), i.e. the combatant can stand on it.
func IsAboveCover(pos Vec3, c CoverBox) bool {
	return pos.Y > c.Top()-coverStepTolerance
}

// NearestCover returns the cover whose centre is closest to from. Ties keep
// the earliest box in list order. The bool is false for an empty list.
func NearestCover(from Vec3, covers []CoverBox) (CoverBox, bool) {
	if len(covers) == 0 {
		return CoverBox{}, false
	}
	best := covers[0]
	bestDist := from.Dist(best.Center)
	for _, c := range covers[1:] {
		if d := from.Dist(c.Center); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, true
}

// InFlightBounds reports whether a projectile at pos is still inside the
// volume projectiles are simulated in.
func InFlightBounds(pos Vec3) bool {
	if pos.X > flightHalfSize || pos.X < -flightHalfSize {
		return false
	}
	if pos.Z > flightHalfSize || pos.Z < -flightHalfSize {
		return false
	}
	return pos.Y >= flightMinY && pos.Y <= flightMaxY
}
