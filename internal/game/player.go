package game

import "math"

const (
	playerMoveSpeed = 8.0  // speed cap, world units per second
	playerAccelMul  = 10.0 // acceleration is playerMoveSpeed*this per second
	playerFriction  = 10.0 // fraction of velocity shed per second
	playerBound     = 20.0 // |x| and |z| clamp
	playerEyeHeight = 1.7
	playerMaxPitch  = math.Pi/2 - 0.01
)

// MoveIntent is the directional input for one tick.
type MoveIntent struct {
	Forward, Backward, Left, Right bool
}

// PlayerController turns directional intent and look angles into an eye
// position. Yaw 0 looks down -Z, towards the back wall.
type PlayerController struct {
	Position Vec3
	Velocity Vec3
	Yaw      float64 // radians, positive turns left
	Pitch    float64 // radians, positive looks up
}

// NewPlayerController places the eye at spawn, standing still.
func NewPlayerController(spawn Vec3) *PlayerController {
	spawn.Y = playerEyeHeight
	return &PlayerController{Position: spawn}
}

// Forward is the horizontal look direction.
func (pc *PlayerController) Forward() Vec3 {
	return Vec3{X: -math.Sin(pc.Yaw), Z: -math.Cos(pc.Yaw)}
}

// Right is the horizontal direction 90° clockwise of Forward.
func (pc *PlayerController) Right() Vec3 {
	r, _ := pc.Forward().Cross(Up).Normalize()
	return r
}

// Aim is the full look direction including pitch.
func (pc *PlayerController) Aim() Vec3 {
	cp := math.Cos(pc.Pitch)
	return Vec3{
		X: -math.Sin(pc.Yaw) * cp,
		Y: math.Sin(pc.Pitch),
		Z: -math.Cos(pc.Yaw) * cp,
	}
}

// Look adds yaw and pitch deltas, clamping pitch short of straight up/down.
func (pc *PlayerController) Look(dYaw, dPitch float64) {
	pc.Yaw = math.Remainder(pc.Yaw+dYaw, 2*math.Pi)
	pc.Pitch = math.Max(-playerMaxPitch, math.Min(playerMaxPitch, pc.Pitch+dPitch))
}

// Update integrates one tick of movement: accelerate along the intent,
// apply friction, cap speed, then move and clamp to the play area.
func (pc *PlayerController) Update(dt float64, in MoveIntent) {
	if dt <= 0 {
		return
	}
	fwd, right := pc.Forward(), pc.Right()
	var dir Vec3
	if in.Forward {
		dir = dir.Add(fwd)
	}
	if in.Backward {
		dir = dir.Sub(fwd)
	}
	if in.Right {
		dir = dir.Add(right)
	}
	if in.Left {
		dir = dir.Sub(right)
	}
	if d, ok := dir.Normalize(); ok {
		pc.Velocity = pc.Velocity.Add(d.Scale(playerMoveSpeed * dt * playerAccelMul))
	}

	pc.Velocity = pc.Velocity.Scale(math.Max(0, 1-playerFriction*dt))
	if pc.Velocity.Len() > playerMoveSpeed {
		v, _ := pc.Velocity.Normalize()
		pc.Velocity = v.Scale(playerMoveSpeed)
	}

	p := pc.Position.Add(pc.Velocity.Scale(dt))
	p.X = math.Max(-playerBound, math.Min(playerBound, p.X))
	p.Z = math.Max(-playerBound, math.Min(playerBound, p.Z))
	p.Y = playerEyeHeight
	pc.Position = p
}

// Reset puts the controller back at spawn facing -Z.
func (pc *PlayerController) Reset(spawn Vec3) {
	*pc = *NewPlayerController(spawn)
}
