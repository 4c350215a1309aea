package view

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Combat-Trainer/internal/game"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// The visible slice of the arena, in world units. X spans the side walls and
// Z runs from the back wall (top of the screen) to behind the player spawn.
const (
	viewMinX   = -22.0
	viewMaxX   = 22.0
	viewMinZ   = -42.0
	viewMaxZ   = 22.0
	pxPerUnit  = 12.0
	fieldWidth = int((viewMaxX - viewMinX) * pxPerUnit)
	fieldHigh  = int((viewMaxZ - viewMinZ) * pxPerUnit)

	screenWidth  = borderWidth + fieldWidth + borderWidth + feedPanelWidth
	screenHeight = borderWidth + fieldHigh + borderWidth
)

var (
	colorText     = color.RGBA{R: 220, G: 230, B: 220, A: 255}
	colorGround   = color.RGBA{R: 28, G: 42, B: 28, A: 255}
	colorGrid     = color.RGBA{R: 40, G: 58, B: 40, A: 255}
	colorWall     = color.RGBA{R: 110, G: 110, B: 100, A: 255}
	colorCover    = color.RGBA{R: 120, G: 95, B: 60, A: 255}
	colorCoverTop = color.RGBA{R: 160, G: 130, B: 85, A: 255}
	colorPlayer   = color.RGBA{R: 70, G: 140, B: 255, A: 255}
	colorEnemy    = color.RGBA{R: 210, G: 70, B: 70, A: 255}
	colorNeutral  = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// worldToScreen maps a world position to window pixels (top-down, -Z up).
func worldToScreen(p game.Vec3) (float32, float32) {
	x := borderWidth + (p.X-viewMinX)*pxPerUnit
	y := borderWidth + (p.Z-viewMinZ)*pxPerUnit
	return float32(x), float32(y)
}

// screenToWorld is the inverse of worldToScreen on the floor plane.
func screenToWorld(x, y int) game.Vec3 {
	return game.Vec3{
		X: float64(x-borderWidth)/pxPerUnit + viewMinX,
		Z: float64(y-borderWidth)/pxPerUnit + viewMinZ,
	}
}

func insideField(x, y int) bool {
	return x >= borderWidth && x < borderWidth+fieldWidth && y >= borderWidth && y < borderWidth+fieldHigh
}

// stateColor is the enemy marker colour for each AI state.
func stateColor(s game.AIState) color.RGBA {
	switch s {
	case game.AIDead:
		return color.RGBA{A: 255}
	case game.AIShooting:
		return color.RGBA{R: 255, A: 255}
	case game.AITakingCover:
		return color.RGBA{B: 255, A: 255}
	case game.AIFlanking:
		return color.RGBA{R: 255, B: 255, A: 255}
	case game.AISeeking:
		return color.RGBA{R: 255, G: 255, A: 255}
	case game.AIPatrolling:
		return color.RGBA{G: 255, A: 255}
	default:
		return colorNeutral
	}
}

func actorColor(id game.CombatantID) color.RGBA {
	switch id {
	case game.PlayerID:
		return colorPlayer
	case game.EnemyID:
		return colorEnemy
	default:
		return colorNeutral
	}
}

func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	v.drawArena(screen)
	v.drawCombatants(screen)
	v.drawProjectiles(screen)

	ox, oy := float32(borderWidth), float32(borderWidth)
	vector.StrokeRect(screen, ox-1, oy-1, float32(fieldWidth)+2, float32(fieldHigh)+2, 2.0, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	v.feed.Draw(screen, v.face, borderWidth+fieldWidth+borderWidth, screenHeight)
	if v.showHUD {
		v.drawHUD(screen)
	}
	if v.session.Ended() {
		v.drawEndCard(screen)
	}
}

func (v *Viewer) drawArena(screen *ebiten.Image) {
	x0, y0 := worldToScreen(game.Vec3{X: viewMinX, Z: viewMinZ})
	vector.FillRect(screen, x0, y0, float32(fieldWidth), float32(fieldHigh), colorGround, false)

	// 5-unit grid.
	for x := math.Ceil(viewMinX/5) * 5; x <= viewMaxX; x += 5 {
		a, b := worldToScreen(game.Vec3{X: x, Z: viewMinZ})
		_, d := worldToScreen(game.Vec3{X: x, Z: viewMaxZ})
		vector.StrokeLine(screen, a, b, a, d, 1, colorGrid, false)
	}
	for z := math.Ceil(viewMinZ/5) * 5; z <= viewMaxZ; z += 5 {
		a, b := worldToScreen(game.Vec3{X: viewMinX, Z: z})
		c, _ := worldToScreen(game.Vec3{X: viewMaxX, Z: z})
		vector.StrokeLine(screen, a, b, c, b, 1, colorGrid, false)
	}

	// Back wall and side walls.
	bl, bt := worldToScreen(game.Vec3{X: -20, Z: -40})
	br, _ := worldToScreen(game.Vec3{X: 20, Z: -40})
	_, bb := worldToScreen(game.Vec3{X: 20, Z: viewMaxZ})
	vector.StrokeLine(screen, bl, bt, br, bt, 3, colorWall, false)
	vector.StrokeLine(screen, bl, bt, bl, bb, 3, colorWall, false)
	vector.StrokeLine(screen, br, bt, br, bb, 3, colorWall, false)

	for _, c := range v.session.Arena().Covers {
		cx, cy := worldToScreen(c.Center.Sub(c.HalfExtents))
		w := float32(2 * c.HalfExtents.X * pxPerUnit)
		h := float32(2 * c.HalfExtents.Z * pxPerUnit)
		vector.FillRect(screen, cx, cy, w, h, colorCover, false)
		vector.StrokeRect(screen, cx, cy, w, h, 1, colorCoverTop, false)
	}
}

func (v *Viewer) drawCombatants(screen *ebiten.Image) {
	// Player: body disc plus aim ray.
	p := v.last.Player
	px, py := worldToScreen(p.Position)
	if p.Alive {
		vector.FillCircle(screen, px, py, 6, colorPlayer, true)
		aim := v.player.Aim()
		ex, ey := worldToScreen(p.Position.Add(game.Vec3{X: aim.X, Z: aim.Z}.Scale(3)))
		vector.StrokeLine(screen, px, py, ex, ey, 1, color.RGBA{R: 255, G: 255, B: 255, A: 160}, true)
	} else {
		ebitenutil.DrawLine(screen, float64(px-5), float64(py-5), float64(px+5), float64(py+5), colorNeutral)
		ebitenutil.DrawLine(screen, float64(px+5), float64(py-5), float64(px-5), float64(py+5), colorNeutral)
	}

	// Enemy: state-coloured disc ringed in red, facing tick.
	agent := v.session.AI()
	e := v.last.Enemy
	if p.Alive && e.Alive {
		from, to, clear := sightLine(v.session)
		if clear {
			sx, sy := worldToScreen(from)
			tx, ty := worldToScreen(to)
			vector.StrokeLine(screen, sx, sy, tx, ty, 1, color.RGBA{R: 255, G: 90, B: 90, A: 90}, true)
		}
	}
	ex, ey := worldToScreen(e.Position)
	vector.FillCircle(screen, ex, ey, 7, stateColor(v.last.AIState), true)
	vector.StrokeCircle(screen, ex, ey, 8, 1.5, colorEnemy, true)
	if e.Alive {
		fx, fy := worldToScreen(e.Position.Add(game.Vec3{X: math.Sin(agent.Facing), Z: math.Cos(agent.Facing)}.Scale(1.5)))
		vector.StrokeLine(screen, ex, ey, fx, fy, 2, colorEnemy, true)
		hp := float32(e.Health / e.MaxHealth)
		vector.FillRect(screen, ex-10, ey-14, 20, 3, color.RGBA{R: 60, A: 255}, false)
		vector.FillRect(screen, ex-10, ey-14, 20*hp, 3, color.RGBA{G: 200, A: 255}, false)
	}
}

func (v *Viewer) drawProjectiles(screen *ebiten.Image) {
	for _, p := range v.last.Projectiles {
		x, y := worldToScreen(p.Position)
		clr := colorEnemy
		if p.FromPlayer {
			clr = colorPlayer
		}
		tx, ty := worldToScreen(p.Position.Sub(p.Direction.Scale(0.8)))
		vector.StrokeLine(screen, tx, ty, x, y, 2, clr, true)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	s := v.session
	sb := s.Scoreboard()
	p := v.last.Player

	lines := []string{
		fmt.Sprintf("%s  %.1fs left  x%.2g", s.Profile().Tier, v.last.Remaining, simSpeeds[v.speedIdx]),
		fmt.Sprintf("HP %.0f/%.0f", p.Health, p.MaxHealth),
		fmt.Sprintf("Score %d  Acc %.0f%%  HS %d", sb.Score, sb.Accuracy(), sb.Headshots),
		fmt.Sprintf("K/D %d/%d  AI %s", sb.Kills, sb.Deaths, v.last.AIState),
		losLine(v.session),
		fmt.Sprintf("pitch %+.0f°", v.player.Pitch*180/math.Pi),
	}
	if s.Paused() {
		lines = append(lines, "PAUSED")
	}
	if at, ok := s.PendingRespawn(game.PlayerID); ok {
		lines = append(lines, fmt.Sprintf("respawn in %.1fs", at-s.Now()))
	}
	if v.status != "" {
		lines = append(lines, v.status)
	}
	lines = append(lines, "[WASD] move [LMB] fire [Q/E] pitch", "[P] pause [R] restart [C] copy [,/.] speed")

	const lineH = 15
	bx, by := float32(borderWidth+6), float32(borderWidth+fieldHigh-len(lines)*lineH-10)
	vector.FillRect(screen, bx, by, 300, float32(len(lines)*lineH+6), color.RGBA{R: 6, G: 10, B: 6, A: 200}, false)
	vector.StrokeRect(screen, bx, by, 300, float32(len(lines)*lineH+6), 1, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, l := range lines {
		drawText(screen, v.face, l, int(bx)+6, int(by)+3+i*lineH, colorText)
	}

	if sb.HitMarkerVisible(s.Now()) {
		mx, my := ebiten.CursorPosition()
		x, y := float32(mx), float32(my)
		hit := color.RGBA{R: 255, G: 255, B: 255, A: 230}
		vector.StrokeLine(screen, x-8, y-8, x-3, y-3, 2, hit, true)
		vector.StrokeLine(screen, x+8, y-8, x+3, y-3, 2, hit, true)
		vector.StrokeLine(screen, x-8, y+8, x-3, y+3, 2, hit, true)
		vector.StrokeLine(screen, x+8, y+8, x+3, y+3, 2, hit, true)
	}
}

func losLine(s *game.Session) string {
	if _, _, clear := sightLine(s); clear {
		return "enemy LOS: clear"
	}
	return "enemy LOS: blocked"
}

func (v *Viewer) drawEndCard(screen *ebiten.Image) {
	sb := v.session.Scoreboard()
	out := game.DetermineSessionOutcome(&sb)

	w, h := float32(280), float32(90)
	x := float32(borderWidth) + (float32(fieldWidth)-w)/2
	y := float32(borderWidth) + (float32(fieldHigh)-h)/2
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 8, G: 10, B: 8, A: 235}, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{R: 120, G: 200, B: 255, A: 255}, false)

	drawText(screen, v.face, "SESSION OVER  "+out.Outcome.String(), int(x)+12, int(y)+10, colorText)
	drawText(screen, v.face, fmt.Sprintf("score %d  hits %d/%d  acc %.0f%%", sb.Score, sb.Hits, sb.Shots, sb.Accuracy()), int(x)+12, int(y)+32, colorText)
	drawText(screen, v.face, "[R] play again  [C] copy report", int(x)+12, int(y)+56, colorText)
}

// ScreenSize is the window size the viewer lays out for.
func ScreenSize() (int, int) {
	return screenWidth, screenHeight
}
