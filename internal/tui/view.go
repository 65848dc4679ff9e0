package tui

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/totemfall/internal/crate"
	"github.com/Faultbox/totemfall/internal/enemy"
	"github.com/Faultbox/totemfall/internal/match"
	"github.com/Faultbox/totemfall/pkg/math"
)

const (
	mapTop   = 2
	barWidth = 10
)

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHealth  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleLoot    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleAngry   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleFlash   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleTotem   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleLit     = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleCrate   = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleBullet  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleOutcome = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite).Bold(true)
)

var headings = []rune("↑↖←↙↓↘→↗")

// View draws a session as a top-down map and implements collab.HUD.
type View struct {
	screen tcell.Screen
	scale  float32 // world units per column; rows cover twice as much

	health   float32
	score    int
	loot     string
	lootDesc string
	lit      int
	total    int
	ended    bool
	victory  bool
}

// NewView creates a view on screen. scale <= 0 picks 4 units per column.
func NewView(screen tcell.Screen, scale float32) *View {
	if scale <= 0 {
		scale = 4
	}
	return &View{screen: screen, scale: scale, health: 1}
}

func (v *View) Health(fraction float32) { v.health = fraction }
func (v *View) Score(score int) { v.score = score }

func (v *View) Loot(name, description string) {
	v.loot, v.lootDesc = name, description
}

func (v *View) DismissLoot() {
	v.loot, v.lootDesc = "", ""
}

func (v *View) Totems(lit, total int) {
	v.lit, v.total = lit, total
}

func (v *View) Ended(victory bool) {
	v.ended, v.victory = true, victory
}

// Draw renders s and shows the frame.
func (v *View) Draw(s *match.Session) {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w <= 0 || h <= mapTop {
		return
	}

	v.drawStatus(s, w)
	if v.loot != "" {
		v.text(0, 1, fmt.Sprintf("Looted %s: %s", v.loot, v.lootDesc), styleLoot)
	}

	p := s.Player
	center := p.Position
	grid := mapGrid{w: w, h: h, scale: v.scale, center: center}

	half := s.Terrain().Size / 2
	for row := mapTop; row < h; row++ {
		for col := range w {
			x, z := grid.world(col, row)
			if gomath.Abs(float64(x)) > float64(half) || gomath.Abs(float64(z)) > float64(half) {
				v.screen.SetContent(col, row, '#', nil, styleBorder)
			}
		}
	}

	for _, c := range s.Crates.Crates() {
		v.put(grid, c.Position, crateRune(c), styleCrate)
	}
	for _, t := range s.Totems.Totems() {
		if t.Lit {
			v.put(grid, t.Position, '*', styleLit)
		} else {
			v.put(grid, t.Position, 'T', styleTotem)
		}
		for _, e := range t.Spawner.Enemies() {
			v.put(grid, e.Position, enemyRune(e), enemyStyle(e))
		}
	}
	for _, b := range s.Weapons.Projectiles() {
		v.put(grid, b.Position, '.', styleBullet)
	}

	v.put(grid, center, '@', stylePlayer)
	v.put(grid, center.Add(p.Orientation().Forward().Flat().Normalize().Scale(v.scale*2)), heading(p.Yaw), stylePlayer)

	if v.ended {
		msg := " DEFEAT "
		if v.victory {
			msg = " VICTORY "
		}
		v.text((w-len(msg))/2, mapTop+(h-mapTop)/2-2, msg, styleOutcome)
	}
	v.screen.Show()
}

func (v *View) drawStatus(s *match.Session, w int) {
	filled := int(gomath.Round(float64(v.health) * barWidth))
	filled = min(max(filled, 0), barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	v.text(0, 0, bar, styleHealth)
	weapon := s.Weapons.Held().Name
	if s.Weapons.Aiming() {
		weapon += " (aim)"
	}
	status := fmt.Sprintf(" Score %d  Totems %d/%d  Level %d  %s", v.score, v.lit, v.total, s.Level(), weapon)
	v.text(barWidth, 0, status, styleHUD)
}

func (v *View) put(g mapGrid, p math.Vec3, r rune, style tcell.Style) {
	col, row, ok := g.cell(p)
	if !ok {
		return
	}
	v.screen.SetContent(col, row, r, nil, style)
}

func (v *View) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// mapGrid converts between screen cells and world XZ. Screen up is -Z.
type mapGrid struct {
	w, h   int
	scale  float32
	center math.Vec3
}

func (g mapGrid) origin() (int, int) {
	return g.w / 2, mapTop + (g.h-mapTop)/2
}

func (g mapGrid) cell(p math.Vec3) (col, row int, ok bool) {
	cx, cy := g.origin()
	col = cx + int(gomath.Round(float64((p.X-g.center.X)/g.scale)))
	row = cy + int(gomath.Round(float64((p.Z-g.center.Z)/(g.scale*2))))
	ok = col >= 0 && col < g.w && row >= mapTop && row < g.h
	return col, row, ok
}

func (g mapGrid) world(col, row int) (x, z float32) {
	cx, cy := g.origin()
	x = g.center.X + float32(col-cx)*g.scale
	z = g.center.Z + float32(row-cy)*g.scale*2
	return x, z
}

func crateRune(c *crate.Crate) rune {
	if c.Looted {
		return 'o'
	}
	switch c.Kind {
	case crate.Rare:
		return 'R'
	case crate.Active:
		return 'A'
	}
	return 'C'
}

func enemyRune(e *enemy.Enemy) rune {
	r := rune(e.Arch.Name[0])
	if e.Triggered {
		return r - 'a' + 'A'
	}
	return r
}

func enemyStyle(e *enemy.Enemy) tcell.Style {
	switch {
	case e.Flashing:
		return styleFlash
	case e.Triggered:
		return styleAngry
	}
	return styleEnemy
}

// heading picks the arrow closest to yaw.
func heading(yaw float32) rune {
	octant := int(gomath.Round(float64(yaw)/(gomath.Pi/4))) % len(headings)
	if octant < 0 {
		octant += len(headings)
	}
	return headings[octant]
}
