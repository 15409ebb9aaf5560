package tui

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/zataralive/seraph-ultimo-login/internal/affinity"
	"github.com/zataralive/seraph-ultimo-login/internal/core"
	"github.com/zataralive/seraph-ultimo-login/internal/sim"
	"github.com/zataralive/seraph-ultimo-login/internal/world"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorPink:          lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
	core.ColorViolet:        lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
}

// themeColors tints the arena by the run's visual theme.
var themeColors = map[affinity.Affinity]core.Color{
	affinity.Vinganca:       core.ColorRed,
	affinity.Intelecto:      core.ColorCyan,
	affinity.Abismo:         core.ColorViolet,
	affinity.Carne:          core.ColorPink,
	affinity.Esperanca:      core.ColorYellow,
	affinity.Absurdo:        core.ColorMagenta,
	affinity.Transcendencia: core.ColorBrightWhite,
}

// ThemeColor returns the arena color of a theme. No theme is gray.
func ThemeColor(a affinity.Affinity) core.Color {
	if c, ok := themeColors[a]; ok {
		return c
	}
	return core.ColorGray
}

// lipglossColor returns the terminal color behind a core.Color.
func lipglossColor(c core.Color) lipgloss.TerminalColor {
	style, ok := colorStyles[c]
	if !ok {
		return lipgloss.NoColor{}
	}
	return style.GetForeground()
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// hudRows is the number of screen rows above the arena.
const hudRows = 1

// Arena maps world coordinates onto the screen rows below the HUD.
type Arena struct {
	Cols, Rows     int
	WorldW, WorldH float64
}

// NewArena fits a world of w x h into a screen of cols x rows.
func NewArena(cols, rows int, w, h float64) Arena {
	return Arena{Cols: max(cols, 1), Rows: max(rows-hudRows, 1), WorldW: w, WorldH: h}
}

// Cell returns the screen cell of a world point.
func (a Arena) Cell(p core.Vec) (x, y int) {
	x = int(math.Floor(p.X / a.WorldW * float64(a.Cols)))
	y = int(math.Floor(p.Y/a.WorldH*float64(a.Rows))) + hudRows
	return x, y
}

// World returns the world point at the center of a screen cell.
func (a Arena) World(x, y int) core.Vec {
	return core.Vec{
		X: (float64(x) + 0.5) * a.WorldW / float64(a.Cols),
		Y: (float64(y-hudRows) + 0.5) * a.WorldH / float64(a.Rows),
	}
}

// span returns the cells covered by a world box. Every box covers at least one cell.
func (a Arena) span(b world.Box) (x, y, w, h int) {
	x, y = a.Cell(core.Vec{X: b.X, Y: b.Y})
	x2, y2 := a.Cell(core.Vec{X: b.X + b.W, Y: b.Y + b.H})
	return x, y, max(x2-x, 1), max(y2-y, 1)
}

func (a Arena) fill(s *core.Screen, b world.Box, r rune, c core.Color) {
	x, y, w, h := a.span(b)
	s.FillArea(x, y, w, h, r, c)
}

func (a Arena) dot(s *core.Screen, b world.Box, r rune, c core.Color) {
	x, y := a.Cell(b.Rect().Center())
	s.SetCell(x, y, r, c)
}

// DrawSnapshot draws the arena and the HUD of a run.
func DrawSnapshot(s *core.Screen, snap sim.Snapshot) {
	s.Clear()
	v := snap.World
	a := NewArena(s.Width(), s.Height(), v.Width, v.Height)
	theme := ThemeColor(snap.Theme)

	for _, p := range v.Platforms {
		a.fill(s, p, '▀', theme)
	}
	for _, c := range v.Collectibles {
		switch c.Kind {
		case world.CollectHeal:
			a.dot(s, c.Box, '♥', core.ColorBrightGreen)
		default:
			a.dot(s, c.Box, '◆', core.ColorViolet)
		}
	}
	for _, e := range v.Enemies {
		r, c := enemyGlyph(e)
		a.fill(s, e.Box, r, c)
	}
	drawPlayer(s, a, v)
	for _, p := range v.Projectiles {
		r, c := projectileGlyph(p)
		a.dot(s, p.Box, r, c)
	}
	for _, fx := range v.Effects {
		drawEffect(s, a, fx)
	}
	drawHUD(s, snap)
}

func drawPlayer(s *core.Screen, a Arena, v world.View) {
	p := v.Player
	color := core.ColorBrightCyan
	switch {
	case p.Ethereal:
		color = core.ColorGray
	case p.Invulnerable && int(v.Now/100)%2 == 0:
		color = core.ColorWhite
	case p.Shielded:
		color = core.ColorBrightBlue
	}
	a.fill(s, p.Box, '@', color)
	for _, w := range p.Wisps {
		a.dot(s, w, 'o', core.ColorCyan)
	}
	for _, m := range p.Minions {
		a.dot(s, m, 'm', core.ColorGreen)
	}
}

// enemyGlyph picks the letter and color of an enemy from its archetype and status.
func enemyGlyph(e world.EnemyView) (rune, core.Color) {
	r, _ := utf8.DecodeRuneInString(e.Archetype)
	if r == utf8.RuneError {
		r = 'e'
	}
	color := core.ColorRed
	if e.Boss {
		r = unicode.ToUpper(r)
		color = core.ColorBrightRed
	}
	switch {
	case e.Charging:
		color = core.ColorOrange
	case e.Feared:
		color = core.ColorYellow
	case e.Confused:
		color = core.ColorMagenta
	case e.Buffed:
		color = core.ColorBrightBlue
	case e.Bleeding:
		color = core.ColorPink
	}
	return r, color
}

func projectileGlyph(p world.ProjectileView) (rune, core.Color) {
	if p.Kind == world.KindThunderbolt.String() {
		return '|', core.ColorBrightYellow
	}
	switch p.Owner {
	case world.OwnerEnemy:
		return '•', core.ColorRed
	case world.OwnerNeutral:
		return '+', core.ColorOrange
	case world.OwnerMinion:
		return '·', core.ColorGreen
	case world.OwnerConverted:
		return '*', core.ColorMagenta
	}
	return '*', core.ColorBrightYellow
}

func drawEffect(s *core.Screen, a Arena, fx world.EffectView) {
	switch fx.Kind {
	case world.EffectThunderTelegraph:
		a.dot(s, fx.Box, '!', core.ColorYellow)
	case world.EffectSpark:
		a.dot(s, fx.Box, '✦', core.ColorOrange)
	case world.EffectDeath:
		a.dot(s, fx.Box, 'x', core.ColorGray)
	case world.EffectDashTelegraph:
		x, y, w, _ := a.span(fx.Box)
		s.DrawHLine(x, y, w, '-', core.ColorOrange)
	case world.EffectMessage:
		x, y := a.Cell(fx.Box.Rect().Center())
		n := len([]rune(fx.Text))
		s.DrawText(x-n/2, max(y, hudRows), fx.Text, core.ColorBrightWhite)
	}
}

// hpBarWidth is the number of cells of the HUD health bar.
const hpBarWidth = 10

// HPBar renders hp out of maxHP as a fixed-width bar.
func HPBar(hp, maxHP float64) string {
	filled := 0
	if maxHP > 0 {
		filled = int(math.Round(core.ClampF(hp/maxHP, 0, 1) * hpBarWidth))
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", hpBarWidth-filled)
}

func drawHUD(s *core.Screen, snap sim.Snapshot) {
	p := snap.World.Player
	hpColor := core.ColorBrightGreen
	if p.MaxHP > 0 && p.HP/p.MaxHP < 0.3 {
		hpColor = core.ColorBrightRed
	}
	left := fmt.Sprintf("HP %s %d/%d", HPBar(p.HP, p.MaxHP), int(math.Ceil(p.HP)), int(p.MaxHP))
	s.DrawText(0, 0, left, hpColor)

	x := len([]rune(left)) + 2
	score := fmt.Sprintf("Pontos %d", snap.Score)
	s.DrawText(x, 0, score, core.ColorBrightYellow)
	x += len([]rune(score)) + 2

	title := snap.Title
	if snap.Theme != "" {
		title += " · " + snap.Theme.DisplayName()
	}
	s.DrawText(x, 0, title, ThemeColor(snap.Theme))

	if snap.Paused {
		s.DrawTextCentered(s.Height()/2, " PAUSADO ", core.ColorBrightWhite)
	}
}
