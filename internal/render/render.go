// Package render draws shapes into a core.Screen.
//
// One stage unit is one cell. A cell belongs to a shape when the cell's
// center lies inside the shape's outline, so circles come out as discs and
// fractional positions snap to the nearest covered cells.
package render

import (
	"math"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/shape"
)

// Block is the glyph used for filled and stroked cells.
const Block = '█'

// Draw paints shapes bottom-up by layer. Within a layer, earlier shapes are
// painted first. Transparent fills are skipped; strokes with a positive
// width outline the covered area.
func Draw(dst *core.Screen, shapes []*shape.Shape) {
	ordered := append([]*shape.Shape(nil), shapes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Layer() < ordered[j].Layer()
	})
	for _, s := range ordered {
		drawShape(dst, s)
	}
}

func drawShape(dst *core.Screen, s *shape.Shape) {
	b := s.Bounds()
	x0 := core.Clamp(int(math.Floor(b.X)), 0, dst.Width())
	y0 := core.Clamp(int(math.Floor(b.Y)), 0, dst.Height())
	x1 := core.Clamp(int(math.Ceil(b.Right())), 0, dst.Width())
	y1 := core.Clamp(int(math.Ceil(b.Bottom())), 0, dst.Height())

	covered := func(x, y int) bool {
		return s.ContainsPoint(core.C(float64(x)+0.5, float64(y)+0.5))
	}

	stroke := s.StrokeWidth() > 0 && s.StrokeColor() != core.ColorDefault
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !covered(x, y) {
				continue
			}
			if stroke && (!covered(x-1, y) || !covered(x+1, y) || !covered(x, y-1) || !covered(x, y+1)) {
				dst.SetCell(x, y, core.Cell{Rune: Block, Color: s.StrokeColor()})
				continue
			}
			if s.FillColor() != core.ColorDefault {
				dst.SetCell(x, y, core.Cell{Rune: Block, Color: s.FillColor()})
			}
		}
	}
}

var legend = map[core.Color]rune{
	core.ColorRed:           'r',
	core.ColorGreen:         'g',
	core.ColorYellow:        'y',
	core.ColorBlue:          'b',
	core.ColorMagenta:       'm',
	core.ColorCyan:          'c',
	core.ColorWhite:         'w',
	core.ColorBrightRed:     'R',
	core.ColorBrightGreen:   'G',
	core.ColorBrightYellow:  'Y',
	core.ColorBrightBlue:    'B',
	core.ColorBrightMagenta: 'M',
	core.ColorBrightCyan:    'C',
	core.ColorBrightWhite:   'W',
	core.ColorOrange:        'o',
	core.ColorGray:          'a',
	core.ColorGold:          'd',
	core.ColorSky:           's',
	core.ColorBrown:         'n',
}

// Legend prints the screen with one letter per block color, for logs,
// snapshots and golden tests. Empty cells print as '.', text as itself.
func Legend(s *core.Screen) string {
	var sb strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := range s.Width() {
			c := s.GetCell(x, y)
			switch {
			case c.Rune == Block:
				if r, ok := legend[c.Color]; ok {
					sb.WriteRune(r)
				} else {
					sb.WriteRune('?')
				}
			case c.Rune == ' ':
				sb.WriteRune('.')
			default:
				sb.WriteRune(c.Rune)
			}
		}
	}
	return sb.String()
}
