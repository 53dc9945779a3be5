package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/driftfield/internal/render"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas renders a raster two dots wide and four tall per terminal cell.
// Each cell takes the mean color of its lit dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]colorful.Color

	// Threshold is the brightness in [0, 1] a dot needs to light up.
	Threshold float64

	raster *render.Raster
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Threshold: 0.15}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid and the backing raster; content is dropped.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(w, 1), max(h, 1)
	c.Grid = make([][]rune, c.Height)
	c.Colors = make([][]colorful.Color, c.Height)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, c.Width)
		c.Colors[i] = make([]colorful.Color, c.Width)
	}
	c.raster = render.NewRaster(c.Width*2, c.Height*4)
	c.Clear()
}

// Raster is the dot-resolution surface drawn into before Rasterize.
func (c *Canvas) Raster() *render.Raster { return c.raster }

// Set lights the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = colorful.Color{}
		}
	}
}

// Rasterize rebuilds the dot grid from the raster.
func (c *Canvas) Rasterize() {
	c.Clear()
	img := c.raster.Image()
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			var sum colorful.Color
			lit := 0
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := col*2+dx, row*4+dy
					px, ok := colorful.MakeColor(opaque(img.RGBAAt(x, y)))
					if !ok || brightness(px) < c.Threshold {
						continue
					}
					c.Set(x, y)
					sum.R, sum.G, sum.B = sum.R+px.R, sum.G+px.G, sum.B+px.B
					lit++
				}
			}
			if lit > 0 {
				n := float64(lit)
				c.Colors[row][col] = colorful.Color{R: sum.R / n, G: sum.G / n, B: sum.B / n}
			}
		}
	}
}

// String renders the grid with one foreground color per run of equally
// colored cells.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		var run strings.Builder
		runHex := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runHex == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runHex)).Render(run.String()))
			}
			run.Reset()
		}
		for col, r := range c.Grid[row] {
			hex := ""
			if r != blank {
				hex = brighten(c.Colors[row][col]).Hex()
			}
			if hex != runHex {
				flush()
				runHex = hex
			}
			run.WriteRune(r)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}

func brightness(c colorful.Color) float64 {
	return max(c.R, c.G, c.B)
}

// brighten maps HSV value v to 0.5 + v/2.
func brighten(c colorful.Color) colorful.Color {
	h, s, v := c.Hsv()
	return colorful.Hsv(h, s, 0.5+v/2)
}
