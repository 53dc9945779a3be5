package field

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrPalette is returned for an empty palette or an unparsable color token.
var ErrPalette = errors.New("field: invalid palette")

// DefaultColors are the saturated hues particles are drawn from.
var DefaultColors = []string{
	"#00FFFF", "#FF00FF", "#FFFF00", "#00FF00", "#FF0080", "#8000FF",
	"#FF4000", "#0080FF", "#FF8000", "#80FF00", "#0040FF", "#FF0040",
}

type Palette struct {
	tokens []string
	colors []color.NRGBA
}

func NewPalette(tokens []string) (*Palette, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no colors", ErrPalette)
	}
	p := &Palette{
		tokens: make([]string, len(tokens)),
		colors: make([]color.NRGBA, len(tokens)),
	}
	for i, tok := range tokens {
		c, err := colorful.Hex(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrPalette, tok, err)
		}
		r, g, b := c.RGB255()
		p.tokens[i] = tok
		p.colors[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return p, nil
}

// MustPalette is NewPalette for compile-time constant token lists.
func MustPalette(tokens []string) *Palette {
	p, err := NewPalette(tokens)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Palette) Len() int                { return len(p.tokens) }
func (p *Palette) Token(i int) string      { return p.tokens[i] }
func (p *Palette) Color(i int) color.NRGBA { return p.colors[i] }
