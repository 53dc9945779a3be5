package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/san-kum/driftfield/internal/field"
	"golang.org/x/image/vector"
)

// circleK places cubic control points so four curves approximate a circle.
const circleK = 0.5522847498

// Raster is an in-memory Surface backed by an RGBA image. Shapes are
// anti-aliased through a coverage rasterizer sized to each shape's bounds.
type Raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

func NewRaster(w, h int) *Raster {
	r := &Raster{z: vector.NewRasterizer(1, 1)}
	r.Resize(w, h)
	return r
}

// Context lets a Raster act as its own drawing target.
func (r *Raster) Context() (Surface, error) { return r, nil }

// Resize reallocates the image; previous content is dropped.
func (r *Raster) Resize(w, h int) {
	r.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Clear(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *Raster) FillRect(rc Rect, c color.NRGBA) {
	r.fill(rectBounds(rc), image.NewUniform(c), func(ox, oy float32) {
		rectPath(r.z, rc, ox, oy)
	})
}

func (r *Raster) FillRectRadial(rc Rect, g Radial) {
	r.fill(rectBounds(rc), radialImage{g}, func(ox, oy float32) {
		rectPath(r.z, rc, ox, oy)
	})
}

func (r *Raster) FillCircle(center field.Vec2, radius float64, c color.NRGBA) {
	if radius <= 0 || c.A == 0 {
		return
	}
	r.fill(circleBounds(center, radius), image.NewUniform(c), func(ox, oy float32) {
		circlePath(r.z, float32(center.X)-ox, float32(center.Y)-oy, float32(radius))
	})
}

func (r *Raster) FillCircleRadial(g Radial) {
	if g.Radius <= 0 {
		return
	}
	r.fill(circleBounds(g.Center, g.Radius), radialImage{g}, func(ox, oy float32) {
		circlePath(r.z, float32(g.Center.X)-ox, float32(g.Center.Y)-oy, float32(g.Radius))
	})
}

func (r *Raster) StrokeLine(a, b field.Vec2, width float64, c color.NRGBA) {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 || width <= 0 || c.A == 0 {
		return
	}
	n := field.Vec2{X: -d.Y / l, Y: d.X / l}.Scale(width / 2)
	quad := [4]field.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, q := range quad {
		minX, maxX = math.Min(minX, q.X), math.Max(maxX, q.X)
		minY, maxY = math.Min(minY, q.Y), math.Max(maxY, q.Y)
	}
	bounds := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)

	r.fill(bounds, image.NewUniform(c), func(ox, oy float32) {
		r.z.MoveTo(float32(quad[0].X)-ox, float32(quad[0].Y)-oy)
		for _, q := range quad[1:] {
			r.z.LineTo(float32(q.X)-ox, float32(q.Y)-oy)
		}
		r.z.ClosePath()
	})
}

// fill rasterizes the path built by path, translated so bounds.Min is the
// rasterizer origin, and composites src through it.
func (r *Raster) fill(bounds image.Rectangle, src image.Image, path func(ox, oy float32)) {
	b := bounds.Intersect(r.img.Bounds())
	if b.Empty() {
		return
	}
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
	path(float32(b.Min.X), float32(b.Min.Y))
	r.z.Draw(r.img, b, src, b.Min)
}

func rectPath(z *vector.Rasterizer, rc Rect, ox, oy float32) {
	x0, y0 := float32(rc.X)-ox, float32(rc.Y)-oy
	x1, y1 := x0+float32(rc.W), y0+float32(rc.H)
	z.MoveTo(x0, y0)
	z.LineTo(x1, y0)
	z.LineTo(x1, y1)
	z.LineTo(x0, y1)
	z.ClosePath()
}

func circlePath(z *vector.Rasterizer, cx, cy, rad float32) {
	k := circleK * rad
	z.MoveTo(cx+rad, cy)
	z.CubeTo(cx+rad, cy+k, cx+k, cy+rad, cx, cy+rad)
	z.CubeTo(cx-k, cy+rad, cx-rad, cy+k, cx-rad, cy)
	z.CubeTo(cx-rad, cy-k, cx-k, cy-rad, cx, cy-rad)
	z.CubeTo(cx+k, cy-rad, cx+rad, cy-k, cx+rad, cy)
	z.ClosePath()
}

func rectBounds(rc Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(rc.X)), int(math.Floor(rc.Y)),
		int(math.Ceil(rc.X+rc.W)), int(math.Ceil(rc.Y+rc.H)),
	)
}

func circleBounds(c field.Vec2, radius float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(c.X-radius)), int(math.Floor(c.Y-radius)),
		int(math.Ceil(c.X+radius))+1, int(math.Ceil(c.Y+radius))+1,
	)
}

// radialImage evaluates a Radial at pixel centers in surface coordinates.
type radialImage struct {
	g Radial
}

func (ri radialImage) ColorModel() color.Model { return color.NRGBAModel }

func (ri radialImage) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (ri radialImage) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-ri.g.Center.X, float64(y)+0.5-ri.g.Center.Y)
	return ri.g.At(d)
}
