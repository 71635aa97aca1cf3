package sprite

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// segmentsPerTurn controls how finely curves are flattened.
const segmentsPerTurn = 64

// Rasterizer renders FrameSpecs into RGBA images. The zero value is not usable;
// create one with NewRasterizer. It reuses its buffers and is not safe for
// concurrent use.
type Rasterizer struct {
	px    int
	scale float64
	img   *image.RGBA
	z     *vector.Rasterizer
}

// NewRasterizer creates a rasterizer producing px by px images.
func NewRasterizer(px int) *Rasterizer {
	if px <= 0 {
		px = DesignSize
	}
	return &Rasterizer{
		px:    px,
		scale: float64(px) / DesignSize,
		img:   image.NewRGBA(image.Rect(0, 0, px, px)),
		z:     vector.NewRasterizer(px, px),
	}
}

// Size returns the output edge length in pixels.
func (r *Rasterizer) Size() int {
	return r.px
}

// Render paints f onto a transparent background and returns the image. The
// image is overwritten by the next call.
func (r *Rasterizer) Render(f FrameSpec) *image.RGBA {
	clear(r.img.Pix)
	for _, s := range f.Shapes {
		r.z.Reset(r.px, r.px)
		switch {
		case s.Kind == ShapeEllipse && s.StrokeWidth == 0:
			r.ellipsePath(s)
		default:
			sweep := s.SweepDeg
			if s.Kind == ShapeEllipse {
				sweep = 360
			}
			r.strokePath(s, sweep)
		}
		r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(s.Color), image.Point{})
	}
	return r.img
}

func (r *Rasterizer) point(s Shape, rx, ry, deg float64) (float32, float32) {
	a := deg * math.Pi / 180
	x := (s.Center.X + rx*math.Cos(a)) * r.scale
	y := (s.Center.Y + ry*math.Sin(a)) * r.scale
	return float32(x), float32(y)
}

func (r *Rasterizer) ellipsePath(s Shape) {
	r.z.MoveTo(r.point(s, s.RadiusX, s.RadiusY, 0))
	for i := 1; i < segmentsPerTurn; i++ {
		r.z.LineTo(r.point(s, s.RadiusX, s.RadiusY, float64(i)*360/segmentsPerTurn))
	}
	r.z.ClosePath()
}

// strokePath outlines a band of StrokeWidth around the arc: out along the outer
// edge, back along the inner edge.
func (r *Rasterizer) strokePath(s Shape, sweep float64) {
	half := s.StrokeWidth / 2
	if half <= 0 {
		half = 0.5
	}
	n := int(math.Ceil(math.Abs(sweep) / 360 * segmentsPerTurn))
	if n < 2 {
		n = 2
	}
	step := sweep / float64(n)

	r.z.MoveTo(r.point(s, s.RadiusX+half, s.RadiusY+half, s.StartDeg))
	for i := 1; i <= n; i++ {
		r.z.LineTo(r.point(s, s.RadiusX+half, s.RadiusY+half, s.StartDeg+float64(i)*step))
	}
	for i := n; i >= 0; i-- {
		r.z.LineTo(r.point(s, s.RadiusX-half, s.RadiusY-half, s.StartDeg+float64(i)*step))
	}
	r.z.ClosePath()
}

// Straight converts a rendered, premultiplied pixel to straight alpha for
// targets that blend with straight alpha.
func Straight(c color.RGBA) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
