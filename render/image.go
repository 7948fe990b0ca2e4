package render

import (
	"image"
	"image/png"
	"io"
	"math"
)

// ImageSurface is an in-memory RGBA surface for headless rendering and snapshots
type ImageSurface struct {
	img *image.RGBA
}

// NewImageSurface creates a width x height surface filled with bg
func NewImageSurface(width, height int, bg RGB) *ImageSurface {
	s := &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
	s.Fade(bg, 1)
	return s
}

// At returns the pixel color at (x, y)
func (s *ImageSurface) At(x, y int) RGB {
	c := s.img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// WritePNG encodes the current frame
func (s *ImageSurface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

func (s *ImageSurface) blendAt(x, y int, c RGB, alpha float64) {
	if !(image.Point{X: x, Y: y}).In(s.img.Rect) {
		return
	}
	s.img.SetRGBA(x, y, Blend(s.At(x, y), c, alpha).RGBA())
}

// Size returns the image dimensions in pixels
func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Available reports a non-empty image
func (s *ImageSurface) Available() bool {
	return !s.img.Rect.Empty()
}

// Fade blends every pixel toward bg
func (s *ImageSurface) Fade(bg RGB, alpha float64) {
	b := s.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s.blendAt(x, y, bg, alpha)
		}
	}
}

// FillCircle paints an opaque disc
func (s *ImageSurface) FillCircle(x, y, radius float64, c RGB) {
	x0 := int(math.Floor(x - radius))
	x1 := int(math.Ceil(x + radius))
	y0 := int(math.Floor(y - radius))
	y1 := int(math.Ceil(y + radius))
	r2 := radius * radius
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - x
			dy := float64(py) + 0.5 - y
			if dx*dx+dy*dy <= r2 {
				s.blendAt(px, py, c, 1)
			}
		}
	}
}

// Line blends c along a Bresenham segment
func (s *ImageSurface) Line(x0, y0, x1, y1 float64, c RGB, alpha float64) {
	if alpha <= 0 {
		return
	}
	walkLine(int(x0), int(y0), int(x1), int(y1), func(x, y int) {
		s.blendAt(x, y, c, alpha)
	})
}
