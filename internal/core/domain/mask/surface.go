// Package mask implements the brush-driven mask editor: a raster at the source image's native
// resolution that is painted through a display transform while the image is shown at any scale.
package mask

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"unmark/internal/core/domain"

	"github.com/rs/zerolog/log"
)

type Tool int

const (
	Paint Tool = iota
	Erase
)

func (t Tool) String() string {
	if t == Erase {
		return "erase"
	}
	return "paint"
}

const (
	MinBrush     = 5
	MaxBrush     = 100
	DefaultBrush = 25
)

var (
	ErrNoImage       = errors.New("no image loaded")
	ErrLayoutPending = errors.New("display box not known yet")
)

// overlayColor is how painted pixels are previewed on top of the image.
var overlayColor = color.NRGBA{R: 255, A: 102}

type state int

const (
	idle state = iota
	dragging
)

// Surface owns the mask raster. While a stroke is active the surface owns input for the
// captured pointer until that pointer is released.
type Surface struct {
	source    image.Image
	raster    *image.NRGBA
	transform Transform

	state   state
	pointer int
	last    Point

	brush int
	tool  Tool
}

func NewSurface() *Surface {
	return &Surface{brush: DefaultBrush, tool: Paint}
}

// Load replaces the source image and resets the mask. Pointer input is rejected until
// SetDisplayBox reports where the image ended up on screen.
func (s *Surface) Load(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("loading mask source: %w", ErrNoImage)
	}

	b := img.Bounds()
	s.source = img
	s.raster = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	s.transform = Transform{}
	s.state = idle

	log.Debug().Int("width", b.Dx()).Int("height", b.Dy()).Msg("mask surface loaded")

	return nil
}

// SetDisplayBox recomputes the transform from the rendered box of the image.
func (s *Surface) SetDisplayBox(originX, originY, renderedW, renderedH float64) error {
	if s.raster == nil {
		return ErrNoImage
	}

	w, h := s.Size()
	t, err := NewTransform(originX, originY, renderedW, renderedH, w, h)
	if err != nil {
		s.transform = Transform{}
		return err
	}

	s.transform = t
	return nil
}

func (s *Surface) PointerDown(ev domain.PointerEvent) error {
	if !ev.Primary || s.state == dragging {
		return nil
	}

	if s.raster == nil {
		return ErrNoImage
	}

	if !s.transform.Ready() {
		return ErrLayoutPending
	}

	p := s.mapPoint(ev)
	s.state = dragging
	s.pointer = ev.ID
	s.last = p
	sweep(s.raster, p, p, float64(s.brush)/2, s.tool)

	return nil
}

func (s *Surface) PointerMove(ev domain.PointerEvent) {
	if s.state != dragging || ev.ID != s.pointer {
		return
	}

	p := s.mapPoint(ev)
	sweep(s.raster, s.last, p, float64(s.brush)/2, s.tool)
	s.last = p
}

func (s *Surface) PointerUp(ev domain.PointerEvent) {
	if s.state != dragging || ev.ID != s.pointer {
		return
	}

	s.state = idle
}

// Drawing reports whether a stroke is in progress.
func (s *Surface) Drawing() bool {
	return s.state == dragging
}

func (s *Surface) Clear() {
	if s.raster == nil {
		return
	}

	s.raster = image.NewNRGBA(s.raster.Rect)
}

// SetBrushSize sets the diameter for following strokes and returns the value in effect.
func (s *Surface) SetBrushSize(px int) int {
	s.brush = max(MinBrush, min(px, MaxBrush))
	return s.brush
}

func (s *Surface) BrushSize() int {
	return s.brush
}

func (s *Surface) SetTool(tool Tool) {
	s.tool = tool
}

func (s *Surface) Tool() Tool {
	return s.tool
}

// Submit encodes the mask as PNG at native resolution. The mask itself is left untouched.
func (s *Surface) Submit() ([]byte, error) {
	if s.raster == nil {
		return nil, ErrNoImage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, s.raster); err != nil {
		return nil, fmt.Errorf("encoding mask: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *Surface) Source() image.Image {
	return s.source
}

func (s *Surface) Transform() Transform {
	return s.transform
}

func (s *Surface) Size() (int, int) {
	if s.raster == nil {
		return 0, 0
	}
	return s.raster.Rect.Dx(), s.raster.Rect.Dy()
}

// Snapshot returns a copy of the current mask.
func (s *Surface) Snapshot() *image.NRGBA {
	if s.raster == nil {
		return nil
	}

	c := image.NewNRGBA(s.raster.Rect)
	copy(c.Pix, s.raster.Pix)
	return c
}

// Overlay renders the mask as a translucent red layer for display on top of the source.
func (s *Surface) Overlay() *image.NRGBA {
	if s.raster == nil {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	o := image.NewNRGBA(s.raster.Rect)
	for i := 3; i < len(s.raster.Pix); i += 4 {
		if s.raster.Pix[i] == 0 {
			continue
		}
		o.Pix[i-3] = overlayColor.R
		o.Pix[i-2] = overlayColor.G
		o.Pix[i-1] = overlayColor.B
		o.Pix[i] = overlayColor.A
	}

	return o
}

func (s *Surface) mapPoint(ev domain.PointerEvent) Point {
	w, h := s.Size()
	return clampPoint(s.transform.Map(ev.X, ev.Y), w, h)
}
