package mask

import (
	"errors"
	"math"
)

var ErrInvalidDisplayBox = errors.New("display box must have a positive size")

// Point is a position in native image pixels.
type Point struct {
	X, Y float64
}

// Transform maps host coordinates onto the native pixel grid of the source image.
// The zero value is not ready and must not be used for mapping.
type Transform struct {
	OriginX, OriginY float64
	ScaleX, ScaleY   float64
}

// NewTransform builds the mapping for an image of nativeW x nativeH pixels rendered as a
// renderedW x renderedH box whose top-left corner sits at (originX, originY).
func NewTransform(originX, originY, renderedW, renderedH float64, nativeW, nativeH int) (Transform, error) {
	if renderedW <= 0 || renderedH <= 0 || nativeW <= 0 || nativeH <= 0 {
		return Transform{}, ErrInvalidDisplayBox
	}

	return Transform{
		OriginX: originX,
		OriginY: originY,
		ScaleX:  float64(nativeW) / renderedW,
		ScaleY:  float64(nativeH) / renderedH,
	}, nil
}

func (t Transform) Ready() bool {
	return t.ScaleX > 0 && t.ScaleY > 0
}

func (t Transform) Map(x, y float64) Point {
	return Point{
		X: (x - t.OriginX) * t.ScaleX,
		Y: (y - t.OriginY) * t.ScaleY,
	}
}

func clampPoint(p Point, w, h int) Point {
	return Point{
		X: math.Max(0, math.Min(p.X, float64(w))),
		Y: math.Max(0, math.Min(p.Y, float64(h))),
	}
}
