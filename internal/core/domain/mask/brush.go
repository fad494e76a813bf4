package mask

import (
	"image"
	"image/color"
	"math"
)

var (
	maskColor  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	clearColor = color.NRGBA{}
)

// sweep paints or clears every pixel whose center lies within radius of the segment a-b.
// A zero-length segment covers a disk.
func sweep(dst *image.NRGBA, a, b Point, radius float64, tool Tool) {
	c := maskColor
	if tool == Erase {
		c = clearColor
	}

	area := image.Rect(
		int(math.Floor(math.Min(a.X, b.X)-radius)),
		int(math.Floor(math.Min(a.Y, b.Y)-radius)),
		int(math.Ceil(math.Max(a.X, b.X)+radius))+1,
		int(math.Ceil(math.Max(a.Y, b.Y)+radius))+1,
	).Intersect(dst.Bounds())

	r2 := radius * radius
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if distSqToSegment(float64(x)+0.5, float64(y)+0.5, a, b) <= r2 {
				dst.SetNRGBA(x, y, c)
			}
		}
	}
}

func distSqToSegment(px, py float64, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy

	t := 0.0
	if lenSq > 0 {
		t = ((px-a.X)*dx + (py-a.Y)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	cx, cy := a.X+t*dx, a.Y+t*dy
	return (px-cx)*(px-cx) + (py-cy)*(py-cy)
}
