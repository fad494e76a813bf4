package domain

import "math"

const (
	MinZoom  = 1.0
	MaxZoom  = 3.0
	ZoomStep = 0.1
)

// ZoomIn returns the next preview zoom level, capped at MaxZoom.
func ZoomIn(zoom float64) float64 {
	return roundZoom(math.Min(zoom+ZoomStep, MaxZoom))
}

// ZoomOut returns the previous preview zoom level, floored at MinZoom.
func ZoomOut(zoom float64) float64 {
	return roundZoom(math.Max(zoom-ZoomStep, MinZoom))
}

// roundZoom keeps repeated steps from drifting off the 0.1 grid.
func roundZoom(z float64) float64 {
	return math.Round(z*10) / 10
}
