package models

import "math"

// ImageConfig holds the process-wide reveal target and overlay settings.
type ImageConfig struct {
	ImageURL       string
	OverlayOpacity float64
}

// ClampOpacity limits v to [0,1].
func ClampOpacity(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
