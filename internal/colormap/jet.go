package colormap

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Jet maps a normalized scalar to the classic jet palette.
//
// The input is clamped to [0,1] and mapped through five linear segments with
// boundaries at 0.125, 0.375, 0.625, and 0.875, running deep blue → cyan →
// green → yellow → red. Returns r, g, b components in [0,1].
func Jet(v float64) (r, g, b float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	switch {
	case v < 0.125:
		return 0, 0, 0.5 + 4*v
	case v < 0.375:
		return 0, 4 * (v - 0.125), 1
	case v < 0.625:
		return 4 * (v - 0.375), 1, 1 - 4*(v-0.375)
	case v < 0.875:
		return 1, 1 - 4*(v-0.625), 0
	default:
		return 1 - 4*(v-0.875), 0, 0
	}
}

// Grayscale maps a normalized scalar to equal r, g, b components.
func Grayscale(v float64) (r, g, b float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, v, v
}

// Palette maps a normalized scalar in [0,1] to r, g, b components in [0,1].
// Implementations must clamp out-of-range inputs.
type Palette func(v float64) (r, g, b float64)

// ByName resolves a palette by its tool-facing name. An empty name selects
// jet, the default for depth visualization.
func ByName(name string) (Palette, error) {
	switch name {
	case "", "jet":
		return Jet, nil
	case "gray", "grayscale":
		return Grayscale, nil
	default:
		return nil, fmt.Errorf("unknown palette %q", name)
	}
}

// GradientPalette builds a palette from hex color stops spaced evenly across
// [0,1], linearly blended in RGB. At least two stops are required.
//
// Stops use the "#RRGGBB" form accepted by go-colorful.
func GradientPalette(stops []string) (Palette, error) {
	if len(stops) < 2 {
		return nil, fmt.Errorf("gradient needs at least 2 stops, got %d", len(stops))
	}
	colors := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("gradient stop %d: %w", i, err)
		}
		colors[i] = c
	}

	segments := float64(len(colors) - 1)
	return func(v float64) (r, g, b float64) {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		pos := v * segments
		i := int(pos)
		if i >= len(colors)-1 {
			last := colors[len(colors)-1]
			return last.R, last.G, last.B
		}
		c := colors[i].BlendRgb(colors[i+1], pos-float64(i))
		return c.R, c.G, c.B
	}, nil
}
