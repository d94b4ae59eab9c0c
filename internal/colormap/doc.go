// Package colormap converts depth and confidence buffers into BGRA
// visualizations.
//
// The jet palette is the default for depth: a five-segment piecewise-linear
// gradient from deep blue (near the range minimum) through cyan, green, and
// yellow to red (at the maximum). Confidence maps use a fixed three-color
// scheme: red for low, yellow for medium, green for high, gray for anything
// outside the ordinal range.
//
// Invalid depth samples render as fully transparent black, so a composited
// overlay shows the camera image through depth holes instead of a misleading
// color.
//
// Additional palettes are available by name (ByName) or as hex-stop
// gradients (GradientPalette); these affect only the color ramp, never the
// transparency rules.
package colormap
