package colormap

import "math"

// Default stops for load gauges: healthy, warning, critical.
var (
	Healthy  = MustParseHex("#28C76F")
	Warning  = MustParseHex("#FECB2E")
	Critical = MustParseHex("#EA5455")
	VRAMBase = MustParseHex("#00B5FF")
)

// DefaultRedrawThreshold is the smallest percentage change worth a
// repaint when the colour is unchanged.
const DefaultRedrawThreshold = 0.4

// Gradient is a three-stop colour ramp.
type Gradient struct {
	Start RGB `json:"start" yaml:"start"`
	Mid   RGB `json:"mid" yaml:"mid"`
	End   RGB `json:"end" yaml:"end"`
}

// LoadGradient is the ramp used for CPU, RAM and GPU gauges.
func LoadGradient() Gradient {
	return Gradient{Start: Healthy, Mid: Warning, End: Critical}
}

// VRAMGradient is the ramp used for the VRAM gauge.
func VRAMGradient() Gradient {
	return Gradient{Start: VRAMBase, Mid: Warning, End: Critical}
}

// Percent maps a 0-100 percentage onto the gradient.
func (g Gradient) Percent(percent float64) RGB {
	return Map(percent/100, g.Start, g.Mid, g.End)
}

// ShouldRedraw reports whether a gauge moving from (prevValue,
// prevColor) to (newValue, newColor) needs repainting.
func ShouldRedraw(prevValue, newValue float64, prevColor, newColor RGB, threshold float64) bool {
	if prevColor != newColor {
		return true
	}
	return math.Abs(newValue-prevValue) >= threshold
}
