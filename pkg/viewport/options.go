package viewport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Transform is the translation and scale applied by the renderer.
type Transform struct {
	TransX, TransY float64
	ScaleX, ScaleY float64
}

// Identity is the transform of an un-zoomed view at the origin.
var Identity = Transform{ScaleX: 1, ScaleY: 1}

// Params is the full device parameter set of one render request.
type Params struct {
	Transform
	ResX, ResY float64
}

// Device option names understood by the renderer.
const (
	optTransX = "-dViewTransX"
	optTransY = "-dViewTransY"
	optScaleX = "-dViewScaleX"
	optScaleY = "-dViewScaleY"
)

// DeviceOptions renders the transform as the renderer's option string.
//
// The output matches the existing renderer input byte for byte, including
// the leading space and the number format (see FormatReal).
func (t Transform) DeviceOptions() string {
	var b strings.Builder
	for _, opt := range []struct {
		name string
		val  float64
	}{
		{optTransX, t.TransX},
		{optTransY, t.TransY},
		{optScaleX, t.ScaleX},
		{optScaleY, t.ScaleY},
	} {
		b.WriteByte(' ')
		b.WriteString(opt.name)
		b.WriteByte('=')
		b.WriteString(FormatReal(opt.val))
	}
	return b.String()
}

// ParseDeviceOptions is the inverse of DeviceOptions. Options other than
// the four view options are ignored; missing options keep their identity
// value.
func ParseDeviceOptions(s string) (Transform, error) {
	t := Identity
	for _, field := range strings.Fields(s) {
		name, val, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		var dst *float64
		switch name {
		case optTransX:
			dst = &t.TransX
		case optTransY:
			dst = &t.TransY
		case optScaleX:
			dst = &t.ScaleX
		case optScaleY:
			dst = &t.ScaleY
		default:
			continue
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return Identity, fmt.Errorf("device option %s: %w", name, err)
		}
		*dst = v
	}
	return t, nil
}

// FormatReal formats v the way the JVM's Double.toString does: plain
// decimal with at least one fractional digit for 1e-3 <= |v| < 1e7,
// computerized scientific notation ("1.0E7") otherwise.
func FormatReal(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	if abs := math.Abs(v); abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	// Go yields "1.5E+07" or "1E-04"
	mant, exp, _ := strings.Cut(strconv.FormatFloat(v, 'E', -1, 64), "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-0")
	if exp == "" {
		exp = "0"
	}
	if neg {
		exp = "-" + exp
	}
	return mant + "E" + exp
}
