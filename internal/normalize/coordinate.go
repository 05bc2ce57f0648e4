package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// DefaultPrecision is the number of decimals a normalized coordinate carries
const DefaultPrecision = 6

// Axis identifies which coordinate range applies
type Axis int

const (
	Latitude Axis = iota
	Longitude
)

// Limit returns the absolute bound of the axis
func (a Axis) Limit() float64 {
	if a == Longitude {
		return 180
	}
	return 90
}

func (a Axis) String() string {
	if a == Longitude {
		return "longitude"
	}
	return "latitude"
}

// CoordinateNormalizer formats noisy coordinate values into clamped decimal strings
type CoordinateNormalizer struct {
	Precision int
}

// NewCoordinateNormalizer creates a normalizer, falling back to DefaultPrecision when precision is negative
func NewCoordinateNormalizer(precision int) CoordinateNormalizer {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return CoordinateNormalizer{Precision: precision}
}

// Zero returns the canonical zero value at the configured precision
func (n CoordinateNormalizer) Zero() string {
	return strconv.FormatFloat(0, 'f', n.Precision, 64)
}

// Normalize cleans a latitude or longitude value of any scalar type.
// It never fails: anything it cannot read becomes the canonical zero.
func (n CoordinateNormalizer) Normalize(value interface{}, axis Axis) string {
	raw, err := cast.ToStringE(value)
	if err != nil {
		return n.Zero()
	}

	cleaned := stripCoordinate(raw)
	switch cleaned {
	case "", "-", ".", "-.":
		return n.Zero()
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) {
		return n.Zero()
	}

	limit := axis.Limit()
	if f > limit {
		f = limit
	} else if f < -limit {
		f = -limit
	}
	// avoid "-0.000000"
	if f == 0 {
		f = 0
	}
	out := strconv.FormatFloat(f, 'f', n.Precision, 64)
	if strings.Trim(out, "-0.") == "" {
		return n.Zero()
	}
	return out
}

// IsZero reports whether s is a zero coordinate in any precision
func IsZero(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && f == 0
}

// Coordinate normalizes value with DefaultPrecision
func Coordinate(value interface{}, axis Axis) string {
	return NewCoordinateNormalizer(DefaultPrecision).Normalize(value, axis)
}

// stripCoordinate keeps digits, a minus sign only in leading position and the first decimal point
func stripCoordinate(s string) string {
	var b strings.Builder
	seenPoint := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		case r == '.' && !seenPoint:
			seenPoint = true
			b.WriteRune(r)
		}
	}
	return b.String()
}
