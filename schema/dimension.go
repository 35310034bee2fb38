package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// DimensionKind distinguishes how a Dimension resolves.
type DimensionKind int

const (
	// DimPoint is a fixed length in PDF points (1/72 inch).
	DimPoint DimensionKind = iota
	// DimPercent resolves against the containing block's corresponding axis.
	DimPercent
	// DimAuto is only valid in table column width lists.
	DimAuto
)

// Dimension is a length: a point value, a percentage of the containing
// block, or (for table columns) "auto".
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

// Pt returns a fixed-point dimension.
func Pt(v float64) Dimension { return Dimension{Kind: DimPoint, Value: v} }

// Percent returns a percentage dimension (0-100).
func Percent(v float64) Dimension { return Dimension{Kind: DimPercent, Value: v} }

// Auto returns the auto dimension.
func Auto() Dimension { return Dimension{Kind: DimAuto} }

// Resolve converts the dimension to points against the given reference
// length. Auto resolves to zero; callers treat it specially before resolving.
func (d Dimension) Resolve(reference float64) float64 {
	switch d.Kind {
	case DimPercent:
		return reference * d.Value / 100
	case DimAuto:
		return 0
	default:
		return d.Value
	}
}

// IsPercent reports whether the dimension is percentage-based.
func (d Dimension) IsPercent() bool { return d.Kind == DimPercent }

// IsAuto reports whether the dimension is "auto".
func (d Dimension) IsAuto() bool { return d.Kind == DimAuto }

// UnmarshalJSON accepts a bare number (points), a string of the form
// "<number>%", a numeric string, or the string "auto".
func (d *Dimension) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return fmt.Errorf("empty dimension")
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "auto" {
			*d = Auto()
			return nil
		}
		if pct, ok := strings.CutSuffix(str, "%"); ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
			if err != nil {
				return fmt.Errorf("invalid percentage %q", str)
			}
			*d = Percent(v)
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid dimension %q", str)
		}
		*d = Pt(v)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid dimension %s", s)
	}
	*d = Pt(v)
	return nil
}

// MarshalJSON renders the dimension back in its input form.
func (d Dimension) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DimPercent:
		return json.Marshal(fmt.Sprintf("%g%%", d.Value))
	case DimAuto:
		return json.Marshal("auto")
	default:
		return json.Marshal(d.Value)
	}
}

func (d Dimension) String() string {
	switch d.Kind {
	case DimPercent:
		return fmt.Sprintf("%g%%", d.Value)
	case DimAuto:
		return "auto"
	default:
		return fmt.Sprintf("%gpt", d.Value)
	}
}
