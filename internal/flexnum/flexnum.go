// Package flexnum decodes JSON numbers that clients may send either as
// numbers or as numeric strings ("12", "9.50").
package flexnum

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Int int

type Float float64

// numericText strips JSON quotes and whitespace from a raw value.
func numericText(b []byte) (string, error) {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return "", err
		}
		s = strings.TrimSpace(unquoted)
	}
	if s == "" {
		return "", fmt.Errorf("empty number")
	}
	return s, nil
}

func parseFloat(b []byte) (float64, error) {
	s, err := numericText(b)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func (n *Int) UnmarshalJSON(b []byte) error {
	f, err := parseFloat(b)
	if err != nil {
		return err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("%v is not a whole number", f)
	}
	*n = Int(f)
	return nil
}

func (n *Float) UnmarshalJSON(b []byte) error {
	f, err := parseFloat(b)
	if err != nil {
		return err
	}
	*n = Float(f)
	return nil
}

// IntValue dereferences p, returning 0 for nil.
func IntValue(p *Int) int {
	if p == nil {
		return 0
	}
	return int(*p)
}

// FloatValue dereferences p, returning 0 for nil.
func FloatValue(p *Float) float64 {
	if p == nil {
		return 0
	}
	return float64(*p)
}
