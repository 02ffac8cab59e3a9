package xintersect

import (
	"strconv"
	"strings"
)

// Unit of a margin component.
type Unit uint8

const (
	Pixels Unit = iota
	Percent
)

// Length is one margin component.
type Length struct {
	Value float64
	Unit  Unit
}

func (l Length) String() string {
	v := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Unit == Percent {
		return v + "%"
	}
	return v + "px"
}

// Resolve converts the length to pixels against a reference size (used for percentages).
func (l Length) Resolve(reference float64) float64 {
	if l.Unit == Percent {
		return l.Value * reference / 100
	}
	return l.Value
}

// Margin is a normalized root margin: always four components in top, right, bottom, left order.
type Margin struct {
	Top, Right, Bottom, Left Length
}

// String returns the normalized four-value text form.
func (m Margin) String() string {
	return m.Top.String() + " " + m.Right.String() + " " + m.Bottom.String() + " " + m.Left.String()
}

// Apply grows (or, for negative values, shrinks) r by the margin. Percentages
// resolve against r's width for left/right and height for top/bottom.
func (m Margin) Apply(r Rect) Rect {
	top := m.Top.Resolve(r.Height)
	right := m.Right.Resolve(r.Width)
	bottom := m.Bottom.Resolve(r.Height)
	left := m.Left.Resolve(r.Width)
	return Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  r.Width + left + right,
		Height: r.Height + top + bottom,
	}
}

// CSSMarginParser parses the CSS margin shorthand subset allowed for root margins:
// one to four lengths in px or %, with a bare 0 accepted. Empty text means "0px".
type CSSMarginParser struct{}

var _ MarginParser = CSSMarginParser{}

func (CSSMarginParser) ParseMargin(text string) (Margin, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Margin{}, nil
	}
	if len(fields) > 4 {
		return Margin{}, &ConfigError{Field: "root_margin", Value: text, Err: ErrSyntax}
	}

	ls := make([]Length, len(fields))
	for i, f := range fields {
		l, ok := parseLength(f)
		if !ok {
			return Margin{}, &ConfigError{Field: "root_margin", Value: text, Err: ErrSyntax}
		}
		ls[i] = l
	}

	switch len(ls) {
	case 1:
		return Margin{ls[0], ls[0], ls[0], ls[0]}, nil
	case 2:
		return Margin{ls[0], ls[1], ls[0], ls[1]}, nil
	case 3:
		return Margin{ls[0], ls[1], ls[2], ls[1]}, nil
	}
	return Margin{ls[0], ls[1], ls[2], ls[3]}, nil
}

func parseLength(s string) (Length, bool) {
	unit := Pixels
	num := s
	switch {
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "%"):
		num = strings.TrimSuffix(s, "%")
		unit = Percent
	default:
		// Only zero may omit its unit.
		v, err := strconv.ParseFloat(s, 64)
		if !isDecimal(s) || err != nil || v != 0 {
			return Length{}, false
		}
		return Length{}, true
	}
	if !isDecimal(num) {
		return Length{}, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: v, Unit: unit}, true
}

// isDecimal reports whether s is a plain signed decimal number such as "-12.5".
func isDecimal(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" || s == "." {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}
