package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformed is returned by Classify when a line has the shape of a known
// grammar but one of its fields cannot be parsed.
var ErrMalformed = errors.New("malformed line")

// Kind identifies which line grammar a raw line matched.
type Kind int

const (
	Unrecognized Kind = iota
	LoginLine
	AnchorLine
	CombatLine
	WarningLine
)

func (k Kind) String() string {
	switch k {
	case LoginLine:
		return "login"
	case AnchorLine:
		return "anchor"
	case CombatLine:
		return "combat"
	case WarningLine:
		return "warning"
	default:
		return "unrecognized"
	}
}

// Line is a classified log line. Which payload fields are set depends on Kind.
type Line struct {
	Kind Kind

	// HasOffset reports whether the line starts with a parsable offset.
	// Unrecognized lines can still carry one.
	HasOffset bool
	Offset    float64

	// LoginLine
	Player string

	// AnchorLine
	WallClock time.Time

	// CombatLine
	Victim string
	State  string
	Source string
	Info   string

	// WarningLine
	Text string
}

// Classify matches a raw line against the known grammars.
//
// Returns:
//   - (Line, nil): Kind is the matched grammar, or Unrecognized
//   - (Line, error): the line is malformed; the returned Line is Unrecognized
//     but keeps HasOffset/Offset when the offset itself was valid
func Classify(raw string) (Line, error) {
	// Trim trailing CR for Windows CRLF compatibility
	raw = strings.TrimRight(raw, "\r")

	m := offsetPattern.FindStringSubmatch(raw)
	if m == nil {
		return Line{}, nil
	}
	off, err := parseOffset(m[1])
	if err != nil {
		return Line{}, err
	}
	l := Line{HasOffset: true, Offset: off}

	if m := loginPattern.FindStringSubmatch(raw); m != nil {
		l.Kind = LoginLine
		l.Player = m[2]
		return l, nil
	}

	if m := anchorPattern.FindStringSubmatch(raw); m != nil {
		wc, err := parseWallClock(m[2])
		if err != nil {
			return l, err
		}
		l.Kind = AnchorLine
		l.WallClock = wc
		return l, nil
	}

	if m := combatPattern.FindStringSubmatch(raw); m != nil {
		l.Kind = CombatLine
		l.Victim = m[2]
		l.State = m[3]
		l.Source = m[4]
		l.Info = m[5]
		return l, nil
	}

	if m := warningPattern.FindStringSubmatch(raw); m != nil {
		l.Kind = WarningLine
		l.Text = m[2]
		return l, nil
	}

	return l, nil
}

func parseOffset(s string) (float64, error) {
	off, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: offset %q", ErrMalformed, s)
	}
	return off, nil
}

func parseWallClock(s string) (time.Time, error) {
	norm := strings.Join(strings.Fields(s), " ")
	t, err := time.ParseInLocation(wallClockLayout, norm, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: wall clock %q: %v", ErrMalformed, s, err)
	}
	return t, nil
}
