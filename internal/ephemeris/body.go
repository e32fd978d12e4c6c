package ephemeris

import (
	"fmt"
	"strings"
)

// Body identifies a celestial body the almanac can compute.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
)

var bodyNames = [...]string{
	Sun:     "Sun",
	Moon:    "Moon",
	Mercury: "Mercury",
	Venus:   "Venus",
	Mars:    "Mars",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
	Uranus:  "Uranus",
	Neptune: "Neptune",
}

func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// Bodies returns the catalog of supported bodies in display order.
func Bodies() []Body {
	out := make([]Body, len(bodyNames))
	for i := range bodyNames {
		out[i] = Body(i)
	}
	return out
}

// ParseBody resolves a case-insensitive body name.
func ParseBody(name string) (Body, error) {
	for i, n := range bodyNames {
		if strings.EqualFold(name, n) {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("unknown celestial body %q (supported: %s)", name, strings.Join(bodyNames[:], ", "))
}
