// internal/naming/parser.go
package naming

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single name component.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ValidSegment reports whether s can be used as a name component.
func ValidSegment(s string) bool {
	return segmentRegex.MatchString(s)
}

func checkSegment(kind, s string) error {
	if !ValidSegment(s) {
		return fmt.Errorf("%w: %s %q must match [A-Za-z0-9]+", ErrInvalidSegment, kind, s)
	}
	return nil
}

// Compose builds a structured name from its components.
func Compose(initials string, side Side, name, suffix string) (Structured, error) {
	if err := checkSegment("initials", initials); err != nil {
		return Structured{}, err
	}
	if err := checkSegment("name", name); err != nil {
		return Structured{}, err
	}
	if err := checkSegment("suffix", suffix); err != nil {
		return Structured{}, err
	}
	if side < Center || side > Right {
		return Structured{}, fmt.Errorf("%w: unknown side %d", ErrInvalidSegment, side)
	}
	return Structured{Initials: initials, Side: side, Name: name, Suffix: suffix}, nil
}

// MustCompose is Compose for names known to be valid at compile time.
func MustCompose(initials string, side Side, name, suffix string) Structured {
	s, err := Compose(initials, side, name, suffix)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse decomposes a raw handle. Handles that do not follow the grammar come
// back as Opaque; this is not an error.
func Parse(raw string) Identity {
	s, err := ParseStructured(raw)
	if err != nil {
		return Opaque{Raw: raw}
	}
	return s
}

// ParseStructured decomposes a raw handle or explains why it cannot.
func ParseStructured(raw string) (Structured, error) {
	if raw == "" {
		return Structured{}, fmt.Errorf("%w: empty name", ErrNotStructured)
	}
	i := strings.IndexByte(raw, '_')
	if i <= 0 {
		return Structured{}, fmt.Errorf("%w: %q has no initials prefix", ErrNotStructured, raw)
	}
	initials, rest := raw[:i], raw[i:]

	// A side token is tried first; a center name that happens to be "l" or
	// "r" only parses through the fallback.
	for _, side := range []Side{Left, Right} {
		if tail, ok := strings.CutPrefix(rest, side.Token()); ok {
			if s, err := parseTail(initials, side, tail); err == nil {
				return s, nil
			}
		}
	}
	s, err := parseTail(initials, Center, rest[1:])
	if err != nil {
		return Structured{}, fmt.Errorf("%w: %q: %v", ErrNotStructured, raw, err)
	}
	return s, nil
}

func parseTail(initials string, side Side, tail string) (Structured, error) {
	name, suffix, found := strings.Cut(tail, "_")
	if !found {
		return Structured{}, fmt.Errorf("missing suffix")
	}
	return Compose(initials, side, name, suffix)
}
