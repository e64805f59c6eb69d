// internal/naming/identity.go
package naming

import (
	"strconv"
	"strings"
)

// Identity is either a Structured name or an Opaque handle.
type Identity interface {
	// ToSceneHandle projects the identity onto the host's string key.
	ToSceneHandle() string
	// Equal compares identities of the same variant. Structured and opaque
	// identities are never equal, even when their handles are.
	Equal(other Identity) bool
	IsStructured() bool
}

// Structured is a decomposed name. It is a value type: modifiers return copies.
type Structured struct {
	Initials string
	Side     Side
	Name     string
	Suffix   string
}

// Opaque is a handle that did not follow the naming grammar.
type Opaque struct {
	Raw string
}

func (s Structured) ToSceneHandle() string {
	var sb strings.Builder
	sb.WriteString(s.Initials)
	sb.WriteString(s.Side.Token())
	sb.WriteString(s.Name)
	sb.WriteByte('_')
	sb.WriteString(s.Suffix)
	return sb.String()
}

func (s Structured) String() string { return s.ToSceneHandle() }

func (s Structured) IsStructured() bool { return true }

func (s Structured) Equal(other Identity) bool {
	o, ok := other.(Structured)
	if !ok {
		return false
	}
	return s == o
}

// SameBase reports whether both names differ at most in their suffix.
func (s Structured) SameBase(o Structured) bool {
	return s.Initials == o.Initials && s.Side == o.Side && s.Name == o.Name
}

// Base splits the semantic name into its stem and trailing number. The number
// is 0 when the name carries no trailing digits.
func (s Structured) Base() (stem string, number int) {
	end := len(s.Name)
	for end > 0 && s.Name[end-1] >= '0' && s.Name[end-1] <= '9' {
		end--
	}
	if end == len(s.Name) {
		return s.Name, 0
	}
	n, err := strconv.Atoi(s.Name[end:])
	if err != nil {
		// Overflowing digit runs are treated as part of the stem.
		return s.Name, 0
	}
	return s.Name[:end], n
}

func (o Opaque) ToSceneHandle() string { return o.Raw }

func (o Opaque) String() string { return o.Raw }

func (o Opaque) IsStructured() bool { return false }

func (o Opaque) Equal(other Identity) bool {
	x, ok := other.(Opaque)
	if !ok {
		return false
	}
	return o.Raw == x.Raw
}

// Handles projects a list of identities onto their scene handles.
func Handles(ids []Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.ToSceneHandle()
	}
	return out
}
