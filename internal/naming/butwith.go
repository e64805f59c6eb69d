// internal/naming/butwith.go
package naming

// Option modifies a copy of a structured name.
type Option func(*Structured)

// WithSide replaces the side.
func WithSide(side Side) Option {
	return func(s *Structured) { s.Side = side }
}

// WithName replaces the semantic name.
func WithName(name string) Option {
	return func(s *Structured) { s.Name = name }
}

// WithSuffix replaces the suffix.
func WithSuffix(suffix string) Option {
	return func(s *Structured) { s.Suffix = suffix }
}

// WithInitials replaces the owner initials.
func WithInitials(initials string) Option {
	return func(s *Structured) { s.Initials = initials }
}

// Flipped swaps whatever side the name has when the option runs.
func Flipped() Option {
	return func(s *Structured) { s.Side = s.Side.Opposite() }
}

// ButWith returns a copy of s with the options applied. The result is
// validated, so a bad replacement segment is reported here rather than when
// the name reaches the scene.
func (s Structured) ButWith(opts ...Option) (Structured, error) {
	out := s
	for _, opt := range opts {
		opt(&out)
	}
	return Compose(out.Initials, out.Side, out.Name, out.Suffix)
}

// ButWith is the variant-aware form used on identities of unknown shape.
func ButWith(id Identity, opts ...Option) (Structured, error) {
	s, ok := id.(Structured)
	if !ok {
		return Structured{}, ErrNotStructured
	}
	return s.ButWith(opts...)
}
