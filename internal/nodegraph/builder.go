package nodegraph

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/scene"
)

// Builder creates nodes in a scene.
type Builder struct {
	Scene scene.Scene
	Attrs *attr.Store
}

// New creates a Builder over the scene wrapped by attrs.
func New(attrs *attr.Store) *Builder {
	return &Builder{Scene: attrs.Scene(), Attrs: attrs}
}

// Naming derives the name of a created node from its owner. Empty fields
// keep the owner's side and name; an empty Suffix uses the primitive's
// default.
type Naming struct {
	Owner  naming.Identity
	Side   *naming.Side
	Name   string
	Suffix string
}

// For is shorthand for a Naming owned by a scene handle.
func For(handle string) Naming {
	return Naming{Owner: naming.Parse(handle)}
}

// WithSuffix returns a copy of n using suffix.
func (n Naming) WithSuffix(suffix string) Naming {
	n.Suffix = suffix
	return n
}

// WithName returns a copy of n using name.
func (n Naming) WithName(name string) Naming {
	n.Name = name
	return n
}

// create makes one node of nodeType and returns its name.
func (b *Builder) create(nodeType string, n Naming, defSuffix string) (string, error) {
	if n.Owner == nil {
		return "", fmt.Errorf("%s node needs an owner identity", nodeType)
	}
	suffix := n.Suffix
	if suffix == "" {
		suffix = defSuffix
	}
	opts := []naming.Option{naming.WithSuffix(suffix)}
	if n.Name != "" {
		opts = append(opts, naming.WithName(n.Name))
	}
	if n.Side != nil {
		opts = append(opts, naming.WithSide(*n.Side))
	}
	id, err := naming.ButWith(n.Owner, opts...)
	if err != nil {
		return "", fmt.Errorf("cannot name %s node after %s: %w", nodeType, n.Owner.ToSceneHandle(), err)
	}
	id, err = naming.Resolve(b.Scene, id, naming.Increment)
	if err != nil {
		return "", err
	}
	name := id.ToSceneHandle()
	if err := b.Scene.CreateNode(nodeType, name, ""); err != nil {
		return "", err
	}
	return name, nil
}

// in sets or connects one input. A nil value leaves the default.
func (b *Builder) in(p scene.Plug, v any) error {
	if v == nil {
		return nil
	}
	if parts, ok := v.([3]any); ok {
		return b.components(p, parts[:])
	}
	if parts, ok := v.([4]any); ok {
		return b.components(p, parts[:])
	}
	return b.Attrs.SetOrConnect(p, v)
}

// components sets or connects the children of a vector input one by one.
func (b *Builder) components(p scene.Plug, parts []any) error {
	info, err := b.Scene.AttrInfo(p)
	if err != nil {
		return err
	}
	if len(info.Children) != len(parts) {
		return fmt.Errorf("%s has %d components, got %d values", p, len(info.Children), len(parts))
	}
	for i, part := range parts {
		if err := b.in(scene.P(p.Node, info.Children[i]), part); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) inputs(node string, values map[string]any) error {
	for attr, v := range values {
		if err := b.in(scene.P(node, attr), v); err != nil {
			return err
		}
	}
	return nil
}

// ownerName returns a name segment describing a handle: the semantic name
// of structured handles, the handle stripped to letters and digits
// otherwise.
func ownerName(handle string) string {
	if s, ok := naming.Parse(handle).(naming.Structured); ok {
		return s.Name
	}
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return -1
	}, handle)
}

// owner picks the first structured identity among handles.
func owner(handles ...string) (naming.Identity, error) {
	for _, h := range handles {
		if id := naming.Parse(h); id.IsStructured() {
			return id, nil
		}
	}
	return nil, fmt.Errorf("none of %v follows the naming convention: %w", handles, naming.ErrNotStructured)
}
