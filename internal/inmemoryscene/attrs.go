package inmemoryscene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/scene"
)

// port resolves a concrete attribute name. User-defined attributes shadow
// the node type's ports.
func (s *Store) port(rec *record, attr string) (scene.Port, string, bool) {
	if p, ok := rec.attrs.User[attr]; ok {
		return p, attr, true
	}
	return rec.nodeType.Port(attr)
}

func (s *Store) resolve(p scene.Plug) (*record, scene.Port, string, error) {
	rec, err := s.lookup(p.Node)
	if err != nil {
		return nil, scene.Port{}, "", err
	}
	port, key, ok := s.port(rec, p.Attr)
	if !ok {
		return nil, scene.Port{}, "", fmt.Errorf("%w: %s", scene.ErrAttrNotFound, p)
	}
	return rec, port, key, nil
}

// parentAttr returns the concrete vector attribute a component belongs to.
func parentAttr(port scene.Port, key, attr string) string {
	return attr[:len(attr)-(len(key)-len(port.Parent))]
}

func isComponent(port scene.Port) bool {
	return port.Parent != "" && port.Component >= 0
}

func childAttrs(port scene.Port, key, attr string) []string {
	out := make([]string, len(port.Children))
	for i, child := range port.Children {
		out[i] = scene.ConcreteChild(child, key, attr)
	}
	return out
}

func cloneValue(v any) any {
	if arr, ok := v.([]float64); ok {
		return slices.Clone(arr)
	}
	return v
}

// stored returns the stored value of an attribute, falling back to the
// port default. Components read from their parent vector.
func (s *Store) stored(rec *record, port scene.Port, key, attr string) any {
	if isComponent(port) {
		parent := parentAttr(port, key, attr)
		pp, pkey, _ := s.port(rec, parent)
		vec := s.stored(rec, pp, pkey, parent)
		switch v := vec.(type) {
		case mgl64.Vec3:
			return v[port.Component]
		case mgl64.Vec4:
			return v[port.Component]
		}
		return 0.0
	}
	if v, ok := rec.attrs.Values[attr]; ok {
		return cloneValue(v)
	}
	if port.Default == nil {
		return scene.Zero(port.Kind)
	}
	return cloneValue(port.Default)
}

func (s *Store) state(rec *record, port scene.Port, attr string) scene.AttrState {
	if st, ok := rec.attrs.States[attr]; ok {
		return st
	}
	return scene.AttrState{Keyable: port.Keyable}
}

// locked reports whether attr, its parent vector or any of its children is
// locked.
func (s *Store) locked(rec *record, port scene.Port, key, attr string) bool {
	if s.state(rec, port, attr).Locked {
		return true
	}
	if isComponent(port) {
		parent := parentAttr(port, key, attr)
		if pp, _, ok := s.port(rec, parent); ok && s.state(rec, pp, parent).Locked {
			return true
		}
	}
	if port.Kind != scene.KindCompound {
		for _, child := range childAttrs(port, key, attr) {
			if cp, _, ok := s.port(rec, child); ok && s.state(rec, cp, child).Locked {
				return true
			}
		}
	}
	return false
}

// HasAttr reports whether the plug addresses an existing attribute.
func (s *Store) HasAttr(p scene.Plug) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, _, _, err := s.resolve(p)
	return err == nil
}

// AddAttr declares a user-defined attribute. Float3 and Float4 attributes
// get X, Y, Z (and W) component attributes.
func (s *Store) AddAttr(node string, spec scene.AttrSpec) error {
	if !nameRegex.MatchString(spec.Name) {
		return fmt.Errorf("invalid attribute name %q", spec.Name)
	}
	if spec.Kind == scene.KindInvalid || spec.Kind == scene.KindCompound {
		return fmt.Errorf("cannot add attribute %s of kind %s", spec.Name, spec.Kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(node)
	if err != nil {
		return err
	}
	if _, _, exists := s.port(rec, spec.Name); exists {
		return fmt.Errorf("%w: %s.%s", scene.ErrAttrExists, node, spec.Name)
	}

	def := spec.Default
	if def == nil {
		def = scene.Zero(spec.Kind)
	}
	def, err = scene.Coerce(spec.Kind, def)
	if err != nil {
		return fmt.Errorf("default for %s.%s: %w", node, spec.Name, err)
	}
	if spec.Kind == scene.KindEnum && len(spec.Enum) == 0 {
		return fmt.Errorf("enum attribute %s.%s needs at least one label", node, spec.Name)
	}

	port := scene.Port{
		Kind:        spec.Kind,
		Default:     def,
		Enum:        slices.Clone(spec.Enum),
		Keyable:     spec.State.Keyable,
		UserDefined: true,
		NiceName:    spec.NiceName,
		Min:         spec.Min,
		Max:         spec.Max,
		Component:   -1,
	}
	var axes string
	switch spec.Kind {
	case scene.KindFloat3:
		axes = "XYZ"
	case scene.KindFloat4:
		axes = "XYZW"
	}
	for i, axis := range axes {
		child := spec.Name + string(axis)
		if _, _, exists := s.port(rec, child); exists {
			return fmt.Errorf("%w: %s.%s", scene.ErrAttrExists, node, child)
		}
		port.Children = append(port.Children, child)
		rec.attrs.User[child] = scene.Port{
			Kind:        scene.KindFloat,
			Default:     0.0,
			Keyable:     spec.State.Keyable,
			UserDefined: true,
			Parent:      spec.Name,
			Component:   i,
		}
	}
	rec.attrs.User[spec.Name] = port
	rec.attrs.UserOrder = append(rec.attrs.UserOrder, spec.Name)
	rec.attrs.States[spec.Name] = spec.State
	return nil
}

// DeleteAttr removes a user-defined attribute and its connections.
func (s *Store) DeleteAttr(p scene.Plug) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(p.Node)
	if err != nil {
		return err
	}
	port, ok := rec.attrs.User[p.Attr]
	if !ok || port.Parent != "" {
		return fmt.Errorf("%w: user attribute %s", scene.ErrAttrNotFound, p)
	}
	if s.state(rec, port, p.Attr).Locked {
		return fmt.Errorf("%w: %s", scene.ErrLocked, p)
	}

	attrs := append([]string{p.Attr}, port.Children...)
	for _, attr := range attrs {
		plug := scene.P(p.Node, attr)
		if src, ok := s.incoming[plug]; ok {
			s.unlink(src, plug)
		}
		for _, dst := range slices.Clone(s.outgoing[plug]) {
			s.unlink(plug, dst)
		}
		delete(rec.attrs.User, attr)
		delete(rec.attrs.Values, attr)
		delete(rec.attrs.States, attr)
	}
	rec.attrs.UserOrder = slices.DeleteFunc(rec.attrs.UserOrder, func(n string) bool { return n == p.Attr })
	return nil
}

// ListAttrs lists attribute names. With userDefined only top-level user
// attributes are returned, in creation order.
func (s *Store) ListAttrs(node string, userDefined bool) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.nodes[node]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(rec.attrs.UserOrder))
	if !userDefined {
		for _, key := range rec.nodeType.Keys() {
			if !strings.Contains(key, "[]") {
				out = append(out, key)
			}
		}
	}
	return append(out, rec.attrs.UserOrder...)
}

// AttrInfo describes an attribute.
func (s *Store) AttrInfo(p scene.Plug) (scene.AttrInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, port, key, err := s.resolve(p)
	if err != nil {
		return scene.AttrInfo{}, err
	}
	return scene.AttrInfo{
		Kind:        port.Kind,
		Enum:        slices.Clone(port.Enum),
		Min:         port.Min,
		Max:         port.Max,
		NiceName:    port.NiceName,
		UserDefined: port.UserDefined,
		Computed:    port.Computed,
		Children:    childAttrs(port, key, p.Attr),
		AttrState:   s.state(rec, port, p.Attr),
	}, nil
}

// GetAttr returns the stored value of an input, or the value of an output.
// Transform outputs are solved from stored local values; utility outputs go
// through the evaluator.
func (s *Store) GetAttr(p scene.Plug) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, port, key, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	if port.Kind == scene.KindCompound {
		return nil, fmt.Errorf("%w: %s is a compound", scene.ErrKindMismatch, p)
	}
	if !port.Computed {
		return s.stored(rec, port, key, p.Attr), nil
	}
	if rec.nodeType.DAG {
		return s.transformOutput(rec, key, s.staticInputs), nil
	}
	v, err := s.eval(p, map[scene.Plug]bool{})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func checkRange(port scene.Port, p scene.Plug, v any) error {
	if port.Kind == scene.KindEnum {
		i := v.(int)
		if i < 0 || i >= len(port.Enum) {
			return fmt.Errorf("enum value %d out of range for %s", i, p)
		}
		return nil
	}
	f, ok := scene.AsFloat(v)
	if !ok || port.Kind == scene.KindBool {
		return nil
	}
	if port.Min != nil && f < *port.Min {
		return fmt.Errorf("value %v below minimum %v for %s", f, *port.Min, p)
	}
	if port.Max != nil && f > *port.Max {
		return fmt.Errorf("value %v above maximum %v for %s", f, *port.Max, p)
	}
	return nil
}

// SetAttr stores a value after kind, lock and range checks.
func (s *Store) SetAttr(p scene.Plug, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, port, key, err := s.resolve(p)
	if err != nil {
		return err
	}
	if port.Computed {
		return fmt.Errorf("%w: %s", scene.ErrReadOnly, p)
	}
	if port.Kind == scene.KindCompound {
		return fmt.Errorf("%w: %s is a compound", scene.ErrKindMismatch, p)
	}
	if s.locked(rec, port, key, p.Attr) {
		return fmt.Errorf("%w: %s", scene.ErrLocked, p)
	}
	val, err := scene.Coerce(port.Kind, v)
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if err := checkRange(port, p, val); err != nil {
		return err
	}
	s.write(rec, port, key, p.Attr, val)
	return nil
}

// write stores an already coerced value without checks.
func (s *Store) write(rec *record, port scene.Port, key, attr string, val any) {
	if !isComponent(port) {
		rec.attrs.Values[attr] = val
		return
	}
	parent := parentAttr(port, key, attr)
	pp, pkey, _ := s.port(rec, parent)
	switch vec := s.stored(rec, pp, pkey, parent).(type) {
	case mgl64.Vec3:
		vec[port.Component] = val.(float64)
		rec.attrs.Values[parent] = vec
	case mgl64.Vec4:
		vec[port.Component] = val.(float64)
		rec.attrs.Values[parent] = vec
	}
}

// SetAttrState replaces the interaction flags of an attribute.
func (s *Store) SetAttrState(p scene.Plug, st scene.AttrState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, _, _, err := s.resolve(p)
	if err != nil {
		return err
	}
	rec.attrs.States[p.Attr] = st
	return nil
}
