package attr

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/scene"
)

// Store reads and writes attributes through a scene. It remembers which
// plugs were unkeyable before Lock so Unlock can restore them.
type Store struct {
	sc scene.Scene

	mu           sync.Mutex
	wasUnkeyable map[scene.Plug]bool
}

// New creates a Store over sc.
func New(sc scene.Scene) *Store {
	return &Store{sc: sc, wasUnkeyable: make(map[scene.Plug]bool)}
}

// Scene returns the wrapped scene.
func (s *Store) Scene() scene.Scene { return s.sc }

// Exists reports whether the plug addresses an attribute.
func (s *Store) Exists(p scene.Plug) bool {
	return s.sc.HasAttr(p)
}

// Get returns the value of an attribute.
func (s *Store) Get(p scene.Plug) (any, error) {
	v, err := s.sc.GetAttr(p)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", p, err)
	}
	return v, nil
}

// GetOr returns def when the attribute does not exist. Other errors are
// returned unchanged.
func (s *Store) GetOr(p scene.Plug, def any) (any, error) {
	v, err := s.Get(p)
	if errors.Is(err, ErrAttributeNotFound) {
		return def, nil
	}
	return v, err
}

func typed[T any](s *Store, p scene.Plug) (T, error) {
	var zero T
	v, err := s.Get(p)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T, not %T", scene.ErrKindMismatch, p, v, zero)
	}
	return out, nil
}

// Float reads any scalar attribute as a float.
func (s *Store) Float(p scene.Plug) (float64, error) {
	v, err := s.Get(p)
	if err != nil {
		return 0, err
	}
	f, ok := scene.AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s holds %T, not a scalar", scene.ErrKindMismatch, p, v)
	}
	return f, nil
}

// Int reads an int or enum attribute.
func (s *Store) Int(p scene.Plug) (int, error) { return typed[int](s, p) }

// Bool reads a bool attribute.
func (s *Store) Bool(p scene.Plug) (bool, error) { return typed[bool](s, p) }

// String reads a string attribute.
func (s *Store) String(p scene.Plug) (string, error) { return typed[string](s, p) }

// Vec3 reads a Float3 attribute.
func (s *Store) Vec3(p scene.Plug) (mgl64.Vec3, error) { return typed[mgl64.Vec3](s, p) }

// Vec4 reads a Float4 attribute.
func (s *Store) Vec4(p scene.Plug) (mgl64.Vec4, error) { return typed[mgl64.Vec4](s, p) }

// Matrix reads a matrix attribute.
func (s *Store) Matrix(p scene.Plug) (mgl64.Mat4, error) { return typed[mgl64.Mat4](s, p) }

// Labels returns the labels of an enum attribute.
func (s *Store) Labels(p scene.Plug) ([]string, error) {
	info, err := s.sc.AttrInfo(p)
	if err != nil {
		return nil, fmt.Errorf("labels of %s: %w", p, err)
	}
	if info.Kind != scene.KindEnum {
		return nil, fmt.Errorf("%w: %s is not an enum", scene.ErrKindMismatch, p)
	}
	return info.Enum, nil
}

// EnumLabel returns the label of the current enum value.
func (s *Store) EnumLabel(p scene.Plug) (string, error) {
	labels, err := s.Labels(p)
	if err != nil {
		return "", err
	}
	i, err := s.Int(p)
	if err != nil {
		return "", err
	}
	if i < 0 || i >= len(labels) {
		return "", fmt.Errorf("enum %s holds %d outside its %d labels", p, i, len(labels))
	}
	return labels[i], nil
}

type setOptions struct {
	kind    scene.Kind
	locked  *bool
	keyable *bool
}

// SetOption configures Set.
type SetOption func(*setOptions)

// WithKind adds the attribute with this kind when it is missing.
func WithKind(k scene.Kind) SetOption {
	return func(o *setOptions) { o.kind = k }
}

// Locked sets the lock state after writing. Requesting it also lets Set
// write through an existing lock.
func Locked(v bool) SetOption {
	return func(o *setOptions) { o.locked = &v }
}

// Keyable sets the keyable state after writing.
func Keyable(v bool) SetOption {
	return func(o *setOptions) { o.keyable = &v }
}

func enumIndex(labels []string, v any) (any, error) {
	label, ok := v.(string)
	if !ok {
		return v, nil
	}
	i := slices.Index(labels, label)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q not in %v", ErrUnknownEnumLabel, label, labels)
	}
	return i, nil
}

// Set writes an attribute value.
func (s *Store) Set(p scene.Plug, v any, opts ...SetOption) error {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !s.sc.HasAttr(p) {
		if o.kind == scene.KindInvalid {
			return fmt.Errorf("set %s: %w", p, ErrAttributeNotFound)
		}
		add := AddOptions{Kind: o.kind, Value: v}
		if o.locked != nil {
			add.Lock = *o.locked
		}
		if o.keyable != nil {
			add.Keyable = *o.keyable
		}
		return s.Add(p.Node, p.Attr, add)
	}

	info, err := s.sc.AttrInfo(p)
	if err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	if info.Kind == scene.KindEnum {
		if v, err = enumIndex(info.Enum, v); err != nil {
			return fmt.Errorf("set %s: %w", p, err)
		}
	}

	state := info.AttrState
	if info.Locked && o.locked != nil {
		unlocked := state
		unlocked.Locked = false
		if err := s.sc.SetAttrState(p, unlocked); err != nil {
			return err
		}
	}
	if err := s.sc.SetAttr(p, v); err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	if o.locked == nil && o.keyable == nil {
		return nil
	}
	if o.locked != nil {
		state.Locked = *o.locked
	}
	if o.keyable != nil {
		state.Keyable = *o.keyable
	}
	return s.sc.SetAttrState(p, state)
}

// AddOptions describes a new user attribute. Kind is inferred from Value
// when zero, and Options makes it an enum.
type AddOptions struct {
	Kind       scene.Kind
	Value      any
	ChannelBox bool
	Keyable    bool
	NiceName   string
	Lock       bool
	Options    []string
	Min, Max   *float64
}

// Add declares a user attribute on node.
func (s *Store) Add(node, name string, o AddOptions) error {
	p := scene.P(node, name)
	if s.sc.HasAttr(p) {
		return fmt.Errorf("add %s: %w", p, ErrDuplicateAttribute)
	}
	kind := o.Kind
	if len(o.Options) > 0 {
		kind = scene.KindEnum
	}
	if kind == scene.KindInvalid {
		inferred, ok := scene.InferKind(o.Value)
		if !ok {
			return fmt.Errorf("add %s: cannot infer a kind from %T", p, o.Value)
		}
		kind = inferred
	}
	value := o.Value
	if kind == scene.KindEnum {
		var err error
		if value, err = enumIndex(o.Options, value); err != nil {
			return fmt.Errorf("add %s: %w", p, err)
		}
	}
	err := s.sc.AddAttr(node, scene.AttrSpec{
		Name:     name,
		Kind:     kind,
		Default:  value,
		Enum:     o.Options,
		Min:      o.Min,
		Max:      o.Max,
		NiceName: o.NiceName,
		State:    scene.AttrState{Locked: o.Lock, Keyable: o.Keyable, ChannelBox: o.ChannelBox},
	})
	if err != nil {
		return fmt.Errorf("add %s: %w", p, err)
	}
	return nil
}

// Delete removes a user attribute, unlocking it first.
func (s *Store) Delete(p scene.Plug) error {
	info, err := s.sc.AttrInfo(p)
	if err != nil {
		return fmt.Errorf("delete %s: %w", p, err)
	}
	if info.Locked {
		st := info.AttrState
		st.Locked = false
		if err := s.sc.SetAttrState(p, st); err != nil {
			return err
		}
	}
	if err := s.sc.DeleteAttr(p); err != nil {
		return fmt.Errorf("delete %s: %w", p, err)
	}
	return nil
}

// ClearUser deletes every user attribute of node except those in keep.
func (s *Store) ClearUser(node string, keep ...string) error {
	for _, name := range s.sc.ListAttrs(node, true) {
		if slices.Contains(keep, name) {
			continue
		}
		if err := s.Delete(scene.P(node, name)); err != nil {
			return err
		}
	}
	return nil
}

// Connect wires src into dst. With force an existing incoming connection is
// replaced.
func (s *Store) Connect(src, dst scene.Plug, force bool) error {
	if err := s.sc.Connect(src, dst, force); err != nil {
		return fmt.Errorf("connect %s -> %s: %w", src, dst, err)
	}
	return nil
}

// Disconnect removes the connection src -> dst.
func (s *Store) Disconnect(src, dst scene.Plug) error {
	if err := s.sc.Disconnect(src, dst); err != nil {
		return fmt.Errorf("disconnect %s -> %s: %w", src, dst, err)
	}
	return nil
}

// SetOrConnect connects plug inputs and sets literal ones.
func (s *Store) SetOrConnect(dst scene.Plug, input any) error {
	if src, ok := input.(scene.Plug); ok {
		return s.Connect(src, dst, true)
	}
	return s.Set(dst, input)
}
