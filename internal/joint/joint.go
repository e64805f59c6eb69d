package joint

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
	"gonum.org/v1/gonum/spatial/r3"
)

// Reserved joint attributes.
const (
	GeneratorAttr   = "autorigLimb"
	SymmetricalAttr = "symmetrical"
	TypeAttr        = "mayaRigJoint"
	ControlSizeAttr = "controlSize"
)

// Joints creates and inspects joints in one scene.
type Joints struct {
	sc       scene.Scene
	attrs    *attr.Store
	initials string
}

// New returns Joints that name markers with the given character initials.
func New(attrs *attr.Store, initials string) *Joints {
	return &Joints{sc: attrs.Scene(), attrs: attrs, initials: initials}
}

// Scene returns the scene the joints live in.
func (j *Joints) Scene() scene.Scene { return j.sc }

// Attrs returns the attribute store.
func (j *Joints) Attrs() *attr.Store { return j.attrs }

// MarkerOptions configures Marker. OnCollision defaults to Increment.
type MarkerOptions struct {
	Size        float64
	Type        string
	Parent      string
	OnCollision *naming.CollisionPolicy
}

// Marker creates a marker joint at a world position. The joint type
// defaults to name.
func (j *Joints) Marker(ctx context.Context, side naming.Side, name string, pos r3.Vec, o MarkerOptions) (string, error) {
	id, err := naming.Compose(j.initials, side, name, naming.SuffixMarker)
	if err != nil {
		return "", err
	}
	resolved, err := naming.ResolveCollision(j.sc, id, lo.FromPtrOr(o.OnCollision, naming.Increment))
	if err != nil {
		return "", err
	}
	handle := resolved.ToSceneHandle()
	if err := j.sc.CreateNode("joint", handle, o.Parent); err != nil {
		return "", err
	}

	local := mgl64.Vec3{pos.X, pos.Y, pos.Z}
	if o.Parent != "" {
		parentWorld, err := j.sc.WorldMatrix(o.Parent)
		if err != nil {
			return "", err
		}
		local = parentWorld.Inv().Mul4x1(local.Vec4(1)).Vec3()
	}
	if err := j.attrs.Set(scene.P(handle, "translate"), local); err != nil {
		return "", err
	}

	if o.Size > 0 {
		if err := j.attrs.Add(handle, ControlSizeAttr, attr.AddOptions{Kind: scene.KindFloat, Value: o.Size, ChannelBox: true}); err != nil {
			return "", err
		}
	}
	if err := j.SetType(handle, lo.Ternary(o.Type != "", o.Type, name)); err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Created marker.", "marker", handle)
	return handle, nil
}

// CoGMarker creates the character's centre of gravity marker. It fails when
// the marker already exists.
func (j *Joints) CoGMarker(ctx context.Context, pos r3.Vec) (string, error) {
	m, err := j.Marker(ctx, naming.Center, "CenterOfGravity", pos, MarkerOptions{
		Size:        20,
		Type:        "CoG",
		OnCollision: lo.ToPtr(naming.Throw),
	})
	if err != nil {
		return "", err
	}
	return m, j.attrs.Set(scene.P(m, "radius"), 2.0)
}

// SetType tags a joint with its type.
func (j *Joints) SetType(joint, typ string) error {
	p := scene.P(joint, TypeAttr)
	if !j.attrs.Exists(p) {
		return j.attrs.Add(joint, TypeAttr, attr.AddOptions{Kind: scene.KindString, Value: typ, Lock: true})
	}
	return j.attrs.Set(p, typ, attr.Locked(true))
}

// Type returns the joint type tag, or "" when the joint has none.
func (j *Joints) Type(joint string) string {
	v, _ := j.attrs.GetOr(scene.P(joint, TypeAttr), "")
	s, _ := v.(string)
	return s
}

// ControlSize returns the control size hint of a joint, 1 when unset.
func (j *Joints) ControlSize(joint string) (float64, error) {
	v, err := j.attrs.GetOr(scene.P(joint, ControlSizeAttr), 1.0)
	if err != nil {
		return 0, err
	}
	f, _ := scene.AsFloat(v)
	return f, nil
}

// MarkRoot tags joint as the root of a limb built by generator.
func (j *Joints) MarkRoot(joint, generator string, symmetrical bool) error {
	if !j.sc.Exists(joint) {
		return fmt.Errorf("mark root %s: %w", joint, scene.ErrNodeNotFound)
	}
	if err := j.upsert(joint, GeneratorAttr, attr.AddOptions{Kind: scene.KindString, Value: generator, ChannelBox: true, Lock: true}); err != nil {
		return err
	}
	return j.upsert(joint, SymmetricalAttr, attr.AddOptions{Kind: scene.KindBool, Value: symmetrical, ChannelBox: true})
}

func (j *Joints) upsert(node, name string, o attr.AddOptions) error {
	p := scene.P(node, name)
	if j.attrs.Exists(p) {
		return j.attrs.Set(p, o.Value, attr.Locked(o.Lock))
	}
	return j.attrs.Add(node, name, o)
}

// ClearRoot removes the root tags from joint.
func (j *Joints) ClearRoot(joint string) error {
	if !j.IsRoot(joint) {
		return nil
	}
	if err := j.attrs.Delete(scene.P(joint, GeneratorAttr)); err != nil {
		return err
	}
	return j.attrs.Delete(scene.P(joint, SymmetricalAttr))
}

// IsRoot reports whether joint carries both root tags.
func (j *Joints) IsRoot(joint string) bool {
	return j.attrs.Exists(scene.P(joint, GeneratorAttr)) && j.attrs.Exists(scene.P(joint, SymmetricalAttr))
}

// Generator returns the limb key of a root.
func (j *Joints) Generator(joint string) (string, error) {
	if !j.IsRoot(joint) {
		return "", fmt.Errorf("generator of %s: %w", joint, ErrNotRoot)
	}
	return j.attrs.String(scene.P(joint, GeneratorAttr))
}

// IsSymmetrical reports whether a root is mirrored at build time.
func (j *Joints) IsSymmetrical(joint string) (bool, error) {
	if !j.IsRoot(joint) {
		return false, fmt.Errorf("symmetry of %s: %w", joint, ErrNotRoot)
	}
	return j.attrs.Bool(scene.P(joint, SymmetricalAttr))
}

// Position returns the world position of a node.
func (j *Joints) Position(node string) (r3.Vec, error) {
	m, err := j.sc.WorldMatrix(node)
	if err != nil {
		return r3.Vec{}, err
	}
	return vec(xform.Translation(m)), nil
}

// Children lists the joint children of a node.
func (j *Joints) Children(node string) []string {
	return lo.Filter(j.sc.Children(node), func(c string, _ int) bool {
		typ, _ := j.sc.NodeType(c)
		return typ == "joint"
	})
}

// Child returns the first joint child of a node.
func (j *Joints) Child(node string) (string, error) {
	children := j.Children(node)
	if len(children) == 0 {
		return "", fmt.Errorf("%s: %w", node, ErrNoChild)
	}
	return children[0], nil
}

// ToChild returns the world offset from joint to its first joint child.
func (j *Joints) ToChild(joint string) (r3.Vec, error) {
	child, err := j.Child(joint)
	if err != nil {
		return r3.Vec{}, err
	}
	from, err := j.Position(joint)
	if err != nil {
		return r3.Vec{}, err
	}
	to, err := j.Position(child)
	if err != nil {
		return r3.Vec{}, err
	}
	return r3.Sub(to, from), nil
}

// Dissolve removes joint from its hierarchy, handing its children to its
// parent in place.
func (j *Joints) Dissolve(joint string) error {
	parent := j.sc.Parent(joint)
	for _, c := range j.sc.Children(joint) {
		if err := j.sc.SetParent(c, parent); err != nil {
			return err
		}
	}
	return j.sc.Delete(joint)
}

// Side returns the side encoded in a handle, Center for opaque names.
func Side(handle string) naming.Side {
	if s, ok := naming.Parse(handle).(naming.Structured); ok {
		return s.Side
	}
	return naming.Center
}

func vec(v mgl64.Vec3) r3.Vec { return r3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Vec converts a position to the matrix library's vector type.
func Vec(v r3.Vec) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }
