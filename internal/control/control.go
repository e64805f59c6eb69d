package control

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

// Controls creates control curves next to reference joints.
type Controls struct {
	sc     scene.Scene
	attrs  *attr.Store
	joints *joint.Joints
	graph  *nodegraph.Builder
}

// New returns Controls working in the joints' scene.
func New(joints *joint.Joints, graph *nodegraph.Builder) *Controls {
	return &Controls{sc: joints.Scene(), attrs: joints.Attrs(), joints: joints, graph: graph}
}

// Options configures a control. Zero values take the noted defaults.
type Options struct {
	Parent string
	// Axis the shape faces. Default X.
	Axis Axis
	// Position offsets the shape from the reference joint along a world
	// direction, or places it in world space with Absolute.
	Position mgl64.Vec3
	Absolute bool
	// Suffix defaults to "control".
	Suffix      string
	OnCollision *naming.CollisionPolicy
	// Stretch scales the shape before it is turned to Axis.
	Stretch *mgl64.Vec3
	// Radius overrides the reference joint's control size.
	Radius float64
	// NoRotate keeps the control aligned with the world.
	NoRotate bool
	// NoInherit turns off inheritsTransform.
	NoInherit bool

	// Pointer only. Tangent defaults to +Y and is flipped on the right side;
	// TipScale defaults to 0.25.
	Tangent  *mgl64.Vec3
	TipScale float64

	// CircleWithArrows only, as fractions of the radius. Default 0.125.
	ArrowWidth, ArrowLength float64

	// Color is a palette name. Default per side.
	Color string
}

func (c *Controls) name(ref, name, suffix string, policy *naming.CollisionPolicy) (string, error) {
	opts := []naming.Option{naming.WithSuffix(lo.Ternary(suffix != "", suffix, naming.SuffixControl))}
	if name != "" {
		opts = append(opts, naming.WithName(name))
	}
	id, err := naming.ButWith(naming.Parse(ref), opts...)
	if err != nil {
		return "", fmt.Errorf("cannot name control after %s: %w", ref, err)
	}
	id, err = naming.Resolve(c.sc, id, lo.FromPtrOr(policy, naming.Increment))
	if err != nil {
		return "", err
	}
	return id.ToSceneHandle(), nil
}

func (c *Controls) curve(shape Shape, ref string, o Options) (Curve, error) {
	size := o.Radius
	if size == 0 {
		s, err := c.joints.ControlSize(ref)
		if err != nil {
			return Curve{}, err
		}
		size = s
	}
	stretch := lo.FromPtrOr(o.Stretch, mgl64.Vec3{1, 1, 1})
	orient := axisRotations[o.Axis].Mul4(mgl64.Scale3D(stretch[0], stretch[1], stretch[2]))

	switch shape {
	case Circle:
		return CircleCurve(size).Transform(orient), nil
	case Square:
		return SquareCurve(size).Transform(orient), nil
	case Saddle:
		return SaddleCurve(size).Transform(orient), nil
	case Octahedron:
		return OctahedronCurve(size), nil
	case CircleWithArrows:
		w := lo.Ternary(o.ArrowWidth != 0, o.ArrowWidth, 0.125)
		l := lo.Ternary(o.ArrowLength != 0, o.ArrowLength, 0.125)
		return CircleWithArrowsCurve(size, w, l).Transform(axisRotations[o.Axis]), nil
	case Pointer:
		tangent := lo.FromPtrOr(o.Tangent, mgl64.Vec3{0, 1, 0})
		tangent = tangent.Mul(joint.Side(ref).Sign())
		return PointerCurve(size, o.Axis, tangent, lo.Ternary(o.TipScale != 0, o.TipScale, 0.25)), nil
	}
	return Curve{}, fmt.Errorf("unknown control shape %d", shape)
}

// Create builds a control of the given shape named after ref with name as
// its semantic name (ref's name when empty).
func (c *Controls) Create(ctx context.Context, shape Shape, ref, name string, o Options) (string, error) {
	ctrl, err := c.name(ref, name, o.Suffix, o.OnCollision)
	if err != nil {
		return "", err
	}
	crv, err := c.curve(shape, ref, o)
	if err != nil {
		return "", err
	}
	if err := c.sc.CreateNode("nurbsCurve", ctrl, ""); err != nil {
		return "", err
	}
	if err := c.Place(ctrl, ref, crv, o); err != nil {
		return "", err
	}
	if err := c.SetColor(ctrl, o.Color); err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Created control.", "control", ctrl, "shape", shape.String())
	return ctrl, nil
}

// Circle is Create(Circle, ...).
func (c *Controls) Circle(ctx context.Context, ref, name string, o Options) (string, error) {
	return c.Create(ctx, Circle, ref, name, o)
}

// Square is Create(Square, ...).
func (c *Controls) Square(ctx context.Context, ref, name string, o Options) (string, error) {
	return c.Create(ctx, Square, ref, name, o)
}

// Octahedron is Create(Octahedron, ...).
func (c *Controls) Octahedron(ctx context.Context, ref, name string, o Options) (string, error) {
	return c.Create(ctx, Octahedron, ref, name, o)
}

// Place writes the curve into ctrl, moves it onto ref, parents it and sets
// its rest pose. A relative Position is converted into ref's space so the
// shape sits at that world offset.
func (c *Controls) Place(ctrl, ref string, crv Curve, o Options) error {
	refWorld, err := c.sc.WorldMatrix(ref)
	if err != nil {
		return err
	}

	world := mgl64.Translate3D(o.Position[0], o.Position[1], o.Position[2])
	if !o.Absolute {
		t, rot, s := xform.Decompose(refWorld)
		if o.NoRotate {
			rot = mgl64.Ident4()
		}
		if l := o.Position.Len(); l > 0 {
			local := o.Position
			if !o.NoRotate {
				local = rot.Transpose().Mul4x1(o.Position.Vec4(0)).Vec3().Normalize().Mul(l)
			}
			crv = crv.Transform(mgl64.Translate3D(local[0], local[1], local[2]))
		}
		world = xform.Compose(t, rot, s)
	}

	if err := c.writeCurve(ctrl, crv); err != nil {
		return err
	}
	if err := c.sc.SetWorldMatrix(ctrl, world); err != nil {
		return err
	}
	if o.NoInherit {
		if err := c.attrs.Set(scene.P(ctrl, "inheritsTransform"), false); err != nil {
			return err
		}
	}
	if o.Parent != "" {
		if err := c.sc.SetParent(ctrl, o.Parent); err != nil {
			return err
		}
	}
	return c.attrs.SetRest(ctrl)
}

func (c *Controls) writeCurve(ctrl string, crv Curve) error {
	if len(crv.Points) == 0 {
		return nil
	}
	values := map[string]any{"controlPoints": crv.Flat(), "degree": crv.Degree, "form": crv.Form}
	for name, v := range values {
		if err := c.attrs.Set(scene.P(ctrl, name), v); err != nil {
			return err
		}
	}
	return nil
}

// SetColor overrides the display colour of a node. An empty name picks the
// colour of the node's side.
func (c *Controls) SetColor(node, name string) error {
	if name == "" {
		name = SideColors[joint.Side(node)]
	}
	rgb, err := LookupColor(name)
	if err != nil {
		return err
	}
	for attrName, v := range map[string]any{"overrideEnabled": true, "overrideRGBColors": true, "overrideColorRGB": rgb} {
		if err := c.attrs.Set(scene.P(node, attrName), v); err != nil {
			return err
		}
	}
	return nil
}

// ShapeOf reads the curve stored on a control.
func (c *Controls) ShapeOf(ctrl string) (Curve, error) {
	v, err := c.attrs.Get(scene.P(ctrl, "controlPoints"))
	if err != nil {
		return Curve{}, err
	}
	flat, _ := v.([]float64)
	degree, err := c.attrs.Int(scene.P(ctrl, "degree"))
	if err != nil {
		return Curve{}, err
	}
	form, err := c.attrs.EnumLabel(scene.P(ctrl, "form"))
	if err != nil {
		return Curve{}, err
	}
	pts := lo.Map(lo.Chunk(flat, 3), func(p []float64, _ int) mgl64.Vec3 { return mgl64.Vec3{p[0], p[1], p[2]} })
	return Curve{Degree: degree, Form: form, Points: pts}, nil
}

// Bounds returns the largest distance of any curve point from the origin.
func (crv Curve) Bounds() float64 {
	return lo.Reduce(crv.Points, func(acc float64, p mgl64.Vec3, _ int) float64 {
		return math.Max(acc, p.Len())
	}, 0)
}
