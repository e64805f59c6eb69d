// Package arm provides the humanoid arm generator: an optional clavicle,
// FK and IK arm chains with a switch, and hand controls for a curling palm
// and five fingers.
package arm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/control"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
	"gonum.org/v1/gonum/spatial/r3"
)

// Key is the generator key of the arm.
const Key = "ArmHumanoid"

const (
	PoleSizeAttr    = "poleSize"
	BendRateAttr    = "bendRate"
	defaultPoleSize = 2.0
)

// Module implements the limb.Module interface for this package.
type Module struct{}

// Register registers the generator.
func (m *Module) Register(r *limb.Registry) {
	r.Register(Key, func() limb.Limb { return New() })
}

// Arm is the generator.
type Arm struct {
	limb.Base
}

// New returns a humanoid arm generator.
func New() *Arm {
	return &Arm{Base: limb.NewBase(Key, "Arm")}
}

// Options are the marker options.
type Options struct {
	limb.Placement
	HasClavicle bool `cty:"has_clavicle"`
}

type finger struct {
	name       string
	metacarpal r3.Vec
	startX     float64
	startZ     float64
	length     float64
	size       float64
}

var fingers = []finger{
	{name: "Pointer", metacarpal: r3.Vec{X: 53, Y: -1, Z: -0.6}, startX: 59.4, startZ: 0.5, length: 9.3},
	{name: "Middle", metacarpal: r3.Vec{X: 53.5, Y: -1, Z: -2.2}, startX: 59.8, startZ: -1.8, length: 9.7},
	{name: "Ring", metacarpal: r3.Vec{X: 53.5, Y: -1.2, Z: -3.8}, startX: 59.5, startZ: -4.1, length: 9.0},
	{name: "Pinky", metacarpal: r3.Vec{X: 53, Y: -1.6, Z: -5.4}, startX: 59.2, startZ: -6.4, length: 8.0, size: 1.2},
}

type marker struct {
	name string
	typ  string
	pos  r3.Vec
	size float64
}

var thumb = []marker{
	{"Thumb", "Knuckle", r3.Vec{X: 52, Y: -0.8, Z: -0.2}, 2},
	{"Thumb2", "Finger", r3.Vec{X: 52, Y: -4.9, Z: -0.1}, 2},
	{"Thumb3", "Finger", r3.Vec{X: 52, Y: -7, Z: -0.1}, 2},
	{"ThumbTip", "FingerTip", r3.Vec{X: 52, Y: -9, Z: -0.2}, 2},
}

func (f finger) markers() []marker {
	y := f.metacarpal.Y
	at := func(t, drop float64) r3.Vec { return r3.Vec{X: f.startX + t*f.length, Y: y - drop, Z: f.startZ} }
	return []marker{
		{f.name + "CMC", "Metacarpal", f.metacarpal, f.size},
		{f.name, "Knuckle", at(0, 0), 1.2},
		{f.name + "2", "Finger", at(0.5, 0), 1.2},
		{f.name + "3", "Finger", at(0.75, 0.1), 1.2},
		{f.name + "Tip", "FingerTip", at(1, 0.2), 1.2},
	}
}

func chain(ctx context.Context, r *limb.Rig, parent string, markers []marker) (string, error) {
	first := ""
	for _, m := range markers {
		j, err := r.Joints.Marker(ctx, naming.Left, m.name, m.pos, joint.MarkerOptions{Size: m.size, Type: m.typ, Parent: parent})
		if err != nil {
			return "", err
		}
		if first == "" {
			first = j
		}
		parent = j
	}
	return first, nil
}

// GenerateMarkers places the clavicle, arm and hand markers. A right arm is
// laid out on the left and mirrored.
func (a *Arm) GenerateMarkers(ctx context.Context, r *limb.Rig, opts limb.Options) (string, error) {
	o := Options{Placement: limb.DefaultPlacement(), HasClavicle: true}
	if err := opts.Decode(&o); err != nil {
		return "", fmt.Errorf("%s markers: %w", Key, err)
	}
	side, err := o.ParsedSide()
	if err != nil {
		return "", err
	}

	arm := []marker{
		{"Shoulder", "", r3.Vec{X: 13, Y: -1, Z: -3.5}, 6},
		{"Elbow", "", r3.Vec{X: 31, Y: -1, Z: -4.5}, 5},
		{"Wrist", "", r3.Vec{X: 52, Y: -1, Z: -2.5}, 5},
	}
	if o.HasClavicle {
		arm = append([]marker{{"Clavicle", "", r3.Vec{X: 2, Z: 2}, 10}}, arm...)
	}
	root, err := chain(ctx, r, "", arm)
	if err != nil {
		return "", err
	}
	elbow, err := naming.ButWith(naming.Parse(root), naming.WithName("Elbow"))
	if err != nil {
		return "", err
	}
	err = r.Attrs().Add(elbow.ToSceneHandle(), PoleSizeAttr, attr.AddOptions{
		Kind:  scene.KindFloat,
		Value: defaultPoleSize,
		Min:   lo.ToPtr(0.0),
	})
	if err != nil {
		return "", err
	}
	wrist, err := naming.ButWith(naming.Parse(root), naming.WithName("Wrist"))
	if err != nil {
		return "", err
	}
	for _, f := range fingers {
		if _, err := chain(ctx, r, wrist.ToSceneHandle(), f.markers()); err != nil {
			return "", err
		}
	}
	if _, err := chain(ctx, r, wrist.ToSceneHandle(), thumb); err != nil {
		return "", err
	}

	if side == naming.Right {
		mirrored, err := r.Joints.Mirror(ctx, root)
		if err != nil {
			return "", err
		}
		if err := r.Scene().Delete(root); err != nil {
			return "", err
		}
		root = mirrored
	}
	if err := a.MarkRoot(r, root, o.Symmetrical); err != nil {
		return "", err
	}
	r.Scene().Select(root)
	return root, nil
}

// BuildControls orients the arm and hand, then builds the clavicle, FK, IK,
// switch and hand controls.
func (a *Arm) BuildControls(ctx context.Context, b *limb.Build) error {
	if err := orient(b); err != nil {
		return err
	}
	core := make([]string, 3)
	for i, typ := range []string{"Shoulder", "Elbow", "Wrist"} {
		j, err := b.Pose.One(typ)
		if err != nil {
			return err
		}
		core[i] = j
	}

	shoulderParent := b.ControlGroup
	if b.Pose.Has("Clavicle") {
		clav, err := b.Pose.One("Clavicle")
		if err != nil {
			return err
		}
		ctrl, err := clavicleControl(b, clav)
		if err != nil {
			return err
		}
		if _, err := b.Graph.ParentConstraint(ctrl, clav, nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return err
		}
		shoulderParent = ctrl
	}

	sw, err := b.Controls.FkIkSwitch(ctx, core[2], "Arm", control.SwitchOptions{
		Parent:   b.ControlGroup,
		Position: mgl64.Vec3{0, 5, -10},
		Size:     5,
	})
	if err != nil {
		return err
	}
	fk, err := buildFK(ctx, b, core, sw, shoulderParent)
	if err != nil {
		return fmt.Errorf("fk: %w", err)
	}
	ik, err := buildIK(ctx, b, core, sw)
	if err != nil {
		return fmt.Errorf("ik: %w", err)
	}

	if b.LayoutControl != "" {
		if _, err := b.Graph.CompositeParent(core[2], b.LayoutControl, sw); err != nil {
			return err
		}
	}
	for i, j := range core {
		_, err := b.Graph.SpaceSwitch([]string{fk.At(i), ik.At(i)}, j, nodegraph.SpaceSwitchOptions{
			ControlAttr: scene.P(sw, control.SwitchIKAttr),
		})
		if err != nil {
			return err
		}
	}
	return handControls(ctx, b, core[2])
}

func worldUp(b *limb.Build, ref string) (mgl64.Vec3, error) {
	m, err := b.Scene().WorldMatrix(ref)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return xform.Axis(xform.RotationMatrix(m), 1), nil
}

// orientMatch aims j at its child with Y following the Y axis of ref.
func orientMatch(b *limb.Build, j, ref string, twist float64) error {
	up, err := worldUp(b, ref)
	if err != nil {
		return err
	}
	if joint.Side(j) == naming.Right {
		twist = -twist
	}
	return b.Joints.OrientTo(j, up, joint.OrientOptions{FlipRight: true, Twist: twist})
}

// fingerChain returns a finger's joints from its knuckle to the last joint
// before the tip.
func fingerChain(b *limb.Build, knuckle string) []string {
	out := []string{knuckle}
	for j := knuckle; ; {
		child, err := b.Joints.Child(j)
		if err != nil {
			break
		}
		if _, err := b.Joints.Child(child); err != nil {
			break
		}
		out = append(out, child)
		j = child
	}
	return out
}

func isThumb(knuckle string) bool {
	id, err := naming.ParseStructured(knuckle)
	return err == nil && strings.HasPrefix(id.Name, "Thumb")
}

func orient(b *limb.Build) error {
	if b.Pose.Has("Clavicle") {
		clav, err := b.Pose.One("Clavicle")
		if err != nil {
			return err
		}
		if err := b.Joints.OrientToChild(clav, true); err != nil {
			return err
		}
	}
	shoulder, err := b.Pose.One("Shoulder")
	if err != nil {
		return err
	}
	if err := b.Joints.OrientToChild(shoulder, true); err != nil {
		return err
	}
	elbow, err := b.Pose.One("Elbow")
	if err != nil {
		return err
	}
	normal, err := b.Joints.Normal(elbow, "", "")
	if err != nil {
		return err
	}
	if err := b.Joints.OrientTo(elbow, normal, joint.OrientOptions{FlipRight: true}); err != nil {
		return err
	}

	wrist, err := b.Pose.One("Wrist")
	if err != nil {
		return err
	}
	metacarpals, _ := b.Pose.Get("Metacarpal")
	for _, mc := range metacarpals {
		if err := orientMatch(b, mc, wrist, 0); err != nil {
			return err
		}
	}
	knuckles, err := b.Pose.Get("Knuckle")
	if err != nil {
		return err
	}
	for _, k := range knuckles {
		joints := fingerChain(b, k)
		if isThumb(k) {
			if err := orientThumb(b, k, knuckles[0]); err != nil {
				return err
			}
		} else if err := orientMatch(b, k, wrist, -90); err != nil {
			return err
		}
		for _, j := range joints[1:] {
			if err := orientMatch(b, j, k, 0); err != nil {
				return err
			}
		}
	}
	return nil
}

// orientThumb aims the thumb knuckle at the first finger knuckle, keeping
// the plane of the thumb as its up direction.
func orientThumb(b *limb.Build, thumb, target string) error {
	tip := b.Joints.Descendants(thumb)
	if len(tip) == 0 {
		return fmt.Errorf("thumb %s: %w", thumb, joint.ErrNoChild)
	}
	normal, err := b.Joints.Normal(thumb, "", tip[len(tip)-1])
	if err != nil {
		return err
	}
	up := normal.Mul(-1)
	right := joint.Side(thumb) == naming.Right
	if right {
		up = up.Mul(-1)
	}
	if err := b.Joints.OrientTo(thumb, up, joint.OrientOptions{Target: target}); err != nil {
		return err
	}
	if right {
		return b.Joints.FlipOrient(thumb)
	}
	return nil
}

// clavicleControl draws a curved band between half and three quarters of
// the way to the shoulder, tilted back 45 degrees.
func clavicleControl(b *limb.Build, clav string) (string, error) {
	radius, err := b.Joints.ControlSize(clav)
	if err != nil {
		return "", err
	}
	toChild, err := b.Joints.ToChild(clav)
	if err != nil {
		return "", err
	}
	x0, x1 := 0.5*toChild.X, 0.75*toChild.X
	arc := func(x float64, reverse bool) []mgl64.Vec3 {
		const n = 6
		pts := make([]mgl64.Vec3, n+1)
		for i := range pts {
			a := float64(i) / n * math.Pi / 2
			pts[i] = mgl64.Vec3{x, radius * math.Cos(a), radius * math.Sin(a)}
		}
		if reverse {
			lo.Reverse(pts)
		}
		return pts
	}
	pts := append(arc(x0, false), arc(x1, true)...)
	pts = append(pts, pts[0])

	world, err := b.Scene().WorldMatrix(clav)
	if err != nil {
		return "", err
	}
	shape := mgl64.Translate3D(0, math.Max(0, toChild.Y), toChild.Z).Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(-45)))
	crv := control.Curve{Degree: 1, Form: "open", Points: pts}.
		Transform(xform.RotationMatrix(world).Transpose().Mul4(shape))

	ctrl, err := b.Named(clav, naming.WithName("Shoulder"), naming.WithSuffix(naming.SuffixControl))
	if err != nil {
		return "", err
	}
	if err := b.Scene().CreateNode("nurbsCurve", ctrl, ""); err != nil {
		return "", err
	}
	if err := b.Controls.Place(ctrl, clav, crv, control.Options{Parent: b.ControlGroup}); err != nil {
		return "", err
	}
	return ctrl, b.Controls.SetColor(ctrl, "")
}

func showWith(b *limb.Build, sw, key string, ctrls ...string) error {
	for _, c := range ctrls {
		if err := b.Attrs().Connect(scene.P(sw, key), scene.P(c, "visibility"), true); err != nil {
			return err
		}
	}
	return nil
}

var spaces = []string{"Shoulders", "CoG", "Layout"}

func spaceSources(b *limb.Build) []string {
	return []string{b.CoGControl, b.LayoutControl}
}

// buildFK creates the FK joints driven by upper arm, forearm and wrist
// circles. The upper arm can follow the shoulders, the CoG or the layout.
func buildFK(ctx context.Context, b *limb.Build, core []string, sw, parent string) (*joint.Collection, error) {
	fk, err := b.Joints.Variants(ctx, core, naming.SuffixFKJoint, joint.VariantOptions{
		RootParent:      b.SystemsGroup,
		ClearAttributes: true,
	})
	if err != nil {
		return nil, err
	}
	specs := []struct {
		name  string
		locks []string
	}{
		{"UpperArm", []string{"translate"}},
		{"Forearm", []string{"translate", "rotateX", "rotateZ"}},
		{"Wrist", []string{"translate"}},
	}
	ctrls := make([]string, len(specs))
	for i, s := range specs {
		ctrl, err := b.Controls.Circle(ctx, fk.At(i), s.name, control.Options{Parent: parent, Suffix: naming.SuffixFKControl})
		if err != nil {
			return nil, err
		}
		if i == 0 && b.LayoutControl != "" {
			_, err := b.Graph.SpaceSwitch(spaceSources(b), ctrl, nodegraph.SpaceSwitchOptions{
				Options:       spaces,
				Default:       1,
				IncludeParent: true,
				TRS:           nodegraph.TRS{Rotate: lo.ToPtr(true)},
			})
			if err != nil {
				return nil, err
			}
		}
		if i == 2 {
			if err := b.Attrs().Set(scene.P(ctrl, "rotateOrder"), xform.YZX.String()); err != nil {
				return nil, err
			}
		}
		if _, err := b.Graph.ParentConstraint(ctrl, fk.At(i), nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return nil, err
		}
		if err := b.Attrs().Lock(ctrl, s.locks...); err != nil {
			return nil, err
		}
		ctrls[i] = ctrl
		parent = ctrl
	}
	return fk, showWith(b, sw, control.SwitchFKAttr, ctrls...)
}

// buildIK creates the IK joints, the pole and the hand control. The handle
// lives in the systems group and follows the hand; the IK wrist takes the
// hand's rotation.
func buildIK(ctx context.Context, b *limb.Build, core []string, sw string) (*joint.Collection, error) {
	ik, err := b.Joints.Variants(ctx, core, naming.SuffixIKJoint, joint.VariantOptions{
		RootParent:      b.SystemsGroup,
		ClearAttributes: true,
	})
	if err != nil {
		return nil, err
	}
	if parent := b.Scene().Parent(core[0]); parent != "" {
		if _, err := b.Graph.ParentConstraint(parent, ik.At(0), nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return nil, err
		}
	}

	var pos [3]mgl64.Vec3
	for i := range pos {
		p, err := b.Joints.Position(core[i])
		if err != nil {
			return nil, err
		}
		pos[i] = joint.Vec(p)
	}
	armOff := pos[2].Sub(pos[0])
	armDir := armOff.Normalize()
	elbowDir := pos[1].Sub(pos[0]).Normalize()
	offsetDir := elbowDir.Sub(armDir.Mul(elbowDir.Dot(armDir)))
	if offsetDir.Len() < 1e-9 {
		offsetDir = mgl64.Vec3{0, 0, -1}
	}
	offsetDir = offsetDir.Normalize()

	size, err := b.Attrs().GetOr(scene.P(core[1], PoleSizeAttr), defaultPoleSize)
	if err != nil {
		return nil, err
	}
	radius, _ := scene.AsFloat(size)
	pole, err := b.Controls.Octahedron(ctx, core[1], Key, control.Options{
		Parent:   b.ControlGroup,
		Suffix:   naming.SuffixIKPole,
		Position: pos[1].Add(offsetDir.Mul(armOff.Len())),
		Absolute: true,
		Radius:   radius,
	})
	if err != nil {
		return nil, err
	}
	if b.LayoutControl != "" {
		_, err := b.Graph.SpaceSwitch(spaceSources(b), pole, nodegraph.SpaceSwitchOptions{
			Options:       spaces,
			IncludeParent: true,
			TRS:           nodegraph.TRS{Translate: lo.ToPtr(true)},
			RotSource:     b.LayoutControl,
		})
		if err != nil {
			return nil, err
		}
	}
	if err := b.Attrs().Lock(pole, "rotate", "scale"); err != nil {
		return nil, err
	}
	if err := b.Attrs().Set(scene.P(pole, "showManipDefault"), 1); err != nil {
		return nil, err
	}

	handleName, err := b.Named(b.ControlGroup, naming.WithSuffix("ikHandle"))
	if err != nil {
		return nil, err
	}
	handle, err := b.IKHandle(handleName, ik.At(0), ik.At(2), "ik2Bsolver", b.SystemsGroup)
	if err != nil {
		return nil, err
	}
	if _, err := b.Graph.PoleVector(pole, ik.At(0), handle); err != nil {
		return nil, err
	}

	hand, err := b.Controls.Square(ctx, core[2], "Hand", control.Options{
		Parent:   b.ControlGroup,
		Suffix:   naming.SuffixIKControl,
		Position: pos[2],
		Absolute: true,
	})
	if err != nil {
		return nil, err
	}
	if err := b.Attrs().Set(scene.P(hand, "rotateOrder"), xform.YZX.String()); err != nil {
		return nil, err
	}
	if b.LayoutControl != "" {
		_, err := b.Graph.SpaceSwitch(spaceSources(b), hand, nodegraph.SpaceSwitchOptions{
			Options:       spaces,
			Default:       1,
			IncludeParent: true,
		})
		if err != nil {
			return nil, err
		}
	}
	if _, err := b.Graph.ParentConstraint(hand, handle, nodegraph.ConstraintOptions{Connect: true}); err != nil {
		return nil, err
	}
	if _, err := b.Graph.OrientConstraint([]string{hand}, ik.At(2), []any{1.0}); err != nil {
		return nil, err
	}
	return ik, showWith(b, sw, control.SwitchIKAttr, pole, hand)
}

// handControls builds the hand: a curl control rolling the outer
// metacarpals with a quadratic falloff, and per finger a pointer control
// that bends the whole finger plus one circle per joint.
func handControls(ctx context.Context, b *limb.Build, wrist string) error {
	handGrp, err := b.GroupAt(wrist, limb.GroupOptions{Suffix: naming.SuffixOffsetGroup, Parent: b.ControlGroup})
	if err != nil {
		return err
	}
	if _, err := b.Graph.ParentConstraint(wrist, handGrp, nodegraph.ConstraintOptions{Connect: true}); err != nil {
		return err
	}

	metacarpals, err := b.Pose.Get("Metacarpal")
	if err != nil && !errors.Is(err, joint.ErrNoJointOfType) {
		return err
	}
	if len(metacarpals) > 2 {
		if err := handCurl(ctx, b, handGrp, metacarpals); err != nil {
			return err
		}
	}

	knuckles, err := b.Pose.Get("Knuckle")
	if err != nil {
		return err
	}
	for _, k := range knuckles {
		if err := fingerControls(ctx, b, handGrp, k); err != nil {
			return fmt.Errorf("finger %s: %w", k, err)
		}
	}
	return nil
}

func handCurl(ctx context.Context, b *limb.Build, handGrp string, metacarpals []string) error {
	curl := metacarpals[len(metacarpals)-1]
	size, err := b.Joints.ControlSize(curl)
	if err != nil {
		return err
	}
	toChild, err := b.Joints.ToChild(curl)
	if err != nil {
		return err
	}
	ctrl, err := b.Controls.Square(ctx, curl, "HandCurl", control.Options{
		Parent:   handGrp,
		Axis:     control.Z,
		Position: joint.Vec(r3.Scale(0.5, toChild)).Add(mgl64.Vec3{0, 0, -1.5 * size}),
		Stretch:  &mgl64.Vec3{0.5 * r3.Norm(toChild) / size, 0, 1},
	})
	if err != nil {
		return err
	}
	rest := metacarpals[2:]
	for i, mc := range rest {
		fac := float64(i+1) / float64(len(rest))
		falloff, err := b.Graph.Mult(nodegraph.For(mc), fac*fac, scene.P(ctrl, "rotateZ"))
		if err != nil {
			return err
		}
		if err := b.Attrs().Connect(falloff, scene.P(mc, "rotateZ"), true); err != nil {
			return err
		}
	}
	return nil
}

func fingerControls(ctx context.Context, b *limb.Build, handGrp, knuckle string) error {
	id, err := naming.ParseStructured(knuckle)
	if err != nil {
		return err
	}
	root, err := b.Controls.Create(ctx, control.Pointer, knuckle, id.Name, control.Options{
		Parent:  handGrp,
		Tangent: &mgl64.Vec3{0, 0, 1},
	})
	if err != nil {
		return err
	}
	if _, err := b.Graph.ParentConstraint(b.Scene().Parent(knuckle), root, nodegraph.ConstraintOptions{Connect: true}); err != nil {
		return err
	}
	if err := b.Attrs().Lock(root, "translate"); err != nil {
		return err
	}

	var bend any = scene.P(root, "rotateY")
	if isThumb(knuckle) {
		err := b.Attrs().Add(root, BendRateAttr, attr.AddOptions{Kind: scene.KindFloat, Value: 0.75, Min: lo.ToPtr(0.0), Keyable: true})
		if err != nil {
			return err
		}
		bend, err = b.Graph.Mult(nodegraph.For(root), scene.P(root, "rotateY"), scene.P(root, BendRateAttr))
		if err != nil {
			return err
		}
	}
	bendMatrix, err := b.Graph.ComposeMatrix(nodegraph.For(root).WithSuffix("bend"), nodegraph.ComposeOptions{})
	if err != nil {
		return err
	}
	if err := b.Attrs().SetOrConnect(scene.P(bendMatrix.Node, "inputRotateY"), bend); err != nil {
		return err
	}

	prev := root
	for _, j := range fingerChain(b, knuckle) {
		ctrl, err := b.Controls.Circle(ctx, j, "", control.Options{Parent: prev})
		if err != nil {
			return err
		}
		if err := b.Attrs().Lock(ctrl, "translate", "rotateX", "rotateZ"); err != nil {
			return err
		}
		if prev != root {
			rest, err := b.Attrs().Matrix(scene.P(ctrl, "offsetParentMatrix"))
			if err != nil {
				return err
			}
			offset, err := b.Graph.MatMult(nodegraph.For(ctrl).WithSuffix("offset"), bendMatrix, rest)
			if err != nil {
				return err
			}
			if err := b.Attrs().Connect(offset, scene.P(ctrl, "offsetParentMatrix"), true); err != nil {
				return err
			}
		}
		if _, err := b.Graph.ParentConstraint(ctrl, j, nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return err
		}
		prev = ctrl
	}
	return nil
}

// BuildBindJoints binds every pose joint except the finger tips.
func (a *Arm) BuildBindJoints(ctx context.Context, b *limb.Build) (*joint.Collection, error) {
	pose := b.Pose.Names()
	bind, err := b.Joints.Variants(ctx, pose, naming.SuffixBindJoint, joint.VariantOptions{RootParent: b.BindParent(pose[0])})
	if err != nil {
		return nil, err
	}
	for i, j := range bind.Names() {
		if b.Joints.Type(j) == "FingerTip" {
			if err := b.Joints.Dissolve(j); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := b.Graph.ParentConstraint(pose[i], j, nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return nil, err
		}
	}
	bind.Prune()
	return bind, nil
}
