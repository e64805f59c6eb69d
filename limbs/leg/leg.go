// Package leg provides the humanoid leg generator: an FK chain, a two bone
// IK chain with a reverse foot, and an FK/IK switch blending both onto the
// pose joints.
package leg

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/control"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Key is the generator key of the leg.
const Key = "HumanoidLeg"

// Marker attributes read while building.
const (
	PoleSizeAttr    = "poleSize"
	TwistRestAttr   = "twistRest"
	FootOutsetAttr  = "footControlOutset"
	defaultPoleSize = 2.0
	defaultOutset   = 2.0
)

// Module implements the limb.Module interface for this package.
type Module struct{}

// Register registers the generator.
func (m *Module) Register(r *limb.Registry) {
	r.Register(Key, func() limb.Limb { return New() })
}

// Leg is the generator.
type Leg struct {
	limb.Base
}

// New returns a humanoid leg generator.
func New() *Leg {
	return &Leg{Base: limb.NewBase(Key, "Leg")}
}

// Options are the marker options.
type Options struct {
	limb.Placement
}

type marker struct {
	name   string
	typ    string
	pos    r3.Vec
	size   float64
	parent int
}

// Markers are laid out on the left side; parent indexes an earlier entry,
// -1 for the root.
var markers = []marker{
	{name: "Hip", pos: r3.Vec{X: 7, Y: 80}, size: 8, parent: -1},
	{name: "Knee", pos: r3.Vec{X: 7, Y: 45, Z: 1}, size: 7, parent: 0},
	{name: "Ankle", pos: r3.Vec{X: 7, Y: 10, Z: -1}, size: 5, parent: 1},
	{name: "Heel", pos: r3.Vec{X: 7, Z: -9}, parent: 2},
	{name: "BallOfFoot", pos: r3.Vec{X: 7, Y: 1.5, Z: 8}, size: 5, parent: 2},
	{name: "TipOfToe", pos: r3.Vec{X: 7, Y: 1, Z: 16}, parent: 4},
	{name: "FootBankInner", typ: "Inner", pos: r3.Vec{X: 4, Z: 9}, parent: 2},
	{name: "FootBankOuter", typ: "Outer", pos: r3.Vec{X: 14, Z: 7}, parent: 2},
}

// GenerateMarkers places the leg and foot markers. A right leg is laid out
// on the left and mirrored.
func (l *Leg) GenerateMarkers(ctx context.Context, r *limb.Rig, opts limb.Options) (string, error) {
	o := Options{Placement: limb.DefaultPlacement()}
	if err := opts.Decode(&o); err != nil {
		return "", fmt.Errorf("%s markers: %w", Key, err)
	}
	side, err := o.ParsedSide()
	if err != nil {
		return "", err
	}

	placed := make([]string, len(markers))
	for i, m := range markers {
		parent := ""
		if m.parent >= 0 {
			parent = placed[m.parent]
		}
		placed[i], err = r.Joints.Marker(ctx, naming.Left, m.name, m.pos, joint.MarkerOptions{
			Size:   m.size,
			Type:   m.typ,
			Parent: parent,
		})
		if err != nil {
			return "", err
		}
	}
	hip, ankle := placed[0], placed[2]
	extra := []struct {
		node, name string
		o          attr.AddOptions
	}{
		{hip, PoleSizeAttr, attr.AddOptions{Kind: scene.KindFloat, Value: defaultPoleSize, Min: lo.ToPtr(0.0)}},
		{hip, TwistRestAttr, attr.AddOptions{Kind: scene.KindFloat3, Value: mgl64.Vec3{0, 0, -45}}},
		{ankle, FootOutsetAttr, attr.AddOptions{Kind: scene.KindFloat, Value: defaultOutset}},
	}
	for _, e := range extra {
		if err := r.Attrs().Add(e.node, e.name, e.o); err != nil {
			return "", err
		}
	}

	if side == naming.Right {
		mirrored, err := r.Joints.Mirror(ctx, hip)
		if err != nil {
			return "", err
		}
		if err := r.Scene().Delete(hip); err != nil {
			return "", err
		}
		hip = mirrored
	}
	if err := l.MarkRoot(r, hip, o.Symmetrical); err != nil {
		return "", err
	}
	r.Scene().Select(hip)
	return hip, nil
}

// core is the chain shared by the pose, FK and IK joints.
var core = []string{"Hip", "Knee", "Ankle", "BallOfFoot", "TipOfToe"}

// BuildControls orients the chain and builds the FK controls, the IK
// setup and the switch between them.
func (l *Leg) BuildControls(ctx context.Context, b *limb.Build) error {
	if err := orient(b); err != nil {
		return err
	}
	pose := make([]string, len(core))
	for i, typ := range core {
		j, err := b.Pose.One(typ)
		if err != nil {
			return err
		}
		pose[i] = j
	}

	sw, err := b.Controls.FkIkSwitch(ctx, pose[2], "Leg", control.SwitchOptions{
		Parent:   b.ControlGroup,
		Position: mgl64.Vec3{10, 5, 0},
		Size:     5,
		Default:  1,
	})
	if err != nil {
		return err
	}
	fk, err := buildFK(ctx, b, pose, sw)
	if err != nil {
		return fmt.Errorf("fk: %w", err)
	}
	ik, err := buildIK(ctx, b, pose, sw)
	if err != nil {
		return fmt.Errorf("ik: %w", err)
	}

	if b.LayoutControl != "" {
		if _, err := b.Graph.CompositeParent(pose[2], b.LayoutControl, sw); err != nil {
			return err
		}
	}
	for i, j := range pose {
		_, err := b.Graph.SpaceSwitch([]string{fk.At(i), ik.At(i)}, j, nodegraph.SpaceSwitchOptions{
			ControlAttr: scene.P(sw, control.SwitchIKAttr),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func orient(b *limb.Build) error {
	hip, err := b.Pose.One("Hip")
	if err != nil {
		return err
	}
	knee, err := b.Pose.One("Knee")
	if err != nil {
		return err
	}
	down := mgl64.Vec3{0, 0, -1}
	if err := b.Joints.OrientTo(hip, down, joint.OrientOptions{}); err != nil {
		return err
	}
	if joint.Side(hip) == naming.Right {
		if err := b.Joints.FlipOrient(hip); err != nil {
			return err
		}
	}
	normal, err := b.Joints.Normal(knee, "", "")
	if err != nil {
		return err
	}
	if err := b.Joints.OrientTo(knee, normal, joint.OrientOptions{Up: down, FlipRight: true}); err != nil {
		return err
	}
	for _, typ := range []string{"Ankle", "BallOfFoot"} {
		j, err := b.Pose.One(typ)
		if err != nil {
			return err
		}
		if err := b.Joints.OrientWorld(j, false); err != nil {
			return err
		}
	}
	return nil
}

func showWith(b *limb.Build, sw, key string, ctrls ...string) error {
	for _, c := range ctrls {
		if err := b.Attrs().Connect(scene.P(sw, key), scene.P(c, "visibility"), true); err != nil {
			return err
		}
	}
	return nil
}

// buildFK creates the FK joints and their circle controls: upper leg, lower
// leg, ankle and toe, each parented under the previous one.
func buildFK(ctx context.Context, b *limb.Build, pose []string, sw string) (*joint.Collection, error) {
	fk, err := b.Joints.Variants(ctx, pose, naming.SuffixFKJoint, joint.VariantOptions{
		RootParent:      b.SystemsGroup,
		ClearAttributes: true,
	})
	if err != nil {
		return nil, err
	}

	toKnee, err := b.Joints.ToChild(pose[0])
	if err != nil {
		return nil, err
	}
	toAnkle, err := b.Joints.ToChild(pose[1])
	if err != nil {
		return nil, err
	}
	specs := []struct {
		name  string
		o     control.Options
		locks []string
	}{
		{"UpperLeg", control.Options{Position: joint.Vec(r3.Scale(0.5, toKnee))}, []string{"translate"}},
		{"LowerLeg", control.Options{Position: joint.Vec(r3.Scale(0.33, toAnkle))}, []string{"translate", "rotateX", "rotateY"}},
		{"Ankle", control.Options{Axis: control.Y}, []string{"translate"}},
		{"Toe", control.Options{Axis: control.Z}, []string{"translate", "rotateY", "rotateZ"}},
	}

	parent := b.ControlGroup
	ctrls := make([]string, len(specs))
	for i, s := range specs {
		s.o.Parent = parent
		s.o.Suffix = naming.SuffixFKControl
		ctrl, err := b.Controls.Circle(ctx, pose[i], s.name, s.o)
		if err != nil {
			return nil, err
		}
		if i == 0 && b.CoGControl != "" {
			_, err := b.Graph.SpaceSwitch([]string{b.CoGControl}, ctrl, nodegraph.SpaceSwitchOptions{
				Options:       []string{"hip", "CoG"},
				IncludeParent: true,
				TRS:           nodegraph.TRS{Rotate: lo.ToPtr(true)},
			})
			if err != nil {
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

// buildIK creates the IK joints, the pole control with its follow setup,
// the foot control and the reverse foot pivots carrying the handles.
func buildIK(ctx context.Context, b *limb.Build, pose []string, sw string) (*joint.Collection, error) {
	ik, err := b.Joints.Variants(ctx, pose, naming.SuffixIKJoint, joint.VariantOptions{
		RootParent:      b.SystemsGroup,
		ClearAttributes: true,
	})
	if err != nil {
		return nil, err
	}

	pole, err := poleControl(ctx, b, pose)
	if err != nil {
		return nil, err
	}
	foot, err := footControl(b, pose)
	if err != nil {
		return nil, err
	}
	if err := showWith(b, sw, control.SwitchIKAttr, pole, foot); err != nil {
		return nil, err
	}
	if b.LayoutControl != "" {
		if _, err := b.Graph.ParentConstraint(b.LayoutControl, foot, nodegraph.ConstraintOptions{Connect: true}); err != nil {
			return nil, err
		}
	}
	if err := poleFollow(b, pose[0], pole, foot); err != nil {
		return nil, err
	}

	p, err := pivots(b, foot)
	if err != nil {
		return nil, err
	}
	if err := footRoll(b, foot, p); err != nil {
		return nil, err
	}

	handleName, err := b.Named(b.ControlGroup, naming.WithSuffix("ikHandle"))
	if err != nil {
		return nil, err
	}
	handle, err := b.IKHandle(handleName, ik.At(0), ik.At(2), "ik2Bsolver", p.flex)
	if err != nil {
		return nil, err
	}
	if _, err := b.Graph.PoleVector(pole, ik.At(0), handle); err != nil {
		return nil, err
	}
	footHandle, err := b.Named(ik.At(2), naming.WithSuffix("ikHandle"))
	if err != nil {
		return nil, err
	}
	if _, err := b.IKHandle(footHandle, ik.At(2), ik.At(3), "ikSCsolver", p.flex); err != nil {
		return nil, err
	}
	toeHandle, err := b.Named(ik.At(3), naming.WithName("Toe"), naming.WithSuffix("ikHandle"))
	if err != nil {
		return nil, err
	}
	if _, err := b.IKHandle(toeHandle, ik.At(3), ik.At(4), "ikSCsolver", p.tap); err != nil {
		return nil, err
	}
	return ik, nil
}

// poleControl places the pole in the leg plane, in front of the knee, as
// far from the hip as the ankle is.
func poleControl(ctx context.Context, b *limb.Build, pose []string) (string, error) {
	var pos [3]mgl64.Vec3
	for i := range pos {
		p, err := b.Joints.Position(pose[i])
		if err != nil {
			return "", err
		}
		pos[i] = joint.Vec(p)
	}
	legOff := pos[2].Sub(pos[0])
	legDir := legOff.Normalize()
	kneeDir := pos[1].Sub(pos[0]).Normalize()
	offsetDir := kneeDir.Sub(legDir.Mul(kneeDir.Dot(legDir)))
	if offsetDir.Len() < 1e-9 {
		offsetDir = mgl64.Vec3{0, 0, 1}
	}
	offsetDir = offsetDir.Normalize()

	size, err := b.Attrs().GetOr(scene.P(pose[0], PoleSizeAttr), defaultPoleSize)
	if err != nil {
		return "", err
	}
	radius, _ := scene.AsFloat(size)
	pole, err := b.Controls.Octahedron(ctx, pose[0], Key, control.Options{
		Parent:   b.ControlGroup,
		Suffix:   naming.SuffixIKPole,
		Position: pos[0].Add(offsetDir.Mul(legOff.Len())),
		Absolute: true,
		Radius:   radius,
	})
	if err != nil {
		return "", err
	}

	poleAttrs := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"automation", 1, 0, 1},
		{"followFoot", 1, 0, 1},
		{"twist", 0, -180, 180},
	}
	for _, a := range poleAttrs {
		err := b.Attrs().Add(pole, a.name, attr.AddOptions{
			Kind:    scene.KindFloat,
			Value:   a.value,
			Min:     lo.ToPtr(a.min),
			Max:     lo.ToPtr(a.max),
			Keyable: true,
		})
		if err != nil {
			return "", err
		}
	}
	if err := b.Attrs().Lock(pole, "rotate", "scale"); err != nil {
		return "", err
	}
	return pole, b.Attrs().Set(scene.P(pole, "showManipDefault"), 1)
}

// aimDown turns grp so its -Y axis points at target, with X aligned to the
// X axis of up.
func aimDown(b *limb.Build, grp, target, up string) error {
	parent := b.Scene().Parent(grp)
	rest, err := b.Attrs().Matrix(scene.P(grp, "offsetParentMatrix"))
	if err != nil {
		return err
	}
	n := nodegraph.For(grp)
	in, err := b.Graph.MatMult(n.WithSuffix("aimInput"), rest, scene.P(parent, "worldMatrix"))
	if err != nil {
		return err
	}
	aim, err := b.Graph.AimMatrix(n, in, nodegraph.AimOptions{
		Primary: nodegraph.AimTarget{Axis: mgl64.Vec3{0, -1, 0}, Matrix: scene.P(target, "worldMatrix")},
		Secondary: &nodegraph.AimTarget{
			Axis:   mgl64.Vec3{1, 0, 0},
			Mode:   "align",
			Matrix: scene.P(up, "worldMatrix"),
			Vector: mgl64.Vec3{1, 0, 0},
		},
	})
	if err != nil {
		return err
	}
	local, err := b.Graph.MatMult(n.WithSuffix("aimLocal"), aim, scene.P(parent, "worldInverseMatrix"))
	if err != nil {
		return err
	}
	return b.Attrs().Connect(local, scene.P(grp, "offsetParentMatrix"), true)
}

// poleFollow lets the pole blend between following the hip and following
// the foot, and twist around the leg.
func poleFollow(b *limb.Build, hip, pole, foot string) error {
	followHip, err := b.GroupAt(b.ControlGroup, limb.GroupOptions{Name: "LegPole", Suffix: "followHip", Parent: b.SystemsGroup})
	if err != nil {
		return err
	}
	hipParent := lo.Ternary(b.Scene().Parent(hip) != "", b.Scene().Parent(hip), b.SystemsGroup)
	if err := aimDown(b, followHip, foot, hipParent); err != nil {
		return err
	}
	followFoot, err := b.GroupAt(b.ControlGroup, limb.GroupOptions{Name: "LegPole", Suffix: "followFoot", Parent: followHip})
	if err != nil {
		return err
	}
	if err := aimDown(b, followFoot, foot, foot); err != nil {
		return err
	}

	auto, err := b.GroupAt(b.ControlGroup, limb.GroupOptions{Name: "LegPole", Suffix: "automation", Parent: followHip})
	if err != nil {
		return err
	}
	rest, err := b.Attrs().Matrix(scene.P(auto, "offsetParentMatrix"))
	if err != nil {
		return err
	}
	hipSpace, err := b.Graph.ParentConstraint(followHip, auto, nodegraph.ConstraintOptions{})
	if err != nil {
		return err
	}
	footSpace, err := b.Graph.ParentConstraint(followFoot, auto, nodegraph.ConstraintOptions{})
	if err != nil {
		return err
	}
	hipWeight, err := b.Graph.Reverse(nodegraph.For(pole).WithSuffix("followHip"), scene.P(pole, "followFoot"))
	if err != nil {
		return err
	}
	blend, err := b.Graph.BlendMatrix(nodegraph.For(auto), rest, []nodegraph.BlendTarget{
		{Matrix: hipSpace, Weight: hipWeight},
		{Matrix: footSpace, Weight: scene.P(pole, "followFoot")},
	}, nodegraph.BlendOptions{})
	if err != nil {
		return err
	}
	if err := b.Attrs().Connect(blend, scene.P(auto, "offsetParentMatrix"), true); err != nil {
		return err
	}
	if err := b.Attrs().Connect(scene.P(pole, "twist"), scene.P(auto, "rotateY"), true); err != nil {
		return err
	}
	if b.LayoutControl == "" {
		_, err = b.Graph.ParentConstraint(auto, pole, nodegraph.ConstraintOptions{Connect: true})
		return err
	}
	_, err = b.Graph.CompositeParent(auto, b.LayoutControl, pole)
	return err
}

// footControl draws a flat rectangle around the foot markers, pushed out
// by the ankle's outset.
func footControl(b *limb.Build, pose []string) (string, error) {
	ankle := pose[2]
	byType := map[string]r3.Vec{}
	for _, typ := range []string{"Ankle", "Heel", "TipOfToe", "Inner", "Outer"} {
		j, err := b.Pose.One(typ)
		if err != nil {
			return "", err
		}
		p, err := b.Joints.Position(j)
		if err != nil {
			return "", err
		}
		byType[typ] = p
	}
	v, err := b.Attrs().GetOr(scene.P(ankle, FootOutsetAttr), defaultOutset)
	if err != nil {
		return "", err
	}
	outset, _ := scene.AsFloat(v)

	minX := math.Min(byType["Inner"].X, byType["Outer"].X) - outset
	maxX := math.Max(byType["Inner"].X, byType["Outer"].X) + outset
	minZ := math.Min(byType["Heel"].Z, byType["TipOfToe"].Z) - outset
	maxZ := math.Max(byType["Heel"].Z, byType["TipOfToe"].Z) + outset
	a := joint.Vec(byType["Ankle"])
	corners := []mgl64.Vec3{{minX, 0, minZ}, {maxX, 0, minZ}, {maxX, 0, maxZ}, {minX, 0, maxZ}, {minX, 0, minZ}}
	crv := control.Curve{
		Degree: 1,
		Form:   "open",
		Points: lo.Map(corners, func(c mgl64.Vec3, _ int) mgl64.Vec3 { return c.Sub(a) }),
	}

	ctrl, err := b.Named(ankle, naming.WithName("Foot"), naming.WithSuffix(naming.SuffixControl))
	if err != nil {
		return "", err
	}
	if err := b.Scene().CreateNode("nurbsCurve", ctrl, ""); err != nil {
		return "", err
	}
	if err := b.Controls.Place(ctrl, ankle, crv, control.Options{Parent: b.ControlGroup, NoRotate: true}); err != nil {
		return "", err
	}
	return ctrl, b.Controls.SetColor(ctrl, "")
}

type footPivots struct {
	heel, outer, inner, ballFloor, tip, tap, flex string
}

// pivots builds the reverse foot: heel, outer and inner bank, ball on the
// floor, toe tip, toe tap and toe flex, each nested in the previous.
func pivots(b *limb.Build, foot string) (footPivots, error) {
	var p footPivots
	refs := map[string]string{}
	for _, typ := range []string{"Heel", "Outer", "Inner", "BallOfFoot", "TipOfToe"} {
		j, err := b.Pose.One(typ)
		if err != nil {
			return p, fmt.Errorf("foot pivots: %w", err)
		}
		refs[typ] = j
	}
	ball := refs["BallOfFoot"]
	ballPos, err := b.Joints.Position(ball)
	if err != nil {
		return p, err
	}
	steps := []struct {
		out    *string
		ref    string
		suffix string
		offset mgl64.Vec3
	}{
		{&p.heel, refs["Heel"], "pivot", mgl64.Vec3{}},
		{&p.outer, refs["Outer"], "pivot", mgl64.Vec3{}},
		{&p.inner, refs["Inner"], "pivot", mgl64.Vec3{}},
		{&p.ballFloor, ball, "floorPivot", mgl64.Vec3{0, -ballPos.Y, 0}},
		{&p.tip, refs["TipOfToe"], "pivot", mgl64.Vec3{}},
		{&p.tap, ball, "tap", mgl64.Vec3{}},
		{&p.flex, ball, "pivot", mgl64.Vec3{}},
	}
	parent := b.SystemsGroup
	for _, s := range steps {
		grp, err := b.GroupAt(s.ref, limb.GroupOptions{Suffix: s.suffix, Parent: parent, Offset: s.offset})
		if err != nil {
			return p, err
		}
		*s.out = grp
		parent = grp
	}
	_, err = b.Graph.ParentConstraint(foot, p.heel, nodegraph.ConstraintOptions{Connect: true})
	return p, err
}

// footRoll adds the bank, roll, toe flex and toe tap attributes to the
// foot control and drives the pivots with them. Rolling back turns the
// heel; rolling forward turns the ball up to the toe's preroll angle, then
// flexes the toe, then rolls over the tip.
func footRoll(b *limb.Build, foot string, p footPivots) error {
	footAttrs := []struct {
		name            string
		value, min, max float64
	}{
		{"bank", 0, -90, 90},
		{"roll", 0, -90, 180},
		{"toeFlex", 30, 0, 100},
		{"toeTap", 0, -90, 90},
	}
	for _, a := range footAttrs {
		err := b.Attrs().Add(foot, a.name, attr.AddOptions{
			Kind:    scene.KindFloat,
			Value:   a.value,
			Min:     lo.ToPtr(a.min),
			Max:     lo.ToPtr(a.max),
			Keyable: true,
		})
		if err != nil {
			return err
		}
	}
	g := b.Graph
	n := nodegraph.For(foot)
	roll, bank := scene.P(foot, "roll"), scene.P(foot, "bank")
	toeFlex, toeTap := scene.P(foot, "toeFlex"), scene.P(foot, "toeTap")

	rollBack, err := g.Min(n.WithSuffix("rollBack"), 0.0, roll)
	if err != nil {
		return err
	}
	bankIn, err := g.Switch1D(n.WithName("FootBank"), bank, ">", 0.0, bank, 0.0)
	if err != nil {
		return err
	}
	bankOut, err := g.Switch1D(n.WithName("FootBank"), bank, ">", 0.0, 0.0, bank)
	if err != nil {
		return err
	}
	if joint.Side(foot) == naming.Right {
		bankIn, bankOut = bankOut, bankIn
	}

	floorPos, err := b.Joints.Position(p.ballFloor)
	if err != nil {
		return err
	}
	tipPos, err := b.Joints.Position(p.tip)
	if err != nil {
		return err
	}
	toTip := r3.Unit(r3.Sub(tipPos, floorPos))
	prerollAngle := 90 - mgl64.RadToDeg(math.Acos(mgl64.Clamp(toTip.Y, -1, 1)))

	rollForward, err := g.Max(n.WithSuffix("rollForward"), 0.0, roll)
	if err != nil {
		return err
	}
	preroll, err := g.Min(nodegraph.For(p.ballFloor).WithSuffix("preroll"), prerollAngle, rollForward)
	if err != nil {
		return err
	}
	desiredFlex, err := g.Sub1D(n.WithSuffix("desiredFlex"), rollForward, preroll)
	if err != nil {
		return err
	}
	flex, err := g.Min(n.WithSuffix("flex"), desiredFlex, toeFlex)
	if err != nil {
		return err
	}
	overflow, err := g.Sub1D(n.WithSuffix("overflow"), rollForward, preroll, flex)
	if err != nil {
		return err
	}
	tapComp, err := g.Sub1D(nodegraph.For(p.flex), flex, toeTap)
	if err != nil {
		return err
	}

	links := []struct {
		src scene.Plug
		dst string
		ch  string
	}{
		{rollBack, p.heel, "rotateX"},
		{bankIn, p.inner, "rotateZ"},
		{bankOut, p.outer, "rotateZ"},
		{preroll, p.ballFloor, "rotateX"},
		{overflow, p.tip, "rotateX"},
		{toeTap, p.tap, "rotateX"},
		{tapComp, p.flex, "rotateX"},
	}
	for _, l := range links {
		if err := b.Attrs().Connect(l.src, scene.P(l.dst, l.ch), true); err != nil {
			return err
		}
	}
	return nil
}

// BuildBindJoints binds hip, knee, ankle and ball. The hip gets twist
// joints and a half joint, the knee a half joint.
func (l *Leg) BuildBindJoints(ctx context.Context, b *limb.Build) (*joint.Collection, error) {
	pose := make([]string, 0, 4)
	for _, typ := range core[:4] {
		j, err := b.Pose.One(typ)
		if err != nil {
			return nil, err
		}
		pose = append(pose, j)
	}
	bind, err := b.Joints.Variants(ctx, pose, naming.SuffixBindJoint, joint.VariantOptions{RootParent: b.BindParent(pose[0])})
	if err != nil {
		return nil, err
	}
	bindNames := bind.Names()
	var extra []string
	for i, j := range pose {
		switch b.Joints.Type(j) {
		case "Hip":
			twists, err := b.Twist.BallJoint(ctx, j, bindNames[i], b.SystemsGroup, 2)
			if err != nil {
				return nil, err
			}
			extra = append(extra, twists.Names()[1:]...)
		default:
			if _, err := b.Graph.ParentConstraint(j, bindNames[i], nodegraph.ConstraintOptions{Connect: true}); err != nil {
				return nil, err
			}
		}
		if typ := b.Joints.Type(j); typ == "Hip" || typ == "Knee" {
			half, err := b.Twist.HalfJoint(ctx, bindNames[i], b.SystemsGroup)
			if err != nil {
				return nil, err
			}
			extra = append(extra, half)
		}
	}
	bind.Push(extra...)
	return bind, nil
}

// Cleanup dissolves the foot layout markers, then strips attributes.
func (l *Leg) Cleanup(ctx context.Context, b *limb.Build) error {
	for _, typ := range []string{"Heel", "Inner", "Outer"} {
		j, err := b.Pose.Pop(typ)
		if err != nil {
			return err
		}
		if err := b.Joints.Dissolve(j); err != nil {
			return err
		}
	}
	return l.Base.Cleanup(ctx, b)
}
