package scene

import (
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Port describes one attribute of a node type.
type Port struct {
	Kind    Kind
	Default any
	Enum    []string
	// Computed ports are outputs: they can be read and connected from but
	// not set.
	Computed bool
	Keyable  bool
	// Parent is the key of the vector port this port is a component of, and
	// Component its index. Compound children have a Parent but Component -1.
	Parent    string
	Component int
	Children  []string

	// User-defined attributes only.
	UserDefined bool
	NiceName    string
	Min, Max    *float64
}

// NodeType is the port table of a host node type.
type NodeType struct {
	Name string
	// DAG types live in the parent/child hierarchy and carry a transform.
	DAG   bool
	Ports map[string]Port
}

// Port looks up a port by concrete attribute name.
func (t *NodeType) Port(attr string) (Port, string, bool) {
	key := NormalizeAttr(attr)
	p, ok := t.Ports[key]
	return p, key, ok
}

// Keys lists every port key in sorted order.
func (t *NodeType) Keys() []string {
	keys := make([]string, 0, len(t.Ports))
	for k := range t.Ports {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RotateOrders are the labels of every rotateOrder style enum.
var RotateOrders = []string{"xyz", "yzx", "zxy", "xzy", "yxz", "zyx"}

// TransformInputs are the local transform ports that feed the matrix
// outputs of a DAG node.
var TransformInputs = []string{
	"translate", "rotate", "scale", "jointOrient", "rotateOrder",
	"offsetParentMatrix", "inheritsTransform",
}

// TransformOutputs are the matrices computed by every DAG node.
var TransformOutputs = []string{
	"matrix", "inverseMatrix", "worldMatrix", "worldInverseMatrix",
	"parentMatrix", "parentInverseMatrix",
}

type portTable map[string]Port

func (t portTable) scalar(key string, kind Kind, def any) portTable {
	t[key] = Port{Kind: kind, Default: def, Component: -1}
	return t
}

func (t portTable) enum(key string, labels []string, def int) portTable {
	t[key] = Port{Kind: KindEnum, Default: def, Enum: labels, Component: -1}
	return t
}

func (t portTable) output(key string, kind Kind) portTable {
	t[key] = Port{Kind: kind, Default: Zero(kind), Computed: true, Component: -1}
	return t
}

// vector registers a Float3 or Float4 port and its scalar components. A key
// ending in "[]" names a multi port whose children are addressed as
// key.<base><axis>, for example input3D[].input3Dx.
func (t portTable) vector(key, axes string, def any, computed, keyable bool) portTable {
	kind := KindFloat3
	if len(axes) == 4 {
		kind = KindFloat4
	}
	if def == nil {
		def = Zero(kind)
	}
	prefix := key
	if base, ok := strings.CutSuffix(key, "[]"); ok {
		prefix = key + "." + base
	}
	children := make([]string, 0, len(axes))
	for i, axis := range axes {
		child := prefix + string(axis)
		children = append(children, child)
		t[child] = Port{Kind: KindFloat, Default: 0.0, Computed: computed, Keyable: keyable, Parent: key, Component: i}
	}
	t[key] = Port{Kind: kind, Default: def, Computed: computed, Keyable: keyable, Children: children, Component: -1}
	return t
}

// compound registers a multi compound port whose children are listed by
// their own keys.
func (t portTable) compound(key string, children map[string]Port) portTable {
	names := make([]string, 0, len(children))
	for name, p := range children {
		child := key + "." + name
		p.Parent = key
		p.Component = -1
		t[child] = p
		names = append(names, child)
	}
	sort.Strings(names)
	t[key] = Port{Kind: KindCompound, Children: names, Component: -1}
	return t
}

func transformPorts() portTable {
	t := portTable{}
	t.vector("translate", "XYZ", nil, false, true)
	t.vector("rotate", "XYZ", nil, false, true)
	t.vector("scale", "XYZ", mgl64.Vec3{1, 1, 1}, false, true)
	t.enum("rotateOrder", RotateOrders, 0)
	t.scalar("offsetParentMatrix", KindMatrix, mgl64.Ident4())
	t.scalar("inheritsTransform", KindBool, true)
	t.scalar("showManipDefault", KindInt, 0)
	t.scalar("overrideEnabled", KindBool, false)
	t.scalar("overrideRGBColors", KindBool, false)
	t.vector("overrideColorRGB", "RGB", nil, false, false)
	vis := Port{Kind: KindBool, Default: true, Keyable: true, Component: -1}
	t["visibility"] = vis
	for _, out := range TransformOutputs {
		t.output(out, KindMatrix)
	}
	return t
}

func dgTypes() map[string]portTable {
	quat := mgl64.Vec4{0, 0, 0, 1}
	types := map[string]portTable{}

	types["plusMinusAverage"] = portTable{}.
		enum("operation", []string{"noOperation", "sum", "subtract", "average"}, 1).
		scalar("input1D[]", KindFloat, 0.0).
		vector("input3D[]", "xyz", nil, false, false).
		output("output1D", KindFloat).
		vector("output3D", "xyz", nil, true, false)

	types["multiplyDivide"] = portTable{}.
		enum("operation", []string{"noOperation", "multiply", "divide", "power"}, 1).
		vector("input1", "XYZ", nil, false, false).
		vector("input2", "XYZ", mgl64.Vec3{1, 1, 1}, false, false).
		vector("output", "XYZ", nil, true, false)

	types["condition"] = portTable{}.
		enum("operation", []string{"equal", "notEqual", "greaterThan", "greaterOrEqual", "lessThan", "lessOrEqual"}, 0).
		scalar("firstTerm", KindFloat, 0.0).
		scalar("secondTerm", KindFloat, 0.0).
		vector("colorIfTrue", "RGB", nil, false, false).
		vector("colorIfFalse", "RGB", mgl64.Vec3{1, 1, 1}, false, false).
		vector("outColor", "RGB", nil, true, false)

	types["floatMath"] = portTable{}.
		enum("operation", []string{"add", "subtract", "multiply", "divide", "min", "max", "power"}, 0).
		scalar("floatA", KindFloat, 0.0).
		scalar("floatB", KindFloat, 0.0).
		output("outFloat", KindFloat)

	types["clamp"] = portTable{}.
		vector("input", "RGB", nil, false, false).
		vector("min", "RGB", nil, false, false).
		vector("max", "RGB", nil, false, false).
		vector("output", "RGB", nil, true, false)

	types["reverse"] = portTable{}.
		vector("input", "XYZ", nil, false, false).
		vector("output", "XYZ", nil, true, false)

	types["multMatrix"] = portTable{}.
		scalar("matrixIn[]", KindMatrix, mgl64.Ident4()).
		output("matrixSum", KindMatrix)

	types["inverseMatrix"] = portTable{}.
		scalar("inputMatrix", KindMatrix, mgl64.Ident4()).
		output("outputMatrix", KindMatrix)

	one := Port{Kind: KindFloat, Default: 1.0}
	types["blendMatrix"] = portTable{}.
		scalar("inputMatrix", KindMatrix, mgl64.Ident4()).
		scalar("envelope", KindFloat, 1.0).
		compound("target[]", map[string]Port{
			"targetMatrix":    {Kind: KindMatrix, Default: mgl64.Ident4()},
			"weight":          one,
			"translateWeight": one,
			"rotateWeight":    one,
			"scaleWeight":     one,
			"shearWeight":     one,
		}).
		output("outputMatrix", KindMatrix)

	types["aimMatrix"] = portTable{}.
		scalar("inputMatrix", KindMatrix, mgl64.Ident4()).
		scalar("preSpaceMatrix", KindMatrix, mgl64.Ident4()).
		scalar("postSpaceMatrix", KindMatrix, mgl64.Ident4()).
		enum("primaryMode", []string{"lockAxis", "aim", "align"}, 1).
		vector("primaryInputAxis", "XYZ", mgl64.Vec3{1, 0, 0}, false, false).
		scalar("primaryTargetMatrix", KindMatrix, mgl64.Ident4()).
		vector("primaryTargetVector", "XYZ", mgl64.Vec3{1, 0, 0}, false, false).
		enum("secondaryMode", []string{"none", "aim", "align"}, 0).
		vector("secondaryInputAxis", "XYZ", mgl64.Vec3{0, 1, 0}, false, false).
		scalar("secondaryTargetMatrix", KindMatrix, mgl64.Ident4()).
		vector("secondaryTargetVector", "XYZ", mgl64.Vec3{0, 1, 0}, false, false).
		output("outputMatrix", KindMatrix)

	types["composeMatrix"] = portTable{}.
		vector("inputTranslate", "XYZ", nil, false, false).
		vector("inputRotate", "XYZ", nil, false, false).
		vector("inputScale", "XYZ", mgl64.Vec3{1, 1, 1}, false, false).
		vector("inputShear", "XYZ", nil, false, false).
		vector("inputQuat", "XYZW", quat, false, false).
		enum("inputRotateOrder", RotateOrders, 0).
		scalar("useEulerRotation", KindBool, true).
		output("outputMatrix", KindMatrix)

	types["decomposeMatrix"] = portTable{}.
		scalar("inputMatrix", KindMatrix, mgl64.Ident4()).
		enum("inputRotateOrder", RotateOrders, 0).
		vector("outputTranslate", "XYZ", nil, true, false).
		vector("outputRotate", "XYZ", nil, true, false).
		vector("outputScale", "XYZ", mgl64.Vec3{1, 1, 1}, true, false).
		vector("outputShear", "XYZ", nil, true, false).
		vector("outputQuat", "XYZW", quat, true, false)

	types["eulerToQuat"] = portTable{}.
		vector("inputRotate", "XYZ", nil, false, false).
		enum("inputRotateOrder", RotateOrders, 0).
		vector("outputQuat", "XYZW", quat, true, false)

	types["quatToEuler"] = portTable{}.
		vector("inputQuat", "XYZW", quat, false, false).
		enum("inputRotateOrder", RotateOrders, 0).
		vector("outputRotate", "XYZ", nil, true, false)

	types["quatSlerp"] = portTable{}.
		vector("input1Quat", "XYZW", quat, false, false).
		vector("input2Quat", "XYZW", quat, false, false).
		scalar("inputT", KindFloat, 0.0).
		vector("outputQuat", "XYZW", quat, true, false)

	for _, name := range []string{"quatInvert", "quatNormalize"} {
		types[name] = portTable{}.
			vector("inputQuat", "XYZW", quat, false, false).
			vector("outputQuat", "XYZW", quat, true, false)
	}

	types["quatProd"] = portTable{}.
		vector("input1Quat", "XYZW", quat, false, false).
		vector("input2Quat", "XYZW", quat, false, false).
		vector("outputQuat", "XYZW", quat, true, false)

	types["wtAddMatrix"] = portTable{}.
		compound("wtMatrix[]", map[string]Port{
			"matrixIn": {Kind: KindMatrix, Default: mgl64.Ident4()},
			"weightIn": {Kind: KindFloat, Default: 0.0},
		}).
		output("matrixSum", KindMatrix)

	return types
}

func dagTypes() map[string]portTable {
	types := map[string]portTable{}

	types["transform"] = transformPorts()

	joint := transformPorts()
	joint.vector("jointOrient", "XYZ", nil, false, false)
	joint.vector("preferredAngle", "XYZ", nil, false, false)
	joint.scalar("radius", KindFloat, 1.0)
	joint.scalar("segmentScaleCompensate", KindBool, true)
	types["joint"] = joint

	curve := transformPorts()
	curve.scalar("controlPoints", KindFloatArray, []float64{})
	curve.scalar("degree", KindInt, 3)
	curve.enum("form", []string{"open", "closed", "periodic"}, 0)
	curve.scalar("lineWidth", KindFloat, -1.0)
	types["nurbsCurve"] = curve

	ik := transformPorts()
	ik.scalar("startJoint", KindString, "")
	ik.scalar("endEffector", KindString, "")
	ik.scalar("solver", KindString, "ikRPsolver")
	ik.vector("poleVector", "XYZ", mgl64.Vec3{0, 0, 1}, false, false)
	ik.scalar("twist", KindFloat, 0.0)
	types["ikHandle"] = ik

	return types
}

var registry = func() map[string]*NodeType {
	out := map[string]*NodeType{}
	for name, ports := range dagTypes() {
		out[name] = &NodeType{Name: name, DAG: true, Ports: ports}
	}
	for name, ports := range dgTypes() {
		out[name] = &NodeType{Name: name, Ports: ports}
	}
	return out
}()

// LookupType returns the schema of a node type.
func LookupType(name string) (*NodeType, bool) {
	t, ok := registry[name]
	return t, ok
}

// TypeNames lists every known node type in sorted order.
func TypeNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsTransformInput reports whether attr (a port key) feeds the transform
// outputs of a DAG node.
func IsTransformInput(key string) bool {
	for _, in := range TransformInputs {
		if key == in || strings.HasPrefix(key, in) && len(key) == len(in)+1 {
			return true
		}
	}
	return false
}

// IsTransformOutput reports whether key is one of the computed matrices of a
// DAG node.
func IsTransformOutput(key string) bool {
	for _, out := range TransformOutputs {
		if key == out {
			return true
		}
	}
	return false
}
