package inmemoryscene

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

// ErrNotEvaluable is returned for outputs the evaluator has no rule for.
var ErrNotEvaluable = errors.New("output cannot be evaluated")

// Evaluate pulls the value of a plug through its incoming connections. It
// is a debugging aid for checking generated networks without a host.
func (s *Store) Evaluate(p scene.Plug) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eval(p, map[scene.Plug]bool{})
}

// EvaluateFloat evaluates a scalar plug.
func (s *Store) EvaluateFloat(p scene.Plug) (float64, error) {
	v, err := s.Evaluate(p)
	if err != nil {
		return 0, err
	}
	f, ok := scene.AsFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a scalar", scene.ErrKindMismatch, p)
	}
	return f, nil
}

// EvaluateMatrix evaluates a matrix plug.
func (s *Store) EvaluateMatrix(p scene.Plug) (mgl64.Mat4, error) {
	v, err := s.Evaluate(p)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	m, ok := v.(mgl64.Mat4)
	if !ok {
		return mgl64.Mat4{}, fmt.Errorf("%w: %s is not a matrix", scene.ErrKindMismatch, p)
	}
	return m, nil
}

// convert adapts a value flowing through a connection to the destination
// kind.
func convert(kind scene.Kind, v any) (any, error) {
	if kind == scene.KindInt || kind == scene.KindEnum {
		if f, ok := v.(float64); ok {
			return int(math.Round(f)), nil
		}
	}
	return scene.Coerce(kind, v)
}

func (s *Store) eval(p scene.Plug, visiting map[scene.Plug]bool) (any, error) {
	if visiting[p] {
		return nil, fmt.Errorf("%w: evaluation revisits %s", scene.ErrCycle, p)
	}
	visiting[p] = true
	defer delete(visiting, p)

	rec, port, key, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	if src, ok := s.incoming[p]; ok {
		v, err := s.eval(src, visiting)
		if err != nil {
			return nil, err
		}
		return convert(port.Kind, v)
	}

	if isComponent(port) {
		vec, err := s.eval(scene.P(p.Node, parentAttr(port, key, p.Attr)), visiting)
		if err != nil {
			return nil, err
		}
		switch v := vec.(type) {
		case mgl64.Vec3:
			return v[port.Component], nil
		case mgl64.Vec4:
			return v[port.Component], nil
		}
		return nil, fmt.Errorf("%w: parent of %s is not a vector", scene.ErrKindMismatch, p)
	}

	if port.Computed {
		if rec.nodeType.DAG {
			var firstErr error
			in := func(r *record, attr string) any {
				v, err := s.eval(scene.P(r.name, attr), visiting)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return s.staticInputs(r, attr)
				}
				return v
			}
			m := s.transformOutput(rec, key, in)
			return m, firstErr
		}
		return s.compute(rec, key, visiting)
	}

	value := s.stored(rec, port, key, p.Attr)
	if port.Kind != scene.KindFloat3 && port.Kind != scene.KindFloat4 {
		return value, nil
	}
	for i, child := range childAttrs(port, key, p.Attr) {
		cp := scene.P(p.Node, child)
		if _, ok := s.incoming[cp]; !ok {
			continue
		}
		v, err := s.eval(cp, visiting)
		if err != nil {
			return nil, err
		}
		f, _ := scene.AsFloat(v)
		switch vec := value.(type) {
		case mgl64.Vec3:
			vec[i] = f
			value = vec
		case mgl64.Vec4:
			vec[i] = f
			value = vec
		}
	}
	return value, nil
}

// node reads the evaluated inputs of one utility node.
type node struct {
	s        *Store
	rec      *record
	visiting map[scene.Plug]bool
	err      error
}

func (n *node) get(attr string) any {
	v, err := n.s.eval(scene.P(n.rec.name, attr), n.visiting)
	if err != nil && n.err == nil {
		n.err = err
	}
	return v
}

func (n *node) float(attr string) float64 {
	f, _ := scene.AsFloat(n.get(attr))
	return f
}

func (n *node) int(attr string) int {
	i, _ := n.get(attr).(int)
	return i
}

func (n *node) bool(attr string) bool {
	b, _ := n.get(attr).(bool)
	return b
}

func (n *node) vec3(attr string) mgl64.Vec3 { return vec3(n.get(attr)) }

func (n *node) quat(attr string) mgl64.Quat {
	v, _ := n.get(attr).(mgl64.Vec4)
	return xform.QuatFromVec4(v)
}

func (n *node) mat(attr string) mgl64.Mat4 { return mat4(n.get(attr)) }

// indices lists the populated elements of a multi attribute.
func (n *node) indices(base string) []int {
	var out []int
	add := func(attr string) {
		rest, ok := strings.CutPrefix(attr, base+"[")
		if !ok {
			return
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return
		}
		if i, err := strconv.Atoi(rest[:end]); err == nil && !slices.Contains(out, i) {
			out = append(out, i)
		}
	}
	for attr := range n.rec.attrs.Values {
		add(attr)
	}
	for dst := range n.s.incoming {
		if dst.Node == n.rec.name {
			add(dst.Attr)
		}
	}
	slices.Sort(out)
	return out
}

func element(base string, i int, child string) string {
	attr := fmt.Sprintf("%s[%d]", base, i)
	if child != "" {
		attr += "." + child
	}
	return attr
}

func (s *Store) compute(rec *record, key string, visiting map[scene.Plug]bool) (any, error) {
	n := &node{s: s, rec: rec, visiting: visiting}
	v, err := n.output(key)
	if err != nil {
		return nil, err
	}
	return v, n.err
}

func (n *node) output(key string) (any, error) {
	switch n.rec.nodeType.Name {
	case "plusMinusAverage":
		return n.plusMinusAverage(key), nil
	case "multiplyDivide":
		a, b := n.vec3("input1"), n.vec3("input2")
		var out mgl64.Vec3
		for i := range out {
			out[i] = multiplyDivide(n.int("operation"), a[i], b[i])
		}
		return out, nil
	case "condition":
		if compare(n.int("operation"), n.float("firstTerm"), n.float("secondTerm")) {
			return n.vec3("colorIfTrue"), nil
		}
		return n.vec3("colorIfFalse"), nil
	case "floatMath":
		return floatMath(n.int("operation"), n.float("floatA"), n.float("floatB")), nil
	case "clamp":
		in, lo, hi := n.vec3("input"), n.vec3("min"), n.vec3("max")
		var out mgl64.Vec3
		for i := range out {
			out[i] = math.Max(lo[i], math.Min(hi[i], in[i]))
		}
		return out, nil
	case "reverse":
		in := n.vec3("input")
		return mgl64.Vec3{1 - in[0], 1 - in[1], 1 - in[2]}, nil
	case "multMatrix":
		sum := mgl64.Ident4()
		for _, i := range n.indices("matrixIn") {
			sum = n.mat(element("matrixIn", i, "")).Mul4(sum)
		}
		return sum, nil
	case "inverseMatrix":
		return n.mat("inputMatrix").Inv(), nil
	case "blendMatrix":
		return n.blendMatrix(), nil
	case "wtAddMatrix":
		var sum mgl64.Mat4
		for _, i := range n.indices("wtMatrix") {
			w := n.float(element("wtMatrix", i, "weightIn"))
			m := n.mat(element("wtMatrix", i, "matrixIn"))
			for j := range sum {
				sum[j] += w * m[j]
			}
		}
		return sum, nil
	case "composeMatrix":
		var rot mgl64.Mat4
		if n.bool("useEulerRotation") {
			rot = xform.EulerToMat4(n.vec3("inputRotate"), xform.RotateOrder(n.int("inputRotateOrder")))
		} else {
			rot = n.quat("inputQuat").Normalize().Mat4()
		}
		return xform.Compose(n.vec3("inputTranslate"), rot, n.vec3("inputScale")), nil
	case "decomposeMatrix":
		t, rot, sc := xform.Decompose(n.mat("inputMatrix"))
		switch key {
		case "outputTranslate":
			return t, nil
		case "outputRotate":
			return xform.Mat4ToEuler(rot, xform.RotateOrder(n.int("inputRotateOrder"))), nil
		case "outputScale":
			return sc, nil
		case "outputShear":
			return mgl64.Vec3{}, nil
		case "outputQuat":
			return xform.QuatToVec4(mgl64.Mat4ToQuat(rot)), nil
		}
	case "eulerToQuat":
		return xform.QuatToVec4(xform.EulerToQuat(n.vec3("inputRotate"), xform.RotateOrder(n.int("inputRotateOrder")))), nil
	case "quatToEuler":
		return xform.QuatToEuler(n.quat("inputQuat"), xform.RotateOrder(n.int("inputRotateOrder"))), nil
	case "quatSlerp":
		a, b := n.quat("input1Quat").Normalize(), n.quat("input2Quat").Normalize()
		if a.Dot(b) < 0 {
			b = b.Scale(-1)
		}
		return xform.QuatToVec4(mgl64.QuatSlerp(a, b, n.float("inputT"))), nil
	case "quatInvert":
		return xform.QuatToVec4(n.quat("inputQuat").Inverse()), nil
	case "quatNormalize":
		return xform.QuatToVec4(n.quat("inputQuat").Normalize()), nil
	case "quatProd":
		return xform.QuatToVec4(n.quat("input1Quat").Mul(n.quat("input2Quat"))), nil
	case "aimMatrix":
		return n.aimMatrix(), nil
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrNotEvaluable, n.rec.nodeType.Name, key)
}

func (n *node) plusMinusAverage(key string) any {
	op := n.int("operation")
	if key == "output1D" {
		var vals []float64
		for _, i := range n.indices("input1D") {
			vals = append(vals, n.float(element("input1D", i, "")))
		}
		return reduce(op, vals)
	}
	var out mgl64.Vec3
	idx := n.indices("input3D")
	for c := range out {
		vals := make([]float64, 0, len(idx))
		for _, i := range idx {
			vals = append(vals, n.vec3(element("input3D", i, ""))[c])
		}
		out[c] = reduce(op, vals)
	}
	return out
}

func reduce(op int, vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	switch op {
	case 1:
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		return sum
	case 2:
		out := vals[0]
		for _, v := range vals[1:] {
			out -= v
		}
		return out
	case 3:
		return reduce(1, vals) / float64(len(vals))
	}
	return vals[0]
}

func multiplyDivide(op int, a, b float64) float64 {
	switch op {
	case 1:
		return a * b
	case 2:
		if b == 0 {
			return 0
		}
		return a / b
	case 3:
		return math.Pow(a, b)
	}
	return a
}

func compare(op int, a, b float64) bool {
	switch op {
	case 0:
		return a == b
	case 1:
		return a != b
	case 2:
		return a > b
	case 3:
		return a >= b
	case 4:
		return a < b
	case 5:
		return a <= b
	}
	return false
}

func floatMath(op int, a, b float64) float64 {
	switch op {
	case 0:
		return a + b
	case 1:
		return a - b
	case 2:
		return a * b
	case 3:
		if b == 0 {
			return 0
		}
		return a / b
	case 4:
		return math.Min(a, b)
	case 5:
		return math.Max(a, b)
	case 6:
		return math.Pow(a, b)
	}
	return a
}

// blendMatrix layers each target over the input in index order, then fades
// the result in by the envelope.
func (n *node) blendMatrix() mgl64.Mat4 {
	in := n.mat("inputMatrix")
	out := in
	for _, i := range n.indices("target") {
		w := n.float(element("target", i, "weight"))
		target := n.mat(element("target", i, "targetMatrix"))
		out = xform.Blend(out, target,
			w*n.float(element("target", i, "translateWeight")),
			w*n.float(element("target", i, "rotateWeight")),
			w*n.float(element("target", i, "scaleWeight")))
	}
	env := n.float("envelope")
	if env == 1 {
		return out
	}
	return xform.Blend(in, out, env, env, env)
}

func (n *node) aimMatrix() mgl64.Mat4 {
	in := n.mat("inputMatrix")
	t, rot, sc := xform.Decompose(in)

	primaryAxis := n.vec3("primaryInputAxis").Normalize()
	var primary mgl64.Vec3
	switch n.int("primaryMode") {
	case 1:
		primary = xform.Translation(n.mat("primaryTargetMatrix")).Sub(t)
	case 2:
		primary = n.mat("primaryTargetMatrix").Mul4x1(n.vec3("primaryTargetVector").Vec4(0)).Vec3()
	default:
		return in
	}
	if primary.Len() < 1e-9 {
		return in
	}

	secondaryAxis := n.vec3("secondaryInputAxis").Normalize()
	var secondary mgl64.Vec3
	switch n.int("secondaryMode") {
	case 1:
		secondary = xform.Translation(n.mat("secondaryTargetMatrix")).Sub(t)
	case 2:
		secondary = n.mat("secondaryTargetMatrix").Mul4x1(n.vec3("secondaryTargetVector").Vec4(0)).Vec3()
	default:
		current := rot.Mul4x1(primaryAxis.Vec4(0)).Vec3()
		turn := mgl64.QuatBetweenVectors(current.Normalize(), primary.Normalize())
		return xform.Compose(t, turn.Mat4().Mul4(rot), sc)
	}
	return xform.Compose(t, xform.Aim(primary, secondary, primaryAxis, secondaryAxis), sc)
}
