package inmemoryscene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/xform"
)

// inputFn reads a transform input of a node.
type inputFn func(rec *record, attr string) any

func (s *Store) staticInputs(rec *record, attr string) any {
	port, key, _ := s.port(rec, attr)
	return s.stored(rec, port, key, attr)
}

func vec3(v any) mgl64.Vec3 {
	out, _ := v.(mgl64.Vec3)
	return out
}

func mat4(v any) mgl64.Mat4 {
	if m, ok := v.(mgl64.Mat4); ok {
		return m
	}
	return mgl64.Ident4()
}

func isJoint(rec *record) bool {
	_, ok := rec.nodeType.Ports["jointOrient"]
	return ok
}

func rotateOrder(v any) xform.RotateOrder {
	i, _ := v.(int)
	return xform.RotateOrder(i)
}

// localMatrix composes T * JO * R * S. The offset parent matrix is not part
// of it.
func (s *Store) localMatrix(rec *record, in inputFn) mgl64.Mat4 {
	rot := xform.EulerToMat4(vec3(in(rec, "rotate")), rotateOrder(in(rec, "rotateOrder")))
	if isJoint(rec) {
		rot = xform.EulerToMat4(vec3(in(rec, "jointOrient")), xform.XYZ).Mul4(rot)
	}
	return xform.Compose(vec3(in(rec, "translate")), rot, vec3(in(rec, "scale")))
}

func (s *Store) parentWorld(rec *record, in inputFn) mgl64.Mat4 {
	if rec.parent == "" {
		return mgl64.Ident4()
	}
	return s.worldOf(s.nodes[rec.parent], in)
}

func (s *Store) worldOf(rec *record, in inputFn) mgl64.Mat4 {
	parent := mgl64.Ident4()
	if inherits, _ := in(rec, "inheritsTransform").(bool); inherits {
		parent = s.parentWorld(rec, in)
	}
	return parent.Mul4(mat4(in(rec, "offsetParentMatrix"))).Mul4(s.localMatrix(rec, in))
}

func (s *Store) transformOutput(rec *record, key string, in inputFn) mgl64.Mat4 {
	switch key {
	case "matrix":
		return s.localMatrix(rec, in)
	case "inverseMatrix":
		return s.localMatrix(rec, in).Inv()
	case "worldMatrix":
		return s.worldOf(rec, in)
	case "worldInverseMatrix":
		return s.worldOf(rec, in).Inv()
	case "parentMatrix":
		return s.parentWorld(rec, in)
	case "parentInverseMatrix":
		return s.parentWorld(rec, in).Inv()
	}
	return mgl64.Ident4()
}

// WorldMatrix returns the static world transform of a DAG node.
func (s *Store) WorldMatrix(name string) (mgl64.Mat4, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.lookup(name)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	if !rec.nodeType.DAG {
		return mgl64.Mat4{}, fmt.Errorf("%s is not a DAG node", name)
	}
	return s.worldOf(rec, s.staticInputs), nil
}

// SetWorldMatrix moves a DAG node so its world matrix becomes m.
func (s *Store) SetWorldMatrix(name string, m mgl64.Mat4) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !rec.nodeType.DAG {
		return fmt.Errorf("%s is not a DAG node", name)
	}
	s.setWorld(rec, m)
	return nil
}

// setWorld solves the local channels for a world matrix, ignoring locks.
// Joints keep their rotate values and absorb the rotation in jointOrient.
func (s *Store) setWorld(rec *record, world mgl64.Mat4) {
	parent := mgl64.Ident4()
	if inherits, _ := s.staticInputs(rec, "inheritsTransform").(bool); inherits {
		parent = s.parentWorld(rec, s.staticInputs)
	}
	opm := mat4(s.staticInputs(rec, "offsetParentMatrix"))
	local := opm.Inv().Mul4(parent.Inv().Mul4(world))

	t, rot, sc := xform.Decompose(local)
	order := rotateOrder(s.staticInputs(rec, "rotateOrder"))
	if isJoint(rec) {
		r := xform.EulerToMat4(vec3(s.staticInputs(rec, "rotate")), order)
		orient := rot.Mul4(r.Transpose())
		rec.attrs.Values["jointOrient"] = xform.Mat4ToEuler(orient, xform.XYZ)
	} else {
		rec.attrs.Values["rotate"] = xform.Mat4ToEuler(rot, order)
	}
	rec.attrs.Values["translate"] = t
	rec.attrs.Values["scale"] = sc
}
