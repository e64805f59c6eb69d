package joint

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

// keepChildren runs fn and then moves every joint child of joint back to
// the world matrix it had before.
func (j *Joints) keepChildren(joint string, fn func() error) error {
	children := j.Children(joint)
	worlds := make([]mgl64.Mat4, len(children))
	for i, c := range children {
		w, err := j.sc.WorldMatrix(c)
		if err != nil {
			return err
		}
		worlds[i] = w
	}
	if err := fn(); err != nil {
		return err
	}
	for i, c := range children {
		if err := j.sc.SetWorldMatrix(c, worlds[i]); err != nil {
			return err
		}
	}
	return nil
}

// setOrientation zeroes the rotate channels and moves the rotation into the
// joint orient so the world rotation becomes rot.
func (j *Joints) setOrientation(joint string, rot mgl64.Mat4) error {
	world, err := j.sc.WorldMatrix(joint)
	if err != nil {
		return err
	}
	t, _, s := xform.Decompose(world)
	if err := j.attrs.Set(scene.P(joint, "rotate"), mgl64.Vec3{}); err != nil {
		return err
	}
	return j.sc.SetWorldMatrix(joint, xform.Compose(t, rot, s))
}

// OrientWorld aligns joint with the world axes. With flipRight a right side
// joint is turned around afterwards.
func (j *Joints) OrientWorld(joint string, flipRight bool) error {
	err := j.keepChildren(joint, func() error {
		return j.setOrientation(joint, mgl64.Ident4())
	})
	if err != nil {
		return err
	}
	if flipRight && Side(joint) == naming.Right {
		return j.FlipOrient(joint)
	}
	return nil
}

// OrientOptions configures OrientTo.
type OrientOptions struct {
	// Target defaults to the first joint child.
	Target string
	// Up is the local axis pointed at the world up vector. Default +Y.
	Up mgl64.Vec3
	// FlipRight aims right side joints down -X and negates Twist.
	FlipRight bool
	// Twist is added to the joint orient X after aiming, in degrees.
	Twist float64
}

// OrientTo aims the X axis of joint at a target with the up axis pointing
// towards worldUp. Children keep their world matrices.
func (j *Joints) OrientTo(joint string, worldUp mgl64.Vec3, o OrientOptions) error {
	target := o.Target
	if target == "" {
		child, err := j.Child(joint)
		if err != nil {
			return fmt.Errorf("cannot infer orient target: %w", err)
		}
		target = child
	}
	up := o.Up
	if up.Len() == 0 {
		up = mgl64.Vec3{0, 1, 0}
	}
	aim := mgl64.Vec3{1, 0, 0}
	twist := o.Twist
	if o.FlipRight && Side(joint) == naming.Right {
		aim = aim.Mul(-1)
		twist = -twist
	}

	from, err := j.Position(joint)
	if err != nil {
		return err
	}
	to, err := j.Position(target)
	if err != nil {
		return err
	}
	dir := Vec(to).Sub(Vec(from))

	return j.keepChildren(joint, func() error {
		if err := j.setOrientation(joint, xform.Aim(dir, worldUp, aim, up)); err != nil {
			return err
		}
		if twist == 0 {
			return nil
		}
		p := scene.P(joint, "jointOrientX")
		x, err := j.attrs.Float(p)
		if err != nil {
			return err
		}
		return j.attrs.Set(p, x+twist)
	})
}

// OrientToChild aims X at the first child with Y towards world up, then
// flips right side joints when flipRight is set.
func (j *Joints) OrientToChild(joint string, flipRight bool) error {
	if err := j.OrientTo(joint, mgl64.Vec3{0, 1, 0}, OrientOptions{}); err != nil {
		return err
	}
	if flipRight && Side(joint) == naming.Right {
		return j.FlipOrient(joint)
	}
	return nil
}

// FlipOrient turns joint half a revolution around its local Z axis, so X
// and Y point the other way.
func (j *Joints) FlipOrient(joint string) error {
	world, err := j.sc.WorldMatrix(joint)
	if err != nil {
		return err
	}
	_, rot, _ := xform.Decompose(world)
	flip := mgl64.HomogRotate3DZ(mgl64.DegToRad(180))
	return j.keepChildren(joint, func() error {
		return j.setOrientation(joint, rot.Mul4(flip))
	})
}

// Normal returns the unit normal of the plane through before, joint and
// after, oriented by the cross product of the two offsets.
func (j *Joints) Normal(joint, before, after string) (mgl64.Vec3, error) {
	if before == "" {
		before = j.sc.Parent(joint)
	}
	if after == "" {
		child, err := j.Child(joint)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		after = child
	}
	var pos [3]mgl64.Vec3
	for i, n := range []string{before, joint, after} {
		p, err := j.Position(n)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		pos[i] = Vec(p)
	}
	return pos[0].Sub(pos[1]).Cross(pos[2].Sub(pos[1])).Normalize(), nil
}

// BakeIdentity moves the rotation of each joint into its joint orient and
// drops scale, keeping world positions and orientations. Parents must come
// before their children.
func (j *Joints) BakeIdentity(joints []string) error {
	worlds := make([]mgl64.Mat4, len(joints))
	for i, jnt := range joints {
		w, err := j.sc.WorldMatrix(jnt)
		if err != nil {
			return fmt.Errorf("bake %s: %w", jnt, err)
		}
		worlds[i] = w
	}
	unit := mgl64.Vec3{1, 1, 1}
	for i, jnt := range joints {
		t, rot, _ := xform.Decompose(worlds[i])
		if err := j.attrs.Set(scene.P(jnt, "rotate"), mgl64.Vec3{}); err != nil {
			return err
		}
		if err := j.attrs.Set(scene.P(jnt, "scale"), unit); err != nil {
			return err
		}
		if err := j.sc.SetWorldMatrix(jnt, xform.Compose(t, rot, unit)); err != nil {
			return err
		}
	}
	return nil
}
