package control

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/joint"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/nodegraph"
	"github.com/vk/riggen/internal/scene"
)

// Attributes of an FK/IK switch control.
const (
	SwitchIKAttr = "ik"
	SwitchFKAttr = "fk"
)

// SwitchOptions configures FkIkSwitch.
type SwitchOptions struct {
	Parent string
	// Position offsets the labels from the reference joint in world axes,
	// mirrored in X on the right side.
	Position mgl64.Vec3
	// Size of the labels. Defaults to the reference joint's control size.
	Size float64
	// Default is 0 for FK, 1 for IK.
	Default     int
	OnCollision *naming.CollisionPolicy
}

// FkIkSwitch creates a switch control carrying an `ik` enum (FK, IK) and a
// hidden `fk` enum that always holds its opposite. Each drives the
// visibility of its label curve.
func (c *Controls) FkIkSwitch(ctx context.Context, ref, name string, o SwitchOptions) (string, error) {
	ctrl, err := c.name(ref, name, naming.SuffixSwitch, o.OnCollision)
	if err != nil {
		return "", err
	}
	size := o.Size
	if size == 0 {
		if size, err = c.joints.ControlSize(ref); err != nil {
			return "", err
		}
	}
	pos := o.Position
	if joint.Side(ctrl) == naming.Right {
		pos[0] = -pos[0]
	}

	if err := c.sc.CreateNode("transform", ctrl, ""); err != nil {
		return "", err
	}
	labels := map[string]string{SwitchFKAttr: "FK", SwitchIKAttr: "IK"}
	for _, key := range []string{SwitchFKAttr, SwitchIKAttr} {
		label, err := c.name(ctrl, "", key+"Label", nil)
		if err != nil {
			return "", err
		}
		if err := c.sc.CreateNode("nurbsCurve", label, ctrl); err != nil {
			return "", err
		}
		crv := TextCurve(labels[key], size).Transform(mgl64.Translate3D(pos[0], pos[1], pos[2]))
		if err := c.writeCurve(label, crv); err != nil {
			return "", err
		}
		labels[key] = label
	}

	err = c.attrs.Add(ctrl, SwitchIKAttr, attr.AddOptions{
		Options:  []string{"FK", "IK"},
		Value:    o.Default,
		NiceName: "Posing",
		Keyable:  true,
	})
	if err != nil {
		return "", err
	}
	fkVisibility, err := c.graph.Reverse(nodegraph.For(ctrl).WithSuffix("fkVisibility"), scene.P(ctrl, SwitchIKAttr))
	if err != nil {
		return "", err
	}
	if err := c.attrs.Add(ctrl, SwitchFKAttr, attr.AddOptions{Options: []string{"Off", "On"}, Value: 1}); err != nil {
		return "", err
	}
	if err := c.attrs.Connect(fkVisibility, scene.P(ctrl, SwitchFKAttr), false); err != nil {
		return "", err
	}
	for key, label := range labels {
		if err := c.attrs.Connect(scene.P(ctrl, key), scene.P(label, "visibility"), false); err != nil {
			return "", err
		}
	}

	if err := c.Place(ctrl, ref, Curve{}, Options{Parent: o.Parent, NoRotate: true}); err != nil {
		return "", err
	}
	if err := c.SetColor(ctrl, ""); err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Debug("Created FK/IK switch.", "control", ctrl)
	return ctrl, nil
}
