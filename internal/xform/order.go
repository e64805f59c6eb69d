package xform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// RotateOrder is the Euler evaluation order. The numeric values match the
// rotateOrder enum of scene nodes.
type RotateOrder int

const (
	XYZ RotateOrder = iota
	YZX
	ZXY
	XZY
	YXZ
	ZYX
)

var orderNames = [...]string{"xyz", "yzx", "zxy", "xzy", "yxz", "zyx"}

// axes lists the axis indices in application order.
var orderAxes = [...][3]int{
	XYZ: {0, 1, 2},
	YZX: {1, 2, 0},
	ZXY: {2, 0, 1},
	XZY: {0, 2, 1},
	YXZ: {1, 0, 2},
	ZYX: {2, 1, 0},
}

func (o RotateOrder) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return fmt.Sprintf("RotateOrder(%d)", int(o))
	}
	return orderNames[o]
}

// Valid reports whether o is one of the six orders.
func (o RotateOrder) Valid() bool {
	return o >= XYZ && o <= ZYX
}

// ParseRotateOrder accepts the lowercase order label ("yzx").
func ParseRotateOrder(raw string) (RotateOrder, error) {
	for i, name := range orderNames {
		if name == raw {
			return RotateOrder(i), nil
		}
	}
	return XYZ, fmt.Errorf("unknown rotate order %q", raw)
}

// odd orders are the odd permutations of xyz.
func (o RotateOrder) odd() bool {
	return o == XZY || o == YXZ || o == ZYX
}

var unitAxes = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
