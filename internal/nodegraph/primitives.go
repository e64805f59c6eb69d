package nodegraph

import (
	"fmt"

	"github.com/vk/riggen/internal/scene"
)

// Inputs of the primitives are literal values (float64, int, bool,
// mgl64.Vec3, mgl64.Vec4, mgl64.Mat4), scene.Plug values to connect, or
// [3]any / [4]any to set or connect vector children one by one. A nil
// input keeps the node default.

func (b *Builder) plusMinusAverage(n Naming, suffix string, op int, vector bool, inputs []any) (scene.Plug, error) {
	node, err := b.create("plusMinusAverage", n, suffix)
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.Attrs.Set(scene.P(node, "operation"), op); err != nil {
		return scene.Plug{}, err
	}
	base, out := "input1D", "output1D"
	if vector {
		base, out = "input3D", "output3D"
	}
	for i, in := range inputs {
		if err := b.in(scene.P(node, base).Index(i), in); err != nil {
			return scene.Plug{}, err
		}
	}
	return scene.P(node, out), nil
}

// Add1D sums scalars.
func (b *Builder) Add1D(n Naming, inputs ...any) (scene.Plug, error) {
	return b.plusMinusAverage(n, "add", 1, false, inputs)
}

// Sub1D subtracts every following scalar from the first.
func (b *Builder) Sub1D(n Naming, inputs ...any) (scene.Plug, error) {
	return b.plusMinusAverage(n, "sub", 2, false, inputs)
}

// Avg1D averages scalars.
func (b *Builder) Avg1D(n Naming, inputs ...any) (scene.Plug, error) {
	return b.plusMinusAverage(n, "avg", 3, false, inputs)
}

// Add3D sums vectors.
func (b *Builder) Add3D(n Naming, inputs ...any) (scene.Plug, error) {
	return b.plusMinusAverage(n, "add", 1, true, inputs)
}

// Sub3D subtracts every following vector from the first.
func (b *Builder) Sub3D(n Naming, inputs ...any) (scene.Plug, error) {
	return b.plusMinusAverage(n, "sub", 2, true, inputs)
}

// Avg3D averages vectors.
func (b *Builder) Avg3D(n Naming, inputs ...any) (scene.Plug, error) {
	return b.plusMinusAverage(n, "avg", 3, true, inputs)
}

func (b *Builder) multiplyDivide(n Naming, suffix string, op int, vector bool, in1, in2 any) (scene.Plug, error) {
	node, err := b.create("multiplyDivide", n, suffix)
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.Attrs.Set(scene.P(node, "operation"), op); err != nil {
		return scene.Plug{}, err
	}
	a, c, out := "input1X", "input2X", "outputX"
	if vector {
		a, c, out = "input1", "input2", "output"
	}
	if err := b.inputs(node, map[string]any{a: in1, c: in2}); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, out), nil
}

// Mult multiplies two scalars.
func (b *Builder) Mult(n Naming, in1, in2 any) (scene.Plug, error) {
	return b.multiplyDivide(n, "multiply", 1, false, in1, in2)
}

// Div divides two scalars. A zero divisor yields zero.
func (b *Builder) Div(n Naming, in1, in2 any) (scene.Plug, error) {
	return b.multiplyDivide(n, "divide", 2, false, in1, in2)
}

// Pow raises in1 to in2.
func (b *Builder) Pow(n Naming, in1, in2 any) (scene.Plug, error) {
	return b.multiplyDivide(n, "pow", 3, false, in1, in2)
}

// Mult3 multiplies two vectors component-wise.
func (b *Builder) Mult3(n Naming, in1, in2 any) (scene.Plug, error) {
	return b.multiplyDivide(n, "multiply", 1, true, in1, in2)
}

// Div3 divides two vectors component-wise.
func (b *Builder) Div3(n Naming, in1, in2 any) (scene.Plug, error) {
	return b.multiplyDivide(n, "divide", 2, true, in1, in2)
}

// Comparison operators understood by Switch1D and Switch3D.
var comparisons = map[string]int{"==": 0, "!=": 1, ">": 2, ">=": 3, "<": 4, "<=": 5}

func (b *Builder) condition(n Naming, first any, op string, second any) (string, error) {
	code, ok := comparisons[op]
	if !ok {
		return "", fmt.Errorf("unknown comparison %q", op)
	}
	node, err := b.create("condition", n, "switch")
	if err != nil {
		return "", err
	}
	if err := b.Attrs.Set(scene.P(node, "operation"), code); err != nil {
		return "", err
	}
	return node, b.inputs(node, map[string]any{"firstTerm": first, "secondTerm": second})
}

// Switch1D returns ifTrue when `first op second` holds and ifFalse
// otherwise. Nil branches default to 1 and 0.
func (b *Builder) Switch1D(n Naming, first any, op string, second, ifTrue, ifFalse any) (scene.Plug, error) {
	if ifTrue == nil {
		ifTrue = 1.0
	}
	if ifFalse == nil {
		ifFalse = 0.0
	}
	node, err := b.condition(n, first, op, second)
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.inputs(node, map[string]any{"colorIfTrueR": ifTrue, "colorIfFalseR": ifFalse}); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, "outColorR"), nil
}

// Switch3D is Switch1D over vectors.
func (b *Builder) Switch3D(n Naming, first any, op string, second, ifTrue, ifFalse any) (scene.Plug, error) {
	node, err := b.condition(n, first, op, second)
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.inputs(node, map[string]any{"colorIfTrue": ifTrue, "colorIfFalse": ifFalse}); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, "outColor"), nil
}

func (b *Builder) floatMath(n Naming, suffix string, op int, a, c any) (scene.Plug, error) {
	node, err := b.create("floatMath", n, suffix)
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.Attrs.Set(scene.P(node, "operation"), op); err != nil {
		return scene.Plug{}, err
	}
	if err := b.inputs(node, map[string]any{"floatA": a, "floatB": c}); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, "outFloat"), nil
}

// Min returns the smaller input.
func (b *Builder) Min(n Naming, a, c any) (scene.Plug, error) {
	return b.floatMath(n, "min", 4, a, c)
}

// Max returns the larger input.
func (b *Builder) Max(n Naming, a, c any) (scene.Plug, error) {
	return b.floatMath(n, "max", 5, a, c)
}

// Clamp limits a scalar to [lo, hi].
func (b *Builder) Clamp(n Naming, input, lo, hi any) (scene.Plug, error) {
	node, err := b.create("clamp", n, "clamp")
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.inputs(node, map[string]any{"inputR": input, "minR": lo, "maxR": hi}); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, "outputR"), nil
}

// Reverse returns 1 - input.
func (b *Builder) Reverse(n Naming, input any) (scene.Plug, error) {
	node, err := b.create("reverse", n, "invert")
	if err != nil {
		return scene.Plug{}, err
	}
	if err := b.in(scene.P(node, "inputX"), input); err != nil {
		return scene.Plug{}, err
	}
	return scene.P(node, "outputX"), nil
}
