package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the declared type of an attribute.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindFloat3
	KindFloat4
	KindMatrix
	KindString
	KindEnum
	KindFloatArray
	// KindCompound groups child attributes and holds no value itself.
	KindCompound
)

var kindNames = map[Kind]string{
	KindInvalid:    "invalid",
	KindBool:       "bool",
	KindInt:        "int",
	KindFloat:      "float",
	KindFloat3:     "float3",
	KindFloat4:     "float4",
	KindMatrix:     "matrix",
	KindString:     "string",
	KindEnum:       "enum",
	KindFloatArray: "floatArray",
	KindCompound:   "compound",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a kind name as written in config files back to a Kind.
func ParseKind(raw string) (Kind, error) {
	for k, name := range kindNames {
		if name == raw && k != KindInvalid {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown attribute kind %q", raw)
}

// Zero returns the default value stored for a kind.
func Zero(k Kind) any {
	switch k {
	case KindBool:
		return false
	case KindInt, KindEnum:
		return 0
	case KindFloat:
		return 0.0
	case KindFloat3:
		return mgl64.Vec3{}
	case KindFloat4:
		return mgl64.Vec4{0, 0, 0, 1}
	case KindMatrix:
		return mgl64.Ident4()
	case KindString:
		return ""
	case KindFloatArray:
		return []float64{}
	}
	return nil
}

// Coerce converts v into the canonical storage type for k: bool, int,
// float64, mgl64.Vec3, mgl64.Vec4, mgl64.Mat4, string or []float64.
// Quaternions are accepted for Float4 and stored as x, y, z, w.
func Coerce(k Kind, v any) (any, error) {
	switch k {
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case int:
			return x != 0, nil
		case float64:
			return x != 0, nil
		}
	case KindInt, KindEnum:
		switch x := v.(type) {
		case int:
			return x, nil
		case int32:
			return int(x), nil
		case int64:
			return int(x), nil
		case bool:
			if x {
				return 1, nil
			}
			return 0, nil
		case float64:
			if x == math.Trunc(x) {
				return int(x), nil
			}
		}
	case KindFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case bool:
			if x {
				return 1.0, nil
			}
			return 0.0, nil
		}
	case KindFloat3:
		switch x := v.(type) {
		case mgl64.Vec3:
			return x, nil
		case [3]float64:
			return mgl64.Vec3(x), nil
		case []float64:
			if len(x) == 3 {
				return mgl64.Vec3{x[0], x[1], x[2]}, nil
			}
		}
	case KindFloat4:
		switch x := v.(type) {
		case mgl64.Vec4:
			return x, nil
		case mgl64.Quat:
			return mgl64.Vec4{x.V[0], x.V[1], x.V[2], x.W}, nil
		case [4]float64:
			return mgl64.Vec4(x), nil
		case []float64:
			if len(x) == 4 {
				return mgl64.Vec4{x[0], x[1], x[2], x[3]}, nil
			}
		}
	case KindMatrix:
		switch x := v.(type) {
		case mgl64.Mat4:
			return x, nil
		case [16]float64:
			return mgl64.Mat4(x), nil
		case []float64:
			if len(x) == 16 {
				var m mgl64.Mat4
				copy(m[:], x)
				return m, nil
			}
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindFloatArray:
		switch x := v.(type) {
		case []float64:
			return append([]float64(nil), x...), nil
		case []mgl64.Vec3:
			out := make([]float64, 0, len(x)*3)
			for _, p := range x {
				out = append(out, p[0], p[1], p[2])
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot store %T as %s", ErrKindMismatch, v, k)
}

// InferKind guesses the kind of a literal value from its Go shape.
func InferKind(v any) (Kind, bool) {
	switch v.(type) {
	case bool:
		return KindBool, true
	case int, int32, int64:
		return KindInt, true
	case float64, float32:
		return KindFloat, true
	case mgl64.Vec3, [3]float64:
		return KindFloat3, true
	case mgl64.Vec4, mgl64.Quat, [4]float64:
		return KindFloat4, true
	case mgl64.Mat4, [16]float64:
		return KindMatrix, true
	case string:
		return KindString, true
	case []float64:
		return KindFloatArray, true
	}
	return KindInvalid, false
}

// AsFloat reads a scalar stored value as a float.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
