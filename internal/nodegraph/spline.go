package nodegraph

import (
	"fmt"

	"github.com/vk/riggen/internal/scene"
	"github.com/vk/riggen/internal/xform"
)

// MatrixSpline samples a cubic Bezier segment over exactly four control
// matrices at t. The position comes from the Bernstein weights; the result
// is then aimed along the curve's derivative so its X axis follows the
// tangent.
func (b *Builder) MatrixSpline(n Naming, values []any, t float64) (scene.Plug, error) {
	if len(values) != 4 {
		return scene.Plug{}, fmt.Errorf("matrix spline needs 4 control matrices, got %d", len(values))
	}
	weighted := func(w [4]float64) []Weighted {
		out := make([]Weighted, 4)
		for i := range out {
			out[i] = Weighted{Matrix: values[i], Weight: w[i]}
		}
		return out
	}

	point, err := b.wtAddMatrix(n, "splinePoint", weighted(xform.BezierWeights(t)))
	if err != nil {
		return scene.Plug{}, err
	}
	tangent, err := b.wtAddMatrix(n, "tangentMatrix", weighted(xform.BezierTangentWeights(t)))
	if err != nil {
		return scene.Plug{}, err
	}
	// The derivative weights sum to zero, so the translation of tangent is
	// the tangent vector itself. Adding the point turns it into a target
	// position for aim mode.
	ahead, err := b.wtAddMatrix(n, "tangentTarget", []Weighted{
		{Matrix: point, Weight: 1.0},
		{Matrix: tangent, Weight: 1.0},
	})
	if err != nil {
		return scene.Plug{}, err
	}
	return b.AimMatrix(n.WithSuffix("alignToSpline"), point, AimOptions{
		Primary: AimTarget{Mode: "aim", Matrix: ahead},
	})
}
