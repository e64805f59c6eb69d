package xform

// BezierWeights are the cubic Bernstein weights at t for four control
// values.
func BezierWeights(t float64) [4]float64 {
	u := 1 - t
	return [4]float64{u * u * u, 3 * u * u * t, 3 * u * t * t, t * t * t}
}

// BezierTangentWeights are the derivatives of BezierWeights with respect to
// t.
func BezierTangentWeights(t float64) [4]float64 {
	u := 1 - t
	return [4]float64{
		-3 * u * u,
		3*u*u - 6*t*u,
		6*t*u - 3*t*t,
		3 * t * t,
	}
}
