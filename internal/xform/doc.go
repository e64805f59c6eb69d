// Package xform holds the rigid transform math shared by the scene
// implementation and the rig builders: Euler angles in any of the six
// rotate orders, quaternion helpers, TRS composition and decomposition,
// swing-twist factorization and cubic spline weights.
//
// Angles are in degrees at the package boundary. Matrices follow the mgl64
// column-vector convention, so a rotate order of "xyz" applies X first and
// composes as Rz * Ry * Rx.
package xform
