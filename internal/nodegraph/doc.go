// Package nodegraph builds computation networks out of host utility nodes.
//
// Every primitive creates exactly one node named after an owner identity,
// sets literal inputs, connects scene.Plug inputs and returns the plug of
// its output. Composites (parent constraints, space switches, swing-twist
// and matrix splines) are assembled from the primitives, so a rig never
// relies on host constraint nodes.
//
// Matrices follow the column-vector convention of package scene: a
// multMatrix over inputs [a, b, c] computes c * b * a.
package nodegraph
