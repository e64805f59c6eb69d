// Package control creates animator-facing controls: nurbsCurve nodes whose
// controlPoints hold the shape, placed on a reference joint and rested so
// their channels read zero.
package control
