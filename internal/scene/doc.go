// Package scene defines the contract between the rig builder and the host
// scene graph: a string-keyed DAG of nodes, each carrying typed attributes
// that can be connected into a dataflow network.
//
// Matrices use the column-vector convention of mgl64. A multMatrix node
// applies matrixIn[0] first, so its sum is matrixIn[n-1] * ... * matrixIn[0].
// Quaternions travel through ports as mgl64.Vec4 in x, y, z, w order.
package scene
