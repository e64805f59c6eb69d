// Package limb defines the contract every limb generator implements and the
// build sequence that runs one generator over a chain of pose joints.
//
// A limb package registers a Factory under a unique key through a Module.
// Marker roots carry that key, so a build can look the generator up again
// from the scene alone.
package limb
