// Package joint models the joint hierarchies a rig is built from: marker
// joints authored by the user, limb roots, chains below a root and the
// variant copies (pose, fk, ik, bind) derived from them.
//
// Joints are plain scene handles. Joints carries the scene, the attribute
// store and the character initials every created joint is named with.
package joint
