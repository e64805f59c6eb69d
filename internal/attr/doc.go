// Package attr is the attribute and connection layer the rig builders talk
// to. It wraps a scene.Scene with typed getters, label-aware enum setting,
// the lock/unlock conventions of rig controls and a few transform helpers.
package attr
