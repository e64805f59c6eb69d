// Package rig drives a character build: it finds or creates the character
// in the scene, places limb markers, turns the markers into pose joints and
// hands every root chain to its limb generator.
package rig
