// Package inmemoryscene provides a thread-safe, in-memory implementation of
// the scene.Scene interface. It lets the rig builder run headless: nodes,
// attributes and connections live in maps guarded by a mutex, connection
// cycles are rejected through a dag.Graph of plugs, and world matrices are
// solved from stored local values.
//
// Evaluate offers a small debug evaluator for the utility and matrix nodes
// the builder emits. It is not an animation engine.
package inmemoryscene
