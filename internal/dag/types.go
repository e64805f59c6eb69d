package dag

import "sync"

// Graph is a set of string-keyed vertices joined by directed edges. An edge
// from a to b reads "b depends on a". It is safe for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
}

// node is one vertex. Both edge directions are kept so removal and
// reachability walks stay cheap.
type node struct {
	id         string
	deps       map[string]*node
	dependents map[string]*node
}
