package inmemoryscene

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/vk/riggen/internal/scene"
)

// Dependency vertices are plugs. Vector components share the vertex of
// their parent vector, and every node has a hub vertex ("node#") that links
// its evaluated inputs to its computed outputs.

func hubID(node string) string { return node + "#" }

func (s *Store) vertexID(rec *record, p scene.Plug) string {
	port, key, ok := s.port(rec, p.Attr)
	if ok && isComponent(port) {
		return scene.P(p.Node, parentAttr(port, key, p.Attr)).String()
	}
	return p.String()
}

// feedsOutputs reports whether an input port drives the node's computed
// outputs.
func feedsOutputs(rec *record, port scene.Port, key string) bool {
	if port.Computed || port.UserDefined {
		return false
	}
	if !rec.nodeType.DAG {
		return true
	}
	if isComponent(port) {
		key = port.Parent
	}
	return scene.IsTransformInput(key)
}

// ensureVertex adds the vertex for p and its structural hub edge.
func (s *Store) ensureVertex(rec *record, p scene.Plug) string {
	id := s.vertexID(rec, p)
	if s.deps.HasNode(id) {
		return id
	}
	s.deps.AddNode(id)
	rec.vertices[id] = struct{}{}

	port, key, _ := s.port(rec, p.Attr)
	hub := hubID(rec.name)
	switch {
	case port.Computed:
		s.deps.AddNode(hub)
		rec.vertices[hub] = struct{}{}
		_ = s.deps.AddEdge(hub, id)
	case feedsOutputs(rec, port, key):
		s.deps.AddNode(hub)
		rec.vertices[hub] = struct{}{}
		_ = s.deps.AddEdge(id, hub)
	}
	return id
}

func compatible(a, b scene.Kind) bool {
	scalar := func(k scene.Kind) bool {
		return k == scene.KindBool || k == scene.KindInt || k == scene.KindFloat || k == scene.KindEnum
	}
	if a == b {
		return a != scene.KindCompound
	}
	return scalar(a) && scalar(b)
}

// Connect wires src into dst.
func (s *Store) Connect(src, dst scene.Plug, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	srcRec, srcPort, _, err := s.resolve(src)
	if err != nil {
		return err
	}
	dstRec, dstPort, dstKey, err := s.resolve(dst)
	if err != nil {
		return err
	}
	if dstPort.Computed {
		return fmt.Errorf("%w: %s", scene.ErrReadOnly, dst)
	}
	if !compatible(srcPort.Kind, dstPort.Kind) {
		return fmt.Errorf("%w: cannot connect %s (%s) to %s (%s)",
			scene.ErrKindMismatch, src, srcPort.Kind, dst, dstPort.Kind)
	}
	if s.locked(dstRec, dstPort, dstKey, dst.Attr) {
		return fmt.Errorf("%w: %s", scene.ErrLocked, dst)
	}

	existing, connected := s.incoming[dst]
	if connected && existing == src {
		return nil
	}
	if connected && !force {
		return fmt.Errorf("%w: %s is driven by %s", scene.ErrAlreadyConnected, dst, existing)
	}

	srcID := s.ensureVertex(srcRec, src)
	dstID := s.ensureVertex(dstRec, dst)
	if srcID == dstID || s.deps.HasPath(dstID, srcID) {
		return fmt.Errorf("%w: %s -> %s", scene.ErrCycle, src, dst)
	}

	if connected {
		s.unlink(existing, dst)
	}
	s.incoming[dst] = src
	s.outgoing[src] = append(s.outgoing[src], dst)
	if err := s.deps.AddEdge(srcID, dstID); err != nil {
		return fmt.Errorf("failed to record connection %s -> %s: %w", src, dst, err)
	}
	return nil
}

// unlink removes a connection. The dependency edge is kept while another
// connection still maps onto the same vertex pair.
func (s *Store) unlink(src, dst scene.Plug) {
	delete(s.incoming, dst)
	s.outgoing[src] = slices.DeleteFunc(s.outgoing[src], func(p scene.Plug) bool { return p == dst })
	if len(s.outgoing[src]) == 0 {
		delete(s.outgoing, src)
	}

	srcRec, ok1 := s.nodes[src.Node]
	dstRec, ok2 := s.nodes[dst.Node]
	if !ok1 || !ok2 {
		return
	}
	srcID, dstID := s.vertexID(srcRec, src), s.vertexID(dstRec, dst)
	for d, sp := range s.incoming {
		if sp.Node == src.Node && d.Node == dst.Node &&
			s.vertexID(srcRec, sp) == srcID && s.vertexID(dstRec, d) == dstID {
			return
		}
	}
	_ = s.deps.RemoveEdge(srcID, dstID)
}

// Disconnect removes the connection src -> dst.
func (s *Store) Disconnect(src, dst scene.Plug) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.incoming[dst]; !ok || existing != src {
		return fmt.Errorf("%w: %s -> %s", scene.ErrNotConnected, src, dst)
	}
	s.unlink(src, dst)
	return nil
}

// Source returns the plug driving dst.
func (s *Store) Source(dst scene.Plug) (scene.Plug, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.incoming[dst]
	return src, ok
}

// Destinations lists the plugs src drives, in connection order.
func (s *Store) Destinations(src scene.Plug) []scene.Plug {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.outgoing[src])
}

// Connections lists every connection as (source, destination) pairs sorted
// by destination.
func (s *Store) Connections() [][2]scene.Plug {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([][2]scene.Plug, 0, len(s.incoming))
	for dst, src := range s.incoming {
		out = append(out, [2]scene.Plug{src, dst})
	}
	slices.SortFunc(out, func(a, b [2]scene.Plug) int {
		if c := cmp.Compare(a[1].String(), b[1].String()); c != 0 {
			return c
		}
		return cmp.Compare(a[0].String(), b[0].String())
	})
	return out
}

// rebuildDeps recreates the dependency graph from the connection table.
func (s *Store) rebuildDeps() {
	for _, rec := range s.nodes {
		for id := range rec.vertices {
			s.deps.RemoveNode(id)
		}
		rec.vertices = make(map[string]struct{})
	}
	for dst, src := range s.incoming {
		srcID := s.ensureVertex(s.nodes[src.Node], src)
		dstID := s.ensureVertex(s.nodes[dst.Node], dst)
		_ = s.deps.AddEdge(srcID, dstID)
	}
}
