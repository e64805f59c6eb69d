package inmemoryscene

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/vk/riggen/internal/dag"
	"github.com/vk/riggen/internal/scene"
)

var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// attrTable is the per-node attribute storage.
type attrTable struct {
	Values    map[string]any
	States    map[string]scene.AttrState
	User      map[string]scene.Port
	UserOrder []string
}

func newAttrTable() attrTable {
	return attrTable{
		Values: make(map[string]any),
		States: make(map[string]scene.AttrState),
		User:   make(map[string]scene.Port),
	}
}

type record struct {
	name     string
	nodeType *scene.NodeType
	parent   string
	children []string
	attrs    attrTable
	// vertices are the dependency graph IDs created for this node.
	vertices map[string]struct{}
}

// Store implements scene.Scene using maps and a mutex.
type Store struct {
	mu        sync.RWMutex
	nodes     map[string]*record
	roots     []string
	incoming  map[scene.Plug]scene.Plug
	outgoing  map[scene.Plug][]scene.Plug
	deps      *dag.Graph
	selection []string
}

var _ scene.Scene = (*Store)(nil)

// New creates a new, empty scene.
func New() *Store {
	return &Store{
		nodes:    make(map[string]*record),
		incoming: make(map[scene.Plug]scene.Plug),
		outgoing: make(map[scene.Plug][]scene.Plug),
		deps:     dag.New(),
	}
}

func (s *Store) lookup(name string) (*record, error) {
	rec, ok := s.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", scene.ErrNodeNotFound, name)
	}
	return rec, nil
}

// Exists reports whether a node with the given name is live.
func (s *Store) Exists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[name]
	return ok
}

// Len returns the number of live nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// CreateNode adds a node of a known type.
func (s *Store) CreateNode(nodeType, name, parent string) error {
	t, ok := scene.LookupType(nodeType)
	if !ok {
		return fmt.Errorf("%w: %s", scene.ErrUnknownNodeType, nodeType)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid node name %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[name]; exists {
		return fmt.Errorf("%w: %s", scene.ErrNodeExists, name)
	}
	if parent != "" {
		if !t.DAG {
			return fmt.Errorf("node type %s cannot have a parent", nodeType)
		}
		p, err := s.lookup(parent)
		if err != nil {
			return err
		}
		if !p.nodeType.DAG {
			return fmt.Errorf("cannot parent %s under non-DAG node %s", name, parent)
		}
	}

	s.nodes[name] = &record{
		name:     name,
		nodeType: t,
		attrs:    newAttrTable(),
		vertices: make(map[string]struct{}),
	}
	if t.DAG {
		s.attach(name, parent)
	}
	return nil
}

// attach appends name to the children of parent, or to the roots.
func (s *Store) attach(name, parent string) {
	s.nodes[name].parent = parent
	if parent == "" {
		s.roots = append(s.roots, name)
		return
	}
	p := s.nodes[parent]
	p.children = append(p.children, name)
}

func (s *Store) detach(name string) {
	rec := s.nodes[name]
	if rec.parent == "" {
		s.roots = slices.DeleteFunc(s.roots, func(n string) bool { return n == name })
		return
	}
	p := s.nodes[rec.parent]
	p.children = slices.DeleteFunc(p.children, func(n string) bool { return n == name })
	rec.parent = ""
}

// subtree returns name and its DAG descendants in depth-first pre-order.
func (s *Store) subtree(name string) []string {
	out := []string{name}
	for _, child := range s.nodes[name].children {
		out = append(out, s.subtree(child)...)
	}
	return out
}

// Delete removes a node, its descendants and their connections.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(name); err != nil {
		return err
	}
	doomed := s.subtree(name)
	gone := make(map[string]bool, len(doomed))
	for _, n := range doomed {
		gone[n] = true
	}

	for dst, src := range s.incoming {
		if gone[dst.Node] || gone[src.Node] {
			s.unlink(src, dst)
		}
	}

	s.detach(name)
	for _, n := range doomed {
		for id := range s.nodes[n].vertices {
			s.deps.RemoveNode(id)
		}
		delete(s.nodes, n)
	}
	s.selection = slices.DeleteFunc(s.selection, func(n string) bool { return gone[n] })
	return nil
}

// Rename changes a node's name, carrying its connections along.
func (s *Store) Rename(name, newName string) error {
	if !nameRegex.MatchString(newName) {
		return fmt.Errorf("invalid node name %q", newName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(name)
	if err != nil {
		return err
	}
	if name == newName {
		return nil
	}
	if _, exists := s.nodes[newName]; exists {
		return fmt.Errorf("%w: %s", scene.ErrNodeExists, newName)
	}

	delete(s.nodes, name)
	rec.name = newName
	s.nodes[newName] = rec

	swap := func(n string) string {
		if n == name {
			return newName
		}
		return n
	}
	if rec.parent == "" {
		for i := range s.roots {
			s.roots[i] = swap(s.roots[i])
		}
	} else {
		p := s.nodes[rec.parent]
		for i := range p.children {
			p.children[i] = swap(p.children[i])
		}
	}
	for _, child := range rec.children {
		s.nodes[child].parent = newName
	}
	for i := range s.selection {
		s.selection[i] = swap(s.selection[i])
	}

	rename := func(p scene.Plug) scene.Plug {
		return scene.Plug{Node: swap(p.Node), Attr: p.Attr}
	}
	incoming := make(map[scene.Plug]scene.Plug, len(s.incoming))
	outgoing := make(map[scene.Plug][]scene.Plug, len(s.outgoing))
	for dst, src := range s.incoming {
		incoming[rename(dst)] = rename(src)
	}
	for src, dsts := range s.outgoing {
		renamed := make([]scene.Plug, len(dsts))
		for i, d := range dsts {
			renamed[i] = rename(d)
		}
		outgoing[rename(src)] = renamed
	}
	s.incoming, s.outgoing = incoming, outgoing
	s.rebuildDeps()
	return nil
}

// NodeType returns the type name of a node.
func (s *Store) NodeType(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	return rec.nodeType.Name, nil
}

// Parent returns the DAG parent, or "" at the world root.
func (s *Store) Parent(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.nodes[name]; ok {
		return rec.parent
	}
	return ""
}

// Children returns the ordered DAG children of a node.
func (s *Store) Children(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.nodes[name]; ok {
		return slices.Clone(rec.children)
	}
	return nil
}

// Roots lists world-level DAG nodes in sibling order.
func (s *Store) Roots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.roots)
}

// Descendants lists the DAG descendants of name in depth-first pre-order,
// excluding name itself.
func (s *Store) Descendants(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.nodes[name]; !ok {
		return nil
	}
	return s.subtree(name)[1:]
}

// Names lists every node in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.nodes))
	for name := range s.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) checkReparent(name, parent string) (*record, error) {
	rec, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	if !rec.nodeType.DAG {
		return nil, fmt.Errorf("cannot parent non-DAG node %s", name)
	}
	if parent == "" {
		return rec, nil
	}
	p, err := s.lookup(parent)
	if err != nil {
		return nil, err
	}
	if !p.nodeType.DAG {
		return nil, fmt.Errorf("cannot parent %s under non-DAG node %s", name, parent)
	}
	for anc := parent; anc != ""; anc = s.nodes[anc].parent {
		if anc == name {
			return nil, fmt.Errorf("cannot parent %s under its own descendant %s", name, parent)
		}
	}
	return rec, nil
}

// SetParent reparents a node while keeping its world transform.
func (s *Store) SetParent(name, parent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.checkReparent(name, parent)
	if err != nil {
		return err
	}
	if rec.parent == parent {
		return nil
	}
	world := s.worldOf(rec, s.staticInputs)
	s.detach(name)
	s.attach(name, parent)
	s.setWorld(rec, world)
	return nil
}

// SetParentRelative reparents a node while keeping its local values.
func (s *Store) SetParentRelative(name, parent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.checkReparent(name, parent)
	if err != nil {
		return err
	}
	if rec.parent == parent {
		return nil
	}
	s.detach(name)
	s.attach(name, parent)
	return nil
}

// ReorderBack moves a node to the end of its siblings.
func (s *Store) ReorderBack(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(name)
	if err != nil {
		return err
	}
	if !rec.nodeType.DAG {
		return fmt.Errorf("cannot reorder non-DAG node %s", name)
	}
	parent := rec.parent
	s.detach(name)
	s.attach(name, parent)
	return nil
}

// Duplicate copies one node and its attribute values under the same parent.
// Children and connections are not copied.
func (s *Store) Duplicate(name, newName string) error {
	if !nameRegex.MatchString(newName) {
		return fmt.Errorf("invalid node name %q", newName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(name)
	if err != nil {
		return err
	}
	if _, exists := s.nodes[newName]; exists {
		return fmt.Errorf("%w: %s", scene.ErrNodeExists, newName)
	}

	dup := &record{
		name:     newName,
		nodeType: rec.nodeType,
		vertices: make(map[string]struct{}),
	}
	dup.attrs = newAttrTable()
	for attr, v := range rec.attrs.Values {
		dup.attrs.Values[attr] = cloneValue(v)
	}
	deep := copier.Option{DeepCopy: true}
	if err := copier.CopyWithOption(&dup.attrs.User, rec.attrs.User, deep); err != nil {
		return fmt.Errorf("failed to copy attributes of %s: %w", name, err)
	}
	if err := copier.CopyWithOption(&dup.attrs.States, rec.attrs.States, deep); err != nil {
		return fmt.Errorf("failed to copy attribute states of %s: %w", name, err)
	}
	dup.attrs.UserOrder = slices.Clone(rec.attrs.UserOrder)
	s.nodes[newName] = dup
	if rec.nodeType.DAG {
		s.attach(newName, rec.parent)
	}
	return nil
}

// Selection returns the current selection.
func (s *Store) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selection)
}

// Select replaces the selection. Unknown names are dropped.
func (s *Store) Select(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.selection[:0]
	for _, n := range names {
		if _, ok := s.nodes[n]; ok {
			s.selection = append(s.selection, n)
		}
	}
}
