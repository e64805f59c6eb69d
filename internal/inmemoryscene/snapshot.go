package inmemoryscene

import (
	"slices"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/scene"
)

// Document is a serializable snapshot of a scene.
type Document struct {
	Nodes       []NodeDoc       `json:"nodes" yaml:"nodes" msgpack:"nodes"`
	Connections []ConnectionDoc `json:"connections" yaml:"connections" msgpack:"connections"`
}

// NodeDoc is one node of a snapshot. Attrs only holds values that were
// explicitly set.
type NodeDoc struct {
	Name      string         `json:"name" yaml:"name" msgpack:"name"`
	Type      string         `json:"type" yaml:"type" msgpack:"type"`
	Parent    string         `json:"parent,omitempty" yaml:"parent,omitempty" msgpack:"parent,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty" msgpack:"attrs,omitempty"`
	UserAttrs []UserAttrDoc  `json:"userAttrs,omitempty" yaml:"userAttrs,omitempty" msgpack:"userAttrs,omitempty"`
	Locked    []string       `json:"locked,omitempty" yaml:"locked,omitempty" msgpack:"locked,omitempty"`
}

// UserAttrDoc declares a user-defined attribute.
type UserAttrDoc struct {
	Name string   `json:"name" yaml:"name" msgpack:"name"`
	Kind string   `json:"kind" yaml:"kind" msgpack:"kind"`
	Enum []string `json:"enum,omitempty" yaml:"enum,omitempty" msgpack:"enum,omitempty"`
}

// ConnectionDoc is one source -> destination connection.
type ConnectionDoc struct {
	Source      string `json:"source" yaml:"source" msgpack:"source"`
	Destination string `json:"destination" yaml:"destination" msgpack:"destination"`
}

// plain converts math values into slices so every encoder writes them the
// same way.
func plain(v any) any {
	switch x := v.(type) {
	case mgl64.Vec3:
		return x[:]
	case mgl64.Vec4:
		return x[:]
	case mgl64.Mat4:
		return x[:]
	}
	return v
}

// Snapshot captures the scene: DAG nodes in hierarchy order followed by
// utility nodes sorted by name.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var order []string
	for _, root := range s.roots {
		order = append(order, s.subtree(root)...)
	}
	var dg []string
	for name, rec := range s.nodes {
		if !rec.nodeType.DAG {
			dg = append(dg, name)
		}
	}
	sort.Strings(dg)
	order = append(order, dg...)

	doc := Document{Nodes: make([]NodeDoc, 0, len(order))}
	for _, name := range order {
		rec := s.nodes[name]
		nd := NodeDoc{Name: name, Type: rec.nodeType.Name, Parent: rec.parent}
		if len(rec.attrs.Values) > 0 {
			nd.Attrs = make(map[string]any, len(rec.attrs.Values))
			for attr, v := range rec.attrs.Values {
				nd.Attrs[attr] = plain(v)
			}
		}
		for _, attr := range rec.attrs.UserOrder {
			port := rec.attrs.User[attr]
			nd.UserAttrs = append(nd.UserAttrs, UserAttrDoc{Name: attr, Kind: port.Kind.String(), Enum: slices.Clone(port.Enum)})
		}
		for attr, st := range rec.attrs.States {
			if st.Locked {
				nd.Locked = append(nd.Locked, attr)
			}
		}
		sort.Strings(nd.Locked)
		doc.Nodes = append(doc.Nodes, nd)
	}

	dsts := make([]scene.Plug, 0, len(s.incoming))
	for dst := range s.incoming {
		dsts = append(dsts, dst)
	}
	slices.SortFunc(dsts, func(a, b scene.Plug) int {
		if a.String() < b.String() {
			return -1
		}
		if a.String() > b.String() {
			return 1
		}
		return 0
	})
	for _, dst := range dsts {
		doc.Connections = append(doc.Connections, ConnectionDoc{Source: s.incoming[dst].String(), Destination: dst.String()})
	}
	return doc
}
