package scene

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrNodeExists       = errors.New("node already exists")
	ErrAttrNotFound     = errors.New("attribute not found")
	ErrAttrExists       = errors.New("attribute already exists")
	ErrLocked           = errors.New("attribute is locked")
	ErrReadOnly         = errors.New("attribute is computed and cannot be set")
	ErrAlreadyConnected = errors.New("destination already has an incoming connection")
	ErrNotConnected     = errors.New("plugs are not connected")
	ErrCycle            = errors.New("connection would create a cycle")
	ErrKindMismatch     = errors.New("value does not match attribute kind")
	ErrUnknownNodeType  = errors.New("unknown node type")
)

// AttrState holds the interaction flags of an attribute.
type AttrState struct {
	Locked     bool
	Keyable    bool
	ChannelBox bool
}

// AttrSpec declares a user-defined attribute.
type AttrSpec struct {
	Name     string
	Kind     Kind
	Default  any
	Enum     []string
	Min, Max *float64
	NiceName string
	State    AttrState
}

// AttrInfo describes an existing attribute.
type AttrInfo struct {
	Kind        Kind
	Enum        []string
	Min, Max    *float64
	NiceName    string
	UserDefined bool
	Computed    bool
	Children    []string
	AttrState
}

// Scene is the host scene graph. Implementations are expected to be
// synchronous; every call completes its mutation before returning.
type Scene interface {
	Exists(name string) bool
	// CreateNode adds a node of the given type. DAG node types are placed
	// under parent, or at the world root when parent is empty.
	CreateNode(nodeType, name, parent string) error
	// Delete removes a node, its DAG descendants and every connection
	// touching them.
	Delete(name string) error
	Rename(name, newName string) error
	NodeType(name string) (string, error)
	// Parent returns the DAG parent, or "" for world-level and DG nodes.
	Parent(name string) string
	// SetParent reparents while keeping the world transform. An empty parent
	// moves the node to the world root.
	SetParent(name, parent string) error
	// SetParentRelative reparents while keeping the local attribute values.
	SetParentRelative(name, parent string) error
	Children(name string) []string
	// ReorderBack moves a node to the end of its siblings.
	ReorderBack(name string) error
	// Roots lists world-level DAG nodes in sibling order.
	Roots() []string
	// Duplicate copies a single node (not its children) with all attribute
	// values under the same parent.
	Duplicate(name, newName string) error

	HasAttr(p Plug) bool
	AddAttr(node string, spec AttrSpec) error
	DeleteAttr(p Plug) error
	ListAttrs(node string, userDefined bool) []string
	AttrInfo(p Plug) (AttrInfo, error)
	GetAttr(p Plug) (any, error)
	SetAttr(p Plug, v any) error
	SetAttrState(p Plug, st AttrState) error

	// Connect wires src into dst. With force an existing incoming
	// connection on dst is replaced; without it ErrAlreadyConnected is
	// returned.
	Connect(src, dst Plug, force bool) error
	Disconnect(src, dst Plug) error
	Source(dst Plug) (Plug, bool)
	Destinations(src Plug) []Plug

	// WorldMatrix evaluates the static world transform from stored local
	// values. Incoming connections are not evaluated.
	WorldMatrix(name string) (mgl64.Mat4, error)
	// SetWorldMatrix moves a DAG node so its world matrix becomes m. Joints
	// keep their rotate values and absorb the change in jointOrient.
	// Locked channels do not block the move.
	SetWorldMatrix(name string, m mgl64.Mat4) error

	Selection() []string
	Select(names ...string)
}
