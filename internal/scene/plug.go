package scene

import (
	"fmt"
	"regexp"
	"strings"
)

// Plug addresses one attribute of one node.
type Plug struct {
	Node string
	Attr string
}

// P is shorthand for building a plug.
func P(node, attr string) Plug {
	return Plug{Node: node, Attr: attr}
}

func (p Plug) String() string {
	return p.Node + "." + p.Attr
}

// IsZero reports whether the plug addresses nothing.
func (p Plug) IsZero() bool {
	return p.Node == "" && p.Attr == ""
}

// Index addresses element i of a multi attribute: P(n, "matrixIn").Index(2)
// is n.matrixIn[2].
func (p Plug) Index(i int) Plug {
	return Plug{Node: p.Node, Attr: fmt.Sprintf("%s[%d]", p.Attr, i)}
}

// Child addresses a child of a compound element: target[0].weight.
func (p Plug) Child(name string) Plug {
	return Plug{Node: p.Node, Attr: p.Attr + "." + name}
}

// ParsePlug splits "node.attr". Only the first dot separates the node.
func ParsePlug(raw string) (Plug, error) {
	node, attr, found := strings.Cut(raw, ".")
	if !found || node == "" || attr == "" {
		return Plug{}, fmt.Errorf("invalid plug %q: expected node.attr", raw)
	}
	return Plug{Node: node, Attr: attr}, nil
}

var indexRegex = regexp.MustCompile(`\[\d+\]`)

// NormalizeAttr strips element indices so a concrete attribute can be looked
// up in a node schema: "target[3].weight" becomes "target[].weight".
func NormalizeAttr(attr string) string {
	return indexRegex.ReplaceAllString(attr, "[]")
}

// ConcreteChild maps a schema child key onto a concrete parent attribute.
// ConcreteChild("input3D[].input3Dx", "input3D[]", "input3D[2]") returns
// "input3D[2].input3Dx".
func ConcreteChild(childKey, parentKey, concreteParent string) string {
	return concreteParent + strings.TrimPrefix(childKey, parentKey)
}
