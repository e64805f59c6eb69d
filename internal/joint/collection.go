package joint

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Collection is an ordered set of joints with a type index. Every mutation
// bumps the generation; the index is rebuilt lazily when it is stale.
type Collection struct {
	joints *Joints
	items  []string

	generation int
	index      map[string][]string
	indexedAt  int
}

// Group is the joints of one type, in collection order.
type Group struct {
	Type   string
	Joints []string
}

// NewCollection wraps joint handles.
func NewCollection(j *Joints, items []string) *Collection {
	return &Collection{joints: j, items: slices.Clone(items), indexedAt: -1}
}

// Len returns the number of joints.
func (c *Collection) Len() int { return len(c.items) }

// At returns the joint at position i.
func (c *Collection) At(i int) string { return c.items[i] }

// Names returns a copy of the joints in order.
func (c *Collection) Names() []string { return slices.Clone(c.items) }

// Generation counts the mutations applied so far.
func (c *Collection) Generation() int { return c.generation }

func (c *Collection) bump() { c.generation++ }

func (c *Collection) typeIndex() map[string][]string {
	if c.index != nil && c.indexedAt == c.generation {
		return c.index
	}
	c.index = lo.GroupBy(c.items, c.joints.Type)
	c.indexedAt = c.generation
	return c.index
}

// Get returns the live joints of a type.
func (c *Collection) Get(typ string) ([]string, error) {
	hits := lo.Filter(c.typeIndex()[typ], func(h string, _ int) bool {
		return c.joints.sc.Exists(h)
	})
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoJointOfType, typ)
	}
	return hits, nil
}

// One returns the first live joint of a type.
func (c *Collection) One(typ string) (string, error) {
	hits, err := c.Get(typ)
	if err != nil {
		return "", err
	}
	return hits[0], nil
}

// Has reports whether a live joint of the type is present.
func (c *Collection) Has(typ string) bool {
	_, err := c.Get(typ)
	return err == nil
}

// Pop removes and returns the first live joint of a type.
func (c *Collection) Pop(typ string) (string, error) {
	hit, err := c.One(typ)
	if err != nil {
		return "", err
	}
	return c.PopAt(slices.Index(c.items, hit))
}

// PopAt removes and returns the joint at position i.
func (c *Collection) PopAt(i int) (string, error) {
	if i < 0 || i >= len(c.items) {
		return "", fmt.Errorf("joint index %d out of range [0, %d)", i, len(c.items))
	}
	hit := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.bump()
	return hit, nil
}

// PopAll removes every joint of a type and returns the live ones.
func (c *Collection) PopAll(typ string) []string {
	hits := c.typeIndex()[typ]
	if len(hits) == 0 {
		return nil
	}
	c.items = lo.Without(c.items, hits...)
	c.bump()
	return lo.Filter(hits, func(h string, _ int) bool { return c.joints.sc.Exists(h) })
}

// Push appends joints.
func (c *Collection) Push(joints ...string) {
	c.items = append(c.items, joints...)
	c.bump()
}

// Prune drops joints that no longer exist in the scene.
func (c *Collection) Prune() {
	c.items = lo.Filter(c.items, func(h string, _ int) bool { return c.joints.sc.Exists(h) })
	c.bump()
}

// Items prunes the collection and groups it by type, ordered by the first
// appearance of each type.
func (c *Collection) Items() []Group {
	c.Prune()
	index := c.typeIndex()
	types := lo.Uniq(lo.Map(c.items, func(h string, _ int) string { return c.joints.Type(h) }))
	return lo.Map(types, func(t string, _ int) Group {
		return Group{Type: t, Joints: slices.Clone(index[t])}
	})
}
