package rig

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/riggen/internal/attr"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/scene"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Attributes stored on the marker group of a character.
const (
	NameAttr       = "rigGenName"
	InitialsAttr   = "rigGenInitials"
	LayoutSizeAttr = "layoutSize"
)

// DefaultLayoutSize is the radius of the layout control of a new character.
const DefaultLayoutSize = 50.0

var (
	nameRe     = regexp.MustCompile(`^(?:[A-Za-z][a-zA-Z0-9]*(?:\s|$))+$`)
	initialsRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*$`)
)

// Character is what the prompter asks the user for.
type Character struct {
	Name     string
	Initials string
	// LayoutSize defaults to DefaultLayoutSize.
	LayoutSize float64
}

// Validate checks the name and initials against the naming rules.
func (c Character) Validate() error {
	if c.Name == "" || !nameRe.MatchString(c.Name) {
		return fmt.Errorf("%w: name %q", ErrInvalidCharacter, c.Name)
	}
	if !initialsRe.MatchString(c.Initials) {
		return fmt.Errorf("%w: initials %q", ErrInvalidCharacter, c.Initials)
	}
	if c.LayoutSize < 0 {
		return fmt.Errorf("%w: layout size %g", ErrInvalidCharacter, c.LayoutSize)
	}
	return nil
}

//go:generate mockgen -source=context.go -destination=mock_prompter_test.go -package=rig Prompter

// Prompter asks for a new character when none exists in the scene. ok is
// false when the user dismissed the prompt.
type Prompter interface {
	PromptCharacter(ctx context.Context) (c Character, ok bool, err error)
}

// Context is the state of one character build. It embeds the limb.Rig the
// generators work with.
type Context struct {
	*limb.Rig

	RawName    string
	Name       string
	LayoutSize float64

	OutputGroup    string
	InternalsGroup string
	GeometryGroup  string

	Registry *limb.Registry
}

// camelCase joins the words of a character name, each capitalised.
func camelCase(raw string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range strings.Fields(raw) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

func centerGroup(initials, name string) (string, error) {
	id, err := naming.Compose(initials, naming.Center, name, naming.SuffixGroup)
	if err != nil {
		return "", err
	}
	return id.ToSceneHandle(), nil
}

// NewContext names the groups of the character rawName with initials. It
// does not touch the scene.
func NewContext(attrs *attr.Store, reg *limb.Registry, rawName, initials string) (*Context, error) {
	c := &Context{
		Rig:      limb.NewRig(attrs, initials),
		RawName:  rawName,
		Name:     camelCase(rawName),
		Registry: reg,
	}
	c.MarkerGroup = c.Name + "_markers"
	c.OutputGroup = c.Name
	c.InternalsGroup = initials + "_DO_NOT_TOUCH"

	groups := []struct {
		field *string
		name  string
	}{
		{&c.ControlsGroup, "Controls"},
		{&c.GeometryGroup, "Geometry"},
		{&c.PoseGroup, "Pose"},
		{&c.SystemsGroup, "Systems"},
		{&c.BindGroup, "Bind"},
	}
	for _, g := range groups {
		name, err := centerGroup(initials, g.name)
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", rawName, err)
		}
		*g.field = name
	}
	return c, nil
}

// LoadOrCreateCharacter finds the character to work on: first among the
// ancestors of the selection, then breadth first through the scene. When
// the scene holds none, p is asked for a new one and its marker group is
// created.
func LoadOrCreateCharacter(ctx context.Context, attrs *attr.Store, reg *limb.Registry, p Prompter) (*Context, error) {
	logger := ctxlog.FromContext(ctx)
	sc := attrs.Scene()

	if node, ok := findCharacter(sc); ok {
		c, err := load(attrs, reg, node)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded character.", "name", c.RawName, "initials", c.Initials, "group", node)
		return c, nil
	}

	logger.Debug("No character in the scene, prompting for one.")
	ch, ok, err := p.PromptCharacter(ctx)
	if err != nil {
		return nil, fmt.Errorf("prompt character: %w", err)
	}
	if !ok {
		return nil, ErrBuildCancelled
	}
	if err := ch.Validate(); err != nil {
		return nil, err
	}
	c, err := NewContext(attrs, reg, ch.Name, ch.Initials)
	if err != nil {
		return nil, err
	}
	c.LayoutSize = ch.LayoutSize
	if c.LayoutSize == 0 {
		c.LayoutSize = DefaultLayoutSize
	}
	if err := c.createMarkerGroup(); err != nil {
		return nil, err
	}
	logger.Info("Created character.", "name", c.RawName, "initials", c.Initials, "group", c.MarkerGroup)
	return c, nil
}

func (c *Context) createMarkerGroup() error {
	if err := c.Scene().CreateNode("transform", c.MarkerGroup, ""); err != nil {
		return fmt.Errorf("create character %q: %w", c.RawName, err)
	}
	adds := []struct {
		name string
		o    attr.AddOptions
	}{
		{NameAttr, attr.AddOptions{Kind: scene.KindString, Value: c.RawName, Lock: true}},
		{InitialsAttr, attr.AddOptions{Kind: scene.KindString, Value: c.Initials, Lock: true}},
		{LayoutSizeAttr, attr.AddOptions{Kind: scene.KindFloat, Value: c.LayoutSize}},
	}
	for _, a := range adds {
		if err := c.Attrs().Add(c.MarkerGroup, a.name, a.o); err != nil {
			return fmt.Errorf("create character %q: %w", c.RawName, err)
		}
	}
	return nil
}

func isCharacter(sc scene.Scene, node string) bool {
	return sc.HasAttr(scene.P(node, NameAttr)) && sc.HasAttr(scene.P(node, InitialsAttr))
}

// findCharacter returns the topmost character ancestor of the first
// selected node, else the first character node in breadth-first order.
func findCharacter(sc scene.Scene) (string, bool) {
	if sel := sc.Selection(); len(sel) > 0 && sc.Exists(sel[0]) {
		var path []string
		for n := sel[0]; n != ""; n = sc.Parent(n) {
			path = append([]string{n}, path...)
		}
		for _, n := range path {
			if isCharacter(sc, n) {
				return n, true
			}
		}
	}
	queue := sc.Roots()
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if isCharacter(sc, n) {
			return n, true
		}
		queue = append(queue, sc.Children(n)...)
	}
	return "", false
}

func load(attrs *attr.Store, reg *limb.Registry, node string) (*Context, error) {
	name, err := attrs.String(scene.P(node, NameAttr))
	if err != nil {
		return nil, err
	}
	initials, err := attrs.String(scene.P(node, InitialsAttr))
	if err != nil {
		return nil, err
	}
	c, err := NewContext(attrs, reg, name, initials)
	if err != nil {
		return nil, err
	}
	// the group may have been renamed since it was created
	c.MarkerGroup = node
	size, err := attrs.GetOr(scene.P(node, LayoutSizeAttr), DefaultLayoutSize)
	if err != nil {
		return nil, err
	}
	c.LayoutSize, _ = scene.AsFloat(size)
	return c, nil
}
