package app

import (
	"github.com/gookit/color"
	"github.com/vk/riggen/internal/control"
	"github.com/vk/riggen/internal/limb"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/rig"
)

// printSummary writes the character, the scene size and one line per built
// limb, tinted with the control colour of the limb's side.
func (a *App) printSummary(c *rig.Context, builds []*limb.Build) {
	doc := a.scene.Snapshot()
	color.Fprintf(a.outW, "<bold>Character %s</> (%s)\n", c.RawName, c.Initials)
	color.Fprintf(a.outW, "  nodes: %d  connections: %d\n", len(doc.Nodes), len(doc.Connections))
	if len(builds) == 0 {
		color.Fprintln(a.outW, "  no limbs built")
		return
	}
	for _, b := range builds {
		root := ""
		if b.Pose != nil && b.Pose.Len() > 0 {
			root = b.Pose.At(0)
		}
		side := naming.Center
		if id, err := naming.ParseStructured(root); err == nil {
			side = id.Side
		}
		label := control.Swatch(control.SideColors[side], side.String())
		color.Fprintf(a.outW, "  %-12s %-28s %s\n", b.Limb.Key(), root, label)
	}
}
