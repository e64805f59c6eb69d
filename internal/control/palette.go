package control

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gookit/color"
	"github.com/vk/riggen/internal/naming"
)

// Palette holds the named control colours, linear RGB in [0, 1].
var Palette = map[string]mgl64.Vec3{
	"shadow red":    {0.389, 0.040, 0.000},
	"shadow orange": {0.498, 0.153, 0.000},
	"shadow yellow": {0.517, 0.322, 0.000},
	"shadow green":  {0.294, 0.283, 0.000},
	"shadow aqua":   {0.000, 0.369, 0.298},
	"shadow blue":   {0.000, 0.247, 0.401},
	"shadow purple": {0.455, 0.000, 0.329},

	"midtone red":    {0.616, 0.000, 0.024},
	"midtone orange": {0.686, 0.227, 0.012},
	"midtone yellow": {0.710, 0.463, 0.078},
	"midtone green":  {0.475, 0.456, 0.000},
	"midtone aqua":   {0.000, 0.498, 0.403},
	"midtone blue":   {0.000, 0.379, 0.639},
	"midtone purple": {0.664, 0.084, 0.492},

	"highlight red":    {1.000, 0.094, 0.086},
	"highlight orange": {1.000, 0.300, 0.082},
	"highlight yellow": {0.995, 0.736, 0.000},
	"highlight green":  {0.556, 0.724, 0.000},
	"highlight aqua":   {0.000, 0.766, 0.505},
	"highlight blue":   {0.444, 0.618, 1.000},
	"highlight purple": {1.000, 0.397, 0.603},
}

// SideColors are the palette entries controls get when no colour is
// requested.
var SideColors = map[naming.Side]string{
	naming.Left:   "midtone blue",
	naming.Right:  "midtone red",
	naming.Center: "midtone yellow",
}

// ColorNames lists the palette in sorted order.
func ColorNames() []string {
	names := make([]string, 0, len(Palette))
	for name := range Palette {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupColor returns a palette entry.
func LookupColor(name string) (mgl64.Vec3, error) {
	rgb, ok := Palette[name]
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("unknown control colour %q", name)
	}
	return rgb, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Swatch renders text in a palette colour for terminal output.
func Swatch(name, text string) string {
	rgb, ok := Palette[name]
	if !ok {
		return text
	}
	return color.RGB(channel(rgb[0]), channel(rgb[1]), channel(rgb[2])).Sprint(text)
}

// Hex returns the palette entry as #rrggbb.
func Hex(name string) (string, error) {
	rgb, err := LookupColor(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(rgb[0]), channel(rgb[1]), channel(rgb[2])), nil
}
