package control

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"
)

// Axis picks the local axis a flat shape faces.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

// ParseAxis accepts "x", "y" or "z" in either case.
func ParseAxis(raw string) (Axis, bool) {
	switch raw {
	case "x", "X":
		return X, true
	case "y", "Y":
		return Y, true
	case "z", "Z":
		return Z, true
	}
	return X, false
}

// Vector returns the unit vector of the axis.
func (a Axis) Vector() mgl64.Vec3 {
	var v mgl64.Vec3
	v[a] = 1
	return v
}

// Shapes are authored facing Y; these turn them to face each axis.
var axisRotations = map[Axis]mgl64.Mat4{
	X: mgl64.HomogRotate3DZ(mgl64.DegToRad(-90)),
	Y: mgl64.Ident4(),
	Z: mgl64.HomogRotate3DX(mgl64.DegToRad(90)),
}

// Shape names a control curve.
type Shape int

const (
	Circle Shape = iota
	Square
	Octahedron
	CircleWithArrows
	Saddle
	Pointer
)

var shapeNames = map[Shape]string{
	Circle:           "circle",
	Square:           "square",
	Octahedron:       "octahedron",
	CircleWithArrows: "circleWithArrows",
	Saddle:           "saddle",
	Pointer:          "pointer",
}

func (s Shape) String() string { return shapeNames[s] }

// ParseShape maps a shape name back to a Shape.
func ParseShape(raw string) (Shape, bool) {
	for s, name := range shapeNames {
		if name == raw {
			return s, true
		}
	}
	return Circle, false
}

// Curve is the geometry of a control in its own space.
type Curve struct {
	Degree int
	Form   string
	Points []mgl64.Vec3
}

// Transform returns the curve with every point moved by m.
func (c Curve) Transform(m mgl64.Mat4) Curve {
	c.Points = lo.Map(c.Points, func(p mgl64.Vec3, _ int) mgl64.Vec3 {
		return m.Mul4x1(p.Vec4(1)).Vec3()
	})
	return c
}

// Flat returns the points as x, y, z triples.
func (c Curve) Flat() []float64 {
	return lo.Flatten(lo.Map(c.Points, func(p mgl64.Vec3, _ int) []float64 {
		return []float64{p[0], p[1], p[2]}
	}))
}

func ring(center, u, v mgl64.Vec3, radius float64, n int, closeLoop bool) []mgl64.Vec3 {
	count := n
	if closeLoop {
		count++
	}
	return lo.Times(count, func(i int) mgl64.Vec3 {
		a := 2 * math.Pi * float64(i) / float64(n)
		return center.Add(u.Mul(radius * math.Cos(a))).Add(v.Mul(radius * math.Sin(a)))
	})
}

// CircleCurve is a periodic cubic circle of 8 CVs in the XZ plane.
func CircleCurve(radius float64) Curve {
	return Curve{
		Degree: 3,
		Form:   "periodic",
		Points: ring(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, radius, 8, false),
	}
}

// SquareCurve is a linear square whose corners sit at (±r, 0, ±r).
func SquareCurve(radius float64) Curve {
	r := radius
	return Curve{Degree: 1, Form: "closed", Points: []mgl64.Vec3{
		{r, 0, r}, {r, 0, -r}, {-r, 0, -r}, {-r, 0, r}, {r, 0, r},
	}}
}

// OctahedronCurve traces every edge of an octahedron of radius r.
func OctahedronCurve(r float64) Curve {
	return Curve{Degree: 1, Form: "open", Points: []mgl64.Vec3{
		{r, 0, 0}, {0, r, 0}, {-r, 0, 0}, {0, -r, 0}, {r, 0, 0}, {0, 0, r}, {0, r, 0},
		{0, 0, -r}, {-r, 0, 0}, {0, 0, r}, {0, -r, 0}, {0, 0, -r}, {r, 0, 0},
	}}
}

// SaddleCurve is a circle whose front and back CVs dip and whose side CVs
// rise by half the radius.
func SaddleCurve(radius float64) Curve {
	c := CircleCurve(radius)
	for _, i := range []int{1, 5} {
		c.Points[i][1] -= 0.5 * radius
	}
	for _, i := range []int{3, 7} {
		c.Points[i][1] += 0.5 * radius
	}
	return c
}

// CircleWithArrowsCurve is a circle broken by four outward arrows. Arrow
// width and length are fractions of the radius.
func CircleWithArrowsCurve(radius, arrowWidth, arrowLength float64) Curve {
	angle := math.Asin(arrowWidth)
	slide := math.Cos(angle) * radius
	w := arrowWidth * radius
	head := slide + arrowLength*radius
	tip := head + 2*w

	const arcSteps = 6
	var pts []mgl64.Vec3
	for q := 0; q < 4; q++ {
		c := mgl64.DegToRad(-90 + 90*float64(q))
		d := mgl64.Vec3{math.Cos(c), 0, math.Sin(c)}
		p := mgl64.Vec3{-math.Sin(c), 0, math.Cos(c)}
		at := func(along, across float64) mgl64.Vec3 { return d.Mul(along).Add(p.Mul(across)) }
		pts = append(pts,
			at(slide, -w), at(head, -w), at(head, -2*w), at(tip, 0),
			at(head, 2*w), at(head, w), at(slide, w),
		)
		start, sweep := c+angle, math.Pi/2-2*angle
		for k := 1; k < arcSteps; k++ {
			a := start + sweep*float64(k)/arcSteps
			pts = append(pts, mgl64.Vec3{radius * math.Cos(a), 0, radius * math.Sin(a)})
		}
	}
	pts = append(pts, pts[0])
	return Curve{Degree: 1, Form: "closed", Points: pts}
}

// PointerCurve is a line from the origin along tangent ending in a ring
// that faces axis.
func PointerCurve(size float64, axis Axis, tangent mgl64.Vec3, tipScale float64) Curve {
	distance := size * 1.5
	radius := distance * tipScale
	t := tangent.Normalize()
	base := t.Mul(distance)
	u := t.Mul(-1)
	v := axis.Vector().Cross(u)
	if v.Len() < 1e-9 {
		v = perpendicular(u)
	}
	pts := []mgl64.Vec3{{}, base}
	loop := ring(t.Mul(distance+radius), u, v.Normalize(), radius, 12, true)
	pts = append(pts, loop[1:]...)
	return Curve{Degree: 1, Form: "open", Points: pts}
}

func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	if math.Abs(v[0]) < 0.9 {
		return v.Cross(mgl64.Vec3{1, 0, 0})
	}
	return v.Cross(mgl64.Vec3{0, 1, 0})
}

// letters are stroke outlines on a 1x2 cell.
var letters = map[rune][]mgl64.Vec3{
	'F': {{1, 2, 0}, {0, 2, 0}, {0, 0, 0}, {0, 1, 0}, {0.8, 1, 0}},
	'K': {{0, 2, 0}, {0, 0, 0}, {0, 1, 0}, {1, 2, 0}, {0, 1, 0}, {1, 0, 0}},
	'I': {{0.5, 2, 0}, {0.5, 0, 0}},
}

// TextCurve lays out strokes for text, centred on the origin in the XY
// plane and scaled so one letter is size units tall.
func TextCurve(text string, size float64) Curve {
	var pts []mgl64.Vec3
	runes := []rune(text)
	for i, r := range runes {
		offset := mgl64.Vec3{1.4*float64(i) - 0.7*float64(len(runes)-1) - 0.5, -1, 0}
		for _, p := range letters[r] {
			pts = append(pts, p.Add(offset).Mul(size/2))
		}
	}
	return Curve{Degree: 1, Form: "open", Points: pts}
}
