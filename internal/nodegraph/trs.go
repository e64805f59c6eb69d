package nodegraph

// TRS filters the channels a matrix operation passes through. A nil field
// is unspecified.
type TRS struct {
	Translate *bool
	Rotate    *bool
	Scale     *bool
}

// Resolve applies the filter rule: when any channel is given, unspecified
// channels default to the negation of the first given one in translate,
// rotate, scale order. With none given every channel passes.
func (f TRS) Resolve() (translate, rotate, scale bool) {
	var first *bool
	for _, v := range []*bool{f.Translate, f.Rotate, f.Scale} {
		if v != nil {
			first = v
			break
		}
	}
	if first == nil {
		return true, true, true
	}
	pick := func(v *bool) bool {
		if v != nil {
			return *v
		}
		return !*first
	}
	return pick(f.Translate), pick(f.Rotate), pick(f.Scale)
}

// Filtered reports whether f blocks at least one channel.
func (f TRS) Filtered() bool {
	t, r, s := f.Resolve()
	return !(t && r && s)
}

func weight(on bool) float64 {
	if on {
		return 1
	}
	return 0
}
