package attr

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vk/riggen/internal/scene"
)

var vectorChannels = map[string]bool{
	"translate":   true,
	"rotate":      true,
	"scale":       true,
	"jointOrient": true,
}

// expand turns vector channel names into their X/Y/Z children.
func expand(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if vectorChannels[n] {
			out = append(out, n+"X", n+"Y", n+"Z")
			continue
		}
		out = append(out, n)
	}
	return out
}

// Lock locks attributes and hides them from the channel box. Whether each
// one was unkeyable is remembered for Unlock.
func (s *Store) Lock(node string, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range expand(names) {
		p := scene.P(node, name)
		info, err := s.sc.AttrInfo(p)
		if err != nil {
			return fmt.Errorf("lock %s: %w", p, err)
		}
		if !info.Locked {
			s.wasUnkeyable[p] = !info.Keyable
		}
		if err := s.sc.SetAttrState(p, scene.AttrState{Locked: true}); err != nil {
			return fmt.Errorf("lock %s: %w", p, err)
		}
	}
	return nil
}

// Unlock unlocks attributes and shows them in the channel box. They become
// keyable unless they were unkeyable when locked.
func (s *Store) Unlock(node string, names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range expand(names) {
		p := scene.P(node, name)
		if !s.sc.HasAttr(p) {
			return fmt.Errorf("unlock %s: %w", p, ErrAttributeNotFound)
		}
		st := scene.AttrState{ChannelBox: true, Keyable: !s.wasUnkeyable[p]}
		if err := s.sc.SetAttrState(p, st); err != nil {
			return fmt.Errorf("unlock %s: %w", p, err)
		}
		delete(s.wasUnkeyable, p)
	}
	return nil
}

// force writes a value even through a lock, restoring the lock after.
func (s *Store) force(p scene.Plug, v any) error {
	info, err := s.sc.AttrInfo(p)
	if err != nil {
		return err
	}
	if !info.Locked {
		return s.sc.SetAttr(p, v)
	}
	st := info.AttrState
	st.Locked = false
	if err := s.sc.SetAttrState(p, st); err != nil {
		return err
	}
	if err := s.sc.SetAttr(p, v); err != nil {
		return err
	}
	st.Locked = true
	return s.sc.SetAttrState(p, st)
}

// SetRest bakes the local transform into offsetParentMatrix and resets the
// channels, so the current pose reads as zero.
func (s *Store) SetRest(node string) error {
	local, err := s.Matrix(scene.P(node, "matrix"))
	if err != nil {
		return err
	}
	opm, err := s.Matrix(scene.P(node, "offsetParentMatrix"))
	if err != nil {
		return err
	}
	if err := s.force(scene.P(node, "offsetParentMatrix"), opm.Mul4(local)); err != nil {
		return fmt.Errorf("set rest of %s: %w", node, err)
	}

	resets := map[string]mgl64.Vec3{
		"translate": {},
		"rotate":    {},
		"scale":     {1, 1, 1},
	}
	if s.sc.HasAttr(scene.P(node, "jointOrient")) {
		resets["jointOrient"] = mgl64.Vec3{}
	}
	for name, v := range resets {
		for i, axis := range []string{"X", "Y", "Z"} {
			if err := s.force(scene.P(node, name+axis), v[i]); err != nil {
				return fmt.Errorf("set rest of %s: %w", node, err)
			}
		}
	}
	return nil
}
