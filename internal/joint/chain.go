package joint

import (
	"context"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/naming"
)

// ChainFromRoot collects root and every joint below it that does not belong
// to a nested root, in depth-first order.
func (j *Joints) ChainFromRoot(root string) (*Collection, error) {
	if !j.IsRoot(root) {
		return nil, fmt.Errorf("chain from %s: %w", root, ErrNotRoot)
	}
	var chain []string
	stack := []string{root}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		chain = append(chain, cur)

		children := lo.Reject(j.Children(cur), func(c string, _ int) bool { return j.IsRoot(c) })
		slices.Reverse(children)
		stack = append(stack, children...)
	}
	return NewCollection(j, chain), nil
}

// Descendants lists every joint below node in depth-first order.
func (j *Joints) Descendants(node string) []string {
	var out []string
	stack := j.Children(node)
	slices.Reverse(stack)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		children := j.Children(cur)
		slices.Reverse(children)
		stack = append(stack, children...)
	}
	return out
}

// VariantOptions configures Variants. Nil pointers take the defaults noted
// on each field.
type VariantOptions struct {
	// RemapParent parents each copy under the suffixed variant of its
	// source's parent when one exists. Default true.
	RemapParent *bool
	// KeepRoot keeps the root tags on the copies. Default true.
	KeepRoot *bool
	// ClearAttributes drops every user attribute except the joint type.
	ClearAttributes bool
	// RootParent, when set, parents the first copy under it.
	RootParent string
	// OnCollision defaults to Throw.
	OnCollision *naming.CollisionPolicy
}

// Variants duplicates joints under the same names with a new suffix, for
// example the pose or bind copies of a marker chain.
func (j *Joints) Variants(ctx context.Context, joints []string, suffix string, o VariantOptions) (*Collection, error) {
	logger := ctxlog.FromContext(ctx)
	policy := lo.FromPtrOr(o.OnCollision, naming.Throw)
	remap := lo.FromPtrOr(o.RemapParent, true)
	if policy == naming.Ignore {
		logger.Warn("Creating joint variants with the ignore policy can alias existing joints.", "suffix", suffix)
	}

	copies := make(map[string]string, len(joints))
	out := make([]string, 0, len(joints))
	for i, src := range joints {
		id, err := naming.ButWith(naming.Parse(src), naming.WithSuffix(suffix))
		if err != nil {
			return nil, fmt.Errorf("variant of %s: %w", src, err)
		}
		resolved, err := naming.Resolve(j.sc, id, policy)
		if err != nil {
			return nil, fmt.Errorf("variant of %s: %w", src, err)
		}
		dst := resolved.ToSceneHandle()
		if !j.sc.Exists(dst) {
			if err := j.sc.Duplicate(src, dst); err != nil {
				return nil, err
			}
		}
		copies[src] = dst
		out = append(out, dst)

		if !lo.FromPtrOr(o.KeepRoot, true) {
			if err := j.ClearRoot(dst); err != nil {
				return nil, err
			}
		}
		if o.ClearAttributes {
			if err := j.attrs.ClearUser(dst, TypeAttr); err != nil {
				return nil, err
			}
		}

		parent, ok := j.variantParent(src, suffix, copies, remap)
		if i == 0 && o.RootParent != "" {
			parent, ok = o.RootParent, true
		}
		if ok && j.sc.Parent(dst) != parent {
			if err := j.sc.SetParent(dst, parent); err != nil {
				return nil, err
			}
		}
		logger.Debug("Created joint variant.", "source", src, "variant", dst)
	}
	return NewCollection(j, out), nil
}

func (j *Joints) variantParent(src, suffix string, copies map[string]string, remap bool) (string, bool) {
	parent := j.sc.Parent(src)
	if parent == "" {
		return "", false
	}
	if dst, ok := copies[parent]; ok {
		return dst, true
	}
	if !remap {
		return "", false
	}
	id, err := naming.ButWith(naming.Parse(parent), naming.WithSuffix(suffix))
	if err != nil {
		return "", false
	}
	handle := id.ToSceneHandle()
	return handle, j.sc.Exists(handle)
}
