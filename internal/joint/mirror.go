package joint

import (
	"context"
	"fmt"

	"github.com/vk/riggen/internal/ctxlog"
	"github.com/vk/riggen/internal/naming"
	"github.com/vk/riggen/internal/xform"
)

func flipped(handle string) (naming.Structured, error) {
	return naming.ButWith(naming.Parse(handle), naming.Flipped())
}

// Mirror copies joint and its descendants across the YZ plane with side
// flipped names, mirroring behavior. The copy of joint is parented under the
// flipped variant of joint's parent when it exists, else under the same
// parent. Mirroring twice returns the existing copy.
func (j *Joints) Mirror(ctx context.Context, joint string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	root, err := flipped(joint)
	if err != nil {
		return "", fmt.Errorf("mirror %s: %w", joint, err)
	}
	if j.sc.Exists(root.ToSceneHandle()) {
		logger.Warn("Mirrored joint already exists, skipping.", "joint", joint, "mirror", root.ToSceneHandle())
		return root.ToSceneHandle(), nil
	}

	hierarchy := append([]string{joint}, j.Descendants(joint)...)
	side := Side(joint)
	for _, h := range hierarchy {
		if Side(h) != side {
			return "", fmt.Errorf("mirror %s: %s: %w", joint, h, ErrMixedSides)
		}
	}

	copies := make(map[string]string, len(hierarchy))
	for i, src := range hierarchy {
		id, err := flipped(src)
		if err != nil {
			return "", fmt.Errorf("mirror %s: %w", src, err)
		}
		dst := id.ToSceneHandle()
		world, err := j.sc.WorldMatrix(src)
		if err != nil {
			return "", err
		}
		if err := j.sc.Duplicate(src, dst); err != nil {
			return "", err
		}

		parent := j.sc.Parent(src)
		if i == 0 {
			if p, err := flipped(parent); err == nil && j.sc.Exists(p.ToSceneHandle()) {
				parent = p.ToSceneHandle()
			}
		} else {
			parent = copies[parent]
		}
		if err := j.sc.SetParentRelative(dst, parent); err != nil {
			return "", err
		}
		if err := j.sc.SetWorldMatrix(dst, xform.Mirror(world, true)); err != nil {
			return "", err
		}
		copies[src] = dst
	}
	logger.Debug("Mirrored joints.", "joint", joint, "count", len(hierarchy))
	return root.ToSceneHandle(), nil
}
