package joint

import "errors"

var (
	// ErrNotRoot is returned for root-only queries on a joint that is not a
	// limb root.
	ErrNotRoot = errors.New("joint is not a limb root")
	// ErrNoJointOfType is returned when a collection holds no joint of the
	// requested type.
	ErrNoJointOfType = errors.New("no joint of type")
	// ErrMixedSides is returned when a mirrored hierarchy holds joints of
	// more than one side.
	ErrMixedSides = errors.New("hierarchy mixes sides")
	// ErrNoChild is returned when a joint has no joint child.
	ErrNoChild = errors.New("joint has no joint child")
)
