package limb

import "errors"

// ErrUnknownLimb is returned when a root marker names a generator that is
// not registered.
var ErrUnknownLimb = errors.New("unknown limb generator")
