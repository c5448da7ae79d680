package resource

import "errors"

// ErrNotOnChannel is returned when a resource holds no reference on the
// channel in question. Scene nodes treat it as a benign race with their own
// release path rather than a failure.
var ErrNotOnChannel = errors.New("resource: not on channel")
