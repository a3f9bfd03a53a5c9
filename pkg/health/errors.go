package health

import "errors"

// ErrCheckFailed can be wrapped by checks that detect a degraded dependency.
var ErrCheckFailed = errors.New("health: check failed")
