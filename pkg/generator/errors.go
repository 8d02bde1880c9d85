package generator

import "errors"

// ErrConfiguration marks invalid or inconsistent generator parameters.
// Wrapped messages name the violated constraint.
var ErrConfiguration = errors.New("invalid generator configuration")
