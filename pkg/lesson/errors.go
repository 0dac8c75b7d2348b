package lesson

import "errors"

// ErrConfigUnavailable is reported whenever the lesson document could not be
// retrieved, is invalid or does not contain what was asked for. It never is
// fatal: a later attempt may succeed.
var ErrConfigUnavailable = errors.New("configuration unavailable")
