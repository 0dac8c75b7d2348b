package common

import (
	"context"
	"errors"
)

func AsError[T error](err error) (T, bool) {
	var target T
	return target, errors.As(err, &target)
}

// IsCanceled reports whether err only reflects that the surrounding work was
// canceled or timed out on purpose.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
