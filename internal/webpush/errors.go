package webpush

import (
	"errors"
	"fmt"
)

// ErrSubscriptionGone means the push service no longer recognizes the
// endpoint; the stored record should be removed.
var ErrSubscriptionGone = errors.New("subscription gone")

type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("push service returned status %d", e.Code)
}
