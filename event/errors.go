package event

import "github.com/pkg/errors"

// ErrAlreadyDispatched is returned when an Event is dispatched a second time.
var ErrAlreadyDispatched = errors.New("event already dispatched")
