package service

import "errors"

// ErrNotStarted is returned by payload methods called before Start or after Stop.
var ErrNotStarted = errors.New("service not started")
