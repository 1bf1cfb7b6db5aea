package cli

import "errors"

// ErrServe wraps listener failures such as a port already in use.
var ErrServe = errors.New("serve failed")
