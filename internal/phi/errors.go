package phi

import "errors"

// ErrUnavailable is returned when the external entity detector cannot be
// reached. Classification is never retried here; the trigger runtime owns
// retry policy for the whole invocation.
var ErrUnavailable = errors.New("phi classification unavailable")
