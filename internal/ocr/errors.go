package ocr

import "errors"

// ErrUnavailable is returned when the external text-detection service
// cannot be reached or rejects the request. The orchestrator surfaces it
// as a failed invocation; retries belong to the trigger runtime.
var ErrUnavailable = errors.New("text detection unavailable")
