package source

import (
	"errors"
	"fmt"
)

// StatusError reports a response that was received but not usable.
// Adapters treat it as "nothing found" rather than a failure.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status code %d for %s", e.StatusCode, e.URL)
}

// IsStatusError reports whether err carries a StatusError.
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}
