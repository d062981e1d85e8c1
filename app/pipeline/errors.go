package pipeline

import (
	"errors"
	"fmt"

	"github.com/yxzhu/newsflash/app/scorer"
)

// UnavailableError reports a connection or timeout failure against a
// dependent stage. It is retryable by the caller; the pipeline itself
// never retries.
type UnavailableError struct {
	Stage string
	Err   error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Stage, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// RejectedError reports an application-level error returned by a dependent
// stage. The status and message pass through unchanged.
type RejectedError struct {
	Stage   string
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected request: %d %s", e.Stage, e.Status, e.Message)
}

// IsRetryable reports whether err is a transient availability failure.
func IsRetryable(err error) bool {
	if errors.Is(err, scorer.ErrEngineUnavailable) {
		return true
	}
	var unavailable *UnavailableError
	return errors.As(err, &unavailable)
}
