package platform

import (
	"errors"
	"fmt"
)

// ErrCredentialRequired is matched by every CredentialError.
var ErrCredentialRequired = errors.New("API key required")

// CredentialError reports a call that needs a credential that is not configured.
// It is always returned before any request is sent.
type CredentialError struct {
	Platform Name
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s: %s", e.Platform, ErrCredentialRequired)
}

func (e *CredentialError) Is(target error) bool {
	return target == ErrCredentialRequired
}

// UpstreamError is a failed call to a platform API: transport error, non-2xx
// status or an undecodable body.
type UpstreamError struct {
	Platform   Name
	Op         string
	StatusCode int    // 0 when no response was received
	Message    string // upstream error text or body excerpt
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Platform, e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP %d", e.Platform, e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Platform, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Platform, e.Op, e.Message)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }
