package gitflow

import (
	"errors"
	"fmt"

	"github.com/holon-run/gitflow/pkg/config"
)

// ConfigurationError reports missing identifying input. Fatal.
type ConfigurationError = config.ConfigurationError

var (
	// ErrInvalidVersion is matched by every VersionResolutionError.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrMergeConflict is returned by Host.Merge when the merge needs
	// manual conflict resolution.
	ErrMergeConflict = errors.New("merge conflict")
)

// VersionResolutionError reports that an increment strategy could not be applied.
type VersionResolutionError struct {
	Base      string
	Increment string
	Err       error
}

func (e *VersionResolutionError) Error() string {
	return fmt.Sprintf("could not increment version %q with %q: %v", e.Base, e.Increment, e.Err)
}

func (e *VersionResolutionError) Unwrap() error { return e.Err }

// Is reports ErrInvalidVersion as a match.
func (e *VersionResolutionError) Is(target error) bool {
	return target == ErrInvalidVersion
}

// HostAPIError wraps a failed repository host call.
type HostAPIError struct {
	Op  string
	Err error
}

func (e *HostAPIError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *HostAPIError) Unwrap() error { return e.Err }

// NotificationError wraps a chat delivery failure. It never fails a run.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification failed: %v", e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// MergeBackError reports that the release was created but the development
// branch was not updated. The release is not rolled back.
type MergeBackError struct {
	Source     string
	Target     string
	ReleaseURL string
	Err        error
}

func (e *MergeBackError) Error() string {
	return fmt.Sprintf("release %s was created but merging %s into %s failed: %v", e.ReleaseURL, e.Source, e.Target, e.Err)
}

func (e *MergeBackError) Unwrap() error { return e.Err }

func hostErr(op string, err error) error {
	return &HostAPIError{Op: op, Err: err}
}
