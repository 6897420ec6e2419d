package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDiscovery marks failures that abort a batch before any unit starts.
	ErrDiscovery = errors.New("discovery failed")

	// ErrLaunch marks an external tool that could not be started.
	ErrLaunch = errors.New("launch failed")
)

// DiscoveryError reports a bad input path or an empty source directory.
type DiscoveryError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Reason, e.Path, e.Err)
	}
	return fmt.Sprintf("%s (%s)", e.Reason, e.Path)
}

func (e *DiscoveryError) Is(target error) bool { return target == ErrDiscovery }

func (e *DiscoveryError) Unwrap() error { return e.Err }

// LaunchError reports an external command that never started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Is(target error) bool { return target == ErrLaunch }

func (e *LaunchError) Unwrap() error { return e.Err }
