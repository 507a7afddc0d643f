package main

import "fmt"

// BackendError reports a non-zero exit from an external backend tool,
// carrying its combined stdout+stderr. Named the way reposurgeon's
// runProcess wraps exec failures, but as a typed value instead of a
// formatted string so callers can pattern-match instead of grepping prose.
type BackendError struct {
	Command string
	Output  string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend command %q failed: %s", e.Command, e.Output)
}

// MergeConflict is raised when merging a commit onto a branch fails.
type MergeConflict struct {
	Commit string
	Branch string
	Detail string
}

func (e *MergeConflict) Error() string {
	return fmt.Sprintf("could not merge commit %s onto branch %s: %s", e.Commit, e.Branch, e.Detail)
}

// CheckoutReserved is raised when one or more CVCS paths could not be
// reserved for checkout.
type CheckoutReserved struct {
	Paths  []string
	Detail string
}

func (e *CheckoutReserved) Error() string {
	return fmt.Sprintf("could not reserve checkout of %v: %s", e.Paths, e.Detail)
}

// UpdateCCArea is raised when materializing a diff against the CVCS view
// fails after checkouts were already taken.
type UpdateCCArea struct {
	Commit string
	Detail string
}

func (e *UpdateCCArea) Error() string {
	return fmt.Sprintf("could not update Clearcase area for commit %s: %s", e.Commit, e.Detail)
}

// ConfigError reports a missing or invalid configuration value.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Detail)
}

// LockHeldError reports that another bridge invocation already holds the
// process-wide invocation lock.
type LockHeldError struct {
	Path string
}

func (e *LockHeldError) Error() string {
	return fmt.Sprintf("bridge lock %s is already held by another invocation", e.Path)
}
