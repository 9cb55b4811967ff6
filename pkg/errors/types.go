package errors

import (
	"fmt"
	"time"
)

// MissingFieldError represents a missing required field.
type MissingFieldError struct {
	Field string
}

func (err MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", err.Field)
}

// FileNotFound represents when we were unable to access a file
// because the path didn't exist.
type FileNotFound struct {
	Path string
}

func (err FileNotFound) Error() string {
	return fmt.Sprintf("%q does not exist", err.Path)
}

// TransferFailed represents a datamover job that exited non-zero. It
// carries the command's stderr so callers can see what the external tool
// complained about.
type TransferFailed struct {
	Op     string
	Path   string
	Stderr []byte
}

func (err TransferFailed) Error() string {
	return fmt.Sprintf("%s %q failed: %s", err.Op, err.Path, err.Stderr)
}

// NotFound represents a file that couldn't be resolved in any tier. It
// names both the logical name the caller asked for and the remote path
// that the final copy attempt targeted.
type NotFound struct {
	Name       string
	RemotePath string
}

func (err NotFound) Error() string {
	return fmt.Sprintf("%q not found in any tier (tried %q on the fileserver)",
		err.Name, err.RemotePath)
}

// ConfirmationRequired represents a dangerous sync that was requested
// without explicit confirmation. DryRunOutput contains the report of what
// the sync would have changed, so the caller can decide whether to confirm.
type ConfirmationRequired struct {
	Reason       string
	DryRunOutput []byte
}

func (err ConfirmationRequired) Error() string {
	return fmt.Sprintf("%s. Re-run with confirmation to apply. "+
		"The following changes would be made:\n%s", err.Reason, err.DryRunOutput)
}

// FriendlyMessage makes the dry-run report readable when the error is
// printed by the CLI.
func (err ConfirmationRequired) FriendlyMessage() string {
	return err.Error()
}

// Timeout represents a wait that exceeded its deadline. The underlying job
// is left running and may still complete later.
type Timeout struct {
	Op    string
	After time.Duration
}

func (err Timeout) Error() string {
	return fmt.Sprintf("%s still running after %s", err.Op, err.After)
}
