package widget

import "errors"

// Op names a remote operation.
type Op string

const (
	OpFetch  Op = "fetch"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Message is the fixed user-visible failure text for op.
func (op Op) Message() string {
	switch op {
	case OpFetch:
		return "Failed to fetch users."
	case OpAdd:
		return "Failed to add user."
	case OpUpdate:
		return "Failed to update user."
	case OpDelete:
		return "Failed to delete user."
	}
	return "Request failed."
}

// ErrEmailRequired rejects a submission without an email before any remote
// call is made.
var ErrEmailRequired = errors.New("email is required")

// RemoteOperationFailed is the single failure kind of the widget. It covers
// both non-2xx responses and transport errors; Err holds the cause.
type RemoteOperationFailed struct {
	Op  Op
	Err error
}

func (e *RemoteOperationFailed) Error() string { return e.Op.Message() }

func (e *RemoteOperationFailed) Unwrap() error { return e.Err }
