package client

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrRateLimited        = errors.New("too many requests")
	ErrNoIdentity         = errors.New("no current identity")
	ErrBackend            = errors.New("backend error")
)

// AuthError is a failed authentication call. Message is what the backend
// reported, verbatim.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

// RowError is a failed row-level call against Table.
type RowError struct {
	Op      string
	Table   string
	Message string
	Err     error
}

func (e *RowError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	}
	return e.Op + " " + e.Table + ": " + msg
}

func (e *RowError) Unwrap() error { return e.Err }

// classify maps a transport error to a sentinel and the message to show.
func classify(err error) (error, string) {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable, err.Error()
	}
	if errors.Is(err, context.Canceled) {
		return context.Canceled, err.Error()
	}

	st, ok := status.FromError(err)
	if !ok {
		return ErrBackend, err.Error()
	}

	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized, st.Message()
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable, st.Message()
	case codes.Canceled:
		return context.Canceled, st.Message()
	case codes.AlreadyExists:
		return ErrConflict, st.Message()
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return ErrInvalidInput, st.Message()
	case codes.NotFound:
		return ErrNotFound, st.Message()
	case codes.ResourceExhausted:
		return ErrRateLimited, st.Message()
	default:
		return ErrBackend, st.Message()
	}
}

func authError(op string, err error) error {
	kind, msg := classify(err)
	switch {
	case kind == ErrConflict:
		kind = ErrAlreadyRegistered
	case kind == ErrUnauthorized && (op == "signin" || op == "signup"):
		kind = ErrInvalidCredentials
	}
	return &AuthError{Op: op, Message: msg, Err: kind}
}

func rowError(op, table string, err error) error {
	kind, msg := classify(err)
	return &RowError{Op: op, Table: table, Message: msg, Err: kind}
}
