package client

import (
	"context"
	"errors"

	"go.temporal.io/api/serviceerror"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorKind buckets every failure the dashboard can see. Retryable kinds
// feed the poll backoff; the rest surface once and wait for the user.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnection
	KindAuth
	KindNotFound
	KindValidation
	KindTimeout
	KindServer
	KindRouting
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "connection error"
	case KindAuth:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "invalid request"
	case KindTimeout:
		return "timed out"
	case KindServer:
		return "server error"
	case KindRouting:
		return "bad link"
	default:
		return "error"
	}
}

func (k ErrorKind) Retryable() bool {
	return k == KindConnection || k == KindTimeout || k == KindServer
}

// Error carries the kind alongside the failing operation name. Op reads
// like "list workflows" and prefixes the message.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable satisfies the anonymous interface the reducer probes with
// errors.As, keeping the state core free of a client dependency.
func (e *Error) Retryable() bool { return e.Kind.Retryable() }

// KindOf extracts the taxonomy kind from any error chain.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// wrap classifies err and tags it with the operation name. A nil err stays
// nil so call sites can wrap unconditionally.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Kind: classify(err), Op: op, Err: err}
}

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindConnection
	}

	var (
		notFound    *serviceerror.NotFound
		nsNotFound  *serviceerror.NamespaceNotFound
		invalidArg  *serviceerror.InvalidArgument
		queryFailed *serviceerror.QueryFailed
		deadline    *serviceerror.DeadlineExceeded
		unavailable *serviceerror.Unavailable
		denied      *serviceerror.PermissionDenied
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &nsNotFound):
		return KindNotFound
	case errors.As(err, &invalidArg), errors.As(err, &queryFailed):
		return KindValidation
	case errors.As(err, &deadline):
		return KindTimeout
	case errors.As(err, &unavailable):
		return KindConnection
	case errors.As(err, &denied):
		return KindAuth
	}

	// Not every failure arrives as a typed service error; fall back to the
	// transport status code before giving up.
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return KindAuth
	case codes.Unavailable:
		return KindConnection
	case codes.DeadlineExceeded:
		return KindTimeout
	case codes.NotFound:
		return KindNotFound
	case codes.InvalidArgument:
		return KindValidation
	}
	// Anything unrecognized is treated as a remote fault.
	return KindServer
}

// RoutingErr wraps a deep-link parse failure into the shared taxonomy.
func RoutingErr(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindRouting, Op: "open link", Err: err}
}
