package federation

import "fmt"

// ErrKind classifies a federation error for HTTP status mapping and retry
// decisions in the delivery queue.
type ErrKind int

const (
	ErrKindInternal ErrKind = iota
	ErrKindNotFound
	ErrKindUnauthorized
	ErrKindForbidden
	ErrKindBadRequest
	ErrKindValidation
	ErrKindConflict
	ErrKindRateLimited
	ErrKindDatabase
	ErrKindFederation
	ErrKindQueue
	ErrKindExternalService
	ErrKindCrypto
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindUnauthorized:
		return "unauthorized"
	case ErrKindForbidden:
		return "forbidden"
	case ErrKindBadRequest:
		return "bad_request"
	case ErrKindValidation:
		return "validation"
	case ErrKindConflict:
		return "conflict"
	case ErrKindRateLimited:
		return "rate_limited"
	case ErrKindDatabase:
		return "database"
	case ErrKindFederation:
		return "federation"
	case ErrKindQueue:
		return "queue"
	case ErrKindExternalService:
		return "external_service"
	case ErrKindCrypto:
		return "crypto"
	default:
		return "internal"
	}
}

// Error wraps an underlying error with a Kind for dispatch/retry decisions.
type Error struct {
	kind ErrKind
	err  error
}

func NewError(kind ErrKind, err error) *Error {
	return &Error{kind: kind, err: err}
}

func (e *Error) Error() string {
	if e.err == nil {
		return e.kind.String()
	}
	return fmt.Sprintf("%s: %v", e.kind, e.err)
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Kind() ErrKind {
	return e.kind
}

// KindOf extracts the ErrKind from err if it (or something it wraps) is a
// *Error, defaulting to ErrKindInternal otherwise.
func KindOf(err error) ErrKind {
	if err == nil {
		return ErrKindInternal
	}
	if e, ok := err.(*Error); ok {
		return e.kind
	}
	return ErrKindInternal
}

// Retryable reports whether the delivery queue should retry a job that
// failed with err: rate-limited and external service/transport failures
// are retried, validation/auth/not-found are not.
func Retryable(err error) bool {
	switch KindOf(err) {
	case ErrKindRateLimited, ErrKindExternalService, ErrKindFederation, ErrKindDatabase, ErrKindInternal:
		return true
	default:
		return false
	}
}
