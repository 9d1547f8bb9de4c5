package domain

import (
	"errors"
	"fmt"
)

// ErrKind is used to map domain errors to HTTP status codes consistently.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindRateLimited    ErrKind = "rate_limited"   // 429
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Error is a structured domain error.
// - Kind: high-level category for HTTP mapping
// - Code: stable machine code (do not change casually)
// - Message: safe summary for clients
// - Meta: optional details (field, reason, etc.)
// - Cause: wrapped internal error for logging/diagnostics
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err carries the given stable code.
func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ErrVersionConflict signals a lost compare-and-swap against the store.
// It never reaches callers: the service layer retries the whole
// read-modify-write on it.
var ErrVersionConflict = errors.New("version conflict")

// ----------------------
// Validation errors (400)
// ----------------------

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, "invalid_field", "invalid field"), map[string]string{
		"field":  field,
		"reason": reason,
	})
}

// ErrInvalidWindow reports a lifetime-window violation for either the
// birthdate or the expirydate bound.
func ErrInvalidWindow(field string) *Error {
	return WithMeta(New(KindValidation, "invalid_window", "invalid "+field), map[string]string{
		"field": field,
	})
}

func ErrInvalidVoteType(got string) *Error {
	return WithMeta(New(KindValidation, "invalid_vote_type", "vote type must be upvote or downvote"), map[string]string{
		"votetype": got,
	})
}

// ----------------------
// Auth errors (401)
// ----------------------

// IMPORTANT: use this for login failures to avoid user enumeration.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, "invalid_credentials", "invalid username or password")
}

func ErrTokenMissing() *Error {
	return New(KindAuth, "token_missing", "no token provided")
}

func ErrTokenMalformed() *Error {
	return New(KindAuth, "token_malformed", "malformed token")
}

func ErrTokenExpired() *Error {
	return New(KindAuth, "token_expired", "token is expired")
}

func ErrTokenSignatureInvalid() *Error {
	return New(KindAuth, "token_signature_invalid", "token signature is invalid")
}

// ----------------------
// Forbidden (403)
// ----------------------

func ErrNotOwner() *Error {
	return New(KindForbidden, "not_owner", "only the owner may modify this item")
}

// ----------------------
// Not Found (404)
// ----------------------

func ErrItemNotFound() *Error {
	return New(KindNotFound, "item_not_found", "no info found")
}

// ErrNotAnEvent covers joins/leaves against a plain announcement: callers
// asked for an event that does not exist as such.
func ErrNotAnEvent() *Error {
	return New(KindNotFound, "event_not_found", "no event found")
}

func ErrNotMember() *Error {
	return New(KindNotFound, "member_not_in_event", "user not found in the event")
}

func ErrUserNotFound() *Error {
	return New(KindNotFound, "user_not_found", "user not found")
}

// ----------------------
// Conflict (409)
// ----------------------

func ErrAlreadyMember() *Error {
	return New(KindConflict, "already_member", "user already in the event")
}

// ErrEventFull carries its own code so clients can render "event full"
// distinctly from generic conflicts.
func ErrEventFull() *Error {
	return New(KindConflict, "event_full", "event is full")
}

func ErrUsernameTaken() *Error {
	return New(KindConflict, "username_taken", "username already exists")
}

func ErrMailTaken() *Error {
	return New(KindConflict, "mail_taken", "mail already exists")
}

// ErrStorageContention surfaces an exhausted compare-and-swap retry loop.
func ErrStorageContention() *Error {
	return New(KindConflict, "storage_contention", "item is being modified concurrently, try again")
}

// ----------------------
// Infrastructure / internal (5xx)
// ----------------------

func ErrStorage(cause error) *Error {
	return Wrap(KindInfrastructure, "storage_unavailable", "storage unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, "token_sign_failed", "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
