package pipeline

import (
	"context"
	"errors"
	"log"
	"net/http"

	"attendx_backend/recognition"
)

// Code is a stable machine-readable reason returned to clients. Codes
// and messages are fixed; clients key off the code, never the message.
type Code string

const (
	CodeInvalidPayload   Code = "INVALID_PAYLOAD"
	CodeAuthRequired     Code = "AUTH_REQUIRED"
	CodeInvalidToken     Code = "INVALID_TOKEN"
	CodeTokenExpired     Code = "TOKEN_EXPIRED"
	CodeAccessDenied     Code = "ACCESS_DENIED"
	CodeTenantIsolation  Code = "TENANT_ISOLATION_VIOLATION"
	CodeRateLimited      Code = "RATE_LIMIT_EXCEEDED"
	CodeOutsideWindow    Code = "OUTSIDE_TIME_WINDOW"
	CodeNoFace           Code = "NO_FACE_DETECTED"
	CodeMultipleFaces    Code = "MULTIPLE_FACES"
	CodeFaceMismatch     Code = "FACE_MISMATCH"
	CodeNotRegistered    Code = "FACE_NOT_REGISTERED"
	CodeEncodingError    Code = "ENCODING_ERROR"
	CodeFaceTimeout      Code = "FACE_TIMEOUT"
	CodeDuplicate        Code = "DUPLICATE_ATTENDANCE"
	CodeNoData           Code = "NO_DATA"
	CodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	CodeInternal         Code = "INTERNAL_ERROR"
)

// Failure carries one taxonomy entry back to the transport layer.
type Failure struct {
	Code    Code   `json:"error_code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (f *Failure) Error() string {
	return string(f.Code) + ": " + f.Message
}

type failureEntry struct {
	message string
	status  int
}

var failureTable = map[Code]failureEntry{
	CodeInvalidPayload:   {"Missing required parameters.", http.StatusBadRequest},
	CodeAuthRequired:     {"Authentication token required.", http.StatusUnauthorized},
	CodeInvalidToken:     {"Invalid authentication token.", http.StatusUnauthorized},
	CodeTokenExpired:     {"Session expired. Please login again.", http.StatusUnauthorized},
	CodeAccessDenied:     {"Unauthorized access.", http.StatusForbidden},
	CodeTenantIsolation:  {"Access to this resource is restricted.", http.StatusForbidden},
	CodeRateLimited:      {"Too many attempts. Try again after 1 minute.", http.StatusTooManyRequests},
	CodeOutsideWindow:    {"Attendance allowed only during lecture time.", http.StatusForbidden},
	CodeNoFace:           {"No face detected. Please look at the camera.", http.StatusBadRequest},
	CodeMultipleFaces:    {"Exactly one face must be visible.", http.StatusBadRequest},
	CodeFaceMismatch:     {"Face does not match registered student.", http.StatusBadRequest},
	CodeNotRegistered:    {"Face not registered for this student.", http.StatusNotFound},
	CodeEncodingError:    {"Face encoding data corrupted.", http.StatusInternalServerError},
	CodeFaceTimeout:      {"Face recognition service timeout.", http.StatusServiceUnavailable},
	CodeDuplicate:        {"Attendance already recorded for today.", http.StatusBadRequest},
	CodeNoData:           {"No attendance records found.", http.StatusNotFound},
	CodeMethodNotAllowed: {"Method not allowed.", http.StatusMethodNotAllowed},
	CodeInternal:         {"Internal server error.", http.StatusInternalServerError},
}

// NewFailure builds the canonical Failure for a code.
func NewFailure(code Code) *Failure {
	entry, ok := failureTable[code]
	if !ok {
		entry = failureTable[CodeInternal]
	}
	return &Failure{Code: code, Message: entry.message, Status: entry.status}
}

// Classify maps a typed error from the extractor, matcher, executor or
// store to exactly one taxonomy entry. Unclassified errors are logged
// and downgraded to INTERNAL_ERROR; their text never reaches the caller.
func Classify(err error) *Failure {
	switch {
	case errors.Is(err, recognition.ErrNoFace):
		return NewFailure(CodeNoFace)
	case errors.Is(err, recognition.ErrMultipleFaces):
		return NewFailure(CodeMultipleFaces)
	case errors.Is(err, recognition.ErrBadImage):
		return NewFailure(CodeInvalidPayload)
	case errors.Is(err, recognition.ErrMalformedEmbedding):
		return NewFailure(CodeEncodingError)
	case errors.Is(err, ErrDeadline), errors.Is(err, context.DeadlineExceeded):
		return NewFailure(CodeFaceTimeout)
	case errors.Is(err, ErrNotFound):
		return NewFailure(CodeNotRegistered)
	case errors.Is(err, ErrDuplicate):
		return NewFailure(CodeDuplicate)
	default:
		log.Printf("Unclassified pipeline error: %v", err)
		return NewFailure(CodeInternal)
	}
}
