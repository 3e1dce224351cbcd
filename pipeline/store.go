package pipeline

import (
	"context"
	"errors"
	"time"

	"attendx_backend/recognition"
)

var (
	// ErrNotFound is returned by Store lookups that match nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by InsertAttendance when the storage
	// uniqueness constraint on (student, date, subject) rejects the row.
	ErrDuplicate = errors.New("attendance already recorded")
)

// AttendanceRecord is one committed admission. Never mutated after
// creation; deletion is an administrative operation outside the pipeline.
type AttendanceRecord struct {
	StudentID  string
	AdminID    int
	Date       string // calendar date, YYYY-MM-DD
	Subject    string // empty when attendance is not per-subject
	Status     string
	Verified   bool
	Confidence float64
	CreatedAt  time.Time
}

// Store is the narrow contract the pipeline needs from persistence. The
// pipeline never sees query syntax; implementations map storage errors
// to the sentinels above. Calls block on I/O and are never made while
// holding a lock. The duplicate check in the pipeline is only a fast
// path: the authority against a concurrent double-commit for the same
// (student, date, subject) is the uniqueness constraint behind
// InsertAttendance.
type Store interface {
	GetEmbedding(ctx context.Context, studentID string) (recognition.Embedding, error)
	UpsertEmbedding(ctx context.Context, studentID string, emb recognition.Embedding) error
	DeleteEmbedding(ctx context.Context, studentID string) error
	HasAttendanceToday(ctx context.Context, studentID, date, subject string) (bool, error)
	InsertAttendance(ctx context.Context, rec AttendanceRecord) error
	StudentTenant(ctx context.Context, studentID string) (int, error)
}
