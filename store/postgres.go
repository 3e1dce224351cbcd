package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"attendx_backend/pipeline"
	"attendx_backend/recognition"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// Postgres implements pipeline.Store on top of database/sql. Embeddings
// are stored as JSON arrays in a text column, one active row per student.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) GetEmbedding(ctx context.Context, studentID string) (recognition.Embedding, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT encoding FROM face_encodings WHERE student_id = $1`,
		studentID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, pipeline.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching embedding: %w", err)
	}

	var emb recognition.Embedding
	if err := json.Unmarshal(raw, &emb); err != nil {
		// Unparseable persisted state is the same condition as a
		// wrong-length vector: corrupt encoding data.
		return nil, recognition.ErrMalformedEmbedding
	}
	return emb, nil
}

func (s *Postgres) UpsertEmbedding(ctx context.Context, studentID string, emb recognition.Embedding) error {
	raw, err := json.Marshal(emb)
	if err != nil {
		return fmt.Errorf("encoding embedding: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO face_encodings (student_id, encoding, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (student_id)
		DO UPDATE SET encoding = EXCLUDED.encoding, updated_at = NOW()
	`, studentID, raw)
	if err != nil {
		return fmt.Errorf("upserting embedding: %w", err)
	}
	return nil
}

func (s *Postgres) DeleteEmbedding(ctx context.Context, studentID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM face_encodings WHERE student_id = $1`,
		studentID,
	)
	if err != nil {
		return fmt.Errorf("deleting embedding: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return pipeline.ErrNotFound
	}
	return nil
}

func (s *Postgres) HasAttendanceToday(ctx context.Context, studentID, date, subject string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance
			WHERE student_id = $1 AND date = $2 AND subject = $3
		)
	`, studentID, date, subject).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking attendance: %w", err)
	}
	return exists, nil
}

func (s *Postgres) InsertAttendance(ctx context.Context, rec pipeline.AttendanceRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance (student_id, admin_id, date, subject, status, verified, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, rec.StudentID, rec.AdminID, rec.Date, rec.Subject, rec.Status, rec.Verified, rec.Confidence, rec.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return pipeline.ErrDuplicate
		}
		return fmt.Errorf("inserting attendance: %w", err)
	}
	return nil
}

func (s *Postgres) StudentTenant(ctx context.Context, studentID string) (int, error) {
	var adminID int
	err := s.db.QueryRowContext(ctx,
		`SELECT admin_id FROM students WHERE id = $1`,
		studentID,
	).Scan(&adminID)
	if err == sql.ErrNoRows {
		return 0, pipeline.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resolving student tenant: %w", err)
	}
	return adminID, nil
}
