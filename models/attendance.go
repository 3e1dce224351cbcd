package models

import "time"

type MarkAttendanceRequest struct {
	StudentID string    `json:"student_id" binding:"required"`
	Image     string    `json:"image"`
	Embedding []float64 `json:"embedding"`
	Subject   string    `json:"subject"`
}

type MarkAttendanceResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

type AttendanceResponse struct {
	ID          int       `json:"id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	RollNumber  string    `json:"roll_number"`
	Date        string    `json:"date"`
	Subject     string    `json:"subject,omitempty"`
	Status      string    `json:"status"`
	Verified    bool      `json:"verified"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
}
