package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendx_backend/models"
	"attendx_backend/pipeline"
)

type AttendanceHandler struct {
	db   *sql.DB
	pipe *pipeline.Pipeline
}

func NewAttendanceHandler(db *sql.DB, pipe *pipeline.Pipeline) *AttendanceHandler {
	return &AttendanceHandler{db: db, pipe: pipe}
}

// MarkAttendance runs the full admission pipeline: verifies the face and
// commits an attendance record. Open route; the rate limit makes
// unrestrained retries self-limiting.
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req models.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInvalidPayload))
		return
	}

	result, fail := h.pipe.MarkAttendance(c.Request.Context(), pipeline.MarkRequest{
		StudentID:    req.StudentID,
		Sample:       pipeline.Sample{Image: req.Image, Embedding: req.Embedding},
		Subject:      req.Subject,
		CallerTenant: c.GetInt("adminID"), // zero on the open kiosk route
	})
	if fail != nil {
		respondFailure(c, fail)
		return
	}

	c.JSON(http.StatusOK, models.MarkAttendanceResponse{
		Success:    true,
		Message:    "Attendance marked successfully.",
		Confidence: result.Confidence,
		Timestamp:  result.Timestamp,
	})
}

// GetHistory returns recent attendance for one student in the caller's
// tenant, newest first.
func (h *AttendanceHandler) GetHistory(c *gin.Context) {
	adminID := c.GetInt("adminID")
	studentID := c.Param("student_id")

	rows, err := h.db.Query(`
		SELECT a.id, a.student_id, s.name, s.roll_number, a.date::text, a.subject,
		       a.status, a.verified, a.confidence, a.created_at
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.student_id = $1 AND a.admin_id = $2
		ORDER BY a.date DESC, a.created_at DESC
		LIMIT 20
	`, studentID, adminID)
	if err != nil {
		log.Printf("Error fetching attendance history: %v", err)
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInternal))
		return
	}
	defer rows.Close()

	history := []models.AttendanceResponse{}
	for rows.Next() {
		var rec models.AttendanceResponse
		if err := rows.Scan(
			&rec.ID,
			&rec.StudentID,
			&rec.StudentName,
			&rec.RollNumber,
			&rec.Date,
			&rec.Subject,
			&rec.Status,
			&rec.Verified,
			&rec.Confidence,
			&rec.CreatedAt,
		); err != nil {
			log.Printf("Error scanning attendance row: %v", err)
			respondFailure(c, pipeline.NewFailure(pipeline.CodeInternal))
			return
		}
		history = append(history, rec)
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// DeleteAttendance removes one record. Administrative correction,
// deliberately outside the admission pipeline; tenant-scoped.
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	adminID := c.GetInt("adminID")
	attendanceID := c.Param("id")

	result, err := h.db.Exec(`
		DELETE FROM attendance
		WHERE id = $1 AND admin_id = $2
	`, attendanceID, adminID)
	if err != nil {
		log.Printf("Error deleting attendance: %v", err)
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInternal))
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Error verifying deletion: %v", err)
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInternal))
		return
	}
	if rowsAffected == 0 {
		respondFailure(c, pipeline.NewFailure(pipeline.CodeNoData))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Attendance record deleted successfully"})
}
