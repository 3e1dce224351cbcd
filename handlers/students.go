package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"attendx_backend/models"
	"attendx_backend/pipeline"
)

type StudentHandler struct {
	db *sql.DB
}

func NewStudentHandler(db *sql.DB) *StudentHandler {
	return &StudentHandler{db: db}
}

// CreateStudent enrolls a student under the caller's tenant. The tenant
// binding is set here and never changes.
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	adminID := c.GetInt("adminID")

	var req models.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInvalidPayload))
		return
	}

	student := models.Student{
		ID:         uuid.NewString(),
		AdminID:    adminID,
		Name:       req.Name,
		RollNumber: req.RollNumber,
	}

	err := h.db.QueryRow(`
		INSERT INTO students (id, admin_id, name, roll_number)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, student.ID, student.AdminID, student.Name, student.RollNumber).Scan(&student.CreatedAt)
	if err != nil {
		log.Printf("Error creating student: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create student (duplicate roll number?)"})
		return
	}

	c.JSON(http.StatusCreated, student)
}

// GetStudents lists the caller's students with their face-registration
// state.
func (h *StudentHandler) GetStudents(c *gin.Context) {
	adminID := c.GetInt("adminID")

	rows, err := h.db.Query(`
		SELECT s.id, s.admin_id, s.name, s.roll_number, s.created_at,
		       EXISTS(SELECT 1 FROM face_encodings f WHERE f.student_id = s.id)
		FROM students s
		WHERE s.admin_id = $1
		ORDER BY s.roll_number
	`, adminID)
	if err != nil {
		log.Printf("Error fetching students: %v", err)
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInternal))
		return
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.AdminID, &s.Name, &s.RollNumber, &s.CreatedAt, &s.Registered); err != nil {
			log.Printf("Error scanning student row: %v", err)
			respondFailure(c, pipeline.NewFailure(pipeline.CodeInternal))
			return
		}
		students = append(students, s)
	}

	c.JSON(http.StatusOK, gin.H{"students": students})
}
