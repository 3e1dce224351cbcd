package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendx_backend/export"
	"attendx_backend/pipeline"
)

type ExportHandler struct {
	db *sql.DB
}

func NewExportHandler(db *sql.DB) *ExportHandler {
	return &ExportHandler{db: db}
}

func (h *ExportHandler) fetchRows(adminID int) ([]export.Row, *pipeline.Failure) {
	rows, err := h.db.Query(`
		SELECT s.name, s.roll_number, a.date::text, a.subject, a.status, a.verified, a.confidence
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.admin_id = $1
		ORDER BY a.date ASC, s.roll_number ASC
	`, adminID)
	if err != nil {
		log.Printf("Error fetching export rows: %v", err)
		return nil, pipeline.NewFailure(pipeline.CodeInternal)
	}
	defer rows.Close()

	var report []export.Row
	for rows.Next() {
		var r export.Row
		if err := rows.Scan(&r.StudentName, &r.RollNumber, &r.Date, &r.Subject, &r.Status, &r.Verified, &r.Confidence); err != nil {
			log.Printf("Error scanning export row: %v", err)
			return nil, pipeline.NewFailure(pipeline.CodeInternal)
		}
		report = append(report, r)
	}

	if len(report) == 0 {
		return nil, pipeline.NewFailure(pipeline.CodeNoData)
	}
	return report, nil
}

// ExportCSV streams the caller's attendance report as CSV.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	report, fail := h.fetchRows(c.GetInt("adminID"))
	if fail != nil {
		respondFailure(c, fail)
		return
	}

	data, err := export.CSV(report)
	if err != nil {
		log.Printf("CSV generation error: %v", err)
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInternal))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=attendance_report.csv")
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF streams the caller's attendance report as PDF.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	report, fail := h.fetchRows(c.GetInt("adminID"))
	if fail != nil {
		respondFailure(c, fail)
		return
	}

	data, err := export.PDF(report)
	if err != nil {
		log.Printf("PDF generation error: %v", err)
		respondFailure(c, pipeline.NewFailure(pipeline.CodeInternal))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=attendance_report.pdf")
	c.Data(http.StatusOK, "application/pdf", data)
}
