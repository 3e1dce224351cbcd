package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Row is one attendance line in a tenant's report.
type Row struct {
	StudentName string
	RollNumber  string
	Date        string
	Subject     string
	Status      string
	Verified    bool
	Confidence  float64
}

var header = []string{"Student Name", "Roll Number", "Date", "Subject", "Status", "Verified", "Confidence"}

func (r Row) fields() []string {
	verified := "no"
	if r.Verified {
		verified = "yes"
	}
	return []string{
		r.StudentName,
		r.RollNumber,
		r.Date,
		r.Subject,
		r.Status,
		verified,
		fmt.Sprintf("%.2f", r.Confidence),
	}
}

// CSV renders the report as RFC 4180 CSV with a header line.
func CSV(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.fields()); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF renders the report as a simple table, one page section per run of
// rows, matching the CSV column layout.
func PDF(rows []Row) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Attendance Report")
	pdf.Ln(12)

	widths := []float64{45, 25, 25, 30, 20, 20, 25}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, r := range rows {
		for i, v := range r.fields() {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}
