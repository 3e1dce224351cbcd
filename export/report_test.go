package export

import (
	"bytes"
	"strings"
	"testing"
)

func sampleRows() []Row {
	return []Row{
		{StudentName: "Test Student", RollNumber: "101", Date: "2026-02-22", Subject: "Math", Status: "present", Verified: true, Confidence: 85.5},
		{StudentName: "Another Student", RollNumber: "102", Date: "2026-02-22", Status: "absent", Confidence: 0},
	}
}

func TestCSVGeneration(t *testing.T) {
	data, err := CSV(sampleRows())
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	out := string(data)
	for _, want := range []string{"Student Name", "Test Student", "101", "present", "Another Student", "85.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("CSV output missing %q", want)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected header + 2 rows, got %d lines", len(lines))
	}
}

func TestCSVEmpty(t *testing.T) {
	data, err := CSV(nil)
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 1 {
		t.Errorf("Expected header only, got %d lines", len(lines))
	}
}

func TestPDFGeneration(t *testing.T) {
	data, err := PDF(sampleRows())
	if err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("PDF output is empty")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Output does not look like a PDF document")
	}
}
