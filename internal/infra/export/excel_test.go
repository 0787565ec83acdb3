package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	domain "github.com/callsight/callsight/internal/domain/calls"
)

func TestWriteWorkbook(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	analyzed := created.Add(time.Hour)

	records := []*domain.CallRecord{
		{
			ID:        "c1",
			Filename:  "c1.txt",
			Dataset:   domain.DatasetSetA,
			CreatedAt: created,
			Scorecard: &domain.Scorecard{
				ConversionLikelihood: domain.LikelihoodHigh,
				ConversionScore:      87,
				SentimentScore:       7.5,
				RepPerformance:       domain.RepPerformance{OverallPerformance: 8},
			},
			AnalyzedAt: &analyzed,
		},
		{
			ID:        "c2",
			Filename:  "c2.txt",
			Dataset:   domain.DatasetSetB,
			CreatedAt: created,
		},
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, records); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][5] != "Conversion Likelihood" {
		t.Fatalf("header = %v", rows[0])
	}

	if rows[1][0] != "c1" || rows[1][5] != "high" || rows[1][6] != "87" {
		t.Fatalf("analyzed row = %v", rows[1])
	}

	// unanalyzed record keeps the analysis columns blank
	if rows[2][0] != "c2" {
		t.Fatalf("row 2 = %v", rows[2])
	}
	for col := 4; col < len(rows[2]); col++ {
		if rows[2][col] != "" {
			t.Fatalf("column %d not blank for unanalyzed record: %q", col, rows[2][col])
		}
	}
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, nil); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("workbook body empty")
	}
}
