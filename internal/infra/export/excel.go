package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	domain "github.com/callsight/callsight/internal/domain/calls"
)

const sheetName = "Calls"

// WriteWorkbook renders analyzed call records as an xlsx workbook for the
// dashboard's download button. One row per record, unanalyzed cells blank.
func WriteWorkbook(w io.Writer, records []*domain.CallRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{
		"ID", "Filename", "Dataset", "Uploaded At", "Analyzed At",
		"Conversion Likelihood", "Conversion Score", "Sentiment Score",
		"Engagement Score", "Rep Talk %", "Customer Talk %", "Overall Rep Rating",
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		row := []any{
			string(rec.ID),
			rec.Filename,
			string(rec.Dataset),
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			"", "", "", "", "", "", "", "",
		}
		if rec.Analyzed() {
			sc := rec.Scorecard
			row[4] = rec.AnalyzedAt.Format("2006-01-02 15:04:05")
			row[5] = string(sc.ConversionLikelihood)
			row[6] = sc.ConversionScore
			row[7] = sc.SentimentScore
			row[8] = sc.EngagementScore
			row[9] = sc.SalesRepTalkRatio
			row[10] = sc.CustomerTalkRatio
			row[11] = sc.RepPerformance.OverallPerformance
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}
