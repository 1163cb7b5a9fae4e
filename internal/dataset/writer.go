package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"speech-coach-go/internal/aggregator"
	"speech-coach-go/internal/types"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

var resultsHeader = []any{
	"Row", "Video Length", "Score", "Summary", "Strengths", "Improvements",
	"Filler Words", "Words Per Minute", "Tone", "Error Kind", "Error", "Duration (ms)",
}

// WriteResults writes one row per outcome plus a summary sheet.
func WriteResults(path string, outcomes []types.AnalysisOutcome, summary aggregator.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &resultsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, o := range outcomes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := resultRow(o)
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", o.RowID, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	lines := [][]any{
		{"Total", summary.Total},
		{"Succeeded", summary.Succeeded},
		{"Failed", summary.Failed},
		{"Average Score", summary.AverageScore},
	}
	for _, b := range aggregator.Bands {
		lines = append(lines, []any{"Score " + b, summary.ScoreBands[b]})
	}
	kinds := make([]string, 0, len(summary.ErrorKinds))
	for kind := range summary.ErrorKinds {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		lines = append(lines, []any{"Error " + kind, summary.ErrorKinds[kind]})
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func resultRow(o types.AnalysisOutcome) []any {
	row := []any{o.RowID, o.VideoLength}
	if o.Result == nil {
		return append(row, "", "", "", "", "", "", "", o.ErrorKind, o.Error, o.DurationMs)
	}
	r := o.Result
	fillers := make([]string, 0, len(r.FillerWords))
	for _, fw := range r.FillerWords {
		fillers = append(fillers, fmt.Sprintf("%s (%d)", fw.Word, fw.Count))
	}
	var wpm any = ""
	if r.Pacing != nil {
		wpm = r.Pacing.WordsPerMinute
	}
	return append(row,
		r.Score,
		r.Summary,
		strings.Join(r.Strengths, "; "),
		strings.Join(r.Improvements, "; "),
		strings.Join(fillers, ", "),
		wpm,
		r.Tone,
		"", "", o.DurationMs,
	)
}
