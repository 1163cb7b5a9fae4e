package dataset

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"speech-coach-go/internal/logger"
	"speech-coach-go/internal/types"
)

// Load reads transcripts from the first sheet of an xlsx workbook.
// Columns are detected from the header row; rows without a transcript are skipped.
func Load(path string) ([]types.TranscriptRecord, error) {
	log := logger.New().WithField("component", "dataset.loader").WithField("path", path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	transcriptIdx, lengthIdx := detectColumns(rows[0])
	log.WithField("transcript_idx", transcriptIdx).
		WithField("length_idx", lengthIdx).
		Debug("detected column indices")

	var out []types.TranscriptRecord
	for i, r := range rows {
		if i == 0 {
			continue
		}
		rec := types.TranscriptRecord{RowID: i + 1}
		if transcriptIdx < len(r) {
			rec.Transcript = strings.TrimSpace(r[transcriptIdx])
		}
		if lengthIdx >= 0 && lengthIdx < len(r) {
			rec.VideoLength = strings.TrimSpace(r[lengthIdx])
		}
		if rec.Transcript == "" {
			continue
		}
		out = append(out, rec)
	}
	log.WithField("records", len(out)).Info("dataset loaded")
	return out, nil
}

func detectColumns(header []string) (transcriptIdx, lengthIdx int) {
	transcriptIdx, lengthIdx = -1, -1
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "transcript") || strings.Contains(l, "text"):
			if transcriptIdx == -1 {
				transcriptIdx = i
			}
		case strings.Contains(l, "length") || strings.Contains(l, "duration") || strings.Contains(l, "video"):
			if lengthIdx == -1 {
				lengthIdx = i
			}
		}
	}
	// fallback heuristics: transcript first, length second
	if transcriptIdx == -1 {
		transcriptIdx = 0
	}
	if lengthIdx == -1 && len(header) > 1 && transcriptIdx != 1 {
		lengthIdx = 1
	}
	return transcriptIdx, lengthIdx
}
