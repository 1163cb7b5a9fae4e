package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	MinScore = 1
	MaxScore = 10
)

// ErrSchema marks every failure to validate model output against SpeechAnalysisResult.
var ErrSchema = errors.New("response does not match analysis schema")

type AnalysisRequest struct {
	Transcript  string `json:"transcript"`
	VideoLength string `json:"video_length"`
}

type SpeechAnalysisResult struct {
	Score        int            `json:"score"`
	Summary      string         `json:"summary"`
	Strengths    []string       `json:"strengths,omitempty"`
	Improvements []string       `json:"improvements,omitempty"`
	FillerWords  []FillerWord   `json:"filler_words,omitempty"`
	Pacing       *PacingInsight `json:"pacing,omitempty"`
	Tone         string         `json:"tone,omitempty"`
}

type FillerWord struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type PacingInsight struct {
	WordsPerMinute float64 `json:"words_per_minute"`
	Assessment     string  `json:"assessment"`
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrSchema }

// ParseAnalysisResult decodes raw model output and checks required fields.
// Unknown fields are ignored; trailing data is rejected. The score may arrive
// as a whole-number float or a numeric string.
func ParseAnalysisResult(raw string) (*SpeechAnalysisResult, error) {
	var shadow struct {
		// outer fields win over the embedded ones, so presence can be checked
		Score   json.RawMessage `json:"score"`
		Summary *string         `json:"summary"`
		SpeechAnalysisResult
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&shadow); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrSchema)
	}

	if len(shadow.Score) == 0 {
		return nil, &ValidationError{Field: "score", Reason: "field required"}
	}
	score, verr := parseScore(shadow.Score)
	if verr != nil {
		return nil, verr
	}
	if shadow.Summary == nil {
		return nil, &ValidationError{Field: "summary", Reason: "field required"}
	}
	if strings.TrimSpace(*shadow.Summary) == "" {
		return nil, &ValidationError{Field: "summary", Reason: "must not be blank"}
	}
	for i, fw := range shadow.FillerWords {
		if fw.Count < 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("filler_words[%d].count", i), Reason: "must not be negative"}
		}
	}

	out := shadow.SpeechAnalysisResult
	out.Score = score
	out.Summary = *shadow.Summary
	return &out, nil
}

func parseScore(raw json.RawMessage) (int, *ValidationError) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return 0, &ValidationError{Field: "score", Reason: fmt.Sprintf("must be an integer, got %s", raw)}
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, &ValidationError{Field: "score", Reason: fmt.Sprintf("must be an integer, got %s", raw)}
	}
	if f < MinScore || f > MaxScore {
		return 0, &ValidationError{Field: "score", Reason: fmt.Sprintf("must be between %d and %d, got %s", MinScore, MaxScore, n)}
	}
	return int(f), nil
}

// TranscriptRecord is one row of a batch workbook.
type TranscriptRecord struct {
	RowID       int    `json:"row_id"`
	Transcript  string `json:"transcript"`
	VideoLength string `json:"video_length,omitempty"`
}

// AnalysisOutcome pairs a batch row with its result or failure kind.
type AnalysisOutcome struct {
	TranscriptRecord
	Result     *SpeechAnalysisResult `json:"result,omitempty"`
	ErrorKind  string                `json:"error_kind,omitempty"`
	Error      string                `json:"error,omitempty"`
	DurationMs int64                 `json:"duration_ms"`
}
