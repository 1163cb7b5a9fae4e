package aggregator

import "speech-coach-go/internal/types"

type Summary struct {
	Total        int            `json:"total"`
	Succeeded    int            `json:"succeeded"`
	Failed       int            `json:"failed"`
	AverageScore float64        `json:"average_score"`
	ScoreBands   map[string]int `json:"score_bands"`
	ErrorKinds   map[string]int `json:"error_kinds"`
}

// Bands in display order.
var Bands = []string{"1-3", "4-6", "7-8", "9-10"}

func Aggregate(outcomes []types.AnalysisOutcome) Summary {
	s := Summary{
		Total:      len(outcomes),
		ScoreBands: map[string]int{},
		ErrorKinds: map[string]int{},
	}
	for _, b := range Bands {
		s.ScoreBands[b] = 0
	}
	sum := 0
	for _, o := range outcomes {
		if o.Result == nil {
			s.Failed++
			kind := o.ErrorKind
			if kind == "" {
				kind = "unknown"
			}
			s.ErrorKinds[kind]++
			continue
		}
		s.Succeeded++
		sum += o.Result.Score
		s.ScoreBands[band(o.Result.Score)]++
	}
	if s.Succeeded > 0 {
		s.AverageScore = float64(sum) / float64(s.Succeeded)
	}
	return s
}

func band(score int) string {
	switch {
	case score <= 3:
		return "1-3"
	case score <= 6:
		return "4-6"
	case score <= 8:
		return "7-8"
	default:
		return "9-10"
	}
}
