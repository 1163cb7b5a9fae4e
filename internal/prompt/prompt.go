package prompt

import (
	"fmt"
	"strings"
)

const analysisTemplate = `You are an expert public speaking and presentation coach.

Your job is to analyze the TRANSCRIPT of a recorded video presentation and
give the speaker specific, actionable feedback on their delivery.

VIDEO LENGTH: %s
Use the length to judge pacing (words per minute), pauses, and whether the
content fits the time.

Your feedback MUST be grounded in the transcript. Do not invent quotes,
statistics or events that are not present in it.

----------------------------------------------------------------------
SCHEMA (STRICT - RETURN ONLY JSON)
{
  "score": 0,
  "summary": "",
  "strengths": [],
  "improvements": [],
  "filler_words": [{"word": "", "count": 0}],
  "pacing": {"words_per_minute": 0.0, "assessment": ""},
  "tone": ""
}
----------------------------------------------------------------------

GUIDELINES:

1. "score" is an integer from 1 (needs major work) to 10 (excellent).
2. "summary" is 2-3 sentences on the overall delivery.
3. "strengths" and "improvements" hold short, concrete points.
4. "filler_words" counts words such as "um", "uh", "like", "basically",
   "you know". Omit words that never appear.
5. "pacing.words_per_minute" is derived from the word count and the video length.
6. DO NOT include commentary outside the JSON object.

----------------------------------------------------------------------
TRANSCRIPT:
%s

----------------------------------------------------------------------
Return ONLY valid JSON that exactly matches the SCHEMA.
`

// BuildAnalysisPrompt renders the speech-coaching instruction for one transcript.
func BuildAnalysisPrompt(transcript, videoLength string) string {
	length := strings.TrimSpace(videoLength)
	if length == "" {
		length = "unknown"
	}
	return fmt.Sprintf(analysisTemplate, length, strings.TrimSpace(transcript))
}
