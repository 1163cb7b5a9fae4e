package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	p := BuildAnalysisPrompt("  um so basically...  ", "2:15")

	assert.Contains(t, p, "VIDEO LENGTH: 2:15\n")
	assert.Contains(t, p, "TRANSCRIPT:\num so basically...\n")
	assert.Contains(t, p, `"filler_words"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(p), "exactly matches the SCHEMA."))
}

func TestBuildAnalysisPromptUnknownLength(t *testing.T) {
	p := BuildAnalysisPrompt("hello", " ")
	assert.Contains(t, p, "VIDEO LENGTH: unknown\n")
}
