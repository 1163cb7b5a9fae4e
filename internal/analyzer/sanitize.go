package analyzer

import (
	"strings"
	"unicode"
)

const (
	openFence  = "```json"
	closeFence = "```"
)

// Sanitize removes a Markdown code fence wrapped around a JSON reply.
//
// The opening json fence is removed with a cutset trim over its characters,
// so a reply that runs straight into "null" loses the leading "n" as well.
// The closing fence is removed by trimming a run of trailing backticks of
// any length. Each side is handled once; fences inside the body are left
// alone and the closing fence need not match the opening one.
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, openFence) {
		s = strings.TrimLeft(s, openFence)
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
	}
	if strings.HasSuffix(s, closeFence) {
		s = strings.TrimRight(s, closeFence)
		s = strings.TrimRightFunc(s, unicode.IsSpace)
	}
	return s
}
