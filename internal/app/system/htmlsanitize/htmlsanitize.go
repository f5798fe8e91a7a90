// Package htmlsanitize cleans user-supplied and assistant-supplied text
// before it is stored or rendered. Chat input is reduced to plain text;
// assistant replies keep safe formatting only.
package htmlsanitize

import (
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	ugcPolicy    *bluemonday.Policy
	policyOnce   sync.Once
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return strictPolicy, ugcPolicy
}

// Message strips all markup from a chat message, leaving plain text. The
// conversation is forwarded to an external service and echoed back into the
// page, so nothing tag-shaped survives ingestion.
func Message(s string) string {
	strict, _ := policies()
	return strings.TrimSpace(strict.Sanitize(s))
}

// Reply sanitizes an assistant reply for rendering, keeping safe formatting
// (emphasis, lists, links) and dropping everything else.
func Reply(s string) template.HTML {
	_, ugc := policies()
	return template.HTML(ugc.Sanitize(s))
}
