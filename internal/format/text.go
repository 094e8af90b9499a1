package format

import (
	"html"
	"regexp"
	"strings"
)

// boldMarker matches a non-greedy **...** pair. Unpaired markers are left
// untouched.
var boldMarker = regexp.MustCompile(`\*\*(.+?)\*\*`)

// FormatAssistantText turns assistant markdown-ish text into display HTML.
// The input is HTML-escaped first, then two substitutions run in order:
//
//  1. **bold** → <strong>bold</strong>
//  2. \n       → <br>
//
// Reapplying it to its own output escapes the markup again, so callers must
// format raw assistant text exactly once.
func FormatAssistantText(text string) string {
	out := html.EscapeString(text)
	out = boldMarker.ReplaceAllString(out, "<strong>$1</strong>")
	out = strings.ReplaceAll(out, "\n", "<br>")
	return out
}

// FormatRecommendation renders the predictor's recommendation block for the
// results panel: escaped, newlines as <br>. Empty input yields the fixed
// placeholder shown by the results view.
func FormatRecommendation(text string) string {
	if strings.TrimSpace(text) == "" {
		return "No specific recommendations available."
	}
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

// FactLabel turns a key_factors key such as "NS1_Status" into "NS1 Status".
func FactLabel(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
