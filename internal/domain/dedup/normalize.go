package dedup

import "strings"

// comparisonText builds the string a complaint is compared by: title and
// description concatenated, lower-cased, whitespace collapsed. Fields are not
// weighted separately.
func comparisonText(title, description string) string {
	joined := strings.TrimSpace(title) + " " + strings.TrimSpace(description)
	lowered := strings.ToLower(joined)
	return strings.Join(strings.Fields(lowered), " ")
}
