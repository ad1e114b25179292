package app

import (
	"strings"
	"unicode/utf8"
)

// tracedQueryLimit caps the db.statement attribute in bytes.
const tracedQueryLimit = 512

// formatDBQueryForTrace folds a SQL statement onto one line for span
// attributes and cuts it at tracedQueryLimit bytes without splitting a rune.
func formatDBQueryForTrace(query string) string {
	folded := strings.Join(strings.Fields(query), " ")
	if len(folded) <= tracedQueryLimit {
		return folded
	}

	cut := tracedQueryLimit
	for cut > 0 && !utf8.RuneStart(folded[cut]) {
		cut--
	}
	return folded[:cut] + "..."
}
