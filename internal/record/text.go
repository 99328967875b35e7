package record

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText is the canonical form of a stored text value: surrounding
// whitespace trimmed, CRLF line breaks folded to LF and Unicode NFC applied.
// The CSV reader folds CRLF inside quoted cells the same way, so cleaned
// values survive a backup and restore unchanged.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return norm.NFC.String(s)
}
