package logging

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. 3475226 -> "3,475,226".
func FormatCount(n int64) string {
	return countPrinter.Sprintf("%d", n)
}
