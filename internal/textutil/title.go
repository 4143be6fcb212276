package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayLabel converts a stored label value into a heading: underscores and
// dashes become spaces and each word is title-cased. Empty input yields "None".
func DisplayLabel(value string) string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(fields) == 0 {
		return "None"
	}
	return cases.Title(language.Und).String(strings.Join(fields, " "))
}
