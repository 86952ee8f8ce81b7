// Package naming converts identifiers between the casing conventions of the
// target languages.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.Und, cases.NoLower)

// Snake converts PascalCase or camelCase to snake_case. Acronyms stay
// together: "HTTPSConnection" becomes "https_connection". Dashes and dots
// become underscores.
func Snake(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r == '-' || r == '.' || r == ' ' {
			sb.WriteRune('_')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prevUpper := unicode.IsUpper(runes[i-1])
			prevSep := runes[i-1] == '_' || runes[i-1] == '-' || runes[i-1] == '.'
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !prevSep && (!prevUpper || nextLower) {
				sb.WriteRune('_')
			}
		}
		sb.WriteRune(r)
	}
	return strings.ToLower(sb.String())
}

// Pascal converts snake_case, kebab-case or camelCase to PascalCase. Segment
// tails keep their case.
func Pascal(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	var sb strings.Builder
	for _, part := range parts {
		sb.WriteString(UpperFirst(part))
	}
	return sb.String()
}

// Camel is Pascal with a lower-case first letter.
func Camel(s string) string {
	return LowerFirst(Pascal(s))
}

// UpperFirst upper-cases the first rune of s.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LowerFirst lower-cases the first rune of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Title title-cases each word of s without lowering the rest of the word, so
// "microsoft_graph" stays distinguishable from "microsoftGraph".
func Title(s string) string {
	return titler.String(s)
}

// ModuleName turns a dotted namespace into a module path joined by sep, with
// every segment title-cased: ("graph.users", "::") is "Graph::Users".
func ModuleName(namespace, sep string) string {
	if namespace == "" {
		return ""
	}
	segs := strings.Split(namespace, ".")
	for i, s := range segs {
		segs[i] = Title(s)
	}
	return strings.Join(segs, sep)
}

// Singular returns the singular form of an English word.
func Singular(s string) string {
	return inflection.Singular(s)
}

// TrimInterfacePrefix drops a leading "I" marker from names such as
// "IAdditionalDataHolder". Names where "I" starts a word ("Item") are kept.
func TrimInterfacePrefix(s string) string {
	r := []rune(s)
	if len(r) > 1 && (r[0] == 'I' || r[0] == 'i') && unicode.IsUpper(r[1]) {
		return string(r[1:])
	}
	return s
}
