package identifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true, "assert": true, "async": true,
	"await": true, "break": true, "class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true, "from": true, "global": true, "if": true,
	"import": true, "in": true, "is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true, "while": true, "with": true, "yield": true,
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ToTypeName turns a path segment such as `my_schema__field` into a type name such as
// `MySchemaField`. Every character that is not a letter or a digit separates words and is dropped;
// the first letter of each word is upper-cased and the rest of the word is left as is.
func ToTypeName(segment string) string {
	caser := cases.Title(language.Und, cases.NoLower)

	var builder strings.Builder
	for _, word := range strings.FieldsFunc(segment, func(r rune) bool { return !isWordRune(r) }) {
		builder.WriteString(caser.String(word))
	}

	return builder.String()
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)
}

// IsKeyword reports whether name is a reserved word in Python.
func IsKeyword(name string) bool {
	return pythonKeywords[name]
}

// IsValid reports whether name can be used as a Python identifier, such as the name of a field in a
// class-based TypedDict.
func IsValid(name string) bool {
	if name == "" || IsKeyword(name) {
		return false
	}

	for i, r := range name {
		if i == 0 {
			if !isIdentifierStart(r) {
				return false
			}
			continue
		}
		if !isIdentifierContinue(r) {
			return false
		}
	}

	return true
}
