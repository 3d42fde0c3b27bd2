// Package casing converts fixture identifiers between the snake-case used
// in source snippets and the camel-case conventions of the target drivers.
package casing

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// snakePattern classifies whole-string snake-case identifiers, either all
// upper or all lower. Mixed-case identifiers fall through to the
// first-rune-only transforms.
var snakePattern = regexp.MustCompile(`^([A-Z][A-Z0-9_]*|[a-z][a-z0-9_]*)$`)

// Camel converts an identifier to CamelCase. Snake-case input is split on
// underscores and each chunk title-cased; a trailing underscore survives.
// Anything else only gets its first rune upper-cased.
func Camel(id string) string {
	if id == "" {
		return id
	}
	if !snakePattern.MatchString(id) {
		runes := []rune(id)
		runes[0] = unicode.ToUpper(runes[0])
		return string(runes)
	}
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, chunk := range strings.Split(id, "_") {
		b.WriteString(title.String(chunk))
	}
	if strings.HasSuffix(id, "_") {
		b.WriteString("_")
	}
	return b.String()
}

// Dromedary converts an identifier to dromedaryCase: like Camel, but the
// first chunk is lower-cased. Non-snake-case input only gets its first rune
// lower-cased.
func Dromedary(id string) string {
	if id == "" {
		return id
	}
	if !snakePattern.MatchString(id) {
		runes := []rune(id)
		runes[0] = unicode.ToLower(runes[0])
		return string(runes)
	}
	title := cases.Title(language.Und)
	chunks := strings.Split(id, "_")
	var b strings.Builder
	b.WriteString(strings.ToLower(chunks[0]))
	for _, chunk := range chunks[1:] {
		b.WriteString(title.String(chunk))
	}
	if strings.HasSuffix(id, "_") {
		b.WriteString("_")
	}
	return b.String()
}
