// Package casing provides the fixed set of name-case conversions applied to
// imported member names before they are substituted into path templates.
package casing

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// Case identifies one case-style conversion.
//
// The set of values is closed. Configuration decoding rejects any tag that is
// not listed below, so every Case reaching Lookup has a registered function.
type Case string

const (
	CamelCase  Case = "camel_case"  // MyButton → myButton
	KebabCase  Case = "kebab_case"  // MyButton → my-button
	DashedCase Case = "dashed_case" // alias of KebabCase
	PascalCase Case = "pascal_case" // my-button → MyButton
	SnakeCase  Case = "snake_case"  // MyButton → my_button
	UpperCase  Case = "upper_case"  // MyButton → MYBUTTON
	UpperFirst Case = "upper_first" // myButton → MyButton
	LowerCase  Case = "lower_case"  // MyButton → mybutton
	LowerFirst Case = "lower_first" // MyButton → myButton
)

// String returns the external tag of the case style.
func (c Case) String() string {
	return string(c)
}

// All returns every case style in declaration order.
func All() []Case {
	return []Case{
		CamelCase,
		KebabCase,
		DashedCase,
		PascalCase,
		SnakeCase,
		UpperCase,
		UpperFirst,
		LowerCase,
		LowerFirst,
	}
}

// Parse converts an external tag into a Case.
func Parse(tag string) (Case, error) {
	c := Case(tag)
	if _, ok := registry()[c]; !ok {
		return "", fmt.Errorf("unknown member transformer %q", tag)
	}
	return c, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so that JSON and YAML
// decoding reject unknown tags before any rewriting begins.
func (c *Case) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Case) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

// registry maps every case style to its conversion. Built once on first use
// and never written again, so concurrent readers need no locking.
var registry = sync.OnceValue(func() map[Case]func(string) string {
	return map[Case]func(string) string{
		CamelCase:  strcase.ToLowerCamel,
		KebabCase:  strcase.ToKebab,
		DashedCase: strcase.ToKebab,
		PascalCase: strcase.ToCamel,
		SnakeCase:  strcase.ToSnake,
		UpperCase:  strings.ToUpper,
		UpperFirst: upperFirst,
		LowerCase:  strings.ToLower,
		LowerFirst: lowerFirst,
	}
})

// Lookup returns the conversion function for c.
//
// Lookup panics if c is not one of the declared constants; values obtained
// through Parse or UnmarshalText never trigger this.
func Lookup(c Case) func(string) string {
	fn, ok := registry()[c]
	if !ok {
		panic(fmt.Sprintf("casing: no conversion registered for %q", string(c)))
	}
	return fn
}

func upperFirst(s string) string {
	return mapFirst(s, unicode.ToUpper)
}

func lowerFirst(s string) string {
	return mapFirst(s, unicode.ToLower)
}

// mapFirst applies fn to the first rune of s and leaves the rest untouched.
func mapFirst(s string, fn func(rune) rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(fn(r)) + s[size:]
}
