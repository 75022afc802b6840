// Package naming derives identifiers, file names and resource names from diagram names.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

func init() {
	// -ta and -ia words take -s: Venta -> Ventas, Categoria -> Categorias.
	inflection.AddPlural("([ti])a$", "${1}as")
}

// Fold removes diacritics so "Categoría" becomes "Categoria".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Words splits s at separators and case boundaries: "fechaNacimiento" -> [fecha Nacimiento],
// "HTTPServer" -> [HTTP Server], "order_item" -> [order item].
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	rs := []rune(s)
	for i, r := range rs {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func title(w string) string {
	return cases.Title(language.Und, cases.NoLower).String(w)
}

func lower(w string) string {
	return cases.Lower(language.Und).String(w)
}

// Studly returns the upper camel case form: "order_item" -> "OrderItem".
func Studly(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title(w))
	}
	return b.String()
}

// Camel returns the lower camel case form: "FechaNacimiento" -> "fechaNacimiento".
func Camel(s string) string {
	var b strings.Builder
	for i, w := range Words(s) {
		if i == 0 {
			b.WriteString(lower(w))
			continue
		}
		b.WriteString(title(w))
	}
	return b.String()
}

// Snake returns the lower snake case form: "OrderItem" -> "order_item".
func Snake(s string) string {
	ws := Words(s)
	for i, w := range ws {
		ws[i] = lower(w)
	}
	return strings.Join(ws, "_")
}

// Headline returns space separated title case words: "fechaNacimiento" -> "Fecha Nacimiento".
func Headline(s string) string {
	ws := Words(s)
	for i, w := range ws {
		ws[i] = title(w)
	}
	return strings.Join(ws, " ")
}

// Plural returns the plural of s: English rules, with -ta and -ia words taking -s.
func Plural(s string) string {
	return inflection.Plural(s)
}

// Identifier normalizes a diagram class name into a type identifier.
func Identifier(s string) string {
	return Studly(Fold(s))
}

// ValidIdentifier reports whether s normalizes to an alphanumeric name starting with a letter.
func ValidIdentifier(s string) bool {
	return identifierRe.MatchString(Identifier(s))
}

// TableName returns the snake case plural used for tables and REST paths: "OrderItem" -> "order_items".
func TableName(class string) string {
	return Snake(Plural(Identifier(class)))
}

// Package returns a Java package segment for a project name: "erp-inventario" -> "erpinventario".
func Package(project string) string {
	seg := lower(strings.Join(Words(Fold(project)), ""))
	if seg == "" || unicode.IsDigit(rune(seg[0])) {
		seg = "app" + seg
	}
	return seg
}

// DartPackage returns a pub package name for a project name: "ERP Inventario" -> "erp_inventario".
func DartPackage(project string) string {
	name := Snake(Fold(project))
	if name == "" || unicode.IsDigit(rune(name[0])) {
		name = "app_" + name
	}
	return name
}
