package naming

import "unicode"

// reserved holds words that cannot name a generated field in Java or Dart, plus the
// members every generated model already declares.
var reserved = map[string]bool{
	"abstract": true, "as": true, "assert": true, "async": true, "await": true, "boolean": true,
	"break": true, "byte": true, "case": true, "catch": true, "char": true, "class": true,
	"const": true, "continue": true, "covariant": true, "default": true, "deferred": true,
	"do": true, "double": true, "dynamic": true, "else": true, "enum": true, "export": true,
	"extends": true, "extension": true, "external": true, "factory": true, "false": true,
	"final": true, "finally": true, "float": true, "for": true, "get": true, "goto": true,
	"hide": true, "if": true, "implements": true, "import": true, "in": true, "instanceof": true,
	"int": true, "interface": true, "is": true, "late": true, "library": true, "long": true,
	"mixin": true, "native": true, "new": true, "null": true, "on": true, "operator": true,
	"package": true, "part": true, "private": true, "protected": true, "public": true,
	"record": true, "required": true, "rethrow": true, "return": true, "set": true, "short": true,
	"show": true, "static": true, "super": true, "switch": true, "sync": true,
	"synchronized": true, "this": true, "throw": true, "throws": true, "transient": true,
	"true": true, "try": true, "typedef": true, "var": true, "void": true, "volatile": true,
	"while": true, "with": true, "yield": true,
	"hashCode": true, "toString": true, "runtimeType": true, "noSuchMethod": true,
	"copyWith": true, "toJson": true, "fromJson": true,
}

// Reserved reports whether name cannot be used as a generated member name.
func Reserved(name string) bool {
	return reserved[name]
}

// Member returns the field name shared by the server entity, the JSON payload and the
// client model: "Fecha Alta" -> "fechaAlta", "class" -> "classValue".
func Member(name string) string {
	m := Camel(Fold(name))
	switch {
	case m == "":
		return "field"
	case unicode.IsDigit(rune(m[0])):
		m = "f" + m
	}
	if reserved[m] {
		m += "Value"
	}
	return m
}
