package notation

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var notationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `%%[^\n]*`},
	{Name: "Stereotype", Pattern: `<<\s*[^<>]+?\s*>>`},
	{Name: "Arrow", Pattern: `<\|--|--\|>|<\|\.\.|\.\.\|>|\*--|--\*|o--|--o|<--|-->|<\.\.|\.\.>|--|\.\.`},
	{Name: "Cardinality", Pattern: `"[^"]*"`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Visibility", Pattern: `[-+#~]`},
	{Name: "Punct", Pattern: `[{}()\[\]<>,:;.*$]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// segmentAST is one brace-delimited piece of a notation line.
type segmentAST struct {
	Header      bool            `parser:"  @'classDiagram'"`
	Class       *classAST       `parser:"| @@"`
	Close       bool            `parser:"| @'}'"`
	Stereotype  *stereotypeAST  `parser:"| @@"`
	Relation    *relationAST    `parser:"| @@"`
	ClassMember *classMemberAST `parser:"| @@"`
	Members     []*memberAST    `parser:"| @@+"`
}

type classAST struct {
	Before  string   `parser:"@Stereotype? 'class'"`
	Name    string   `parser:"@Ident"`
	Generic []string `parser:"( '~' @Ident ( ',' @Ident )* '~' )?"`
	After   string   `parser:"@Stereotype?"`
	Open    bool     `parser:"@'{'?"`
}

type stereotypeAST struct {
	Value string `parser:"@Stereotype"`
	Class string `parser:"@Ident?"`
}

type relationAST struct {
	From     string   `parser:"@Ident"`
	FromCard string   `parser:"@Cardinality?"`
	Arrow    string   `parser:"@Arrow"`
	ToCard   string   `parser:"@Cardinality?"`
	To       string   `parser:"@Ident"`
	Label    []string `parser:"( ':' @( Ident | Punct | Visibility | Cardinality | Arrow | Stereotype )* )?"`
}

// classMemberAST is the out-of-body member form "Producto : +String nombre".
type classMemberAST struct {
	Class  string     `parser:"@Ident ':'"`
	Member *memberAST `parser:"@@"`
}

type memberAST struct {
	Visibility string   `parser:"@Visibility?"`
	Type       *typeAST `parser:"@@"`
	Name       string   `parser:"@Ident?"`
	Call       *callAST `parser:"@@?"`
	Classifier string   `parser:"@( '*' | '$' )?"`
}

type callAST struct {
	Params     []*paramAST `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
	Classifier string      `parser:"@( '*' | '$' )?"`
	Return     *typeAST    `parser:"( ':'? @@ )?"`
}

// paramAST accepts "type name" and "name: type".
type paramAST struct {
	Type  *typeAST `parser:"@@"`
	Colon *typeAST `parser:"( ':' @@"`
	Name  string   `parser:"| @Ident )?"`
}

type typeAST struct {
	Name  string     `parser:"@Ident ( @'.' @Ident )*"`
	Args  []*typeAST `parser:"( '<' @@ ( ',' @@ )* '>'"`
	Tilde []string   `parser:"| '~' @Ident ( ',' @Ident )* '~' )?"`
	Array bool       `parser:"@( '[' ']' )?"`
}

// String renders the type with generics in angle brackets.
func (t *typeAST) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.Args) > 0 || len(t.Tilde) > 0 {
		args := append([]string(nil), t.Tilde...)
		for _, a := range t.Args {
			args = append(args, a.String())
		}
		b.WriteString("<" + strings.Join(args, ", ") + ">")
	}
	if t.Array {
		b.WriteString("[]")
	}
	return b.String()
}

var segmentParser = participle.MustBuild[segmentAST](
	participle.Lexer(notationLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(16),
)
