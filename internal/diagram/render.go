package diagram

import (
	"fmt"
	"strings"
)

// Render writes m in the textual class-diagram notation. Parsing the output yields a
// model equal to m when m itself came from the parser.
func Render(m *Model) string {
	var b strings.Builder
	b.WriteString("classDiagram\n")
	for _, c := range m.Classes() {
		fmt.Fprintf(&b, "    class %s {\n", c.Name)
		if c.Stereotype != "" {
			fmt.Fprintf(&b, "        <<%s>>\n", c.Stereotype)
		}
		for _, a := range c.Attributes {
			fmt.Fprintf(&b, "        %s%s %s\n", a.Visibility.Symbol(), a.Type, a.Name)
		}
		for _, op := range c.Methods {
			params := make([]string, len(op.Parameters))
			for i, p := range op.Parameters {
				params[i] = p.Type + " " + p.Name
			}
			suffix := ""
			if op.Abstract {
				suffix = "*"
			} else if op.Static {
				suffix = "$"
			}
			fmt.Fprintf(&b, "        %s%s %s(%s)%s\n", op.Visibility.Symbol(), op.ReturnType, op.Name, strings.Join(params, ", "), suffix)
		}
		b.WriteString("    }\n")
	}
	for _, r := range m.Relationships {
		b.WriteString("    ")
		b.WriteString(renderRelationship(r))
		b.WriteByte('\n')
	}
	return b.String()
}

func card(m string) string {
	if m == "" || m == DefaultMultiplicity {
		return ""
	}
	return fmt.Sprintf(" %q", m)
}

func renderRelationship(r RelationshipDefinition) string {
	var line string
	switch r.Kind {
	case Inheritance:
		line = r.To + card(r.MultiplicityTo) + " <|--" + card(r.MultiplicityFrom) + " " + r.From
	case Realization:
		line = r.To + card(r.MultiplicityTo) + " <|.." + card(r.MultiplicityFrom) + " " + r.From
	case Composition:
		line = r.To + card(r.MultiplicityTo) + " *--" + card(r.MultiplicityFrom) + " " + r.From
	case Aggregation:
		line = r.To + card(r.MultiplicityTo) + " o--" + card(r.MultiplicityFrom) + " " + r.From
	case Dependency:
		line = r.From + card(r.MultiplicityFrom) + " ..>" + card(r.MultiplicityTo) + " " + r.To
	default:
		line = r.From + card(r.MultiplicityFrom) + " -->" + card(r.MultiplicityTo) + " " + r.To
	}
	label := r.Label
	if r.Stereotype != "" {
		label = strings.TrimSpace("<<" + r.Stereotype + ">> " + r.Label)
	}
	if label != "" {
		line += " : " + label
	}
	return line
}
