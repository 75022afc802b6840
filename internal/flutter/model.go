package flutter

import (
	"fmt"
	"strings"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/registry"
)

type modelBuilder struct{}

func (modelBuilder) Role() string { return RoleModel }

func (modelBuilder) Build(ctx *registry.Context, c *diagram.ClassDefinition) (registry.Artifact, error) {
	if c.Identity() == nil {
		return registry.Artifact{}, fmt.Errorf("class %s has no identity attribute", c.Name)
	}
	name := className(c)
	fs := fields(ctx, c)

	f := &emit.DartFile{}
	f.Decl(func(e *emit.Emitter) {
		e.Block("class %s", name)
		for _, fd := range fs {
			e.Line("final %s %s;", declType(fd), fd.Name)
		}
		e.Blank()

		e.Open("const %s({", name)
		for _, fd := range fs {
			if fd.Identity {
				e.Line("this.%s,", fd.Name)
			} else {
				e.Line("required this.%s,", fd.Name)
			}
		}
		e.Close("});")
		e.Blank()

		writeFromJSON(e, name, fs)
		e.Blank()
		writeToJSON(e, fs)
		e.Blank()
		writeCopyWith(e, name, fs)
		e.Blank()
		writeEquality(e, name, fs)
		writeParsers(e, fs)
		e.EndBlock()
	})
	return registry.Artifact{Path: "lib/models/" + fileStem(c) + "_model.dart", Content: f.Render()}, nil
}

// declType is the field type; the identity is absent until the server assigns it.
func declType(fd field) string {
	if fd.Identity {
		return fd.Type + "?"
	}
	return fd.Type
}

func fromJSONExpr(fd field) string {
	v := fmt.Sprintf("json[%s]", quote(fd.Name))
	switch {
	case fd.Identity:
		return fmt.Sprintf("%s == null ? null : _parseInt(%s)", v, v)
	case fd.Type == dartInt:
		return "_parseInt(" + v + ")"
	case fd.Type == dartDouble:
		return "_parseDouble(" + v + ")"
	case fd.Type == dartBool:
		return "_parseBool(" + v + ")"
	case fd.Type == dartDateTime:
		return "_parseDate(" + v + ")"
	}
	return v + "?.toString() ?? ''"
}

func toJSONExpr(fd field) string {
	if fd.Type != dartDateTime {
		return fd.Name
	}
	if fd.DateOnly {
		return fd.Name + ".toIso8601String().split('T').first"
	}
	return fd.Name + ".toIso8601String()"
}

func writeFromJSON(e *emit.Emitter, name string, fs []field) {
	e.Block("factory %s.fromJson(Map<String, dynamic> json)", name)
	e.Open("return %s(", name)
	for _, fd := range fs {
		e.Line("%s: %s,", fd.Name, fromJSONExpr(fd))
	}
	e.Close(");")
	e.EndBlock()
}

func writeToJSON(e *emit.Emitter, fs []field) {
	e.Block("Map<String, dynamic> toJson()")
	e.Open("return {")
	for _, fd := range fs {
		e.Line("%s: %s,", quote(fd.Name), toJSONExpr(fd))
	}
	e.Close("};")
	e.EndBlock()
}

func writeCopyWith(e *emit.Emitter, name string, fs []field) {
	if len(fs) == 0 {
		e.Line("%s copyWith() => %s();", name, name)
		return
	}
	e.Open("%s copyWith({", name)
	for _, fd := range fs {
		e.Line("%s? %s,", fd.Type, fd.Name)
	}
	e.Dedent()
	e.Block("})")
	e.Open("return %s(", name)
	for _, fd := range fs {
		e.Line("%s: %s ?? this.%s,", fd.Name, fd.Name, fd.Name)
	}
	e.Close(");")
	e.EndBlock()
}

func writeEquality(e *emit.Emitter, name string, fs []field) {
	names := make([]string, len(fs))
	for i, fd := range fs {
		names[i] = fd.Name
	}

	e.Line("@override")
	e.Line("bool operator ==(Object other) =>")
	e.Indent()
	e.Indent()
	e.Line("identical(this, other) ||")
	if len(fs) == 0 {
		e.Line("other is %s;", name)
	} else {
		e.Line("other is %s &&", name)
		e.Indent()
		for i, n := range names {
			own := n
			if n == "other" {
				own = "this." + n
			}
			sep := " &&"
			if i == len(names)-1 {
				sep = ";"
			}
			e.Line("other.%s == %s%s", n, own, sep)
		}
		e.Dedent()
	}
	e.Dedent()
	e.Dedent()
	e.Blank()

	e.Line("@override")
	e.Line("int get hashCode => Object.hashAll([%s]);", strings.Join(names, ", "))
	e.Blank()

	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ": ${" + n + "}"
	}
	e.Line("@override")
	e.Line("String toString() => '%s(%s)';", name, strings.Join(parts, ", "))
}

// writeParsers emits only the coercion helpers the fields use.
func writeParsers(e *emit.Emitter, fs []field) {
	used := make(map[string]bool)
	for _, fd := range fs {
		used[fd.Type] = true
	}
	if used[dartInt] {
		e.Blank()
		e.Lines(
			"static int _parseInt(dynamic value) {",
			"  if (value is int) return value;",
			"  if (value is num) return value.toInt();",
			"  if (value is String) return int.tryParse(value) ?? 0;",
			"  return 0;",
			"}",
		)
	}
	if used[dartDouble] {
		e.Blank()
		e.Lines(
			"static double _parseDouble(dynamic value) {",
			"  if (value is double) return value;",
			"  if (value is num) return value.toDouble();",
			"  if (value is String) return double.tryParse(value) ?? 0.0;",
			"  return 0.0;",
			"}",
		)
	}
	if used[dartBool] {
		e.Blank()
		e.Lines(
			"static bool _parseBool(dynamic value) {",
			"  if (value is bool) return value;",
			"  if (value is num) return value != 0;",
			"  if (value is String) return value.toLowerCase() == 'true';",
			"  return false;",
			"}",
		)
	}
	if used[dartDateTime] {
		e.Blank()
		e.Lines(
			"static DateTime _parseDate(dynamic value) {",
			"  if (value is String) return DateTime.tryParse(value) ?? DateTime.now();",
			"  return DateTime.now();",
			"}",
		)
	}
}
