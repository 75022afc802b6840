package flutter

import (
	"strings"

	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/registry"
)

var titleHints = []string{"nombre", "name", "title", "titulo"}

// primaryField picks the attribute shown as the list tile title.
func primaryField(fs []field) field {
	for _, fd := range fs {
		if fd.Identity {
			continue
		}
		lower := strings.ToLower(fd.Name)
		for _, h := range titleHints {
			if strings.Contains(lower, h) {
				return fd
			}
		}
	}
	for _, fd := range fs {
		if !fd.Identity {
			return fd
		}
	}
	return identityField(fs)
}

type listScreenBuilder struct{}

func (listScreenBuilder) Role() string { return RoleListScreen }

func (listScreenBuilder) Build(ctx *registry.Context, c *diagram.ClassDefinition) (registry.Artifact, error) {
	name := className(c)
	stem := fileStem(c)
	fs := fields(ctx, c)
	id := identityField(fs)
	title := primaryField(fs)
	titleExpr := "item." + title.Name + ".toString()"
	if title.Identity {
		titleExpr = "'#${item." + id.Name + "}'"
	}

	f := &emit.DartFile{}
	f.Import("package:flutter/material.dart",
		"../models/"+stem+"_model.dart",
		"../services/"+stem+"_service.dart",
		stem+"_form_screen.dart",
	)
	f.Decl(func(e *emit.Emitter) {
		e.Block("class %sListScreen extends StatefulWidget", name)
		e.Line("const %sListScreen({super.key});", name)
		e.Blank()
		e.Line("@override")
		e.Line("State<%sListScreen> createState() => _%sListScreenState();", name, name)
		e.EndBlock()
	})
	f.Decl(func(e *emit.Emitter) {
		e.Block("class _%sListScreenState extends State<%sListScreen>", name, name)
		e.Line("List<%s> _items = [];", name)
		e.Line("bool _loading = true;")
		e.Blank()
		e.Line("@override")
		e.Block("void initState()")
		e.Line("super.initState();")
		e.Line("_load();")
		e.EndBlock()
		e.Blank()

		e.Block("Future<void> _load() async")
		e.Block("try")
		e.Line("final items = await %sService.getAll();", name)
		e.Line("if (!mounted) return;")
		e.Open("setState(() {")
		e.Line("_items = items;")
		e.Line("_loading = false;")
		e.Close("});")
		e.EndBlockSuffix(" catch (e) {")
		e.Indent()
		e.Line("if (!mounted) return;")
		e.Line("setState(() => _loading = false);")
		e.Line("_showMessage('Error loading %s: $e', Colors.red);", name)
		e.EndBlock()
		e.EndBlock()
		e.Blank()

		e.Block("void _showMessage(String message, Color color)")
		e.Line("ScaffoldMessenger.of(context).showSnackBar(")
		e.Line("  SnackBar(content: Text(message), backgroundColor: color),")
		e.Line(");")
		e.EndBlock()
		e.Blank()

		e.Block("Future<void> _openForm(%s? item) async", name)
		e.Open("await Navigator.push(")
		e.Line("context,")
		e.Open("MaterialPageRoute(")
		e.Line("builder: (context) => %sFormScreen(item: item, onSaved: _load),", name)
		e.Close("),")
		e.Close(");")
		e.EndBlock()
		e.Blank()

		e.Block("Future<void> _delete(%s item) async", name)
		e.Line("final id = item.%s;", id.Name)
		e.Line("if (id == null) return;")
		e.Block("try")
		e.Line("await %sService.delete(id);", name)
		e.Line("if (!mounted) return;")
		e.Line("_showMessage('%s deleted', Colors.green);", name)
		e.Line("await _load();")
		e.EndBlockSuffix(" catch (e) {")
		e.Indent()
		e.Line("if (!mounted) return;")
		e.Line("_showMessage('Error deleting %s: $e', Colors.red);", name)
		e.EndBlock()
		e.EndBlock()
		e.Blank()

		e.Block("Future<void> _confirmDelete(%s item) async", name)
		e.Open("final confirmed = await showDialog<bool>(")
		e.Line("context: context,")
		e.Open("builder: (context) => AlertDialog(")
		e.Line("title: const Text('Confirm delete'),")
		e.Line("content: const Text('Delete this %s?'),", name)
		e.Open("actions: [")
		e.Open("TextButton(")
		e.Line("onPressed: () => Navigator.of(context).pop(false),")
		e.Line("child: const Text('Cancel'),")
		e.Close("),")
		e.Open("TextButton(")
		e.Line("onPressed: () => Navigator.of(context).pop(true),")
		e.Line("child: const Text('Delete', style: TextStyle(color: Colors.red)),")
		e.Close("),")
		e.Close("],")
		e.Close("),")
		e.Close(");")
		e.Block("if (confirmed == true)")
		e.Line("await _delete(item);")
		e.EndBlock()
		e.EndBlock()
		e.Blank()

		e.Line("@override")
		e.Block("Widget build(BuildContext context)")
		e.Open("return Scaffold(")
		e.Open("appBar: AppBar(")
		e.Line("title: Text(%s),", quote(displayName(c)))
		e.Open("actions: [")
		e.Line("IconButton(icon: const Icon(Icons.refresh), onPressed: _load),")
		e.Close("],")
		e.Close("),")
		e.Open("floatingActionButton: FloatingActionButton(")
		e.Line("onPressed: () => _openForm(null),")
		e.Line("child: const Icon(Icons.add),")
		e.Close("),")
		e.Line("body: _loading")
		e.Line("    ? const Center(child: CircularProgressIndicator())")
		e.Line("    : _items.isEmpty")
		e.Line("        ? const Center(child: Text('No %s found'))", strings.ToLower(displayName(c)))
		e.Indent()
		e.Indent()
		e.Indent()
		e.Indent()
		e.Open(": RefreshIndicator(")
		e.Line("onRefresh: _load,")
		e.Open("child: ListView.builder(")
		e.Line("itemCount: _items.length,")
		e.Open("itemBuilder: (context, index) {")
		e.Line("final item = _items[index];")
		e.Open("return ListTile(")
		e.Line("title: Text(%s),", titleExpr)
		e.Line("subtitle: Text('ID: ${item.%s}'),", id.Name)
		e.Line("onTap: () => _openForm(item),")
		e.Open("trailing: Row(")
		e.Line("mainAxisSize: MainAxisSize.min,")
		e.Open("children: [")
		e.Line("IconButton(icon: const Icon(Icons.edit), onPressed: () => _openForm(item)),")
		e.Open("IconButton(")
		e.Line("icon: const Icon(Icons.delete, color: Colors.red),")
		e.Line("onPressed: () => _confirmDelete(item),")
		e.Close("),")
		e.Close("],")
		e.Close("),")
		e.Close(");")
		e.Close("},")
		e.Close("),")
		e.Close("),")
		for i := 0; i < 4; i++ {
			e.Dedent()
		}
		e.Close(");")
		e.EndBlock()
		e.EndBlock()
	})
	return registry.Artifact{Path: "lib/screens/" + stem + "_list_screen.dart", Content: f.Render()}, nil
}

type formScreenBuilder struct{}

func (formScreenBuilder) Role() string { return RoleFormScreen }

// controller is the State member holding the text of a field.
func controller(fd field) string {
	return "_" + fd.Name + "Controller"
}

func flag(fd field) string {
	return "_" + fd.Name + "Value"
}

// initialText renders a field of the edited item into a text field value.
func initialText(fd field) string {
	switch {
	case fd.Type == dartString:
		return "item." + fd.Name
	case fd.Type == dartDateTime && fd.DateOnly:
		return "item." + fd.Name + ".toIso8601String().split('T').first"
	case fd.Type == dartDateTime:
		return "item." + fd.Name + ".toIso8601String()"
	}
	return "item." + fd.Name + ".toString()"
}

// parsedValue converts the controller text back into the field type.
func parsedValue(fd field) string {
	text := controller(fd) + ".text.trim()"
	switch fd.Type {
	case dartInt:
		return "int.tryParse(" + text + ") ?? 0"
	case dartDouble:
		return "double.tryParse(" + text + ") ?? 0.0"
	case dartDateTime:
		return "DateTime.tryParse(" + text + ") ?? DateTime.now()"
	}
	return text
}

func validator(fd field) string {
	switch fd.Type {
	case dartInt:
		return "_validateInt"
	case dartDouble:
		return "_validateDouble"
	case dartDateTime:
		return "_validateDate"
	}
	return "_required"
}

func keyboard(fd field) string {
	switch fd.Type {
	case dartInt:
		return "TextInputType.number"
	case dartDouble:
		return "const TextInputType.numberWithOptions(decimal: true)"
	case dartDateTime:
		return "TextInputType.datetime"
	}
	return ""
}

func (formScreenBuilder) Build(ctx *registry.Context, c *diagram.ClassDefinition) (registry.Artifact, error) {
	name := className(c)
	stem := fileStem(c)
	v := varName(c)
	all := fields(ctx, c)
	id := identityField(all)

	var texts, flags []field
	used := make(map[string]bool)
	for _, fd := range all {
		switch {
		case fd.Identity:
		case fd.Type == dartBool:
			flags = append(flags, fd)
		default:
			texts = append(texts, fd)
			used[validator(fd)] = true
		}
	}

	f := &emit.DartFile{}
	f.Import("package:flutter/material.dart",
		"../models/"+stem+"_model.dart",
		"../services/"+stem+"_service.dart",
	)
	f.Decl(func(e *emit.Emitter) {
		e.Block("class %sFormScreen extends StatefulWidget", name)
		e.Line("final %s? item;", name)
		e.Line("final VoidCallback onSaved;")
		e.Blank()
		e.Line("const %sFormScreen({super.key, this.item, required this.onSaved});", name)
		e.Blank()
		e.Line("@override")
		e.Line("State<%sFormScreen> createState() => _%sFormScreenState();", name, name)
		e.EndBlock()
	})
	f.Decl(func(e *emit.Emitter) {
		e.Block("class _%sFormScreenState extends State<%sFormScreen>", name, name)
		e.Line("final _formKey = GlobalKey<FormState>();")
		for _, fd := range texts {
			e.Line("final %s = TextEditingController();", controller(fd))
		}
		for _, fd := range flags {
			e.Line("bool %s = false;", flag(fd))
		}
		e.Line("bool _saving = false;")
		e.Blank()

		e.Line("@override")
		e.Block("void initState()")
		e.Line("super.initState();")
		if len(texts)+len(flags) > 0 {
			e.Line("final item = widget.item;")
			e.Block("if (item != null)")
			for _, fd := range texts {
				e.Line("%s.text = %s;", controller(fd), initialText(fd))
			}
			for _, fd := range flags {
				e.Line("%s = item.%s;", flag(fd), fd.Name)
			}
			e.EndBlock()
		}
		e.EndBlock()
		e.Blank()

		e.Line("@override")
		e.Block("void dispose()")
		for _, fd := range texts {
			e.Line("%s.dispose();", controller(fd))
		}
		e.Line("super.dispose();")
		e.EndBlock()
		e.Blank()

		writeValidators(e, used)

		e.Block("Future<void> _save() async")
		e.Line("if (!_formKey.currentState!.validate()) return;")
		e.Line("setState(() => _saving = true);")
		e.Open("final %s = %s(", v, name)
		e.Line("%s: widget.item?.%s,", id.Name, id.Name)
		for _, fd := range texts {
			e.Line("%s: %s,", fd.Name, parsedValue(fd))
		}
		for _, fd := range flags {
			e.Line("%s: %s,", fd.Name, flag(fd))
		}
		e.Close(");")
		e.Block("try")
		e.Line("final id = widget.item?.%s;", id.Name)
		e.Block("if (id == null)")
		e.Line("await %sService.create(%s);", name, v)
		e.EndBlockSuffix(" else {")
		e.Indent()
		e.Line("await %sService.update(id, %s);", name, v)
		e.EndBlock()
		e.Line("if (!mounted) return;")
		e.Line("widget.onSaved();")
		e.Line("Navigator.of(context).pop();")
		e.EndBlockSuffix(" catch (e) {")
		e.Indent()
		e.Line("if (!mounted) return;")
		e.Line("setState(() => _saving = false);")
		e.Line("ScaffoldMessenger.of(context).showSnackBar(")
		e.Line("  SnackBar(content: Text('Error saving %s: $e'), backgroundColor: Colors.red),", name)
		e.Line(");")
		e.EndBlock()
		e.EndBlock()
		e.Blank()

		e.Line("@override")
		e.Block("Widget build(BuildContext context)")
		e.Open("return Scaffold(")
		e.Line("appBar: AppBar(title: Text(widget.item == null ? 'New %s' : 'Edit %s')),", name, name)
		e.Open("body: Form(")
		e.Line("key: _formKey,")
		e.Open("child: ListView(")
		e.Line("padding: const EdgeInsets.all(16),")
		e.Open("children: [")
		for _, fd := range texts {
			e.Open("TextFormField(")
			e.Line("controller: %s,", controller(fd))
			e.Line("decoration: const InputDecoration(labelText: %s),", quote(fd.Label))
			if kb := keyboard(fd); kb != "" {
				e.Line("keyboardType: %s,", kb)
			}
			e.Line("validator: (value) => %s(value, %s),", validator(fd), quote(fd.Label))
			e.Close("),")
		}
		for _, fd := range flags {
			e.Open("SwitchListTile(")
			e.Line("title: const Text(%s),", quote(fd.Label))
			e.Line("value: %s,", flag(fd))
			e.Line("onChanged: (value) => setState(() => %s = value),", flag(fd))
			e.Close("),")
		}
		e.Line("const SizedBox(height: 24),")
		e.Open("ElevatedButton(")
		e.Line("onPressed: _saving ? null : _save,")
		e.Line("child: _saving")
		e.Line("    ? const SizedBox(width: 20, height: 20, child: CircularProgressIndicator(strokeWidth: 2))")
		e.Line("    : const Text('Save'),")
		e.Close("),")
		e.Close("],")
		e.Close("),")
		e.Close("),")
		e.Close(");")
		e.EndBlock()
		e.EndBlock()
	})
	return registry.Artifact{Path: "lib/screens/" + stem + "_form_screen.dart", Content: f.Render()}, nil
}

// writeValidators emits the form validators referenced by the text fields.
func writeValidators(e *emit.Emitter, used map[string]bool) {
	if len(used) == 0 {
		return
	}
	e.Lines(
		"String? _required(String? value, String label) {",
		"  if (value == null || value.trim().isEmpty) return 'Please enter $label';",
		"  return null;",
		"}",
	)
	e.Blank()
	typed := []struct{ name, parse, message string }{
		{"_validateInt", "int.tryParse", "must be a whole number"},
		{"_validateDouble", "double.tryParse", "must be a number"},
		{"_validateDate", "DateTime.tryParse", "must be a date (YYYY-MM-DD)"},
	}
	for _, v := range typed {
		if !used[v.name] {
			continue
		}
		e.Lines(
			"String? "+v.name+"(String? value, String label) {",
			"  final missing = _required(value, label);",
			"  if (missing != null) return missing;",
			"  if ("+v.parse+"(value!.trim()) == null) return '$label "+v.message+"';",
			"  return null;",
			"}",
		)
		e.Blank()
	}
}
