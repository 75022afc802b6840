package flutter

import (
	"github.com/diagram-to-project/generator/internal/diagram"
	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/registry"
)

// ResourcePath is the REST path of a class relative to the base URL, matching the
// server controller mapping.
func ResourcePath(c *diagram.ClassDefinition) string {
	return "api/" + naming.TableName(c.Name)
}

type serviceBuilder struct{}

func (serviceBuilder) Role() string { return RoleService }

func (serviceBuilder) Build(ctx *registry.Context, c *diagram.ClassDefinition) (registry.Artifact, error) {
	name := className(c)
	v := varName(c)
	id := identityField(fields(ctx, c))

	f := &emit.DartFile{}
	f.Import("dart:convert",
		"package:http/http.dart as http",
		"../config/app_config.dart",
		"../models/"+fileStem(c)+"_model.dart",
	)
	f.Decl(func(e *emit.Emitter) {
		e.Block("class %sService", name)
		e.Line("static const String basePath = %s;", quote(ResourcePath(c)))
		e.Blank()

		e.Block("static Future<List<%s>> getAll() async", name)
		e.Line("final response = await http.get(AppConfig.uri(basePath), headers: AppConfig.headers);")
		e.Block("if (response.statusCode == 200)")
		e.Line("final data = json.decode(response.body) as List<dynamic>;")
		e.Line("return data.map((item) => %s.fromJson(item as Map<String, dynamic>)).toList();", name)
		e.EndBlock()
		e.Line("throw Exception('Failed to load %s list: ${response.statusCode}');", name)
		e.EndBlock()
		e.Blank()

		e.Block("static Future<%s> getById(int id) async", name)
		e.Line("final response = await http.get(AppConfig.uri('$basePath/$id'), headers: AppConfig.headers);")
		e.Block("if (response.statusCode == 200)")
		e.Line("return %s.fromJson(json.decode(response.body) as Map<String, dynamic>);", name)
		e.EndBlock()
		e.Line("throw Exception('%s $id not found: ${response.statusCode}');", name)
		e.EndBlock()
		e.Blank()

		e.Block("static Future<%s> create(%s %s) async", name, name, v)
		e.Line("final body = %s.toJson()..remove(%s);", v, quote(id.Name))
		e.Open("final response = await http.post(")
		e.Line("AppConfig.uri(basePath),")
		e.Line("headers: AppConfig.headers,")
		e.Line("body: json.encode(body),")
		e.Close(");")
		e.Block("if (response.statusCode == 200 || response.statusCode == 201)")
		e.Line("return %s.fromJson(json.decode(response.body) as Map<String, dynamic>);", name)
		e.EndBlock()
		e.Line("throw Exception('Failed to create %s: ${response.statusCode}');", name)
		e.EndBlock()
		e.Blank()

		e.Block("static Future<%s> update(int id, %s %s) async", name, name, v)
		e.Open("final response = await http.put(")
		e.Line("AppConfig.uri('$basePath/$id'),")
		e.Line("headers: AppConfig.headers,")
		e.Line("body: json.encode(%s.toJson()),", v)
		e.Close(");")
		e.Block("if (response.statusCode == 200)")
		e.Line("return %s.fromJson(json.decode(response.body) as Map<String, dynamic>);", name)
		e.EndBlock()
		e.Line("throw Exception('Failed to update %s $id: ${response.statusCode}');", name)
		e.EndBlock()
		e.Blank()

		e.Block("static Future<void> delete(int id) async")
		e.Line("final response = await http.delete(AppConfig.uri('$basePath/$id'), headers: AppConfig.headers);")
		e.Block("if (response.statusCode != 200 && response.statusCode != 204)")
		e.Line("throw Exception('Failed to delete %s $id: ${response.statusCode}');", name)
		e.EndBlock()
		e.EndBlock()
		e.EndBlock()
	})
	return registry.Artifact{Path: "lib/services/" + fileStem(c) + "_service.dart", Content: f.Render()}, nil
}
