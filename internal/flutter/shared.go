package flutter

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/diagram-to-project/generator/internal/emit"
	"github.com/diagram-to-project/generator/internal/naming"
	"github.com/diagram-to-project/generator/internal/registry"
)

type sdkDependency struct {
	SDK string `yaml:"sdk"`
}

type pubspecFlutter struct {
	UsesMaterialDesign bool `yaml:"uses-material-design"`
}

type pubspec struct {
	Name            string            `yaml:"name"`
	Description     string            `yaml:"description"`
	PublishTo       string            `yaml:"publish_to"`
	Version         string            `yaml:"version"`
	Environment     map[string]string `yaml:"environment"`
	Dependencies    map[string]any    `yaml:"dependencies"`
	DevDependencies map[string]any    `yaml:"dev_dependencies"`
	Flutter         pubspecFlutter    `yaml:"flutter"`
}

type pubspecBuilder struct{}

func (pubspecBuilder) Role() string { return RolePubspec }

func (pubspecBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	desc := ctx.Project.Description
	if desc == "" {
		desc = "Flutter client generated from a class diagram"
	}
	spec := pubspec{
		Name:        naming.DartPackage(ctx.Project.Name),
		Description: desc,
		PublishTo:   "none",
		Version:     "1.0.0+1",
		Environment: map[string]string{"sdk": ">=3.0.0 <4.0.0"},
		Dependencies: map[string]any{
			"flutter":            sdkDependency{SDK: "flutter"},
			"http":               "^1.1.0",
			"provider":           "^6.1.1",
			"shared_preferences": "^2.2.2",
		},
		DevDependencies: map[string]any{
			"flutter_test":  sdkDependency{SDK: "flutter"},
			"flutter_lints": "^3.0.0",
		},
		Flutter: pubspecFlutter{UsesMaterialDesign: true},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return nil, fmt.Errorf("encoding pubspec: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []registry.Artifact{{Path: "pubspec.yaml", Content: buf.Bytes()}}, nil
}

// appClass is the root widget type: "erp-inventario" -> "ErpInventarioApp".
func appClass(ctx *registry.Context) string {
	return ctx.Project.AppName() + "App"
}

// dashboardTitle is the app bar title of the dashboard, also asserted by the widget test.
func dashboardTitle(ctx *registry.Context) string {
	return naming.Headline(ctx.Project.AppName()) + " Dashboard"
}

type mainBuilder struct{}

func (mainBuilder) Role() string { return RoleMain }

func (mainBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	f := &emit.DartFile{}
	f.Import("package:flutter/material.dart", "app.dart")
	f.Decl(func(e *emit.Emitter) {
		e.Block("void main()")
		e.Line("runApp(const %s());", appClass(ctx))
		e.EndBlock()
	})
	return []registry.Artifact{{Path: "lib/main.dart", Content: f.Render()}}, nil
}

type appBuilder struct{}

func (appBuilder) Role() string { return RoleApp }

func (appBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	name := appClass(ctx)
	f := &emit.DartFile{}
	f.Import("package:flutter/material.dart", "navigation/app_routes.dart")
	f.Decl(func(e *emit.Emitter) {
		e.Block("class %s extends StatelessWidget", name)
		e.Line("const %s({super.key});", name)
		e.Blank()
		e.Line("@override")
		e.Block("Widget build(BuildContext context)")
		e.Open("return MaterialApp(")
		e.Line("title: %s,", quote(naming.Headline(ctx.Project.AppName())))
		e.Line("theme: ThemeData(colorSchemeSeed: Colors.blue, useMaterial3: true),")
		e.Line("initialRoute: AppRoutes.dashboard,")
		e.Line("routes: AppRoutes.routes,")
		e.Line("debugShowCheckedModeBanner: false,")
		e.Close(");")
		e.EndBlock()
		e.EndBlock()
	})
	return []registry.Artifact{{Path: "lib/app.dart", Content: f.Render()}}, nil
}

type configBuilder struct{}

func (configBuilder) Role() string { return RoleConfig }

func (configBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	base := strings.TrimRight(ctx.Project.BaseURL, "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	f := &emit.DartFile{}
	f.Decl(func(e *emit.Emitter) {
		e.Block("class AppConfig")
		e.Line("static const String baseUrl = %s;", quote(base))
		e.Blank()
		e.Open("static const Map<String, String> headers = {")
		e.Line("'Content-Type': 'application/json',")
		e.Line("'Accept': 'application/json',")
		e.Close("};")
		e.Blank()
		e.Line("static Uri uri(String path) => Uri.parse('$baseUrl/$path');")
		e.EndBlock()
	})
	return []registry.Artifact{{Path: "lib/config/app_config.dart", Content: f.Render()}}, nil
}

type routesBuilder struct{}

func (routesBuilder) Role() string { return RoleRoutes }

func (routesBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	classes := ctx.Model.Classes()
	f := &emit.DartFile{}
	f.Import("package:flutter/material.dart", "../screens/dashboard_screen.dart")
	for _, c := range classes {
		f.Import("../screens/" + fileStem(c) + "_list_screen.dart")
	}
	f.Decl(func(e *emit.Emitter) {
		e.Block("class AppRoutes")
		e.Line("static const String dashboard = '/';")
		for _, c := range classes {
			e.Line("static const String %s = %s;", routeName(c), quote("/"+naming.TableName(c.Name)))
		}
		e.Blank()
		e.Open("static Map<String, WidgetBuilder> get routes => {")
		e.Line("dashboard: (context) => const DashboardScreen(),")
		for _, c := range classes {
			e.Line("%s: (context) => const %sListScreen(),", routeName(c), className(c))
		}
		e.Close("};")
		e.EndBlock()
	})
	return []registry.Artifact{{Path: "lib/navigation/app_routes.dart", Content: f.Render()}}, nil
}

type dashboardBuilder struct{}

func (dashboardBuilder) Role() string { return RoleDashboard }

func (dashboardBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	f := &emit.DartFile{}
	f.Import("package:flutter/material.dart", "../navigation/app_routes.dart")
	f.Decl(func(e *emit.Emitter) {
		e.Block("class DashboardScreen extends StatelessWidget")
		e.Line("const DashboardScreen({super.key});")
		e.Blank()
		e.Line("@override")
		e.Block("Widget build(BuildContext context)")
		e.Open("return Scaffold(")
		e.Line("appBar: AppBar(title: const Text(%s)),", quote(dashboardTitle(ctx)))
		e.Open("body: ListView(")
		e.Line("padding: const EdgeInsets.all(8),")
		e.Open("children: [")
		for _, c := range ctx.Model.Classes() {
			e.Open("Card(")
			e.Open("child: ListTile(")
			e.Line("leading: const Icon(Icons.list),")
			e.Line("title: const Text(%s),", quote(displayName(c)))
			e.Line("trailing: const Icon(Icons.chevron_right),")
			e.Line("onTap: () => Navigator.pushNamed(context, AppRoutes.%s),", routeName(c))
			e.Close("),")
			e.Close("),")
		}
		e.Close("],")
		e.Close("),")
		e.Close(");")
		e.EndBlock()
		e.EndBlock()
	})
	return []registry.Artifact{{Path: "lib/screens/dashboard_screen.dart", Content: f.Render()}}, nil
}

type widgetTestBuilder struct{}

func (widgetTestBuilder) Role() string { return RoleWidgetTest }

func (widgetTestBuilder) Build(ctx *registry.Context) ([]registry.Artifact, error) {
	f := &emit.DartFile{}
	f.Import("package:flutter_test/flutter_test.dart",
		"package:"+naming.DartPackage(ctx.Project.Name)+"/app.dart")
	f.Decl(func(e *emit.Emitter) {
		e.Block("void main()")
		e.Open("testWidgets('App starts on the dashboard', (WidgetTester tester) async {")
		e.Line("await tester.pumpWidget(const %s());", appClass(ctx))
		e.Blank()
		e.Line("expect(find.text(%s), findsOneWidget);", quote(dashboardTitle(ctx)))
		e.Close("});")
		e.EndBlock()
	})
	return []registry.Artifact{{Path: "test/widget_test.dart", Content: f.Render()}}, nil
}
