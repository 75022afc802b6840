package emit

import (
	"sort"
	"strings"
)

// DartFile is a Dart library: imports followed by top-level declarations.
type DartFile struct {
	Imports []string
	Decls   []func(e *Emitter)
}

// Import adds import URIs, ignoring duplicates. "package:http/http.dart as http"
// renders a prefixed import.
func (f *DartFile) Import(uris ...string) {
	for _, u := range uris {
		dup := false
		for _, have := range f.Imports {
			if have == u {
				dup = true
				break
			}
		}
		if !dup {
			f.Imports = append(f.Imports, u)
		}
	}
}

// Decl appends a top-level declaration.
func (f *DartFile) Decl(fn func(e *Emitter)) {
	f.Decls = append(f.Decls, fn)
}

// Render formats the file with dart:, package: and relative imports in separate sorted groups.
func (f *DartFile) Render() []byte {
	var sdk, pkg, rel []string
	for _, u := range f.Imports {
		switch {
		case strings.HasPrefix(u, "dart:"):
			sdk = append(sdk, u)
		case strings.HasPrefix(u, "package:"):
			pkg = append(pkg, u)
		default:
			rel = append(rel, u)
		}
	}
	e := NewDart()
	for _, group := range [][]string{sdk, pkg, rel} {
		if len(group) == 0 {
			continue
		}
		sort.Strings(group)
		for _, u := range group {
			if uri, alias, ok := strings.Cut(u, " as "); ok {
				e.Line("import '%s' as %s;", uri, alias)
				continue
			}
			e.Line("import '%s';", u)
		}
		e.Blank()
	}
	for i, d := range f.Decls {
		if i > 0 {
			e.Blank()
		}
		d(e)
	}
	return e.Bytes()
}
