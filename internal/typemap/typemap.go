// Package typemap translates diagram type tokens into native types of the target stacks.
package typemap

import (
	"strings"
	"sync"
)

// Stack identifies a target stack.
type Stack string

const (
	Server Stack = "server"
	Client Stack = "client"
)

// Fallback is the native type used for tokens with no mapping, on both stacks.
const Fallback = "String"

var serverTable = map[string]string{
	"string":        "String",
	"integer":       "Integer",
	"int":           "Integer",
	"long":          "Long",
	"double":        "Double",
	"float":         "Float",
	"boolean":       "Boolean",
	"bool":          "Boolean",
	"localdate":     "LocalDate",
	"date":          "LocalDate",
	"localdatetime": "LocalDateTime",
	"datetime":      "LocalDateTime",
}

var clientTable = map[string]string{
	"string":        "String",
	"integer":       "int",
	"int":           "int",
	"long":          "int",
	"double":        "double",
	"float":         "double",
	"boolean":       "bool",
	"bool":          "bool",
	"localdate":     "DateTime",
	"date":          "DateTime",
	"localdatetime": "DateTime",
	"datetime":      "DateTime",
}

var javaImports = map[string]string{
	"LocalDate":     "java.time.LocalDate",
	"LocalDateTime": "java.time.LocalDateTime",
	"BigDecimal":    "java.math.BigDecimal",
}

// Mapper holds the per-stack lookup tables. Lookups are case-insensitive.
type Mapper struct {
	mu     sync.RWMutex
	tables map[Stack]map[string]string
}

// New returns a mapper seeded with the default tables.
func New() *Mapper {
	m := &Mapper{tables: map[Stack]map[string]string{
		Server: make(map[string]string, len(serverTable)),
		Client: make(map[string]string, len(clientTable)),
	}}
	for k, v := range serverTable {
		m.tables[Server][k] = v
	}
	for k, v := range clientTable {
		m.tables[Client][k] = v
	}
	return m
}

// Default is the mapper with the built-in tables only.
var Default = New()

func key(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}

// Override maps token to native on stack, replacing any built-in entry.
func (m *Mapper) Override(stack Stack, token, native string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[stack]
	if !ok {
		t = make(map[string]string)
		m.tables[stack] = t
	}
	t[key(token)] = native
}

// Map returns the native type for token on stack, or Fallback when unmapped.
func (m *Mapper) Map(token string, stack Stack) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if native, ok := m.tables[stack][key(token)]; ok {
		return native
	}
	return Fallback
}

// Known reports whether token has an explicit mapping on stack.
func (m *Mapper) Known(token string, stack Stack) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.tables[stack][key(token)]
	return ok
}

// Map translates token with the default tables.
func Map(token string, stack Stack) string {
	return Default.Map(token, stack)
}

// JavaImport returns the import needed for a server native type, if any. Fully
// qualified names need no import.
func JavaImport(native string) (string, bool) {
	imp, ok := javaImports[native]
	return imp, ok
}

// SimpleName returns the unqualified name of a native type: "java.math.BigDecimal" -> "BigDecimal".
func SimpleName(native string) string {
	if i := strings.LastIndex(native, "."); i >= 0 {
		return native[i+1:]
	}
	return native
}
