// Package routes maps matched request routes to their "<namespace>:<name>"
// route names and back to URL paths.
package routes

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// Table is built once at startup and read concurrently afterwards.
type Table struct {
	names map[string]string // "METHOD path" -> name
	paths map[string]string // name -> path
}

func NewTable() *Table {
	return &Table{
		names: make(map[string]string),
		paths: make(map[string]string),
	}
}

// Add registers name for method and path. An empty name records a known but
// unnamed route. The first path registered for a name is the one Reverse
// returns.
func (t *Table) Add(method, path, name string) {
	t.names[method+" "+path] = name
	if name == "" {
		return
	}
	if _, ok := t.paths[name]; !ok {
		t.paths[name] = path
	}
}

// Load registers every Echo route. Echo gives unnamed routes their handler's
// function name; only names of the form "<namespace>:<name>" are kept, the
// rest are recorded as unnamed.
func (t *Table) Load(rs []*echo.Route) {
	for _, r := range rs {
		name := r.Name
		if !IsRouteName(name) {
			name = ""
		}
		t.Add(r.Method, r.Path, name)
	}
}

// Resolve returns the route name registered for method and the matched route
// path (echo.Context.Path()). ok is false when the route is unknown; a known
// unnamed route yields ("", true).
func (t *Table) Resolve(method, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	name, ok := t.names[method+" "+path]
	return name, ok
}

// Reverse builds the path of name, substituting :params in order. An unknown
// name reverses to "/".
func (t *Table) Reverse(name string, params ...string) string {
	path, ok := t.paths[name]
	if !ok {
		return "/"
	}
	if len(params) == 0 {
		return path
	}

	segments := strings.Split(path, "/")
	i := 0
	for j, seg := range segments {
		if strings.HasPrefix(seg, ":") && i < len(params) {
			segments[j] = params[i]
			i++
		}
	}
	return strings.Join(segments, "/")
}

// IsRouteName reports whether s looks like "<namespace>:<name>".
func IsRouteName(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 || i == len(s)-1 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r == '_', r == ':':
		default:
			return false
		}
	}
	return strings.Count(s, ":") == 1
}
