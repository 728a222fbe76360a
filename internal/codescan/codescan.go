// Package codescan extracts the declared route surface from a Go source
// file.
//
// A route is declared by a registration call on a router value, e.g.
//
//	app.POST("/user", createUser)
//	app.Route("/user/<int:user_id>", "GET", getUser)
//
// The method name must be one of the configured route methods, the first
// argument must be a static string literal (the path template) and the last
// argument must name a function declared in the same file. That function's
// formal parameter names are the route's declared parameter set.
package codescan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"

	"github.com/ajranjith/api-spec-lint/internal/routemap"
	"github.com/ajranjith/api-spec-lint/internal/routepath"
)

// ParseError reports a source file that is not valid Go.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Unresolved reports a registration that was recognized but could not be
// resolved to a static route. Such routes are skipped, never mis-keyed.
type Unresolved struct {
	File   string
	Line   int
	Method string
	Reason string
}

// Options configures decoration matching.
type Options struct {
	// RouteMethods are the method names treated as routing registrations.
	RouteMethods []string
}

// DefaultOptions matches the common router surfaces.
func DefaultOptions() Options {
	return Options{
		RouteMethods: []string{
			"Route", "Handle", "HandleFunc",
			"GET", "POST", "PUT", "PATCH", "DELETE",
		},
	}
}

var httpVerbs = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

// registration is one recognized routing call, in source order.
type registration struct {
	handler string
	rawPath string
	verb    string
	line    int
}

// ExtractFile reads and scans one source file.
func ExtractFile(path string, opts Options) (*routemap.Table, []Unresolved, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read code file %s: %w", path, err)
	}
	return Extract(path, src, opts)
}

// Extract scans Go source and returns the route table plus any registrations
// that could not be statically resolved.
func Extract(filename string, src []byte, opts Options) (*routemap.Table, []Unresolved, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, nil, &ParseError{File: filename, Err: err}
	}

	methods := map[string]bool{}
	for _, m := range opts.RouteMethods {
		methods[m] = true
	}

	// Pass 1: every function declaration, in source order. Handlers may be
	// declared after the call that registers them.
	var declOrder []*ast.FuncDecl
	decls := map[string]*ast.FuncDecl{}
	ast.Inspect(file, func(n ast.Node) bool {
		fn, ok := n.(*ast.FuncDecl)
		if !ok {
			return true
		}
		declOrder = append(declOrder, fn)
		if _, exists := decls[fn.Name.Name]; !exists {
			decls[fn.Name.Name] = fn
		}
		return true
	})

	// Pass 2: registration calls, in source order, nested bodies included.
	var regs []registration
	var unresolved []Unresolved
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !methods[sel.Sel.Name] {
			return true
		}
		line := fset.Position(call.Pos()).Line
		if len(call.Args) < 2 {
			unresolved = append(unresolved, Unresolved{
				File: filename, Line: line, Method: sel.Sel.Name,
				Reason: "registration call has no handler argument",
			})
			return true
		}

		rawPath, ok := stringLiteral(call.Args[0])
		if !ok {
			unresolved = append(unresolved, Unresolved{
				File: filename, Line: line, Method: sel.Sel.Name,
				Reason: "route path is not a static string literal",
			})
			return true
		}

		handlerName := ""
		switch h := call.Args[len(call.Args)-1].(type) {
		case *ast.Ident:
			handlerName = h.Name
		case *ast.SelectorExpr:
			// Method handler, e.g. s.createWidget.
			handlerName = h.Sel.Name
		}
		if handlerName == "" || decls[handlerName] == nil {
			unresolved = append(unresolved, Unresolved{
				File: filename, Line: line, Method: sel.Sel.Name,
				Reason: "handler is not a function declared in this file",
			})
			return true
		}

		verb := ""
		if httpVerbs[sel.Sel.Name] {
			verb = sel.Sel.Name
		} else if len(call.Args) >= 3 {
			if v, ok := stringLiteral(call.Args[1]); ok && httpVerbs[strings.ToUpper(v)] {
				verb = strings.ToUpper(v)
			}
		}

		regs = append(regs, registration{
			handler: handlerName,
			rawPath: rawPath,
			verb:    verb,
			line:    line,
		})
		return true
	})

	// Pass 3: visit declarations in order; the first registration naming a
	// function wins, later ones are ignored.
	table := routemap.New()
	for _, fn := range declOrder {
		reg, ok := firstRegistration(regs, fn.Name.Name)
		if !ok {
			continue
		}
		key, pathParams := routepath.Split(reg.rawPath)
		table.Add(key, routemap.Entry{
			Params:     paramNames(fn),
			PathParams: routemap.ParamSet(pathParams...),
			Verb:       reg.verb,
			Handler:    fn.Name.Name,
			File:       filename,
			Line:       fset.Position(fn.Pos()).Line,
		})
	}

	return table, unresolved, nil
}

func firstRegistration(regs []registration, handler string) (registration, bool) {
	for _, r := range regs {
		if r.handler == handler {
			return r, true
		}
	}
	return registration{}, false
}

// paramNames collects the formal parameter names of fn. The receiver is not
// part of Type.Params and is therefore excluded by construction.
func paramNames(fn *ast.FuncDecl) map[string]struct{} {
	set := map[string]struct{}{}
	if fn.Type.Params == nil {
		return set
	}
	for _, field := range fn.Type.Params.List {
		for _, name := range field.Names {
			if name.Name == "_" {
				continue
			}
			set[name.Name] = struct{}{}
		}
	}
	return set
}

func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}
