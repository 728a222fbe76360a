// Package openapi loads an OpenAPI-style document (JSON or YAML) and
// extracts the documented route surface.
package openapi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajranjith/api-spec-lint/internal/routemap"
	"github.com/ajranjith/api-spec-lint/internal/routepath"
	"github.com/ajranjith/api-spec-lint/internal/support"
)

// ParseError reports a spec document that could not be decoded or that lacks
// the top-level path table.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse spec %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is a simplified OpenAPI v3 model covering the parts this tool
// inspects. Inline schemas only; $ref is out of scope.
type Document struct {
	OpenAPI string              `json:"openapi,omitempty" yaml:"openapi"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

type PathItem struct {
	Get    *Operation `json:"get,omitempty" yaml:"get"`
	Post   *Operation `json:"post,omitempty" yaml:"post"`
	Put    *Operation `json:"put,omitempty" yaml:"put"`
	Patch  *Operation `json:"patch,omitempty" yaml:"patch"`
	Delete *Operation `json:"delete,omitempty" yaml:"delete"`
	// Parameters declared at the path-item level apply to every method.
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters"`
}

// Operation returns the operation for an HTTP method name, nil when absent.
func (p PathItem) Operation(method string) *Operation {
	switch strings.ToLower(method) {
	case "get":
		return p.Get
	case "post":
		return p.Post
	case "put":
		return p.Put
	case "patch":
		return p.Patch
	case "delete":
		return p.Delete
	}
	return nil
}

type Operation struct {
	OperationID string       `json:"operationId,omitempty" yaml:"operationId"`
	Parameters  []Parameter  `json:"parameters,omitempty" yaml:"parameters"`
	RequestBody *RequestBody `json:"requestBody,omitempty" yaml:"requestBody"`
}

type Parameter struct {
	Name string `json:"name" yaml:"name"`
	In   string `json:"in" yaml:"in"`
}

type RequestBody struct {
	Content map[string]MediaType `json:"content,omitempty" yaml:"content"`
}

type MediaType struct {
	Schema *Schema `json:"schema,omitempty" yaml:"schema"`
}

type Schema struct {
	Type       string             `json:"type,omitempty" yaml:"type"`
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties"`
}

// Load reads and decodes a spec document. Files ending in .json decode as
// JSON, everything else as YAML (JSON is a YAML subset, so a bare .txt spec
// in JSON still loads).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes data into a Document and validates that the path table is
// present.
func Parse(filename string, data []byte) (*Document, error) {
	data = support.StripBOM(data)
	var doc Document
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{File: filename, Err: err}
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{File: filename, Err: err}
		}
	}
	if doc.Paths == nil {
		return nil, &ParseError{File: filename, Err: fmt.Errorf("document has no paths table")}
	}
	return &doc, nil
}

// Extract builds the documented route table. For each path, the first
// configured method present on the path item decides the entry; paths
// carrying none of the methods are omitted. The parameter set is the union
// of the request-body schema's property names under mediaType and the names
// of path-item parameters with in "path". A missing body, content entry,
// schema or properties map contributes the empty set.
func Extract(doc *Document, methods []string, mediaType string) *routemap.Table {
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	table := routemap.New()
	for _, path := range paths {
		item := doc.Paths[path]
		var op *Operation
		verb := ""
		for _, m := range methods {
			if found := item.Operation(m); found != nil {
				op = found
				verb = strings.ToUpper(m)
				break
			}
		}
		if op == nil {
			continue
		}

		params := map[string]struct{}{}
		for name := range bodyProperties(op, mediaType) {
			params[name] = struct{}{}
		}
		for _, p := range item.Parameters {
			if p.In == "path" && p.Name != "" {
				params[p.Name] = struct{}{}
			}
		}

		key, pathParams := routepath.Split(path)
		table.Add(key, routemap.Entry{
			Params:     params,
			PathParams: routemap.ParamSet(pathParams...),
			Verb:       verb,
		})
	}
	return table
}

func bodyProperties(op *Operation, mediaType string) map[string]*Schema {
	if op.RequestBody == nil {
		return nil
	}
	media, ok := op.RequestBody.Content[mediaType]
	if !ok || media.Schema == nil {
		return nil
	}
	return media.Schema.Properties
}
