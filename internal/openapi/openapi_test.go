package openapi

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ajranjith/api-spec-lint/internal/routemap"
)

const userSpecJSON = `{
  "openapi": "3.0.0",
  "paths": {
    "/user": {
      "post": {
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "username": {"type": "string"},
                  "email": {"type": "string"}
                }
              }
            }
          }
        }
      }
    },
    "/user/{user_id}": {
      "get": {},
      "parameters": [{"name": "user_id", "in": "path"}]
    },
    "/order/{order_id}": {
      "post": {},
      "parameters": [
        {"name": "order_id", "in": "path"},
        {"name": "X-Trace", "in": "header"}
      ]
    }
  }
}`

func mustParse(t *testing.T, filename, data string) *Document {
	t.Helper()
	doc, err := Parse(filename, []byte(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestExtractBodyProperties(t *testing.T) {
	doc := mustParse(t, "spec.json", userSpecJSON)
	table := Extract(doc, []string{"post"}, "application/json")

	e, ok := table.Get("/user")
	if !ok {
		t.Fatal("missing /user entry")
	}
	if got := routemap.SortedNames(e.Params); !reflect.DeepEqual(got, []string{"email", "username"}) {
		t.Fatalf("unexpected /user params: %v", got)
	}
	if e.Verb != "POST" {
		t.Fatalf("unexpected verb: %q", e.Verb)
	}
}

func TestExtractOmitsPathsWithoutMethod(t *testing.T) {
	doc := mustParse(t, "spec.json", userSpecJSON)
	table := Extract(doc, []string{"post"}, "application/json")
	if _, ok := table.Get("/user/{user_id}"); ok {
		t.Fatal("GET-only path must be omitted from a post-method table")
	}
}

func TestExtractPathParameters(t *testing.T) {
	doc := mustParse(t, "spec.json", userSpecJSON)
	table := Extract(doc, []string{"post"}, "application/json")

	e, ok := table.Get("/order/{order_id}")
	if !ok {
		t.Fatal("missing /order entry")
	}
	// in:path parameter unioned in; in:header ignored. No request body means
	// no body contribution, not a failure.
	if got := routemap.SortedNames(e.Params); !reflect.DeepEqual(got, []string{"order_id"}) {
		t.Fatalf("unexpected params: %v", got)
	}
	if _, ok := e.PathParams["order_id"]; !ok {
		t.Fatalf("order_id not tagged as path param: %+v", e.PathParams)
	}
}

func TestExtractToleratesSchemalessBody(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{name: "no_request_body", doc: `{"paths": {"/a": {"post": {}}}}`},
		{name: "no_content", doc: `{"paths": {"/a": {"post": {"requestBody": {}}}}}`},
		{name: "other_media_type", doc: `{"paths": {"/a": {"post": {"requestBody": {"content": {"text/plain": {}}}}}}}`},
		{name: "no_properties", doc: `{"paths": {"/a": {"post": {"requestBody": {"content": {"application/json": {"schema": {"type": "string"}}}}}}}}`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			doc := mustParse(t, "spec.json", tc.doc)
			table := Extract(doc, []string{"post"}, "application/json")
			e, ok := table.Get("/a")
			if !ok {
				t.Fatal("path missing from table")
			}
			if len(e.Params) != 0 {
				t.Fatalf("expected empty param set, got %v", e.Params)
			}
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse("spec.json", []byte(`{"paths": `))
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParseRejectsMissingPathTable(t *testing.T) {
	_, err := Parse("spec.json", []byte(`{"openapi": "3.0.0"}`))
	if err == nil {
		t.Fatal("expected error for missing paths table")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParseYAML(t *testing.T) {
	spec := `
openapi: "3.0.0"
paths:
  /user:
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                username: {type: string}
`
	doc := mustParse(t, "openapi.yaml", spec)
	table := Extract(doc, []string{"post"}, "application/json")
	e, ok := table.Get("/user")
	if !ok {
		t.Fatal("missing /user entry")
	}
	if got := routemap.SortedNames(e.Params); !reflect.DeepEqual(got, []string{"username"}) {
		t.Fatalf("unexpected params: %v", got)
	}
}

func TestExtractEmptyPathTable(t *testing.T) {
	doc := mustParse(t, "spec.json", `{"paths": {}}`)
	table := Extract(doc, []string{"post"}, "application/json")
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %v", table.Keys())
	}
}
