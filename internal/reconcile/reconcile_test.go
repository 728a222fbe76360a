package reconcile

import (
	"reflect"
	"testing"

	"github.com/ajranjith/api-spec-lint/internal/routemap"
)

func codeTable(entries ...struct {
	key string
	e   routemap.Entry
}) *routemap.Table {
	t := routemap.New()
	for _, it := range entries {
		t.Add(it.key, it.e)
	}
	return t
}

func entry(key string, e routemap.Entry) struct {
	key string
	e   routemap.Entry
} {
	return struct {
		key string
		e   routemap.Entry
	}{key, e}
}

func TestReconcileExtraInCode(t *testing.T) {
	code := codeTable(entry("/user", routemap.Entry{
		Params:  routemap.ParamSet("username", "email", "password"),
		Verb:    "POST",
		Handler: "createUser",
	}))
	spec := codeTable(entry("/user", routemap.Entry{
		Params: routemap.ParamSet("username", "email"),
		Verb:   "POST",
	}))

	v := Reconcile(code, spec, DefaultPolicy())
	if v.Pass {
		t.Fatal("expected failure")
	}
	if len(v.Mismatches) != 1 {
		t.Fatalf("expected exactly one mismatch, got %+v", v.Mismatches)
	}
	m := v.Mismatches[0]
	if m.Kind != ExtraInCode || m.Route != "/user" || m.Param != "password" {
		t.Fatalf("unexpected mismatch: %+v", m)
	}
}

func TestReconcileExactMatchPasses(t *testing.T) {
	code := codeTable(entry("/user", routemap.Entry{
		Params: routemap.ParamSet("username", "email"),
		Verb:   "POST",
	}))
	spec := codeTable(entry("/user", routemap.Entry{
		Params: routemap.ParamSet("username", "email"),
		Verb:   "POST",
	}))

	v := Reconcile(code, spec, DefaultPolicy())
	if !v.Pass || len(v.Mismatches) != 0 {
		t.Fatalf("expected clean pass, got %+v", v)
	}
}

func TestReconcilePathParamsNotFlagged(t *testing.T) {
	code := codeTable(entry("/user/{user_id}", routemap.Entry{
		Params:     routemap.ParamSet("user_id", "nickname"),
		PathParams: routemap.ParamSet("user_id"),
		Verb:       "POST",
	}))
	spec := codeTable(entry("/user/{user_id}", routemap.Entry{
		Params: routemap.ParamSet("nickname"),
		Verb:   "POST",
	}))

	v := Reconcile(code, spec, DefaultPolicy())
	if !v.Pass {
		t.Fatalf("path param flagged despite tagged subset: %+v", v.Mismatches)
	}
}

func TestReconcileUndocumentedBodyRoute(t *testing.T) {
	code := codeTable(entry("/account", routemap.Entry{
		Params:  routemap.ParamSet("name"),
		Verb:    "POST",
		Handler: "createAccount",
	}))
	spec := routemap.New()

	v := Reconcile(code, spec, DefaultPolicy())
	if v.Pass || len(v.Mismatches) != 1 {
		t.Fatalf("expected one missing-route mismatch, got %+v", v)
	}
	if v.Mismatches[0].Kind != MissingRoute || v.Mismatches[0].Route != "/account" {
		t.Fatalf("unexpected mismatch: %+v", v.Mismatches[0])
	}
}

func TestReconcileUndocumentedGetTolerated(t *testing.T) {
	code := codeTable(entry("/health", routemap.Entry{
		Verb:    "GET",
		Handler: "healthCheck",
		Params:  routemap.ParamSet(),
	}))
	spec := routemap.New()

	v := Reconcile(code, spec, DefaultPolicy())
	if !v.Pass {
		t.Fatalf("GET-only route must be tolerated, got %+v", v.Mismatches)
	}
}

func TestReconcileUndocumentedUnknownVerbTolerated(t *testing.T) {
	code := codeTable(entry("/misc", routemap.Entry{
		Params:  routemap.ParamSet("x"),
		Handler: "misc",
	}))
	v := Reconcile(code, routemap.New(), DefaultPolicy())
	if !v.Pass {
		t.Fatalf("unknown-verb route must be tolerated, got %+v", v.Mismatches)
	}
}

func TestReconcilePolicyDisablesMissingRoute(t *testing.T) {
	code := codeTable(entry("/account", routemap.Entry{
		Params: routemap.ParamSet("name"),
		Verb:   "POST",
	}))
	pol := DefaultPolicy()
	pol.FlagUndocumented = false

	v := Reconcile(code, routemap.New(), pol)
	if !v.Pass {
		t.Fatalf("policy off but mismatch emitted: %+v", v.Mismatches)
	}
}

func TestReconcileSpecOnlyRoutesIgnored(t *testing.T) {
	spec := codeTable(entry("/only-in-spec", routemap.Entry{
		Params: routemap.ParamSet("a"),
		Verb:   "POST",
	}))
	v := Reconcile(routemap.New(), spec, DefaultPolicy())
	if !v.Pass || len(v.Mismatches) != 0 {
		t.Fatalf("spec-only routes must not be linted, got %+v", v)
	}
}

func TestReconcileDeterministic(t *testing.T) {
	build := func() (*routemap.Table, *routemap.Table) {
		code := codeTable(
			entry("/user", routemap.Entry{
				Params: routemap.ParamSet("c", "a", "b", "z", "y"),
				Verb:   "POST",
			}),
			entry("/account", routemap.Entry{
				Params: routemap.ParamSet("name"),
				Verb:   "POST",
			}),
		)
		spec := codeTable(entry("/user", routemap.Entry{
			Params: routemap.ParamSet("a"),
			Verb:   "POST",
		}))
		return code, spec
	}

	c1, s1 := build()
	c2, s2 := build()
	v1 := Reconcile(c1, s1, DefaultPolicy())
	v2 := Reconcile(c2, s2, DefaultPolicy())
	if !reflect.DeepEqual(v1, v2) {
		t.Fatalf("verdicts diverge:\n%+v\n%+v", v1, v2)
	}
	// Mismatches follow code-table insertion order, params sorted within a
	// route.
	var routes []string
	for _, m := range v1.Mismatches {
		routes = append(routes, m.Route)
	}
	if !reflect.DeepEqual(routes, []string{"/user", "/user", "/user", "/user", "/account"}) {
		t.Fatalf("unexpected route order: %v", routes)
	}
}
