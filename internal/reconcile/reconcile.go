// Package reconcile compares the code-declared route surface against the
// documented one and classifies the divergences.
package reconcile

import "github.com/ajranjith/api-spec-lint/internal/routemap"

// Kind classifies one mismatch.
type Kind string

const (
	// ExtraInCode marks a parameter the code declares but the spec does not.
	ExtraInCode Kind = "extra-in-code"
	// MissingRoute marks a body-bearing code route with no spec entry.
	MissingRoute Kind = "missing-route"
)

// Mismatch is one finding. Param is empty for MissingRoute.
type Mismatch struct {
	Kind    Kind   `json:"kind"`
	Route   string `json:"route"`
	Param   string `json:"param,omitempty"`
	Verb    string `json:"verb,omitempty"`
	Handler string `json:"handler,omitempty"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// Verdict is the aggregate result of one comparison.
type Verdict struct {
	Pass       bool       `json:"pass"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Policy controls which divergences count as findings.
type Policy struct {
	// FlagUndocumented reports code routes with a body-bearing verb that
	// have no spec entry at all.
	FlagUndocumented bool
	// BodyVerbs are the verbs treated as body-bearing.
	BodyVerbs []string
}

func DefaultPolicy() Policy {
	return Policy{
		FlagUndocumented: true,
		BodyVerbs:        []string{"POST", "PUT", "PATCH"},
	}
}

// Reconcile walks the code table in insertion order and reports, per route,
// parameters declared in code but absent from the spec. Path parameters are
// excluded via the tagged PathParams subset, never by key-substring
// guessing. Spec-only routes are not examined. Pure and deterministic:
// identical tables always yield an identical verdict.
func Reconcile(code, spec *routemap.Table, pol Policy) Verdict {
	bodyVerbs := map[string]bool{}
	for _, v := range pol.BodyVerbs {
		bodyVerbs[v] = true
	}

	var mismatches []Mismatch
	for _, key := range code.Keys() {
		entry, _ := code.Get(key)

		specEntry, documented := spec.Get(key)
		if !documented {
			if pol.FlagUndocumented && bodyVerbs[entry.Verb] {
				mismatches = append(mismatches, Mismatch{
					Kind:    MissingRoute,
					Route:   key,
					Verb:    entry.Verb,
					Handler: entry.Handler,
					File:    entry.File,
					Line:    entry.Line,
				})
			}
			continue
		}

		for _, name := range routemap.SortedNames(entry.Params) {
			if _, ok := specEntry.Params[name]; ok {
				continue
			}
			if _, ok := entry.PathParams[name]; ok {
				continue
			}
			mismatches = append(mismatches, Mismatch{
				Kind:    ExtraInCode,
				Route:   key,
				Param:   name,
				Verb:    entry.Verb,
				Handler: entry.Handler,
				File:    entry.File,
				Line:    entry.Line,
			})
		}
	}

	return Verdict{Pass: len(mismatches) == 0, Mismatches: mismatches}
}
