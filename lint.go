package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajranjith/api-spec-lint/internal/codescan"
	"github.com/ajranjith/api-spec-lint/internal/openapi"
	"github.com/ajranjith/api-spec-lint/internal/reconcile"
	"github.com/ajranjith/api-spec-lint/internal/routemap"
	"github.com/ajranjith/api-spec-lint/internal/support"
)

// LintPolicy represents <output-dir>/policy.yml overrides.
// Pointer fields distinguish "unset" from zero values.
type LintPolicy struct {
	FlagUndocumented *bool    `json:"flag_undocumented,omitempty" yaml:"flag_undocumented"`
	BodyVerbs        []string `json:"body_verbs,omitempty" yaml:"body_verbs"`
}

// lintReport is the report.json artifact for one run.
type lintReport struct {
	GeneratedAtUtc string                `json:"generatedAtUtc"`
	CodeFile       string                `json:"codeFile"`
	SpecFile       string                `json:"specFile"`
	Pass           bool                  `json:"pass"`
	CodeRoutes     int                   `json:"codeRoutes"`
	SpecRoutes     int                   `json:"specRoutes"`
	Mismatches     []reconcile.Mismatch  `json:"mismatches,omitempty"`
	Unresolved     []codescan.Unresolved `json:"unresolved,omitempty"`
}

// loadLintPolicy reads <output-dir>/policy.yml. A missing file yields an
// empty policy, not an error.
func loadLintPolicy(outputDir string) (*LintPolicy, error) {
	path := filepath.Join(outputDir, "policy.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LintPolicy{}, nil
		}
		return nil, fmt.Errorf("failed to read policy %s: %w", path, err)
	}
	pol := &LintPolicy{}
	if err := yaml.Unmarshal(support.StripBOM(data), pol); err != nil {
		return nil, fmt.Errorf("failed to parse policy %s: %w", path, err)
	}
	return pol, nil
}

// effectivePolicy applies config defaults, then policy.yml overrides.
func effectivePolicy(pol *LintPolicy) reconcile.Policy {
	out := reconcile.DefaultPolicy()
	out.BodyVerbs = config.Scan.BodyVerbs
	if pol.FlagUndocumented != nil {
		out.FlagUndocumented = *pol.FlagUndocumented
	}
	if len(pol.BodyVerbs) > 0 {
		out.BodyVerbs = pol.BodyVerbs
	}
	return out
}

// runLint performs one full comparison run and returns the process exit
// code: 0 on full consistency, 1 on any mismatch or input failure.
func runLint(codePath, specPath string) int {
	outputDir := config.Paths.OutputDir

	fmt.Printf("%s\n", config.App.Name)
	fmt.Printf("  code: %s\n", codePath)
	fmt.Printf("  spec: %s\n", specPath)
	fmt.Println("--------------------------------------------------")

	pol, err := loadLintPolicy(outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	// Extraction failures are fatal; a broken input must never produce a
	// partial verdict.
	codeTable, unresolved, err := codescan.ExtractFile(codePath, codescan.Options{
		RouteMethods: config.Scan.RouteMethods,
	})
	if err != nil {
		var perr *codescan.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintf(os.Stderr, "ERROR: code file is not valid Go: %v\n", perr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		return 1
	}

	doc, err := openapi.Load(specPath)
	if err != nil {
		var perr *openapi.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintf(os.Stderr, "ERROR: spec document rejected: %v\n", perr.Err)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		return 1
	}
	specTable := openapi.Extract(doc, config.Scan.SpecMethods, config.Scan.MediaType)

	for _, u := range unresolved {
		fmt.Fprintf(os.Stderr, "WARNING: %s:%d: %s; route skipped\n", u.File, u.Line, u.Reason)
	}

	verdict := reconcile.Reconcile(codeTable, specTable, effectivePolicy(pol))
	printVerdict(verdict, codeTable, specTable)

	report := lintReport{
		GeneratedAtUtc: time.Now().UTC().Format(time.RFC3339),
		CodeFile:       codePath,
		SpecFile:       specPath,
		Pass:           verdict.Pass,
		CodeRoutes:     codeTable.Len(),
		SpecRoutes:     specTable.Len(),
		Mismatches:     verdict.Mismatches,
		Unresolved:     unresolved,
	}
	writeArtifacts(outputDir, report, verdict)

	if verdict.Pass {
		return 0
	}
	return 1
}

func printVerdict(verdict reconcile.Verdict, code, spec *routemap.Table) {
	for _, m := range verdict.Mismatches {
		where := ""
		if m.Handler != "" {
			where = fmt.Sprintf(" (%s %s:%d)", m.Handler, m.File, m.Line)
		}
		switch m.Kind {
		case reconcile.ExtraInCode:
			fmt.Printf("MISMATCH %s %s %s: parameter %q declared in code but absent from spec%s\n",
				m.Kind, m.Verb, m.Route, m.Param, where)
		case reconcile.MissingRoute:
			fmt.Printf("MISMATCH %s %s %s: body-bearing route has no spec entry%s\n",
				m.Kind, m.Verb, m.Route, where)
		}
	}
	fmt.Println("--------------------------------------------------")
	if verdict.Pass {
		fmt.Printf("PASS: %d code routes consistent with spec (%d documented)\n",
			code.Len(), spec.Len())
	} else {
		fmt.Printf("FAIL: %d mismatches across %d code routes (%d documented)\n",
			len(verdict.Mismatches), code.Len(), spec.Len())
	}
}

// writeArtifacts emits the machine-readable outputs. Artifact failures are
// surfaced as warnings; they never change the verdict.
func writeArtifacts(outputDir string, report lintReport, verdict reconcile.Verdict) {
	if config.Reports.JSON.Enabled {
		path := filepath.Join(outputDir, config.Reports.JSON.Path)
		if err := support.WriteJSONAtomic(path, report); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: failed to write %s: %v\n", path, err)
		}
	}
	if config.Reports.SARIF.Enabled {
		path := filepath.Join(outputDir, config.Reports.SARIF.Path)
		if err := writeSARIF(path, verdict); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: failed to write %s: %v\n", path, err)
		}
	}
	if config.Reports.Audit {
		result := "PASS"
		if !verdict.Pass {
			result = "FAIL"
		}
		err := support.AppendAudit(outputDir, support.AuditEntry{
			Mode:       "lint",
			CodeFile:   report.CodeFile,
			SpecFile:   report.SpecFile,
			Pass:       verdict.Pass,
			Mismatches: len(verdict.Mismatches),
			Unresolved: len(report.Unresolved),
			Result:     result,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: failed to append audit log: %v\n", err)
		}
	}
}
