package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ajranjith/api-spec-lint/internal/codescan"
	"github.com/ajranjith/api-spec-lint/internal/openapi"
	"github.com/ajranjith/api-spec-lint/internal/support"
)

type doctorReport struct {
	GeneratedAtUtc string      `json:"generatedAtUtc"`
	Code           doctorInput `json:"code"`
	Spec           doctorInput `json:"spec"`
	Status         string      `json:"status"`
	Reasons        []string    `json:"reasons,omitempty"`
}

type doctorInput struct {
	Path   string `json:"path"`
	Found  bool   `json:"found"`
	Parses bool   `json:"parses"`
	Routes int    `json:"routes"`
	Error  string `json:"error,omitempty"`
}

func buildDoctorReport(codePath, specPath string) doctorReport {
	rep := doctorReport{
		GeneratedAtUtc: time.Now().UTC().Format(time.RFC3339),
		Code:           doctorInput{Path: codePath},
		Spec:           doctorInput{Path: specPath},
		Status:         "READY",
	}

	if _, err := os.Stat(codePath); err == nil {
		rep.Code.Found = true
		table, _, err := codescan.ExtractFile(codePath, codescan.Options{
			RouteMethods: config.Scan.RouteMethods,
		})
		if err != nil {
			rep.Code.Error = err.Error()
			rep.Reasons = append(rep.Reasons, fmt.Sprintf("code file does not parse: %v", err))
		} else {
			rep.Code.Parses = true
			rep.Code.Routes = table.Len()
		}
	} else {
		rep.Code.Error = err.Error()
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("code file not found: %s", codePath))
	}

	if _, err := os.Stat(specPath); err == nil {
		rep.Spec.Found = true
		doc, err := openapi.Load(specPath)
		if err != nil {
			rep.Spec.Error = err.Error()
			rep.Reasons = append(rep.Reasons, fmt.Sprintf("spec document rejected: %v", err))
		} else {
			rep.Spec.Parses = true
			rep.Spec.Routes = openapi.Extract(doc, config.Scan.SpecMethods, config.Scan.MediaType).Len()
		}
	} else {
		rep.Spec.Error = err.Error()
		rep.Reasons = append(rep.Reasons, fmt.Sprintf("spec file not found: %s", specPath))
	}

	if len(rep.Reasons) > 0 {
		rep.Status = "NOT_READY"
	}
	return rep
}

// runDoctor checks prerequisites without gating on findings.
func runDoctor(codePath, specPath string) int {
	rep := buildDoctorReport(codePath, specPath)

	fmt.Printf("%s doctor\n", config.App.Name)
	fmt.Printf("  code:  %s (found=%v parses=%v routes=%d)\n",
		rep.Code.Path, rep.Code.Found, rep.Code.Parses, rep.Code.Routes)
	fmt.Printf("  spec:  %s (found=%v parses=%v routes=%d)\n",
		rep.Spec.Path, rep.Spec.Found, rep.Spec.Parses, rep.Spec.Routes)
	for _, r := range rep.Reasons {
		fmt.Printf("  - %s\n", r)
	}
	fmt.Printf("Status: %s\n", rep.Status)

	path := filepath.Join(config.Paths.OutputDir, "doctor.json")
	if err := support.WriteJSONAtomic(path, rep); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: failed to write %s: %v\n", path, err)
	}

	if rep.Status != "READY" {
		return 1
	}
	return 0
}
