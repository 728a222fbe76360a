package main

import (
	"github.com/ajranjith/api-spec-lint/internal/reconcile"
	"github.com/ajranjith/api-spec-lint/internal/support"
)

type sarifDocument struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}
type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}
type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}
type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
type sarifResult struct {
	RuleID  string          `json:"ruleId"`
	Level   string          `json:"level"`
	Message sarifMessage    `json:"message"`
	Locs    []sarifLocation `json:"locations,omitempty"`
}
type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}
type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}
type sarifArtifact struct {
	URI string `json:"uri"`
}
type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func sarifRuleID(kind reconcile.Kind) string {
	switch kind {
	case reconcile.ExtraInCode:
		return "APILINT001"
	case reconcile.MissingRoute:
		return "APILINT002"
	}
	return "APILINT000"
}

func writeSARIF(path string, verdict reconcile.Verdict) error {
	results := []sarifResult{}
	for _, m := range verdict.Mismatches {
		text := ""
		switch m.Kind {
		case reconcile.ExtraInCode:
			text = "parameter \"" + m.Param + "\" of route " + m.Route + " is declared in code but absent from the spec"
		case reconcile.MissingRoute:
			text = "body-bearing route " + m.Route + " has no spec entry"
		}
		r := sarifResult{
			RuleID:  sarifRuleID(m.Kind),
			Level:   "error",
			Message: sarifMessage{Text: text},
		}
		if m.File != "" {
			loc := sarifLocation{PhysicalLocation: sarifPhysical{ArtifactLocation: sarifArtifact{URI: m.File}}}
			if m.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: m.Line}
			}
			r.Locs = append(r.Locs, loc)
		}
		results = append(results, r)
	}

	doc := sarifDocument{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "api-spec-lint", Version: Version}},
			Results: results,
		}},
	}
	return support.WriteJSONAtomic(path, doc)
}
