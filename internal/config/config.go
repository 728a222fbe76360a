package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the compiled-in configuration with optional overrides.
type Config struct {
	SchemaVersion string        `json:"schemaVersion"`
	App           AppConfig     `json:"app"`
	Paths         PathsConfig   `json:"paths"`
	Scan          ScanConfig    `json:"scan"`
	Reports       ReportsConfig `json:"reports"`
}

type AppConfig struct {
	Name    string `json:"name"`
	Channel string `json:"channel"`
}

type PathsConfig struct {
	// OutputDir holds report artifacts, the audit log and the optional
	// policy.yml.
	OutputDir string `json:"outputDir"`
}

type ScanConfig struct {
	// RouteMethods are the router method names recognized as registrations.
	RouteMethods []string `json:"route_methods"`
	// BodyVerbs are the HTTP verbs whose routes must be documented.
	BodyVerbs []string `json:"body_verbs"`
	// SpecMethods are the OpenAPI methods of interest, in priority order.
	SpecMethods []string `json:"spec_methods"`
	// MediaType selects the request-body content entry to read.
	MediaType string `json:"media_type"`
}

type ReportsConfig struct {
	JSON  ReportConfig `json:"json"`
	SARIF ReportConfig `json:"sarif"`
	Audit bool         `json:"audit"`
}

type ReportConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type Flags struct {
	ConfigPath string
}

// Default returns the compiled-in defaults.
func Default() Config {
	return Config{
		SchemaVersion: "1.0",
		App: AppConfig{
			Name:    "API Spec Lint",
			Channel: "release",
		},
		Paths: PathsConfig{
			OutputDir: ".apilint",
		},
		Scan: ScanConfig{
			RouteMethods: []string{
				"Route", "Handle", "HandleFunc",
				"GET", "POST", "PUT", "PATCH", "DELETE",
			},
			BodyVerbs:   []string{"POST", "PUT", "PATCH"},
			SpecMethods: []string{"post"},
			MediaType:   "application/json",
		},
		Reports: ReportsConfig{
			JSON:  ReportConfig{Enabled: true, Path: "report.json"},
			SARIF: ReportConfig{Enabled: true, Path: "results.sarif"},
			Audit: true,
		},
	}
}

// Load reads a JSON config from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies defaults and optional overrides, then validates.
func Resolve(flags Flags) (Config, string, error) {
	cfg := Default()
	var cfgPath string

	if flags.ConfigPath != "" {
		loaded, err := Load(flags.ConfigPath)
		if err != nil {
			return Config{}, "", err
		}
		mergeConfigDefaults(&loaded, &cfg)
		cfg = loaded
		cfgPath = flags.ConfigPath
	}

	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = "1.0"
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, cfgPath, nil
}

// Validate checks the resolved configuration for consistency.
func (c *Config) Validate() error {
	if c.SchemaVersion != "1.0" {
		return fmt.Errorf("unsupported schemaVersion: %s (expected 1.0)", c.SchemaVersion)
	}
	return nil
}

func mergeConfigDefaults(cfg *Config, defaults *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = defaults.App.Name
	}
	if cfg.App.Channel == "" {
		cfg.App.Channel = defaults.App.Channel
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = defaults.Paths.OutputDir
	}
	if len(cfg.Scan.RouteMethods) == 0 {
		cfg.Scan.RouteMethods = defaults.Scan.RouteMethods
	}
	if len(cfg.Scan.BodyVerbs) == 0 {
		cfg.Scan.BodyVerbs = defaults.Scan.BodyVerbs
	}
	if len(cfg.Scan.SpecMethods) == 0 {
		cfg.Scan.SpecMethods = defaults.Scan.SpecMethods
	}
	if cfg.Scan.MediaType == "" {
		cfg.Scan.MediaType = defaults.Scan.MediaType
	}
	if cfg.Reports.JSON.Path == "" {
		cfg.Reports.JSON.Path = defaults.Reports.JSON.Path
	}
	if cfg.Reports.SARIF.Path == "" {
		cfg.Reports.SARIF.Path = defaults.Reports.SARIF.Path
	}
}
