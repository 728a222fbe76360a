// api-spec-lint - API contract consistency linter
//
// Compares the parameter surface declared by handler registrations in a Go
// source file against the surface documented in an OpenAPI document.
//
// Usage:
//   api-spec-lint [--config <path>] [--watch] <code.go> <spec.{json,yaml}>
//   api-spec-lint doctor <code.go> <spec.{json,yaml}>
//   api-spec-lint --version

package main

import (
	"errors"
	"fmt"
	"os"

	cfgpkg "github.com/ajranjith/api-spec-lint/internal/config"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

// Global config
var config *cfgpkg.Config
var configPath string

func main() {
	args := os.Args[1:]
	configFlag := ""
	watchMode := false
	doctorMode := false
	showVersion := false
	filteredArgs := []string{}

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--config" && i+1 < len(args):
			configFlag = args[i+1]
			i++
		case args[i] == "--watch":
			watchMode = true
		case args[i] == "doctor":
			doctorMode = true
		case args[i] == "--version" || args[i] == "-v" || args[i] == "version":
			showVersion = true
		default:
			filteredArgs = append(filteredArgs, args[i])
		}
	}

	if configFlag != "" {
		if _, err := os.Stat(configFlag); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "ERROR: Config not found: %s\n", configFlag)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "ERROR: Config stat failed: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, cfgPath, err := cfgpkg.Resolve(cfgpkg.Flags{ConfigPath: configFlag})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Config load failed: %v\n", err)
		os.Exit(1)
	}
	config = &cfg
	configPath = cfgPath

	if showVersion {
		fmt.Printf("api-spec-lint v%s (built %s)\n", Version, BuildDate)
		if configPath != "" {
			fmt.Printf("Config: %s\n", configPath)
		}
		return
	}

	if len(filteredArgs) != 2 {
		printUsage()
		os.Exit(1)
	}
	codePath := filteredArgs[0]
	specPath := filteredArgs[1]

	if doctorMode {
		os.Exit(runDoctor(codePath, specPath))
	}
	if watchMode {
		runWatch(codePath, specPath)
		return
	}
	os.Exit(runLint(codePath, specPath))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  api-spec-lint [--config <path>] [--watch] <code.go> <spec.{json,yaml}>")
	fmt.Fprintln(os.Stderr, "  api-spec-lint doctor <code.go> <spec.{json,yaml}>")
	fmt.Fprintln(os.Stderr, "  api-spec-lint --version")
}
