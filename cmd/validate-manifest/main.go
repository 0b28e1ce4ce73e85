// Command validate-manifest validates tool manifest YAML files.
//
// Usage:
//
//	validate-manifest [options] [dir...]
//
// With no arguments it validates the manifest embedded in the binary.
//
// Options:
//
//	-strict     Treat warnings as errors
//	-json       Output results as JSON
//	-quiet      Only output errors
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xcmcp/xcmcp/internal/manifest"
)

func main() {
	fs := flag.NewFlagSet("validate-manifest", flag.ExitOnError)
	strict := fs.Bool("strict", false, "Treat warnings as errors")
	asJSON := fs.Bool("json", false, "Output results as JSON")
	quiet := fs.Bool("quiet", false, "Only output errors")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(fs.Args(), *strict, *asJSON, *quiet))
}

func run(dirs []string, strict, asJSON, quiet bool) int {
	exitCode := 0
	allResults := make(map[string]*manifest.Result)

	if len(dirs) == 0 {
		results, err := validateEmbedded()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for name, result := range results {
			allResults["(embedded)/"+name] = result
		}
	}

	for _, dir := range dirs {
		results, err := manifest.ValidateDirectory(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", dir, err)
			exitCode = 1
			continue
		}
		for name, result := range results {
			allResults[filepath.Join(dir, name)] = result
		}
	}

	if asJSON {
		outputJSON(allResults)
	} else {
		outputText(allResults, quiet, strict)
	}

	for _, result := range allResults {
		if !result.Valid {
			exitCode = 1
		}
		if strict && len(result.Warnings) > 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func validateEmbedded() (map[string]*manifest.Result, error) {
	// Round-trip through Default to reuse the embedded filesystem; a full
	// load also proves the embedded manifest passes the fatal checks.
	if _, err := manifest.Default(); err != nil {
		return map[string]*manifest.Result{
			"manifest": {Valid: false, Errors: []manifest.SchemaError{{Field: "manifest", Message: err.Error()}}},
		}, nil
	}
	return manifest.ValidateFS(manifest.EmbeddedFS())
}

func outputJSON(results map[string]*manifest.Result) {
	output := struct {
		Results map[string]*manifest.Result `json:"results"`
		Summary struct {
			Total   int `json:"total"`
			Valid   int `json:"valid"`
			Invalid int `json:"invalid"`
		} `json:"summary"`
	}{
		Results: results,
	}

	for _, r := range results {
		output.Summary.Total++
		if r.Valid {
			output.Summary.Valid++
		} else {
			output.Summary.Invalid++
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

func outputText(results map[string]*manifest.Result, quiet, strict bool) {
	paths := make([]string, 0, len(results))
	for path := range results {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	validCount := 0
	invalidCount := 0

	for _, path := range paths {
		result := results[path]
		if result.Valid && len(result.Warnings) == 0 && quiet {
			validCount++
			continue
		}

		if result.Valid {
			validCount++
			if !quiet {
				fmt.Printf("✓ %s\n", path)
			}
		} else {
			invalidCount++
			fmt.Printf("✗ %s\n", path)
		}

		for _, err := range result.Errors {
			fmt.Printf("  ERROR: %s: %s\n", err.Field, err.Message)
		}

		if !quiet || strict {
			for _, warn := range result.Warnings {
				fmt.Printf("  WARN:  %s: %s\n", warn.Field, warn.Message)
			}
		}
	}

	if !quiet {
		fmt.Println()
		fmt.Printf("Summary: %d valid, %d invalid\n", validCount, invalidCount)
	}
}
