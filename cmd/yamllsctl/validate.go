package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kaptinlin/yamlls"
	"github.com/spf13/cobra"
)

var (
	schemaPath   string
	isKubernetes bool
)

func init() {
	validateCmd.Flags().StringVar(&schemaPath, "schema", "", "Path to a JSON Schema file to validate every given file against")
	validateCmd.Flags().BoolVar(&isKubernetes, "kubernetes", false, "Treat files as Kubernetes manifests (resolves schemas by apiVersion/kind)")
}

var validateCmd = &cobra.Command{
	Use:   "validate <file...>",
	Short: "Validate one or more YAML documents against their resolved schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(args)
	},
}

func runValidate(paths []string) error {
	svc := yamlls.NewService()
	settings := settingsFromConfig()
	if isKubernetes {
		settings.IsKubernetes = true
	}

	if schemaPath != "" {
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", schemaPath, err)
		}
		settings.Schemas = append(settings.Schemas, yamlls.SchemaAssociation{
			URI:       "file://" + schemaPath,
			FileMatch: []string{"**"},
			Priority:  10,
			Schema:    raw,
		})
	}
	svc.Configure(settings)

	totalProblems := 0
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		diagnostics := svc.DoValidation(path, string(raw), settings.IsKubernetes)
		printDiagnostics(path, diagnostics)
		totalProblems += len(diagnostics)
	}

	if totalProblems > 0 {
		return fmt.Errorf("%d problem(s) found", totalProblems)
	}
	fmt.Println(color.GreenString("no problems found"))
	return nil
}

func printDiagnostics(path string, diagnostics []yamlls.Diagnostic) {
	if len(diagnostics) == 0 {
		return
	}
	fmt.Println(path)
	for _, d := range diagnostics {
		fmt.Printf("  %s %d:%d %s\n",
			severityBadge(d.Severity),
			d.Range.Start.Line+1,
			d.Range.Start.Column+1,
			d.Message)
	}
}

func severityBadge(s yamlls.DiagnosticSeverity) string {
	switch s {
	case yamlls.DiagnosticError:
		return color.RedString("error")
	case yamlls.DiagnosticWarning:
		return color.YellowString("warning")
	case yamlls.DiagnosticInformation:
		return color.CyanString("info")
	default:
		return color.New(color.Faint).Sprint("hint")
	}
}
