package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-matcher/internal/schemas"
)

var validateSchemaFile string

var validateCmd = &cobra.Command{
	Use:   "validate [<kind>] <file>",
	Short: "Validate a JSON input file against its schema",
	Long: `Validate a profile, job_postings or learning_resources JSON file against the
embedded JSON Schema. With --schema the file is checked against that schema
file instead and the kind is omitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateSchemaFile, "schema", "", "Validate against this JSON Schema file")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, label, err := validateArgs(args, validateSchemaFile)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid %s document\n", path, label)
	return nil
}

// validateArgs validates the named file and returns it with a label for the schema used
func validateArgs(args []string, schemaFile string) (path, label string, err error) {
	if schemaFile != "" {
		if len(args) != 1 {
			return "", "", fmt.Errorf("--schema takes exactly one file argument")
		}
		if err := schemas.ValidateJSON(schemaFile, args[0]); err != nil {
			return "", "", err
		}
		return args[0], schemaFile, nil
	}

	if len(args) != 2 {
		return "", "", fmt.Errorf("expected <kind> <file>")
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return "", "", err
	}
	if err := schemas.ValidateFile(kind, args[1]); err != nil {
		return "", "", err
	}
	return args[1], string(kind), nil
}

func parseKind(s string) (schemas.Kind, error) {
	names := make([]string, 0, len(schemas.Kinds()))
	for _, k := range schemas.Kinds() {
		if string(k) == s {
			return k, nil
		}
		names = append(names, string(k))
	}
	return "", fmt.Errorf("unknown kind %q (expected one of: %s)", s, strings.Join(names, ", "))
}
