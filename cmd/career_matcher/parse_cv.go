package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/observability"
	"github.com/jonathan/career-matcher/internal/recommend"
)

var (
	parseCVOutputFile string
	parseCVPretty     bool
)

var parseCVCmd = &cobra.Command{
	Use:   "parse-cv <file>",
	Short: "Parse a CV file into structured profile JSON",
	Long:  "Extract text from a PDF, DOCX, DOC or plain-text CV and print the parsed profile fields as JSON. Nothing is stored.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParseCV,
}

func init() {
	parseCVCmd.Flags().StringVarP(&parseCVOutputFile, "out", "o", "", "Write JSON to this file instead of stdout")
	parseCVCmd.Flags().BoolVar(&parseCVPretty, "pretty", false, "Print a human-readable summary instead of JSON")
	rootCmd.AddCommand(parseCVCmd)
}

func runParseCV(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if parseCVOutputFile != "" {
		f, err := os.Create(parseCVOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return parseCVFile(args[0], out, rt.logger, parseCVPretty)
}

// parseCVFile parses one CV with an empty in-memory store behind the service
func parseCVFile(path string, out io.Writer, logger *zap.Logger, pretty bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read CV: %w", err)
	}

	svc := recommend.New(newMemoryStore(nil, nil), nil, recommend.Options{Logger: logger})
	parsed := svc.ParseCV(data, filepath.Base(path))
	if pretty {
		observability.NewPrinter(out).PrintParsedProfile(parsed)
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(parsed)
}
