package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/revstat/revstat/pkg/reviewlog"
)

// exitCodeValidationFailure is the exit code for validation failures.
const exitCodeValidationFailure = 2

// NewValidateCommand creates the dataset validate command.
func NewValidateCommand() *cobra.Command {
	var colorize, nocolor bool

	var format string

	cmd := &cobra.Command{
		Use:   "validate <dataset>",
		Short: "Validate a review dataset against the input contract",
		Long: `Validate a dataset before running the pipeline: JSON documents are
checked against the embedded schema, then every source is checked for the
record contract (non-negative counts, strictly increasing contiguous dates).

Examples:
  revstat validate reviews.csv
  revstat validate reviews.json
  revstat validate --input-format bin reviews.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return runValidate(cobraCmd.OutOrStdout(), args[0], format, colorize, nocolor)
		},
	}

	cmd.Flags().StringVar(&format, "input-format", "auto", "Input format: auto, csv, json, bin")
	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(writer io.Writer, path, format string, colorize, nocolor bool) error {
	// Color setup.
	if nocolor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	} else if colorize {
		color.NoColor = false //nolint:reassign // intentional override of library global
	}

	if format == "" || format == "auto" {
		format = detectInputFormat(path)
	}

	if format == "json" {
		if err := validateSchema(writer, path); err != nil {
			return err
		}
	}

	records, err := readRecords(path, format)
	if err != nil {
		color.New(color.FgRed).Fprintf(writer, "dataset is invalid (%s)\n", path)
		fmt.Fprintf(writer, "  %v\n", err)
		os.Exit(exitCodeValidationFailure)
	}

	printVerdict(writer, path, records)

	return nil
}

// validateSchema checks a JSON document against the embedded dataset
// schema. Schema violations carry field paths the contract check would
// report less precisely.
func validateSchema(writer io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	var document any

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if decodeErr := dec.Decode(&document); decodeErr != nil {
		color.New(color.FgRed).Fprintf(writer, "dataset is invalid (%s)\n", path)
		fmt.Fprintf(writer, "  invalid JSON: %v\n", decodeErr)
		os.Exit(exitCodeValidationFailure)
	}

	schemaLoader := gojsonschema.NewStringLoader(reviewlog.SchemaJSON)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	color.New(color.FgRed).Fprintf(writer, "dataset is invalid (%s)\n", path)
	fmt.Fprintf(writer, "\nSchema errors:\n")

	for _, verr := range result.Errors() {
		color.New(color.FgRed).Fprintf(writer, "  - %s: %s\n", verr.Field(), verr.Description())
	}

	os.Exit(exitCodeValidationFailure)

	return nil
}

func printVerdict(writer io.Writer, path string, records []reviewlog.DailyRecord) {
	green := color.New(color.FgGreen)
	green.Fprintf(writer, "dataset is valid (%s)\n", path)

	if len(records) == 0 {
		return
	}

	first := records[0].Date.Format(reviewlog.DateLayout)
	last := records[len(records)-1].Date.Format(reviewlog.DateLayout)
	green.Fprintf(writer, "  %d days, %s to %s\n", len(records), first, last)
}
