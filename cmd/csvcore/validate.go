package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oleg578/csvcore"
	"github.com/spf13/cobra"
)

var strict bool

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate CSV file structure",
	Long: `Validate the structure of a CSV file by checking:
- Consistent number of columns across all rows
- Proper quote, escape, and delimiter usage (bad data is reported, not silently patched over)

Example:
  csvcore validate data.csv
  csvcore validate --strict data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer file.Close()

		d := dialectFromFlags()
		d.DetectColumnCountChanges = true
		if strict {
			d.LineBreakInQuotedFieldIsBadData = true
		}

		var problems []string
		d.Hooks.BadDataFound = func(field, rawRecord string, ctx csvcore.Context) {
			problems = append(problems, fmt.Sprintf("row %d, field %d: bad data %q", ctx.Row, ctx.Field, field))
		}

		rd, err := csvcore.NewReader(file, d)
		if err != nil {
			return fmt.Errorf("error configuring reader: %w", err)
		}
		defer rd.Close()

		var rowCount int
		for {
			ok, err := rd.Read()
			if err != nil {
				var perr *csvcore.ParseError
				if errors.As(err, &perr) && perr.Kind == csvcore.KindColumnCount {
					problems = append(problems, fmt.Sprintf("row %d: %v", rd.Row(), perr))
					continue
				}
				return fmt.Errorf("error reading record: %w", err)
			}
			if !ok {
				break
			}
			rowCount++
			for i := 0; i < rd.Count(); i++ {
				_, _ = rd.Field(i) // force badness classification, populating BadDataFound
			}
		}

		fmt.Printf("File: %s\n", filePath)
		fmt.Printf("Rows processed: %d\n", rowCount)

		if len(problems) > 0 {
			fmt.Println("\nValidation problems:")
			for _, p := range problems {
				fmt.Printf("- %s\n", p)
			}
			return fmt.Errorf("validation failed with %d problems", len(problems))
		}

		fmt.Println("\nValidation successful! No problems found.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVarP(&strict, "strict", "s", false,
		"treat a line break inside a quoted field as bad data")
}
