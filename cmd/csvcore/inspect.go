package main

import (
	"fmt"
	"os"

	"github.com/oleg578/csvcore"
	"github.com/spf13/cobra"
)

var sampleRows int

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Display information about a CSV file",
	Long: `Display basic information about a CSV file, including the row and
column count, the header (if --header is set), and a sample of leading rows.

Example:
  csvcore inspect data.csv
  csvcore inspect --header --sample 3 data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("error opening file: %w", err)
		}
		defer file.Close()

		d := dialectFromFlags()
		rd, err := csvcore.NewReader(file, d)
		if err != nil {
			return fmt.Errorf("error configuring reader: %w", err)
		}
		defer rd.Close()

		var rowCount int
		var columnCount int
		var sample [][]string

		for {
			ok, err := rd.Read()
			if err != nil {
				return fmt.Errorf("error reading record at row %d: %w", rd.Row(), err)
			}
			if !ok {
				break
			}
			rowCount++
			if rowCount == 1 {
				columnCount = rd.Count()
			}
			if len(sample) < sampleRows {
				row := make([]string, rd.Count())
				for i := range row {
					row[i], _ = rd.Field(i)
				}
				sample = append(sample, row)
			}
		}

		fmt.Printf("File: %s\n", filePath)
		fmt.Printf("Delimiter: %q\n", rd.Dialect().Delimiter)
		fmt.Printf("Rows: %d\n", rowCount)
		fmt.Printf("Columns: %d\n", columnCount)
		if header := rd.Header(); len(header) > 0 {
			fmt.Println("\nHeader:")
			for i, name := range header {
				fmt.Printf("  %d. %s\n", i+1, name)
			}
		}
		if len(sample) > 0 {
			fmt.Println("\nSample rows:")
			for i, row := range sample {
				fmt.Printf("  %d: %v\n", i+1, row)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().IntVarP(&sampleRows, "sample", "n", 5, "number of leading rows to display")
}
