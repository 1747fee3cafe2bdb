package main

import (
	"fmt"
	"os"
	"time"

	"github.com/oleg578/csvcore"
	"github.com/spf13/cobra"
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench [file]",
	Short: "Measure parse throughput on a CSV file",
	Long: `Read file once under the dialect flags and report elapsed time,
throughput in MB/s, and rows/s.

Example:
  csvcore bench data.csv
  csvcore bench --delimiter ";" data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		info, err := os.Stat(filePath)
		if err != nil {
			return fmt.Errorf("failed to stat file: %w", err)
		}

		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		d := dialectFromFlags()
		p, err := csvcore.NewParser(file, d)
		if err != nil {
			return fmt.Errorf("failed to configure parser: %w", err)
		}
		defer p.Close()

		start := time.Now()
		var rows int
		for {
			ok, err := p.Read()
			if err != nil {
				return fmt.Errorf("error reading record: %w", err)
			}
			if !ok {
				break
			}
			for i := 0; i < p.Count(); i++ {
				if _, err := p.Field(i); err != nil {
					return fmt.Errorf("error decoding field %d on row %d: %w", i, p.Row(), err)
				}
			}
			rows++
		}
		duration := time.Since(start)

		bytesPerSecond := float64(info.Size()) / duration.Seconds()
		rowsPerSecond := float64(rows) / duration.Seconds()

		fmt.Printf("File: %s\n", filePath)
		fmt.Printf("Size: %.2f MB\n", float64(info.Size())/1024/1024)
		fmt.Printf("Rows: %d\n", rows)
		fmt.Printf("Time: %v\n", duration)
		fmt.Printf("Speed: %.2f MB/s\n", bytesPerSecond/1024/1024)
		fmt.Printf("Rows/s: %.0f\n", rowsPerSecond)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
}
