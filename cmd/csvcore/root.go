package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the csvcore command's entry point. Subcommands register
// themselves onto it from their own init functions.
var rootCmd = &cobra.Command{
	Use:   "csvcore",
	Short: "Inspect, validate, convert, and benchmark CSV files",
	Long: `csvcore is a command-line front end for the csvcore library.

It exercises the same Reader/Writer/Dialect machinery applications built on
the library use, so its output reflects exactly what the library would do
given the same dialect flags.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&delimiterFlag, "delimiter", "d", ",", "field delimiter")
	rootCmd.PersistentFlags().BoolVar(&detectDelimiterFlag, "detect-delimiter", false, "auto-detect the delimiter from the first buffer fill")
	rootCmd.PersistentFlags().BoolVar(&hasHeaderFlag, "header", false, "treat the first row as a header record")
}

var (
	delimiterFlag        string
	detectDelimiterFlag  bool
	hasHeaderFlag        bool
)
