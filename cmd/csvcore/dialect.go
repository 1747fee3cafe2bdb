package main

import "github.com/oleg578/csvcore"

// dialectFromFlags builds a Dialect from the persistent flags every
// subcommand shares.
func dialectFromFlags() csvcore.Dialect {
	d := csvcore.DefaultDialect()
	if delimiterFlag != "" {
		d.Delimiter = delimiterFlag
	}
	d.DetectDelimiter = detectDelimiterFlag
	d.HasHeaderRecord = hasHeaderFlag
	return d
}
