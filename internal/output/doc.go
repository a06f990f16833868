// Package output renders task results, estimation reports and metrics snapshots.
//
// Three formats are supported: a borderless table for terminals, and JSON or
// YAML for scripting. Colors are applied only when writing to a TTY.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithWide(true),
//	)
//
//	formatter.FormatReport(os.Stdout, report)
//
// Per-task results carry a status of "success" or "failed"; failed tasks carry
// their error text instead of data.
package output
