package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/aryankumar/taskium/internal/executor"
	"github.com/aryankumar/taskium/internal/metrics"
	"github.com/aryankumar/taskium/internal/pi"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		table := f.createTable(w)
		f.setHeader(table, NewColorScheme(w, f.options.NoColor), []string{"KEY", "VALUE"})
		for _, k := range sortedKeys(v) {
			table.Append([]string{k, fmt.Sprintf("%v", v[k])})
		}
		table.Render()
		return nil
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// FormatResults outputs task results as a table followed by a summary line
func (f *TableFormatter) FormatResults(w io.Writer, results []executor.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"TASK", "STATUS", "DURATION"}
	if f.options.Wide {
		headers = append(headers, "WORKER", "DATA")
	}
	f.setHeader(table, colors, headers)

	for _, result := range results {
		table.Append(f.formatResultRow(result, colors))
	}

	table.Render()

	f.printSummary(w, results, colors)

	return nil
}

// FormatReport outputs the per-task table followed by the estimate
func (f *TableFormatter) FormatReport(w io.Writer, report *pi.Report) error {
	if err := f.FormatResults(w, report.Results); err != nil {
		return err
	}

	colors := NewColorScheme(w, f.options.NoColor)
	fmt.Fprintf(w, "Estimate: %s (%d tasks × %d points, seed %d, %s)\n",
		colors.Estimate("%.6f", report.Estimate),
		report.Tasks, report.Points, report.Seed,
		report.Duration.Round(time.Millisecond))

	return nil
}

// FormatMetrics outputs a metrics snapshot as a two-column table
func (f *TableFormatter) FormatMetrics(w io.Writer, samples []metrics.Sample) error {
	table := f.createTable(w)
	f.setHeader(table, NewColorScheme(w, f.options.NoColor), []string{"METRIC", "VALUE"})

	for _, s := range samples {
		table.Append([]string{s.Name, strconv.FormatFloat(s.Value, 'g', -1, 64)})
	}

	table.Render()
	return nil
}

// formatResultRow formats a single result as a table row
func (f *TableFormatter) formatResultRow(result executor.Result, colors *ColorScheme) []string {
	status := "Success"
	if result.Error != nil {
		status = "Failed"
	}

	row := []string{
		colors.TaskName("%s", result.Name),
		colors.StatusColor(result.Error != nil)("%s", status),
		colors.Duration("%s", result.Duration.Round(time.Millisecond)),
	}

	if f.options.Wide {
		dataStr := ""
		if result.Error != nil {
			dataStr = result.Error.Error()
		} else if result.Data != nil {
			dataStr = fmt.Sprintf("%v", result.Data)
		}
		// Truncate long data
		if len(dataStr) > 50 {
			dataStr = dataStr[:47] + "..."
		}
		row = append(row, strconv.Itoa(result.WorkerID), dataStr)
	}

	return row
}

func (f *TableFormatter) setHeader(table *tablewriter.Table, colors *ColorScheme, headers []string) {
	if f.options.NoHeaders {
		return
	}

	colored := make([]string, len(headers))
	for i, h := range headers {
		colored[i] = colors.Header("%s", h)
	}
	table.SetHeader(colored)
}

// createTable creates a new borderless, tab-padded table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the results
func (f *TableFormatter) printSummary(w io.Writer, results []executor.Result, colors *ColorScheme) {
	summary := executor.Summarize(results)

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if executor.HasErrors(results) {
		failedText = colors.Error("%s", failedText)
	}

	fmt.Fprintf(w, "\nSummary: %s, %s (%.1f%% success), %s\n",
		colors.Success("%d successful", summary.Successful),
		failedText,
		summary.SuccessRate,
		colors.Duration("avg=%s", summary.AvgDuration.Round(time.Millisecond)))
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
