package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/taskium/internal/executor"
	"github.com/aryankumar/taskium/internal/metrics"
	"github.com/aryankumar/taskium/internal/pi"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatResults outputs task results as JSON
func (f *JSONFormatter) FormatResults(w io.Writer, results []executor.Result) error {
	return f.Format(w, toResultRecords(results))
}

// FormatReport outputs an estimation report as JSON
func (f *JSONFormatter) FormatReport(w io.Writer, report *pi.Report) error {
	return f.Format(w, toReportRecord(report))
}

// FormatMetrics outputs a metrics snapshot as JSON
func (f *JSONFormatter) FormatMetrics(w io.Writer, samples []metrics.Sample) error {
	return f.Format(w, samples)
}
