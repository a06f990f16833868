package output

import (
	"io"

	"github.com/aryankumar/taskium/internal/executor"
	"github.com/aryankumar/taskium/internal/metrics"
	"github.com/aryankumar/taskium/internal/pi"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatResults outputs task results as YAML
func (f *YAMLFormatter) FormatResults(w io.Writer, results []executor.Result) error {
	return f.Format(w, toResultRecords(results))
}

// FormatReport outputs an estimation report as YAML
func (f *YAMLFormatter) FormatReport(w io.Writer, report *pi.Report) error {
	return f.Format(w, toReportRecord(report))
}

// FormatMetrics outputs a metrics snapshot as YAML
func (f *YAMLFormatter) FormatMetrics(w io.Writer, samples []metrics.Sample) error {
	return f.Format(w, samples)
}
