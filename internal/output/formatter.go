package output

import (
	"fmt"
	"io"

	"github.com/aryankumar/taskium/internal/executor"
	"github.com/aryankumar/taskium/internal/metrics"
	"github.com/aryankumar/taskium/internal/pi"
	"github.com/aryankumar/taskium/internal/util"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a borderless table
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name
// An empty name selects the table format
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", util.NewValidationError("output", s, fmt.Sprintf("must be one of %s, %s, %s", FormatTable, FormatJSON, FormatYAML))
	}
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatResults outputs per-task results to the writer
	FormatResults(w io.Writer, results []executor.Result) error

	// FormatReport outputs an estimation report, including its task results
	FormatReport(w io.Writer, report *pi.Report) error

	// FormatMetrics outputs a pool metrics snapshot
	FormatMetrics(w io.Writer, samples []metrics.Sample) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// resultRecord is the serialised shape of a task result
type resultRecord struct {
	Task     string      `json:"task" yaml:"task"`
	Status   string      `json:"status" yaml:"status"`
	Worker   int         `json:"worker" yaml:"worker"`
	Duration string      `json:"duration" yaml:"duration"`
	Data     interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Error    string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// reportRecord is the serialised shape of an estimation report
type reportRecord struct {
	RunID         string           `json:"runId" yaml:"runId"`
	Tasks         int              `json:"tasks" yaml:"tasks"`
	PointsPerTask int              `json:"pointsPerTask" yaml:"pointsPerTask"`
	Seed          uint64           `json:"seed" yaml:"seed"`
	InCircle      int64            `json:"inCircle" yaml:"inCircle"`
	Estimate      float64          `json:"estimate" yaml:"estimate"`
	Duration      string           `json:"duration" yaml:"duration"`
	Summary       executor.Summary `json:"summary" yaml:"summary"`
	Results       []resultRecord   `json:"results" yaml:"results"`
}

func toResultRecords(results []executor.Result) []resultRecord {
	records := make([]resultRecord, len(results))

	for i, result := range results {
		record := resultRecord{
			Task:     result.Name,
			Worker:   result.WorkerID,
			Duration: result.Duration.String(),
		}

		if result.Error != nil {
			record.Status = "failed"
			record.Error = result.Error.Error()
		} else {
			record.Status = "success"
			record.Data = result.Data
		}

		records[i] = record
	}

	return records
}

func toReportRecord(report *pi.Report) reportRecord {
	return reportRecord{
		RunID:         report.RunID,
		Tasks:         report.Tasks,
		PointsPerTask: report.Points,
		Seed:          report.Seed,
		InCircle:      report.InCircle,
		Estimate:      report.Estimate,
		Duration:      report.Duration.String(),
		Summary:       executor.Summarize(report.Results),
		Results:       toResultRecords(report.Results),
	}
}
