package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "taskium"

// Collector holds the Prometheus metrics for a single worker pool
// All methods are safe to call on a nil *Collector, which records nothing
type Collector struct {
	registry *prometheus.Registry

	Workers        prometheus.Gauge
	BusyWorkers    prometheus.Gauge
	QueueLength    prometheus.Gauge
	TasksSubmitted prometheus.Counter
	TasksRejected  prometheus.Counter
	TasksCompleted prometheus.Counter
	TasksPanicked  prometheus.Counter
	TaskDuration   prometheus.Histogram
}

// New creates a collector registered on its own private registry
func New() *Collector {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates a collector registered on the given registry
func NewWithRegistry(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		Workers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "workers",
			Help:      "Number of worker goroutines in the pool",
		}),
		BusyWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "busy_workers",
			Help:      "Number of workers currently executing a task",
		}),
		QueueLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "queue_length",
			Help:      "Number of tasks waiting in the queue",
		}),
		TasksSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "tasks_submitted_total",
			Help:      "Total number of tasks accepted by the pool",
		}),
		TasksRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "tasks_rejected_total",
			Help:      "Total number of tasks rejected because the pool was shut down",
		}),
		TasksCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks that ran to completion",
		}),
		TasksPanicked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "tasks_panicked_total",
			Help:      "Total number of tasks that panicked",
		}),
		TaskDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "task_duration_seconds",
			Help:      "Task execution duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 10, 7), // 100µs to 100s
		}),
	}
}

// Registry returns the registry the collector's metrics live on
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// SetWorkers records the fixed pool size
func (c *Collector) SetWorkers(n int) {
	if c == nil {
		return
	}
	c.Workers.Set(float64(n))
}

// TaskSubmitted records an accepted task and the resulting queue length
func (c *Collector) TaskSubmitted(queueLen int) {
	if c == nil {
		return
	}
	c.TasksSubmitted.Inc()
	c.QueueLength.Set(float64(queueLen))
}

// TaskRejected records a task refused after shutdown
func (c *Collector) TaskRejected() {
	if c == nil {
		return
	}
	c.TasksRejected.Inc()
}

// TaskStarted records a worker picking up a task
func (c *Collector) TaskStarted(queueLen int) {
	if c == nil {
		return
	}
	c.BusyWorkers.Inc()
	c.QueueLength.Set(float64(queueLen))
}

// TaskFinished records the end of a task; panicked tasks are counted separately
func (c *Collector) TaskFinished(d time.Duration, panicked bool) {
	if c == nil {
		return
	}
	c.BusyWorkers.Dec()
	c.TaskDuration.Observe(d.Seconds())
	if panicked {
		c.TasksPanicked.Inc()
		return
	}
	c.TasksCompleted.Inc()
}

// Sample is a flattened metric value suitable for display
type Sample struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// Snapshot gathers the current metric values in name order
// Histograms are reported as their _count and _sum series
func (c *Collector) Snapshot() ([]Sample, error) {
	if c == nil {
		return nil, nil
	}

	families, err := c.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	samples := make([]Sample, 0, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			samples = append(samples, flatten(mf.GetName(), mf.GetType(), m)...)
		}
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Name < samples[j].Name
	})

	return samples, nil
}

func flatten(name string, kind dto.MetricType, m *dto.Metric) []Sample {
	switch kind {
	case dto.MetricType_COUNTER:
		return []Sample{{Name: name, Value: m.GetCounter().GetValue()}}
	case dto.MetricType_GAUGE:
		return []Sample{{Name: name, Value: m.GetGauge().GetValue()}}
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return []Sample{
			{Name: name + "_count", Value: float64(h.GetSampleCount())},
			{Name: name + "_sum", Value: h.GetSampleSum()},
		}
	default:
		return nil
	}
}
