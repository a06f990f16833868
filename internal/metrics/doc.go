// Package metrics exposes Prometheus collectors describing worker pool activity.
//
// Each Collector registers on its own registry so several pools can coexist in one
// process. A nil *Collector is valid and records nothing.
package metrics
