package outbound

import "time"

// MetricsRecorder defines the interface for engine telemetry
type MetricsRecorder interface {
	RecordEvaluation(compatible bool, duration time.Duration)
	RecordCacheHit()
	RecordCacheMiss()
	RecordBatch(size int)
	RecordViolation(source string)
}

// NopMetrics is a MetricsRecorder that discards everything
type NopMetrics struct{}

func (NopMetrics) RecordEvaluation(bool, time.Duration) {}
func (NopMetrics) RecordCacheHit()                      {}
func (NopMetrics) RecordCacheMiss()                     {}
func (NopMetrics) RecordBatch(int)                      {}
func (NopMetrics) RecordViolation(string)               {}
