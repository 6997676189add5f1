package wallet

import "time"

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, float64)  {}
func (n *NoopMetricsCollector) RecordError(string, string)         {}
func (n *NoopMetricsCollector) RecordVerification(string)          {}
func (n *NoopMetricsCollector) RecordJobRun(string, time.Duration) {}
