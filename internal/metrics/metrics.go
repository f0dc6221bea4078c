//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package metrics provides Prometheus metrics for whoop-mcp. They are served
// by the admin server on /metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "whoopmcp"

var (
	// BackendRequestsTotal counts backend requests by endpoint and status.
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of backend requests",
		},
		[]string{"endpoint", "status"},
	)

	// BackendRequestDuration measures backend request latency.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of backend requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// ToolCallsTotal counts tool invocations by tool and outcome.
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool invocations",
		},
		[]string{"tool", "status"},
	)

	// ToolCallDuration measures tool latency, including pacing waits.
	ToolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Duration of tool invocations in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"tool"},
	)

	// MissingDaysTotal counts days that degraded to empty records.
	MissingDaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_days_total",
			Help:      "Total number of days whose fetch failed during a range",
		},
	)
)

// RecordBackendRequest records one backend exchange. status 0 means no
// response was received.
func RecordBackendRequest(endpoint string, status int, duration float64) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	BackendRequestsTotal.WithLabelValues(endpoint, label).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordToolCall records one tool invocation.
func RecordToolCall(tool string, ok bool, duration float64) {
	status := "ok"
	if !ok {
		status = "error"
	}
	ToolCallsTotal.WithLabelValues(tool, status).Inc()
	ToolCallDuration.WithLabelValues(tool).Observe(duration)
}

// RecordMissingDay records a day that fell back to an empty record.
func RecordMissingDay() {
	MissingDaysTotal.Inc()
}
