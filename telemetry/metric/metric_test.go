//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itelemetry "github.com/janaksunil/whoop-mcp/internal/telemetry"
)

func TestMetricsEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "custom-metric:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "generic:4317")
	assert.Equal(t, "custom-metric:4317", metricsEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	assert.Equal(t, "generic:4317", metricsEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.Equal(t, "localhost:4317", metricsEndpoint(itelemetry.ProtocolGRPC))
	assert.Equal(t, "localhost:4318", metricsEndpoint(itelemetry.ProtocolHTTP))
}

func TestStartAndClean(t *testing.T) {
	for _, protocol := range []string{itelemetry.ProtocolGRPC, itelemetry.ProtocolHTTP} {
		t.Run(protocol, func(t *testing.T) {
			prev := Meter
			t.Cleanup(func() { Meter = prev })

			clean, err := Start(context.Background(), WithProtocol(protocol), WithEndpoint("localhost:1"))
			require.NoError(t, err)
			require.NotNil(t, clean)
			_ = clean() // no collector is running
		})
	}
}
