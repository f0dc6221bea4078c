//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	itelemetry "github.com/janaksunil/whoop-mcp/internal/telemetry"
)

func TestTracesEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "custom-trace:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "generic:4317")
	assert.Equal(t, "custom-trace:4317", tracesEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	assert.Equal(t, "generic:4317", tracesEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.Equal(t, "localhost:4317", tracesEndpoint(itelemetry.ProtocolGRPC))
	assert.Equal(t, "localhost:4318", tracesEndpoint(itelemetry.ProtocolHTTP))
}

func TestParseEndpointURL(t *testing.T) {
	endpoint, path, err := parseEndpointURL("http://collector:4318/otel/v1/traces")
	require.NoError(t, err)
	assert.Equal(t, "collector:4318", endpoint)
	assert.Equal(t, "/otel/v1/traces", path)

	endpoint, path, err = parseEndpointURL("collector:4318")
	require.NoError(t, err)
	assert.Equal(t, "collector:4318", endpoint)
	assert.Equal(t, "/", path)

	_, _, err = parseEndpointURL("http://")
	assert.Error(t, err)
}

func TestStartAndClean(t *testing.T) {
	for _, protocol := range []string{itelemetry.ProtocolGRPC, itelemetry.ProtocolHTTP} {
		t.Run(protocol, func(t *testing.T) {
			prev := Tracer
			t.Cleanup(func() { Tracer = prev })

			clean, err := Start(context.Background(), WithProtocol(protocol), WithServiceVersion("test"))
			require.NoError(t, err)
			require.NotNil(t, clean)
			_ = clean() // no collector is running
		})
	}
}
