//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the span names, attribute keys and exporter
// plumbing shared by the trace and metric packages.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// telemetry service constants.
const (
	ServiceName      = "whoop-mcp"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "whoop"
	InstrumentName   = "github.com/janaksunil/whoop-mcp"

	SpanNamePrefixExecuteTool = "execute_tool"
	SpanNameFetchRange        = "fetch_range"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// telemetry attributes constants.
var (
	KeyRequestID   = "whoop.mcp.request_id"
	KeyToolName    = "whoop.mcp.tool_name"
	KeyToolArgs    = "whoop.mcp.tool_call_args"
	KeyRangeStart  = "whoop.range.start"
	KeyRangeEnd    = "whoop.range.end"
	KeyRangeDays   = "whoop.range.days"
	KeyRangeFailed = "whoop.range.failed_days"
)

// NewExecuteToolSpanName names the span of one tool call.
func NewExecuteToolSpanName(toolName string) string {
	if toolName == "" {
		return SpanNamePrefixExecuteTool
	}
	return SpanNamePrefixExecuteTool + " " + toolName
}

// TraceToolCall records a tool invocation on span. A non-nil err marks the
// span as failed.
func TraceToolCall(span trace.Span, requestID, toolName string, args []byte, err error) {
	span.SetAttributes(
		attribute.String("gen_ai.operation.name", "tool.execute"),
		attribute.String(KeyRequestID, requestID),
		attribute.String(KeyToolName, toolName),
	)
	if len(args) > 0 {
		span.SetAttributes(attribute.String(KeyToolArgs, string(args)))
	} else {
		span.SetAttributes(attribute.String(KeyToolArgs, "{}"))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// TraceRange records the outcome of a multi-day fetch on span.
func TraceRange(span trace.Span, start, end string, days, failed int) {
	span.SetAttributes(
		attribute.String(KeyRangeStart, start),
		attribute.String(KeyRangeEnd, end),
		attribute.Int(KeyRangeDays, days),
		attribute.Int(KeyRangeFailed, failed),
	)
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(endpoint,
		// Note the use of insecure transport here. TLS is recommended in production.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}
