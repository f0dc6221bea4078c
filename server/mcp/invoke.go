//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/janaksunil/whoop-mcp/internal/metrics"
	itelemetry "github.com/janaksunil/whoop-mcp/internal/telemetry"
	"github.com/janaksunil/whoop-mcp/log"
	"github.com/janaksunil/whoop-mcp/report"
	"github.com/janaksunil/whoop-mcp/telemetry/trace"
	"github.com/janaksunil/whoop-mcp/tool"
)

// ErrUnknownTool is returned when no registered tool has the requested name.
var ErrUnknownTool = errors.New("unknown tool")

// Result is the outcome of one successful tool invocation.
type Result struct {
	RequestID string `json:"requestId"`
	Tool      string `json:"tool"`
	// Value is the structured output of the tool.
	Value any `json:"value"`
	// Text is the human readable report, empty when Value has no rendering.
	Text string `json:"text"`
}

// JSON returns Value indented for display.
func (r *Result) JSON() (string, error) {
	b, err := json.MarshalIndent(r.Value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s result: %w", r.Tool, err)
	}
	return string(b), nil
}

// Tools returns the registered tools in registration order.
func (s *Server) Tools() []tool.Tool {
	return s.tools
}

// Invoke runs one tool call through the callbacks. Every call gets a
// request id, a span, a log line at start and finish, and both metric
// pipelines. A panic in the tool is turned into an error.
func (s *Server) Invoke(ctx context.Context, name string, args []byte) (res *Result, err error) {
	requestID := uuid.NewString()
	start := time.Now()

	ctx, span := trace.Tracer.Start(ctx, itelemetry.NewExecuteToolSpanName(name))
	log.Infof("tool %s started (request %s)", name, requestID)
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("tool %s panicked (request %s): %v\n%s", name, requestID, r, debug.Stack())
			res, err = nil, fmt.Errorf("tool %s failed unexpectedly: %v", name, r)
		}
		elapsed := time.Since(start)
		itelemetry.TraceToolCall(span, requestID, name, args, err)
		span.End()
		s.record(ctx, name, err == nil, elapsed)
		if err != nil {
			log.Warnf("tool %s failed after %s (request %s): %v", name, elapsed, requestID, err)
			return
		}
		log.Infof("tool %s finished in %s (request %s)", name, elapsed, requestID)
	}()

	t, ok := tool.Find(s.tools, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	value, err := s.callbacks.Invoke(ctx, t, args)
	if err != nil {
		return nil, err
	}

	res = &Result{RequestID: requestID, Tool: name, Value: value}
	if r, ok := value.(report.Renderer); ok {
		res.Text = r.Text()
	}
	return res, nil
}

func (s *Server) record(ctx context.Context, name string, ok bool, elapsed time.Duration) {
	metrics.RecordToolCall(name, ok, elapsed.Seconds())
	status := "ok"
	if !ok {
		status = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String(itelemetry.KeyToolName, name),
		attribute.String("status", status),
	)
	s.calls.Add(ctx, 1, attrs)
	s.duration.Record(ctx, elapsed.Seconds(), attrs)
}
