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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/janaksunil/whoop-mcp/internal/metrics"
	"github.com/janaksunil/whoop-mcp/tool"
	"github.com/janaksunil/whoop-mcp/tool/function"
)

type greetRequest struct {
	Name  string `json:"name" jsonschema:"description=Who to greet"`
	Times int    `json:"times,omitempty" jsonschema:"description=Repeat count,default=1" validate:"omitempty,min=1,max=3"`
}

type greeting struct {
	Message string `json:"message"`
}

func (g greeting) Text() string { return "Greeting: " + g.Message }

func greet(_ context.Context, req greetRequest) (greeting, error) {
	switch req.Name {
	case "boom":
		return greeting{}, errors.New("backend unavailable")
	case "panic":
		panic("nil widget")
	}
	return greeting{Message: "hello " + req.Name}, nil
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := New([]tool.Tool{
		function.NewFunctionTool(greet,
			function.WithName("greet"),
			function.WithDescription("Say hello.")),
	}, opts...)
	require.NoError(t, err)
	return s
}

func callRequest(name string, args map[string]any) *mcp.CallToolRequest {
	req := &mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func texts(t *testing.T, res *mcp.CallToolResult) []string {
	t.Helper()
	var out []string
	for _, c := range res.Content {
		tc, ok := c.(mcp.TextContent)
		require.True(t, ok, "unexpected content %T", c)
		out = append(out, tc.Text)
	}
	return out
}

func TestInvoke(t *testing.T) {
	s := newTestServer(t)

	res, err := s.Invoke(context.Background(), "greet", []byte(`{"name":"ada"}`))
	require.NoError(t, err)

	assert.Equal(t, "greet", res.Tool)
	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, greeting{Message: "hello ada"}, res.Value)
	assert.Equal(t, "Greeting: hello ada", res.Text)
	js, err := res.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"hello ada"}`, js)
}

func TestInvoke_Errors(t *testing.T) {
	s := newTestServer(t)

	_, err := s.Invoke(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, err = s.Invoke(context.Background(), "greet", []byte(`{"name":"boom"}`))
	assert.EqualError(t, err, "backend unavailable")

	_, err = s.Invoke(context.Background(), "greet", []byte(`{"name":"panic"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil widget")

	var verr *function.ValidationError
	_, err = s.Invoke(context.Background(), "greet", []byte(`{"name":"ada","times":9}`))
	assert.ErrorAs(t, err, &verr)
}

func TestInvoke_RecordsMetrics(t *testing.T) {
	s := newTestServer(t)
	ok := testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues("greet", "ok"))
	failed := testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues("greet", "error"))

	_, _ = s.Invoke(context.Background(), "greet", []byte(`{"name":"ada"}`))
	_, _ = s.Invoke(context.Background(), "greet", []byte(`{"name":"boom"}`))

	assert.Equal(t, ok+1, testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues("greet", "ok")))
	assert.Equal(t, failed+1, testutil.ToFloat64(metrics.ToolCallsTotal.WithLabelValues("greet", "error")))
}

func TestInvoke_Callbacks(t *testing.T) {
	cb := tool.NewCallbacks().RegisterBeforeTool(
		func(_ context.Context, name string, _ *tool.Declaration, args *[]byte) (any, error) {
			*args = []byte(`{"name":"grace"}`)
			return nil, nil
		})
	s := newTestServer(t, WithCallbacks(cb))

	res, err := s.Invoke(context.Background(), "greet", []byte(`{"name":"ada"}`))
	require.NoError(t, err)
	assert.Equal(t, greeting{Message: "hello grace"}, res.Value)
}

func TestHandler_Success(t *testing.T) {
	s := newTestServer(t)

	res, err := s.Handler("greet")(context.Background(), callRequest("greet", map[string]any{"name": "ada"}))
	require.NoError(t, err)

	assert.False(t, res.IsError)
	got := texts(t, res)
	require.Len(t, got, 2)
	assert.Equal(t, "Greeting: hello ada", got[0])
	assert.JSONEq(t, `{"message":"hello ada"}`, got[1])
}

func TestHandler_NumbersFromJSONClients(t *testing.T) {
	s := newTestServer(t)

	// JSON clients send every number as float64.
	res, err := s.Handler("greet")(context.Background(),
		callRequest("greet", map[string]any{"name": "ada", "times": float64(2)}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestHandler_ErrorsBecomeErrorResults(t *testing.T) {
	s := newTestServer(t)
	for _, args := range []map[string]any{
		{"name": "boom"},
		{"name": "panic"},
		{"name": "ada", "times": float64(9)},
		{"nickname": "ada"},
	} {
		res, err := s.Handler("greet")(context.Background(), callRequest("greet", args))
		require.NoError(t, err)
		assert.True(t, res.IsError, "args %v", args)
		assert.NotEmpty(t, texts(t, res))
	}
}

func TestHandler_NilArguments(t *testing.T) {
	s := newTestServer(t)

	res, err := s.Handler("greet")(context.Background(), callRequest("greet", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Greeting: hello ", texts(t, res)[0])
}

func TestNewTool(t *testing.T) {
	s := newTestServer(t)
	mt := NewTool(s.Tools()[0].Declaration())

	assert.Equal(t, "greet", mt.Name)
	assert.Equal(t, "Say hello.", mt.Description)

	b, err := json.Marshal(mt.InputSchema)
	require.NoError(t, err)
	var schema struct {
		Properties map[string]map[string]any `json:"properties"`
		Required   []string                  `json:"required"`
	}
	require.NoError(t, json.Unmarshal(b, &schema))
	assert.Equal(t, []string{"name"}, schema.Required)
	assert.Equal(t, "string", schema.Properties["name"]["type"])
	assert.Equal(t, "Who to greet", schema.Properties["name"]["description"])
	assert.Equal(t, "number", schema.Properties["times"]["type"])
	assert.EqualValues(t, 1, schema.Properties["times"]["default"])
}

func TestServeStdio_ReturnsWhenContextDone(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- s.ServeStdio(ctx) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stdio server did not stop after cancel")
	}
}

func TestServeHTTP_ShutsDownWhenContextDone(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ServeHTTP(ctx, "127.0.0.1:0", "/mcp") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("http server did not stop after cancel")
	}
}
