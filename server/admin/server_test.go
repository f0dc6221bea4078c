//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpserver "github.com/janaksunil/whoop-mcp/server/mcp"
	"github.com/janaksunil/whoop-mcp/tool"
	"github.com/janaksunil/whoop-mcp/tool/function"
)

type windowRequest struct {
	Days int `json:"days,omitempty" jsonschema:"description=Window length,default=30" validate:"omitempty,min=1,max=90"`
}

// fakeInvoker runs tools directly and fails with err when set.
type fakeInvoker struct {
	tools []tool.Tool
	err   error
	args  []byte
}

func (f *fakeInvoker) Tools() []tool.Tool { return f.tools }

func (f *fakeInvoker) Invoke(ctx context.Context, name string, args []byte) (*mcpserver.Result, error) {
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	t, ok := tool.Find(f.tools, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", mcpserver.ErrUnknownTool, name)
	}
	v, err := t.Call(ctx, args)
	if err != nil {
		return nil, err
	}
	return &mcpserver.Result{RequestID: "req-1", Tool: name, Value: v, Text: "report"}, nil
}

func newTestServer(t *testing.T, inv *fakeInvoker, opts ...Option) *httptest.Server {
	t.Helper()
	inv.tools = []tool.Tool{
		function.NewFunctionTool(func(_ context.Context, req windowRequest) (map[string]int, error) {
			return map[string]int{"days": req.Days}, nil
		}, function.WithName("whoop_window"), function.WithDescription("Window.")),
	}
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "admin_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := httptest.NewServer(New(inv, append([]Option{WithGatherer(reg)}, opts...)...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeInvoker{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestListTools(t *testing.T) {
	srv := newTestServer(t, &fakeInvoker{})

	resp, err := http.Get(srv.URL + "/tools")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tools := decode[[]toolInfo](t, resp)
	require.Len(t, tools, 1)
	assert.Equal(t, "whoop_window", tools[0].Name)
	assert.Equal(t, "Window.", tools[0].Description)
	assert.Equal(t, "days?(=30)", tools[0].Usage)
	require.NotNil(t, tools[0].InputSchema)
	assert.Contains(t, tools[0].InputSchema.Properties, "days")
}

func TestRunTool(t *testing.T) {
	inv := &fakeInvoker{}
	srv := newTestServer(t, inv)

	resp, err := http.Post(srv.URL+"/tools/whoop_window", "application/json", strings.NewReader(`{"days":14}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decode[map[string]any](t, resp)
	assert.Equal(t, "whoop_window", res["tool"])
	assert.Equal(t, "report", res["text"])
	assert.Equal(t, map[string]any{"days": float64(14)}, res["value"])
	assert.JSONEq(t, `{"days":14}`, string(inv.args))
}

func TestRunTool_Errors(t *testing.T) {
	cases := []struct {
		name   string
		tool   string
		body   string
		err    error
		status int
	}{
		{"unknown tool", "whoop_nope", `{}`, nil, http.StatusNotFound},
		{"validation", "whoop_window", `{"days":120}`, nil, http.StatusBadRequest},
		{"malformed", "whoop_window", `{"days":`, nil, http.StatusBadRequest},
		{"backend", "whoop_window", `{}`, errors.New("backend unavailable"), http.StatusBadGateway},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeInvoker{err: c.err})

			resp, err := http.Post(srv.URL+"/tools/"+c.tool, "application/json", strings.NewReader(c.body))
			require.NoError(t, err)

			assert.Equal(t, c.status, resp.StatusCode)
			body := decode[errorResponse](t, resp)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestRunTool_ValidationFields(t *testing.T) {
	srv := newTestServer(t, &fakeInvoker{})

	resp, err := http.Post(srv.URL+"/tools/whoop_window", "application/json", strings.NewReader(`{"days":0.5}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/tools/whoop_window", "application/json", strings.NewReader(`{"days":-3}`))
	require.NoError(t, err)
	body := decode[errorResponse](t, resp)
	assert.Equal(t, map[string]string{"days": "days must be at least 1"}, body.Fields)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, &fakeInvoker{})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "admin_test_total 1")
}

func preflight(t *testing.T, url, origin string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodOptions, url, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func TestCORS_AllowedOrigin(t *testing.T) {
	srv := newTestServer(t, &fakeInvoker{}, WithAllowedOrigins("http://localhost:5173"))

	resp := preflight(t, srv.URL+"/tools/whoop_window", "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = preflight(t, srv.URL+"/tools/whoop_window", "https://evil.example")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_DeniedByDefault(t *testing.T) {
	srv := newTestServer(t, &fakeInvoker{})

	resp := preflight(t, srv.URL+"/tools/whoop_window", "https://evil.example")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/tools/whoop_window", strings.NewReader(`{"days":7}`))
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	s := New(&fakeInvoker{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}
