//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package tool

import (
	"context"
	"fmt"

	"github.com/janaksunil/whoop-mcp/tool"
)

// NamedToolSet wraps a ToolSet to automatically prefix tool names with the toolset name.
// This prevents tool name conflicts when multiple toolsets provide tools with the same name.
type NamedToolSet struct {
	toolSet tool.ToolSet
}

// NewNamedToolSet creates a new named toolset wrapper.
// If the toolSet is already a NamedToolSet, it returns itself to avoid double-wrapping.
func NewNamedToolSet(toolSet tool.ToolSet) *NamedToolSet {
	if t, ok := toolSet.(*NamedToolSet); ok {
		return t
	}
	return &NamedToolSet{toolSet: toolSet}
}

// Tools returns tools with names prefixed by the toolset name.
func (s *NamedToolSet) Tools(ctx context.Context) []tool.Tool {
	tools := s.toolSet.Tools(ctx)
	prefix := s.toolSet.Name()
	if prefix == "" {
		return tools
	}
	prefixed := make([]tool.Tool, 0, len(tools))
	for _, t := range tools {
		prefixed = append(prefixed, &namedTool{original: t, prefix: prefix})
	}
	return prefixed
}

// Close implements the ToolSet interface.
func (s *NamedToolSet) Close() error {
	return s.toolSet.Close()
}

// Name implements the ToolSet interface.
func (s *NamedToolSet) Name() string {
	return s.toolSet.Name()
}

type namedTool struct {
	original tool.Tool
	prefix   string
}

// Declaration returns the tool declaration with a prefixed name.
func (t *namedTool) Declaration() *tool.Declaration {
	decl := *t.original.Declaration()
	decl.Name = t.prefix + "_" + decl.Name
	return &decl
}

// Call delegates to the original tool's Call method.
func (t *namedTool) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	if callable, ok := t.original.(tool.CallableTool); ok {
		return callable.Call(ctx, jsonArgs)
	}
	return nil, fmt.Errorf("tool %s is not callable", t.Declaration().Name)
}
