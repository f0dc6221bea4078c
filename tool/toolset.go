//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

package tool

import "context"

// ToolSet defines an interface for managing a set of tools.
// It provides methods to retrieve the current tools and to perform cleanup.
type ToolSet interface {
	// Tools returns a slice of Tool instances available in the set based on the provided context.
	Tools(context.Context) []Tool

	// Close releases any resources held by the ToolSet.
	Close() error

	// Name returns the name of the ToolSet for identification and conflict resolution.
	Name() string
}

// Find returns the callable tool with the given declared name.
func Find(tools []Tool, name string) (CallableTool, bool) {
	for _, t := range tools {
		if t.Declaration().Name != name {
			continue
		}
		c, ok := t.(CallableTool)
		return c, ok
	}
	return nil, false
}
