package agent

import (
	"fmt"
)

// ToolCatalog is the process-wide tool registry. It is populated once by
// NewToolCatalog and only read afterwards, so it needs no locking.
type ToolCatalog struct {
	tools map[ToolName]Tool
	specs []ToolSpec
}

// NewToolCatalog registers tools in order. Nil tools, names outside the known
// set and duplicates are errors.
func NewToolCatalog(tools []Tool) (*ToolCatalog, error) {
	catalog := &ToolCatalog{tools: make(map[ToolName]Tool, len(tools))}
	for _, tool := range tools {
		if tool == nil {
			return nil, fmt.Errorf("tool is nil")
		}
		spec := tool.Spec()
		if _, ok := ParseToolName(string(spec.Name)); !ok {
			return nil, fmt.Errorf("tool %q is not a known tool", spec.Name)
		}
		if _, exists := catalog.tools[spec.Name]; exists {
			return nil, fmt.Errorf("tool %s already registered", spec.Name)
		}
		catalog.tools[spec.Name] = tool
		catalog.specs = append(catalog.specs, spec)
	}
	return catalog, nil
}

// Lookup returns the tool registered under name.
func (c *ToolCatalog) Lookup(name ToolName) (Tool, bool) {
	tool, ok := c.tools[name]
	return tool, ok
}

// Specs returns the tool specifications in registration order.
func (c *ToolCatalog) Specs() []ToolSpec {
	return append([]ToolSpec(nil), c.specs...)
}
