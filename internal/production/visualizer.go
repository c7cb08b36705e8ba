package production

import (
	"bytes"
	"fmt"
)

// ProcessNode is one process's diagnostic summary, as exposed by
// core.Registry, for DOT rendering.
type ProcessNode struct {
	Label      string
	Priority   string // a human-readable rank, not used for comparison
	Terminated bool
}

// ChannelNode is one channel's diagnostic summary for DOT rendering.
type ChannelNode struct {
	Name       string
	Fields     map[string]any
	Sensitized []string // labels of processes currently sensitized
}

// DefaultVisualizer renders a scheduler's channels and processes as a
// Graphviz DOT bipartite graph: a channel node edges to every process
// currently sensitized to it. Generalized from the teacher's
// DefaultVisualizer (which rendered a state/transition tree) to a
// channel/process sensitization graph, since SSM has no state hierarchy
// to cluster.
type DefaultVisualizer struct{}

// ExportDOT renders processes and channels as a DOT digraph. Terminated
// processes are drawn in gray; live processes in green.
func (v *DefaultVisualizer) ExportDOT(processes []ProcessNode, channels []ChannelNode) string {
	var buf bytes.Buffer
	buf.WriteString("digraph SSM {\n  rankdir=LR;\n  node [fontsize=10];\n")

	for _, p := range processes {
		style := "style=filled fillcolor=lightgreen"
		if p.Terminated {
			style = "style=filled fillcolor=lightgray"
		}
		buf.WriteString(fmt.Sprintf("  %q [shape=ellipse %s label=%q];\n", "p:"+p.Label, style, p.Label))
	}

	for _, c := range channels {
		buf.WriteString(fmt.Sprintf("  %q [shape=box label=%q];\n", "c:"+c.Name, channelLabel(c)))
		for _, procLabel := range c.Sensitized {
			buf.WriteString(fmt.Sprintf("  %q -> %q;\n", "c:"+c.Name, "p:"+procLabel))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func channelLabel(c ChannelNode) string {
	label := c.Name
	for k, v := range c.Fields {
		label += fmt.Sprintf("\\n%s=%v", k, v)
	}
	return label
}
