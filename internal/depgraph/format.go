package depgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format selects a textual rendering of a graph.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatDOT  Format = "dot"
)

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatDOT:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown graph format %q (want text, json or dot)", s)
	}
}

type jsonGraph struct {
	Name  string `json:"name,omitempty"`
	Edges []Edge `json:"edges"`
}

// Write renders g to w. Edges are always emitted in sorted order.
func Write(w io.Writer, name string, g *Graph, format Format) error {
	edges := g.Edges()
	switch format {
	case FormatJSON:
		if edges == nil {
			edges = []Edge{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonGraph{Name: name, Edges: edges})
	case FormatDOT:
		var b strings.Builder
		fmt.Fprintf(&b, "digraph %s {\n", strconv.Quote(name))
		b.WriteString("  rankdir=LR;\n")
		for _, e := range edges {
			fmt.Fprintf(&b, "  %s -> %s;\n", strconv.Quote(e.Source), strconv.Quote(e.Target))
		}
		b.WriteString("}\n")
		_, err := io.WriteString(w, b.String())
		return err
	default:
		var b strings.Builder
		if name != "" {
			fmt.Fprintf(&b, "# %s (%d edges)\n", name, len(edges))
		}
		for _, e := range edges {
			fmt.Fprintf(&b, "%s -> %s\n", e.Source, e.Target)
		}
		_, err := io.WriteString(w, b.String())
		return err
	}
}
