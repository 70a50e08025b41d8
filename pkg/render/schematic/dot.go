// Package schematic renders circuits as Graphviz connectivity diagrams.
// The layout is topological, not geometric: nodes become vertices, two-terminal
// elements become labeled edges, and MOSFETs become boxes with one edge per
// terminal.
package schematic

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/voltlab/voltra/pkg/circuit"
	"github.com/voltlab/voltra/pkg/errors"
)

// Options configures schematic rendering.
type Options struct {
	// Values includes component values in edge labels.
	// When false, only element IDs are shown.
	Values bool
}

// ToDOT converts a circuit to Graphviz DOT format. The resulting DOT string
// can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(c *circuit.Circuit, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph circuit {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("\n")

	// Ground gets a distinct mark; remaining vertices carry the node name.
	if hasGround(c) {
		buf.WriteString("  \"0\" [label=\"gnd\", shape=invtriangle, fillcolor=lightgrey];\n")
	}
	for _, n := range c.Nodes() {
		fmt.Fprintf(&buf, "  %q;\n", string(n))
	}
	buf.WriteString("\n")

	for _, e := range c.Elements() {
		switch el := e.(type) {
		case *circuit.MOSFET:
			fmt.Fprintf(&buf, "  %q [label=%q, shape=box, fillcolor=lightyellow];\n",
				el.ID(), mosfetLabel(el, opts))
			for i, term := range el.Terminals() {
				fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", el.ID(), vertex(term), [4]string{"d", "g", "s", "b"}[i])
			}
		default:
			terms := e.Terminals()
			fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n",
				vertex(terms[0]), vertex(terms[1]), edgeLabel(e, opts))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func hasGround(c *circuit.Circuit) bool {
	for _, e := range c.Elements() {
		for _, n := range e.Terminals() {
			if n.IsGround() {
				return true
			}
		}
	}
	return false
}

// vertex maps a terminal to its DOT vertex name, folding every ground
// spelling onto the canonical one.
func vertex(n circuit.Node) string {
	if n.IsGround() {
		return "0"
	}
	return string(n)
}

func edgeLabel(e circuit.Element, opts Options) string {
	if !opts.Values {
		return e.ID()
	}
	switch el := e.(type) {
	case *circuit.Resistor:
		return fmt.Sprintf("%s\n%s", el.ID(), circuit.FormatValue(el.Ohms))
	case *circuit.Capacitor:
		return fmt.Sprintf("%s\n%sF", el.ID(), circuit.FormatValue(el.Farads))
	case *circuit.VSource:
		return fmt.Sprintf("%s\n%sV", el.ID(), circuit.FormatValue(el.DC))
	case *circuit.PulseSource:
		return fmt.Sprintf("%s\npulse %s/%sV", el.ID(),
			circuit.FormatValue(el.Spec.Initial), circuit.FormatValue(el.Spec.Pulsed))
	case *circuit.ISource:
		return fmt.Sprintf("%s\n%sA", el.ID(), circuit.FormatValue(el.DC))
	default:
		return e.ID()
	}
}

func mosfetLabel(m *circuit.MOSFET, opts Options) string {
	if !opts.Values {
		return m.ID()
	}
	return fmt.Sprintf("%s\n%s l=%s w=%s", m.ID(), m.Model,
		circuit.FormatValue(m.Length), circuit.FormatValue(m.Width))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return buf.Bytes(), nil
}
