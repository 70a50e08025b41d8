package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voltlab/voltra/pkg/circuit"
	"github.com/voltlab/voltra/pkg/render/schematic"
)

// netlistCommand creates the netlist command for inspecting circuits.
func (c *CLI) netlistCommand() *cobra.Command {
	var (
		circuitStr string
		graph      string
		values     bool
	)

	cmd := &cobra.Command{
		Use:   "netlist [netlist.toml]",
		Short: "Print a circuit as a SPICE deck or connectivity graph",
		Long: `Print a circuit as a SPICE deck or connectivity graph.

Without flags, the circuit is exported in SPICE netlist format. With
--graph, a Graphviz rendering of the circuit connectivity is written
instead (dot, svg, or png).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ckt, err := loadCircuit(args, circuitStr)
			if err != nil {
				return err
			}
			if graph == "" {
				fmt.Print(ckt.Deck())
				return nil
			}
			return writeGraph(ckt, graph, values)
		},
	}

	cmd.Flags().StringVarP(&circuitStr, "circuit", "c", "", "built-in circuit: inverter, rc")
	cmd.Flags().StringVarP(&graph, "graph", "g", "", "write a connectivity graph to this file (.dot, .svg, or .png)")
	cmd.Flags().BoolVar(&values, "values", false, "include component values in graph labels")

	return cmd
}

// loadCircuit resolves the positional netlist argument or the --circuit flag,
// defaulting to the built-in inverter.
func loadCircuit(args []string, circuitStr string) (*circuit.Circuit, error) {
	if len(args) == 1 {
		return circuit.LoadFile(args[0])
	}
	if circuitStr == "" {
		circuitStr = "inverter"
	}
	return circuit.Builtin(circuitStr)
}

// writeGraph renders the circuit connectivity in the format implied by the
// output file extension.
func writeGraph(ckt *circuit.Circuit, path string, values bool) error {
	dot := schematic.ToDOT(ckt, schematic.Options{Values: values})

	var (
		data []byte
		err  error
	)
	switch {
	case hasExt(path, ".dot"):
		data = []byte(dot)
	case hasExt(path, ".svg"):
		data, err = schematic.RenderSVG(dot)
	case hasExt(path, ".png"):
		data, err = schematic.RenderPNG(dot)
	default:
		return fmt.Errorf("unsupported graph format: %s (use .dot, .svg, or .png)", path)
	}
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

func hasExt(path, ext string) bool {
	return len(path) >= len(ext) && path[len(path)-len(ext):] == ext
}
