package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltlab/voltra/pkg/pipeline"
)

// demoOutput is the artifact written by the demo command.
const demoOutput = "inverter_output.png"

// demoCommand creates the demo command: a canned CMOS inverter run.
func (c *CLI) demoCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Simulate the built-in CMOS inverter and plot the result",
		Long: `Simulate the built-in CMOS inverter and plot the result.

The demo runs a 50ns transient analysis of a CMOS inverter driven by a
periodic pulse, writes the input and output waveforms to ` + demoOutput + `,
and reports the measured switching characteristics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context(), noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runDemo(ctx context.Context, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Circuit: "inverter",
		Formats: []string{pipeline.FormatPNG},
		Signals: []string{"vin", "out"},
		Logger:  c.Logger,
	})
	if err != nil {
		printError("Demo failed")
		return err
	}
	prog.done(fmt.Sprintf("Simulated %d points", result.Stats.Points))

	printSuccess("%s", result.Circuit.Title)
	printStats(result.Stats.Points, len(result.Recording.Names()), result.CacheInfo.WaveformHit)
	printWaveformPreview(result.Recording, 48)

	// Switching characteristics, measured at the 50% threshold.
	rec := result.Recording
	if delay, err := rec.PropagationDelay("vin", "out", 2.5); err == nil {
		printKeyValue("prop. delay", fmt.Sprintf("%.3g s", delay))
	}
	if rise, err := rec.RiseTime("out"); err == nil {
		printKeyValue("rise time", fmt.Sprintf("%.3g s", rise))
	}
	if fall, err := rec.FallTime("out"); err == nil {
		printKeyValue("fall time", fmt.Sprintf("%.3g s", fall))
	}

	if err := writeArtifacts(result.Artifacts, []string{pipeline.FormatPNG}, "", demoOutput); err != nil {
		return err
	}

	printNextStep("Try a netlist of your own", "voltra run circuit.toml")
	return nil
}
