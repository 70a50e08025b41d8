package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voltlab/voltra/pkg/pipeline"
	"github.com/voltlab/voltra/pkg/waveform"
)

// plotCommand creates the plot command for re-rendering saved recordings.
func (c *CLI) plotCommand() *cobra.Command {
	var (
		formatsStr string
		signalsStr string
		title      string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "plot [waveform.json]",
		Short: "Render charts from a saved waveform recording",
		Long: `Render charts from a saved waveform recording.

The plot command takes a waveform JSON file (produced by 'run --format json')
and renders it without re-simulating. Signal selection and chart titles can
differ from the original run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlot(args[0], parseFormats(formatsStr), parseSignals(signalsStr), title, output)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, csv (comma-separated)")
	cmd.Flags().StringVarP(&signalsStr, "signals", "s", "", "signals to plot (comma-separated, default all)")
	cmd.Flags().StringVar(&title, "title", "", "plot title")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

func (c *CLI) runPlot(input string, formats, signals []string, title, output string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	rec, err := waveform.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}

	c.Logger.Info("loaded recording",
		"points", rec.Len(),
		"signals", len(rec.Names()))

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	defer runner.Close()

	artifacts, err := runner.Render(context.Background(), rec, nil, pipeline.Options{
		Formats: formats,
		Signals: signals,
		Title:   title,
		Logger:  c.Logger,
	})
	if err != nil {
		printError("Render failed")
		return err
	}

	base := strings.TrimSuffix(input, ".json")
	return writeArtifacts(artifacts, formats, base, output)
}
