package cli

import (
	"testing"
)

func TestPipelineOptionsParsing(t *testing.T) {
	opts := runOpts{stepStr: "0.1n", endStr: "50n", temp: 25, method: "euler"}

	popts, err := opts.pipelineOptions()
	if err != nil {
		t.Fatalf("pipelineOptions: %v", err)
	}
	if popts.Step != 0.1e-9 {
		t.Errorf("Step = %g, want 0.1e-9", popts.Step)
	}
	if popts.End != 50e-9 {
		t.Errorf("End = %g, want 50e-9", popts.End)
	}
	if popts.Circuit != "inverter" {
		t.Errorf("Circuit = %q, want inverter (default)", popts.Circuit)
	}
}

func TestPipelineOptionsNetlistWins(t *testing.T) {
	opts := runOpts{netlist: "x.toml", stepStr: "1u", endStr: "1m"}

	popts, err := opts.pipelineOptions()
	if err != nil {
		t.Fatalf("pipelineOptions: %v", err)
	}
	if popts.Circuit != "" {
		t.Errorf("Circuit = %q, want empty when a netlist is given", popts.Circuit)
	}
	if popts.Netlist != "x.toml" {
		t.Errorf("Netlist = %q", popts.Netlist)
	}
}

func TestPipelineOptionsBadStep(t *testing.T) {
	opts := runOpts{stepStr: "fast", endStr: "50n"}
	if _, err := opts.pipelineOptions(); err == nil {
		t.Error("expected error for unparsable step")
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		opts runOpts
		want string
	}{
		{runOpts{netlist: "designs/filter.toml"}, "filter"},
		{runOpts{circuitStr: "rc"}, "rc"},
		{runOpts{}, "inverter"},
	}
	for _, tt := range tests {
		if got := tt.opts.outputBase(); got != tt.want {
			t.Errorf("outputBase(%+v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name   string
		format string
		base   string
		output string
		single bool
		want   string
	}{
		{"derived from base", "png", "inverter", "", true, "inverter.png"},
		{"explicit single", "png", "inverter", "waves.png", true, "waves.png"},
		{"multi strips extension", "svg", "inverter", "waves.png", false, "waves.svg"},
		{"multi plain base", "csv", "inverter", "waves", false, "waves.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactPath(tt.format, tt.base, tt.output, tt.single); got != tt.want {
				t.Errorf("artifactPath = %q, want %q", got, tt.want)
			}
		})
	}
}
