package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/voltlab/voltra/pkg/cache"
	"github.com/voltlab/voltra/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"csv", false},
		{"json", false},
		{"invalid", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"png", "csv"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"png", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateMethod(t *testing.T) {
	tests := []struct {
		method  string
		wantErr bool
	}{
		{"euler", false},
		{"trapezoidal", false},
		{"gear", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateMethod(tt.method)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMethod(%q) error = %v, wantErr %v", tt.method, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Circuit: "inverter"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}

	if opts.Step != DefaultStep {
		t.Errorf("Step should be %g, got %g", DefaultStep, opts.Step)
	}
	if opts.End != DefaultEnd {
		t.Errorf("End should be %g, got %g", DefaultEnd, opts.End)
	}
	if opts.Temperature != DefaultTemperature {
		t.Errorf("Temperature should be %g, got %g", DefaultTemperature, opts.Temperature)
	}
	if opts.Method != DefaultMethod {
		t.Errorf("Method should be %q, got %q", DefaultMethod, opts.Method)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPNG {
		t.Errorf("Formats should default to [png], got %v", opts.Formats)
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty", Options{}},
		{"both sources", Options{Circuit: "inverter", Netlist: "x.toml"}},
		{"bad method", Options{Circuit: "inverter", Method: "gear"}},
		{"bad format", Options{Circuit: "inverter", Formats: []string{"pdf"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestExecuteInverter(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{
		Circuit: "inverter",
		End:     10e-9, // keep the test fast
		Formats: []string{FormatPNG, FormatCSV, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.RunID.String() == "" {
		t.Error("missing run ID")
	}
	if res.Stats.Points != 101 {
		t.Errorf("points = %d, want 101", res.Stats.Points)
	}
	if !strings.HasPrefix(res.Deck, "* CMOS Inverter") {
		t.Errorf("unexpected deck header: %q", res.Deck[:min(40, len(res.Deck))])
	}
	if res.DeckHash == "" {
		t.Error("missing deck hash")
	}

	png := res.Artifacts[FormatPNG]
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}
	csv := res.Artifacts[FormatCSV]
	if !bytes.HasPrefix(csv, []byte("time,")) {
		t.Error("csv artifact missing header")
	}
	if !bytes.Contains(res.Artifacts[FormatJSON], []byte(`"signals"`)) {
		t.Error("json artifact missing signals")
	}
}

func TestExecuteUnknownCircuit(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Circuit: "oscillator"})
	if errors.GetCode(err) != errors.ErrCodeCircuitNotFound {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeCircuitNotFound)
	}
}

func TestSimulateUsesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Circuit: "rc", Step: 1e-6, End: 1e-4}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.WaveformHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.WaveformHit {
		t.Error("second run should hit the cache")
	}

	a, _ := first.Recording.Signal("out")
	b, _ := second.Recording.Signal("out")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cached recording diverges at sample %d", i)
		}
	}
}

func TestSimulateRefreshBypassesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Circuit: "rc", Step: 1e-6, End: 1e-4}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	opts.Refresh = true
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.WaveformHit {
		t.Error("refresh run should bypass the cache")
	}
}
