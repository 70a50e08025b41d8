// Package waveplot renders recorded waveforms as line charts.
package waveplot

import (
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/voltlab/voltra/pkg/errors"
	"github.com/voltlab/voltra/pkg/waveform"
)

// Options configures a waveform plot.
type Options struct {
	// Title is drawn above the chart.
	Title string

	// Signals selects which traces to draw, in legend order. Empty means
	// every signal in the recording.
	Signals []string

	// Width and Height are the canvas size in points. Zero values fall
	// back to 720x432.
	Width, Height float64
}

// palette assigns trace colors by position, so the same recording always
// renders identically.
var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, // blue
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}, // orange
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, // green
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, // red
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff}, // purple
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff}, // brown
}

// Plot builds a chart from the recording. Trace order follows opts.Signals,
// or the recording's insertion order when unset.
func Plot(rec *waveform.Recording, opts Options) (*plot.Plot, error) {
	if err := rec.Check(); err != nil {
		return nil, err
	}

	names := opts.Signals
	if len(names) == 0 {
		names = rec.Names()
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Time [s]"
	p.Y.Label.Text = "Voltage [V]"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = false

	times := rec.Time()
	for i, name := range names {
		values, ok := rec.Signal(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeSignalNotFound, "no signal %q in recording", name)
		}

		xys := make(plotter.XYs, len(times))
		for j := range times {
			xys[j].X = times[j]
			xys[j].Y = values[j]
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "building trace %q", name)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = palette[i%len(palette)]

		p.Add(line)
		p.Legend.Add(name, line)
	}

	return p, nil
}

// WritePNG renders the recording as a PNG image.
func WritePNG(w io.Writer, rec *waveform.Recording, opts Options) error {
	return write(w, rec, opts, "png")
}

// WriteSVG renders the recording as an SVG document.
func WriteSVG(w io.Writer, rec *waveform.Recording, opts Options) error {
	return write(w, rec, opts, "svg")
}

func write(w io.Writer, rec *waveform.Recording, opts Options, format string) error {
	p, err := Plot(rec, opts)
	if err != nil {
		return err
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 720
	}
	if height <= 0 {
		height = 432
	}

	wt, err := p.WriterTo(vg.Points(width), vg.Points(height), format)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "rendering %s", format)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "writing %s", format)
	}
	return nil
}
