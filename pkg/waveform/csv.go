package waveform

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes the recording as CSV: a header row of "time" plus the
// signal names, then one row per timepoint.
func (r *Recording) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, r.names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, t := range r.time {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, name := range r.names {
			row[j+1] = strconv.FormatFloat(r.signals[name][i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
