package waveform

import (
	"encoding/json"

	"github.com/voltlab/voltra/pkg/errors"
)

// jsonRecording is the serialized form. Signals are an ordered array rather
// than a map so that encoding is deterministic and insertion order survives
// a round trip.
type jsonRecording struct {
	Time    []float64    `json:"time"`
	Signals []jsonSignal `json:"signals"`
}

type jsonSignal struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// MarshalJSON implements json.Marshaler.
func (r *Recording) MarshalJSON() ([]byte, error) {
	out := jsonRecording{
		Time:    r.time,
		Signals: make([]jsonSignal, 0, len(r.names)),
	}
	for _, name := range r.names {
		out.Signals = append(out.Signals, jsonSignal{Name: name, Values: r.signals[name]})
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Recording) UnmarshalJSON(data []byte) error {
	var in jsonRecording
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWaveform, err, "decode recording")
	}

	r.time = in.Time
	r.names = nil
	r.signals = make(map[string][]float64, len(in.Signals))
	for _, s := range in.Signals {
		if err := r.AddSignal(s.Name, s.Values); err != nil {
			return err
		}
	}
	return r.Check()
}

// Encode serializes the recording for storage (cache entries, artifacts).
func (r *Recording) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Decode deserializes a recording produced by [Recording.Encode] and
// re-checks its invariants.
func Decode(data []byte) (*Recording, error) {
	r := &Recording{}
	if err := json.Unmarshal(data, r); err != nil {
		if _, ok := err.(*errors.Error); ok {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidWaveform, err, "decode recording")
	}
	return r, nil
}
