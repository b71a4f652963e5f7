package report

import (
	"encoding/json"
	"io"
)

// EncodeJSON writes r as indented JSON.
func (r *Report) EncodeJSON(w io.Writer) error {
	return WriteJSON(w, r)
}

// WriteJSON writes v as indented JSON, e.g. a single Runtime or the
// battery list.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DecodeJSON parses a report produced by EncodeJSON.
func DecodeJSON(b []byte) (*Report, error) {
	r := &Report{}
	if err := json.Unmarshal(b, r); err != nil {
		return nil, err
	}
	return r, nil
}
