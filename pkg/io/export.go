package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/infinicanvas/pkg/view"
)

// FormatVersion is the snapshot format written by WriteJSON.
const FormatVersion = 1

type document struct {
	Version int       `json:"version"`
	View    viewState `json:"view"`
	Ratio   float64   `json:"ratio"`
	Anchor  string    `json:"anchor"`
}

type viewState struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// WriteJSON encodes a snapshot as indented JSON and writes it to w.
func WriteJSON(s view.Snapshot, w io.Writer) error {
	s = s.Normalized()
	out := document{
		Version: FormatVersion,
		View: viewState{
			Scale:   s.State.Scale,
			OffsetX: s.State.OffsetX,
			OffsetY: s.State.OffsetY,
		},
		Ratio:  s.Ratio,
		Anchor: string(s.Anchor),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(s view.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
