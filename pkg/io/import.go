package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/geom"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// ReadJSON decodes a snapshot from r.
//
// Missing fields take their defaults (scale 1, ratio 1, anchor CC). The
// returned snapshot is normalized. ReadJSON does not close r.
func ReadJSON(r io.Reader) (view.Snapshot, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return view.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode snapshot")
	}
	if data.Version > FormatVersion {
		return view.Snapshot{}, errors.New(errors.ErrCodeUnsupported,
			"snapshot version %d is newer than supported version %d", data.Version, FormatVersion)
	}
	if err := errors.ValidateFinite("view", data.View.Scale, data.View.OffsetX, data.View.OffsetY, data.Ratio); err != nil {
		return view.Snapshot{}, err
	}

	anchor := geom.DefaultAnchor
	if data.Anchor != "" {
		a, err := geom.ParseAnchor(data.Anchor)
		if err != nil {
			return view.Snapshot{}, err
		}
		anchor = a
	}

	s := view.Snapshot{
		State: view.State{
			Scale:   data.View.Scale,
			OffsetX: data.View.OffsetX,
			OffsetY: data.View.OffsetY,
		},
		Ratio:  data.Ratio,
		Anchor: anchor,
	}
	return s.Normalized(), nil
}

// ImportJSON reads a snapshot file at path.
func ImportJSON(path string) (view.Snapshot, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return view.Snapshot{}, errors.New(errors.ErrCodeFileNotFound, "snapshot not found: %s", path)
	}
	if err != nil {
		return view.Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
