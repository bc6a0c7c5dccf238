// Package labelme holds the annotation-record schema and small helpers over
// it. Field names and JSON tags follow the upstream LabelMe format, camelCase
// and all; the validator reads only flags and shape labels/types, but the
// full record shape is kept so files round-trip.
package labelme

import (
	"encoding/json"
	"fmt"
	"os"
)

// ShapeTypePoint is the one shape type the rule engine counts. Rectangles,
// polygons, circles, lines, and linestrips are invisible to rules.
const ShapeTypePoint = "point"

// Point is an x, y coordinate pair, serialized as a two-element array.
type Point [2]float64

// Shape is one labeled annotation entry.
type Shape struct {
	Label     string  `json:"label"`
	Points    []Point `json:"points"`
	GroupID   *string `json:"group_id"`
	ShapeType string  `json:"shape_type"`
	Flags     Flags   `json:"flags"`
}

// Record is one annotation file's parsed content.
type Record struct {
	Version     string  `json:"version"`
	Flags       Flags   `json:"flags"`
	Shapes      []Shape `json:"shapes"`
	ImagePath   string  `json:"imagePath"`
	ImageData   *string `json:"imageData"`
	ImageHeight int     `json:"imageHeight"`
	ImageWidth  int     `json:"imageWidth"`
}

// TrueFlags returns the record's asserted flag names.
func (r Record) TrueFlags() FlagSet {
	return r.Flags.True()
}

// Line is one NDJSON entry: a record plus the filename it came from.
type Line struct {
	Content  Record `json:"content"`
	Filename string `json:"filename"`
}

// Decode parses record JSON.
func Decode(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// DecodeLine parses one NDJSON line.
func DecodeLine(data []byte) (Line, error) {
	var line Line
	if err := json.Unmarshal(data, &line); err != nil {
		return Line{}, err
	}
	return line, nil
}

// Load reads and decodes one annotation file.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	rec, err := Decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// FlagSet is a set of flag names.
type FlagSet map[string]struct{}

// NewFlagSet builds a set from names.
func NewFlagSet(names ...string) FlagSet {
	s := make(FlagSet, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s FlagSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Intersects reports whether the two sets share any name.
func (s FlagSet) Intersects(other FlagSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for name := range small {
		if large.Has(name) {
			return true
		}
	}
	return false
}
