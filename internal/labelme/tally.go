package labelme

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Tally counts string keys, remembering first-seen order. Its JSON form is
// an object whose keys appear in that order, which keeps summary output
// stable across runs over the same files.
type Tally struct {
	keys   []string
	counts map[string]int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments key's count.
func (t *Tally) Add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.keys = append(t.keys, key)
	}
	t.counts[key]++
}

// Count returns key's count; unseen keys read as zero.
func (t *Tally) Count(key string) int {
	return t.counts[key]
}

// Keys returns the keys in first-seen order.
func (t *Tally) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Len returns the number of distinct keys.
func (t *Tally) Len() int {
	return len(t.keys)
}

// MarshalJSON encodes the tally as an object in first-seen key order.
func (t *Tally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", key, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(t.counts[key]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ShapeTally counts labels per shape type, both levels in first-seen order.
type ShapeTally struct {
	types  []string
	byType map[string]*Tally
}

// NewShapeTally returns an empty shape tally.
func NewShapeTally() *ShapeTally {
	return &ShapeTally{byType: make(map[string]*Tally)}
}

// Add counts one shape occurrence.
func (t *ShapeTally) Add(shapeType, label string) {
	inner, ok := t.byType[shapeType]
	if !ok {
		inner = NewTally()
		t.byType[shapeType] = inner
		t.types = append(t.types, shapeType)
	}
	inner.Add(label)
}

// Count returns the count for one shape type and label.
func (t *ShapeTally) Count(shapeType, label string) int {
	inner, ok := t.byType[shapeType]
	if !ok {
		return 0
	}
	return inner.Count(label)
}

// MarshalJSON encodes the nested tallies, outer and inner keys both in
// first-seen order.
func (t *ShapeTally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, shapeType := range t.types {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(shapeType)
		if err != nil {
			return nil, fmt.Errorf("marshal shape type %q: %w", shapeType, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		inner, err := t.byType[shapeType].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TallyShapes counts every shape in a record by type and label.
func TallyShapes(shapes []Shape) *ShapeTally {
	t := NewShapeTally()
	for _, s := range shapes {
		t.Add(s.ShapeType, s.Label)
	}
	return t
}
