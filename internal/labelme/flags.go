package labelme

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Flags is an ordered set of named booleans. JSON object order is preserved
// on decode, so tallies built from many records are deterministic and match
// the order the flags appear in the files.
type Flags struct {
	names  []string
	values map[string]bool
}

// UnmarshalJSON decodes a JSON object of booleans, keeping document order.
// Duplicate keys keep their first position and last value.
func (f *Flags) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("flags: expected object, got %v", tok)
	}

	*f = Flags{values: make(map[string]bool)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("flags: expected key, got %v", keyTok)
		}
		var value bool
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("flag %q: %w", key, err)
		}
		if _, seen := f.values[key]; !seen {
			f.names = append(f.names, key)
		}
		f.values[key] = value
	}

	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the flags as an object in decode order.
func (f Flags) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range f.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("marshal flag %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatBool(f.values[name]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Names returns the flag names in document order.
func (f Flags) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// IsTrue reports whether name exists and is set.
func (f Flags) IsTrue(name string) bool {
	return f.values[name]
}

// Len returns the number of flags.
func (f Flags) Len() int {
	return len(f.names)
}

// True returns the set of asserted flag names.
func (f Flags) True() FlagSet {
	set := make(FlagSet)
	for _, name := range f.names {
		if f.values[name] {
			set[name] = struct{}{}
		}
	}
	return set
}
