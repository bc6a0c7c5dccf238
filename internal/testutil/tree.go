package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// WriteTree materializes a file tree under a fresh temp directory and
// returns its root. Keys are slash-separated relative paths; parent
// directories are created as needed. The tree is removed by t.Cleanup.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("WriteTree: mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteTree: write %s: %v", rel, err)
		}
	}
	return root
}

// PointAnnotation builds a minimal annotation document holding one point
// shape per label, in the given order. Flags may be nil.
func PointAnnotation(flags map[string]bool, labels ...string) string {
	type shape struct {
		Label     string       `json:"label"`
		Points    [][2]float64 `json:"points"`
		ShapeType string       `json:"shape_type"`
	}
	doc := struct {
		Flags  map[string]bool `json:"flags"`
		Shapes []shape         `json:"shapes"`
	}{
		Flags:  flags,
		Shapes: make([]shape, 0, len(labels)),
	}
	if doc.Flags == nil {
		doc.Flags = map[string]bool{}
	}
	for _, label := range labels {
		doc.Shapes = append(doc.Shapes, shape{
			Label:     label,
			Points:    [][2]float64{{1, 2}},
			ShapeType: "point",
		})
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return string(data)
}
