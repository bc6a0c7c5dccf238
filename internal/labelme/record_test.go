package labelme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{
  "version": "4.5.7",
  "flags": {"reviewed": true, "broken": false},
  "shapes": [
    {"label": "TL", "points": [[10.0, 20.0]], "group_id": null, "shape_type": "point", "flags": {}},
    {"label": "box", "points": [[0.0, 0.0], [5.0, 5.0]], "group_id": null, "shape_type": "rectangle", "flags": {}}
  ],
  "imagePath": "img.jpg",
  "imageData": null,
  "imageHeight": 100,
  "imageWidth": 200
}`

func TestDecode_Record(t *testing.T) {
	rec, err := Decode([]byte(sampleRecord))
	require.NoError(t, err)

	assert.Equal(t, "4.5.7", rec.Version)
	assert.Equal(t, "img.jpg", rec.ImagePath)
	assert.Nil(t, rec.ImageData)
	assert.Equal(t, 100, rec.ImageHeight)
	assert.Equal(t, 200, rec.ImageWidth)

	require.Len(t, rec.Shapes, 2)
	assert.Equal(t, "TL", rec.Shapes[0].Label)
	assert.Equal(t, ShapeTypePoint, rec.Shapes[0].ShapeType)
	assert.Equal(t, Point{10, 20}, rec.Shapes[0].Points[0])
	assert.Equal(t, "rectangle", rec.Shapes[1].ShapeType)

	assert.True(t, rec.Flags.IsTrue("reviewed"))
	assert.False(t, rec.Flags.IsTrue("broken"))
	assert.False(t, rec.Flags.IsTrue("missing"))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"flags": 3}`))
	assert.Error(t, err)
}

func TestDecodeLine_WrapsRecord(t *testing.T) {
	line, err := DecodeLine([]byte(`{"content": ` + sampleRecord + `, "filename": "a.json"}`))
	require.NoError(t, err)
	assert.Equal(t, "a.json", line.Filename)
	assert.Len(t, line.Content.Shapes, 2)
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rec.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleRecord), 0o644))

	rec, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "img.jpg", rec.ImagePath)

	_, err = Load(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestTrueFlags(t *testing.T) {
	rec, err := Decode([]byte(sampleRecord))
	require.NoError(t, err)

	set := rec.TrueFlags()
	assert.True(t, set.Has("reviewed"))
	assert.False(t, set.Has("broken"))
	assert.Len(t, set, 1)
}

func TestFlagSet_Intersects(t *testing.T) {
	a := NewFlagSet("f1", "f2")
	b := NewFlagSet("f2", "f3")
	empty := NewFlagSet()

	assert.True(t, a.Intersects(b))
	assert.True(t, b.Intersects(a))
	assert.False(t, a.Intersects(NewFlagSet("f3")))
	assert.False(t, a.Intersects(empty))
	assert.False(t, empty.Intersects(empty))
}
