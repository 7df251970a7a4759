package dxt

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/dxt/bc1"
	"github.com/bodgit/dxt/dds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.RGBA{0xff, 0, 0, 0xff}
	blue = color.RGBA{0, 0, 0xff, 0xff}
)

func uniform(w, h int, c color.Color) image.Image {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(m, m.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return m
}

func writeDDS(t *testing.T, file string, m image.Image) {
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, dds.Encode(f, m))
}

func writePNG(t *testing.T, file string, m image.Image) {
	f, err := os.Create(file)
	require.Nil(t, err)
	defer f.Close()
	require.Nil(t, png.Encode(f, m))
}

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "dxt")
	require.Nil(t, err)
	return dir
}

func newLibrary(t *testing.T, dir string) (*Library, *TextureDB) {
	db, err := NewTextureDB(filepath.Join(dir, "dxt.db"))
	require.Nil(t, err)
	return New(db, log.New(ioutil.Discard, "", 0)), db
}

func TestTextureDB(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	writeDDS(t, filepath.Join(dir, "red.dds"), uniform(8, 8, red))
	writeDDS(t, filepath.Join(dir, "alsored.dds"), uniform(8, 8, red))
	writePNG(t, filepath.Join(dir, "blue.png"), uniform(4, 8, blue))

	l, db := newLibrary(t, dir)
	defer db.Close()

	for _, file := range []string{"red.dds", "alsored.dds", "blue.png"} {
		require.Nil(t, l.Import(filepath.Join(dir, file)))
	}

	names, err := l.Names()
	require.Nil(t, err)
	assert.Equal(t, []string{"alsored", "blue", "red"}, names)

	// The two red textures share block data
	n, err := db.Count()
	require.Nil(t, err)
	assert.Equal(t, 2, n)

	m, err := db.Lookup("blue")
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 8), m.Bounds())
	assert.Equal(t, bc1.Color565(0xf800), m.Color565At(3, 7))

	_, err = db.Lookup("green")
	assert.Equal(t, ErrNotFound, err)
}

func TestTextureDBReplace(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, "tex.dds")
	l, db := newLibrary(t, dir)
	defer db.Close()

	writeDDS(t, file, uniform(4, 4, red))
	require.Nil(t, l.Import(file))

	writeDDS(t, file, uniform(4, 4, blue))
	require.Nil(t, l.Import(file))

	m, err := db.Lookup("tex")
	require.Nil(t, err)
	assert.Equal(t, bc1.Color565(0xf800), m.Color565At(0, 0))

	names, err := l.Names()
	require.Nil(t, err)
	assert.Equal(t, []string{"tex"}, names)
}

func TestTextureDBInvalid(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	l, db := newLibrary(t, dir)
	defer db.Close()

	file := filepath.Join(dir, "odd.png")
	writePNG(t, file, uniform(5, 4, red))
	assert.Equal(t, bc1.ErrInvalidBlockGeometry, l.Import(file))

	assert.NotNil(t, l.Import(filepath.Join(dir, "missing.dds")))
}

func TestTextureDBPadded(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	blocks, err := bc1.Encode(uniform(8, 8, blue))
	require.Nil(t, err)

	h := dds.Header{
		Size:   124,
		Flags:  dds.FlagCaps | dds.FlagHeight | dds.FlagWidth | dds.FlagPixelFormat,
		Height: 5,
		Width:  6,
		PixelFormat: dds.PixelFormat{
			Size:   32,
			Flags:  dds.PixelFormatFourCC,
			FourCC: dds.FourCCDXT1,
		},
	}
	b := new(bytes.Buffer)
	b.WriteString("DDS ")
	require.Nil(t, binary.Write(b, binary.LittleEndian, &h))
	b.Write(blocks)
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "odd.dds"), b.Bytes(), 0644))
	writeDDS(t, filepath.Join(dir, "square.dds"), uniform(8, 8, blue))

	l, db := newLibrary(t, dir)
	defer db.Close()

	require.Nil(t, l.Import(filepath.Join(dir, "odd.dds")))
	require.Nil(t, l.Import(filepath.Join(dir, "square.dds")))

	m, err := db.Lookup("odd")
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 5), m.Bounds())
	assert.Equal(t, bc1.Color565(0xf800), m.Color565At(5, 4))

	// Same blocks, different shape
	n, err := db.Count()
	require.Nil(t, err)
	assert.Equal(t, 2, n)

	out := new(bytes.Buffer)
	require.Nil(t, l.Export("odd", out))
	p, err := png.Decode(out)
	require.Nil(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 5), p.Bounds())
}

func TestExport(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	l, db := newLibrary(t, dir)
	defer db.Close()

	writeDDS(t, filepath.Join(dir, "red.dds"), uniform(8, 4, red))
	require.Nil(t, l.Import(filepath.Join(dir, "red.dds")))

	b := new(bytes.Buffer)
	require.Nil(t, l.Export("red", b))

	m, err := png.Decode(b)
	require.Nil(t, err)
	r, g, bl, _ := m.At(7, 3).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0}, []uint32{r, g, bl})

	out := filepath.Join(dir, "out.png")
	require.Nil(t, l.ExportFile("red", out))
	_, err = os.Stat(out)
	assert.Nil(t, err)

	assert.Equal(t, ErrNotFound, l.Export("missing", b))
}

func TestScan(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	for _, d := range []string{"a", "a/b", ".hidden"} {
		require.Nil(t, os.MkdirAll(filepath.Join(dir, d), 0755))
	}
	writeDDS(t, filepath.Join(dir, "top.dds"), uniform(4, 4, red))
	writeDDS(t, filepath.Join(dir, "a", "one.DDS"), uniform(8, 4, blue))
	writeDDS(t, filepath.Join(dir, "a", "b", "two.dds"), uniform(4, 8, red))
	writeDDS(t, filepath.Join(dir, ".hidden", "skip.dds"), uniform(4, 4, red))

	l, db := newLibrary(t, dir)
	defer db.Close()

	require.Nil(t, l.Scan(dir, 4))

	for file, r := range map[string]image.Rectangle{
		"top.png":     image.Rect(0, 0, 4, 4),
		"a/one.png":   image.Rect(0, 0, 8, 4),
		"a/b/two.png": image.Rect(0, 0, 4, 8),
	} {
		f, err := os.Open(filepath.Join(dir, filepath.FromSlash(file)))
		require.Nil(t, err, file)
		m, err := png.Decode(f)
		f.Close()
		require.Nil(t, err, file)
		assert.Equal(t, r, m.Bounds(), file)
	}

	_, err := os.Stat(filepath.Join(dir, ".hidden", "skip.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestScanCorrupt(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "bad.dds"), []byte("DDS garbage"), 0644))

	l, db := newLibrary(t, dir)
	defer db.Close()

	assert.NotNil(t, l.Scan(dir, 2))
}

func TestScanSkipsUnsupported(t *testing.T) {
	dir := tempDir(t)
	defer os.RemoveAll(dir)

	h := dds.Header{
		Size:   124,
		Flags:  dds.FlagCaps | dds.FlagHeight | dds.FlagWidth | dds.FlagPixelFormat,
		Height: 4,
		Width:  4,
		PixelFormat: dds.PixelFormat{
			Size:   32,
			Flags:  dds.PixelFormatFourCC,
			FourCC: 0x35545844, // DXT5
		},
	}
	b := new(bytes.Buffer)
	b.WriteString("DDS ")
	require.Nil(t, binary.Write(b, binary.LittleEndian, &h))
	b.Write(make([]byte, 16))
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "alpha.dds"), b.Bytes(), 0644))

	l, db := newLibrary(t, dir)
	defer db.Close()

	require.Nil(t, l.Scan(dir, 1))

	_, err := os.Stat(filepath.Join(dir, "alpha.png"))
	assert.True(t, os.IsNotExist(err))
}
