package tmy

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile(t *testing.T, year int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, GenerateSample(&buf, DefaultSite, year))
	return buf.Bytes()
}

func TestReadSampleShape(t *testing.T) {
	ds, err := Read(bytes.NewReader(sampleFile(t, 2005)), Options{CoerceYear: 1990})
	require.NoError(t, err)

	assert.Equal(t, 8760, ds.Frame.Len())
	assert.Equal(t, 71, ds.Frame.NumColumns())

	keys := ds.Frame.Columns()
	assert.Equal(t, "Date", keys[0])
	assert.Equal(t, "Time", keys[1])
	for _, want := range []string{"GHI", "DHI", "DNI", "DryBulb", "Wspd", "GHISource", "PresWthUncertainty"} {
		assert.Contains(t, keys, want)
	}

	assert.Equal(t, DefaultSite, ds.Metadata)
}

func TestReadCoercedIndex(t *testing.T) {
	ds, err := Read(bytes.NewReader(sampleFile(t, 2005)), Options{CoerceYear: 1990})
	require.NoError(t, err)

	loc := DefaultSite.Location()
	idx := ds.Frame.Index()

	assert.True(t, idx[0].Equal(time.Date(1990, time.January, 1, 1, 0, 0, 0, loc)))
	assert.True(t, idx[len(idx)-1].Equal(time.Date(1991, time.January, 1, 0, 0, 0, 0, loc)))
	_, offset := idx[0].Zone()
	assert.Equal(t, -5*3600, offset)

	for i := 1; i < len(idx); i++ {
		require.True(t, idx[i].After(idx[i-1]), "index not increasing at row %d", i)
	}
}

func TestReadWithoutCoercionKeepsFileYear(t *testing.T) {
	ds, err := Read(bytes.NewReader(sampleFile(t, 2005)), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2005, ds.Frame.Index()[0].Year())
}

func TestReadKeepHeaders(t *testing.T) {
	ds, err := Read(bytes.NewReader(sampleFile(t, 2005)), Options{KeepHeaders: true})
	require.NoError(t, err)

	assert.Equal(t, Headers(), ds.Frame.Columns())
}

func TestReadSmallFile(t *testing.T) {
	doc := strings.Join([]string{
		`723170,"GREENSBORO PIEDMONT TRIAD INT",NC,-5.0,36.100,-79.950,277`,
		`Date (MM/DD/YYYY),Time (HH:MM),GHI (W/m^2),Dry-bulb (C),Custom`,
		`12/31/1996,23:00,0,4.4,x`,
		`12/31/1996,24:00,0,3.9,y`,
	}, "\n") + "\n"

	ds, err := Read(strings.NewReader(doc), Options{CoerceYear: 1990})
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Time", "GHI", "DryBulb", "Custom"}, ds.Frame.Columns())
	assert.Equal(t, "GREENSBORO PIEDMONT TRIAD INT", ds.Metadata.Name)
	assert.Equal(t, 36.1, ds.Metadata.Latitude)

	idx := ds.Frame.Index()
	assert.Equal(t, 1991, idx[1].Year())
	assert.Equal(t, 0, idx[1].Hour())

	temps, err := ds.Frame.Float("DryBulb")
	require.NoError(t, err)
	assert.Equal(t, []float64{4.4, 3.9}, temps)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"bad metadata", "723170,NAME,NC,abc,36.1,-79.9,277\nDate (MM/DD/YYYY),Time (HH:MM)\n01/01/1990,01:00\n"},
		{"no rows", "723170,NAME,NC,-5,36.1,-79.9,277\nDate (MM/DD/YYYY),Time (HH:MM),GHI (W/m^2)\n"},
		{"missing time", "723170,NAME,NC,-5,36.1,-79.9,277\nDate (MM/DD/YYYY),GHI (W/m^2)\n01/01/1990,0\n"},
		{"bad time", "723170,NAME,NC,-5,36.1,-79.9,277\nDate (MM/DD/YYYY),Time (HH:MM)\n01/01/1990,25:00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc), Options{})
			assert.Error(t, err)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, os.WriteFile(path, sampleFile(t, 1990), 0644))

	ds, err := ReadFile(path, Options{CoerceYear: 1990})
	require.NoError(t, err)
	assert.Equal(t, 8760, ds.Frame.Len())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	assert.Error(t, err)
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "GHI", ShortName("GHI (W/m^2)"))
	assert.Equal(t, "DryBulb", ShortName("Dry-bulb (C)"))
	assert.Equal(t, "Something", ShortName("Something"))
	assert.Len(t, Headers(), 71)
}
