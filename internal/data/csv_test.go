package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadResourceCSV(t *testing.T) {
	path := writeCSV(t, "wind.csv",
		"datetime,wind speed,load\n"+
			"01/01/2017 00:00,6.5,40\n"+
			"01/01/2017 01:00,7.1,38\n")

	series, err := LoadResourceCSV(path, ColumnWindSpeed)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC), series[0].Timestamp)
	assert.Equal(t, 6.5, series[0].Value)
	assert.Equal(t, 7.1, series[1].Value)

	// The same file serves a different model through its own column.
	load, err := LoadResourceCSV(path, ColumnLoad)
	require.NoError(t, err)
	assert.Equal(t, 40.0, load[0].Value)
}

func TestLoadResourceCSVMissingColumn(t *testing.T) {
	path := writeCSV(t, "wind.csv",
		"datetime,wind speed\n01/01/2017 00:00,6.5\n")

	_, err := LoadResourceCSV(path, ColumnIrradiance)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain a column named")
}

func TestLoadResourceCSVBadValues(t *testing.T) {
	t.Run("bad datetime", func(t *testing.T) {
		path := writeCSV(t, "r.csv",
			"datetime,load\n2017-01-01T00:00,40\n")
		_, err := LoadResourceCSV(path, ColumnLoad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad datetime")
	})

	t.Run("bad value", func(t *testing.T) {
		path := writeCSV(t, "r.csv",
			"datetime,load\n01/01/2017 00:00,n/a\n")
		_, err := LoadResourceCSV(path, ColumnLoad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad load value")
	})

	t.Run("no data rows", func(t *testing.T) {
		path := writeCSV(t, "r.csv", "datetime,load\n")
		_, err := LoadResourceCSV(path, ColumnLoad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data rows")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadResourceCSV(filepath.Join(t.TempDir(), "absent.csv"), ColumnLoad)
		require.Error(t, err)
	})
}

func TestLoadPowerCurveCSV(t *testing.T) {
	path := writeCSV(t, "curve.csv",
		"wind speed,power\n0,0\n5,1\n10,3.3\n")

	curve, err := LoadPowerCurveCSV(path)
	require.NoError(t, err)
	require.Len(t, curve.Points, 3)
	assert.Equal(t, 5.0, curve.Points[1].WindSpeed)
	assert.Equal(t, 3.3, curve.Points[2].Power)
}

func TestLoadPowerCurveCSVInvalidCurve(t *testing.T) {
	// Speeds must be strictly increasing, so the loader rejects this file.
	path := writeCSV(t, "curve.csv",
		"wind speed,power\n5,1\n5,2\n")

	_, err := LoadPowerCurveCSV(path)
	require.Error(t, err)
}
