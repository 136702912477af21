package data

import (
	"os"
	"path/filepath"
	"testing"

	"gridsim/internal/model"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const gridJSON = `{
  "buses": [
    {"id": "b1", "zone": "z1", "demand_mw": 0},
    {"id": "b2", "zone": "z1", "demand_mw": 40}
  ],
  "branches": [
    {"id": "l1", "from": "b1", "to": "b2", "reactance": 0.1, "rating_mw": 100}
  ],
  "generators": [
    {"id": "g1", "fuel": "natural-gas", "bus": "b1", "pmax_mw": 100, "pmin_mw": 0,
     "cost": {"coeffs": [0, 5, 0.01]}}
  ]
}`

const demandCSV = "hour,z1\n0,40\n1,45\n2,50\n"

func TestLoadCase(t *testing.T) {
	dir := t.TempDir()
	grid := writeFile(t, dir, "grid.json", gridJSON)
	demand := writeFile(t, dir, "demand.csv", demandCSV)

	c, err := LoadCase(CaseFiles{Grid: grid, Demand: demand})
	require.NoError(t, err)
	require.Len(t, c.Buses, 2)
	require.Len(t, c.Generators, 1)
	require.Equal(t, model.FuelNaturalGas, c.Generators[0].Fuel)

	v, err := c.Demand.At("z1", 1)
	require.NoError(t, err)
	require.Equal(t, 45.0, v)
}

func TestLoadProfileCSVErrors(t *testing.T) {
	dir := t.TempDir()

	type subTest struct {
		name    string
		content string
	}
	subTests := []subTest{
		{"NoRows", "hour,z1\n"},
		{"NoColumns", "hour\n0\n"},
		{"BadHour", "hour,z1\nx,40\n"},
		{"BadValue", "hour,z1\n0,forty\n"},
		{"GapInHours", "hour,z1\n0,40\n2,50\n"},
	}
	for _, st := range subTests {
		t.Run(st.name, func(t *testing.T) {
			path := writeFile(t, dir, st.name+".csv", st.content)
			_, err := LoadProfileCSV(path)
			require.ErrorIs(t, err, model.ErrDataIntegrity)
		})
	}
}
