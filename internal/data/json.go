package data

import (
	"encoding/json"
	"os"

	"gridsim/internal/model"
)

// GridSnapshot matches the JSON shape of a grid case file.
//
// Example:
//
//	{
//	  "buses": [ ... ],
//	  "branches": [ ... ],
//	  "dc_lines": [ ... ],
//	  "generators": [ ... ]
//	}
type GridSnapshot struct {
	Buses      []model.Bus       `json:"buses"`
	Branches   []model.Branch    `json:"branches"`
	DCLines    []model.DCLine    `json:"dc_lines"`
	Generators []model.Generator `json:"generators"`
}

// LoadGridJSON reads a grid snapshot file. It only parses; integrity checks
// belong to model.NewCase.
func LoadGridJSON(path string) (*GridSnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap GridSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// CaseFiles names the on-disk pieces of a complete case.
type CaseFiles struct {
	Grid   string
	Demand string
	Hydro  string
	Solar  string
	Wind   string
}

// LoadCase assembles a validated Case from a snapshot plus profile tables.
// Hydro/solar/wind paths may be empty when the case has no such generators.
func LoadCase(files CaseFiles) (*model.Case, error) {
	snap, err := LoadGridJSON(files.Grid)
	if err != nil {
		return nil, err
	}

	demand, err := LoadProfileCSV(files.Demand)
	if err != nil {
		return nil, err
	}

	optional := func(path string) (*model.Profile, error) {
		if path == "" {
			return nil, nil
		}
		return LoadProfileCSV(path)
	}
	hydro, err := optional(files.Hydro)
	if err != nil {
		return nil, err
	}
	solar, err := optional(files.Solar)
	if err != nil {
		return nil, err
	}
	wind, err := optional(files.Wind)
	if err != nil {
		return nil, err
	}

	return model.NewCase(snap.Buses, snap.Branches, snap.DCLines, snap.Generators,
		demand, hydro, solar, wind)
}
