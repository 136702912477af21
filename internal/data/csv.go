package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"gridsim/internal/model"
)

// LoadProfileCSV reads an hour-indexed time-series table.
//
// The first column is the absolute hour index; every other column is one
// entity (zone or generator id), named in the header row.
func LoadProfileCSV(path string) (*model.Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s: profile needs a header and at least one row",
			model.ErrDataIntegrity, path)
	}

	header := records[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: %s: profile needs at least one entity column",
			model.ErrDataIntegrity, path)
	}

	ids := header[1:]
	hours := make([]int, 0, len(records)-1)
	columns := make(map[string][]float64, len(ids))
	for _, id := range ids {
		columns[id] = make([]float64, 0, len(records)-1)
	}

	for line, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: %s: row %d has %d fields, header has %d",
				model.ErrDataIntegrity, path, line+2, len(rec), len(header))
		}
		hour, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: row %d: bad hour %q",
				model.ErrDataIntegrity, path, line+2, rec[0])
		}
		hours = append(hours, hour)
		for i, id := range ids {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: row %d column %q: bad value %q",
					model.ErrDataIntegrity, path, line+2, id, rec[i+1])
			}
			columns[id] = append(columns[id], v)
		}
	}

	return model.NewProfile(hours, columns)
}
