package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// WriteCSV persists one interval's matrices under dir, one file per
// quantity. Rows are entities, columns are absolute hours.
func WriteCSV(dir string, r *Results) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := []struct {
		name string
		ids  []string
		m    *mat.Dense
	}{
		{"generation.csv", r.GeneratorIDs, r.Generation},
		{"flow.csv", r.LineIDs, r.Flow},
		{"angle.csv", r.BusIDs, r.Angle},
		{"nodal_price.csv", r.BusIDs, r.NodalPrice},
		{"congestion_lower.csv", r.LineIDs, r.CongestionLower},
		{"congestion_upper.csv", r.LineIDs, r.CongestionUpper},
	}
	if r.LoadShed != nil {
		files = append(files, struct {
			name string
			ids  []string
			m    *mat.Dense
		}{"load_shed.csv", r.BusIDs, r.LoadShed})
	}

	for _, f := range files {
		if err := writeMatrixCSV(filepath.Join(dir, f.name), f.ids, r.StartHour, r.Hours, f.m); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

func writeMatrixCSV(path string, ids []string, startHour, hours int, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, 1+hours)
	header[0] = "id"
	for t := 0; t < hours; t++ {
		header[1+t] = strconv.Itoa(startHour + t)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, id := range ids {
		row := make([]string, 1+hours)
		row[0] = id
		for t := 0; t < hours; t++ {
			row[1+t] = fmtFloat(m.At(i, t))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// ReadMatrixCSV loads a matrix written by WriteCSV: entity ids, absolute
// hour indices, and one value row per entity.
func ReadMatrixCSV(path string) (ids []string, hours []int, values [][]float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil, fmt.Errorf("%s: empty matrix file", path)
	}

	for _, cell := range records[0][1:] {
		hr, err := strconv.Atoi(cell)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("%s: bad hour header %q", path, cell)
		}
		hours = append(hours, hr)
	}
	for _, rec := range records[1:] {
		ids = append(ids, rec[0])
		row := make([]float64, len(rec)-1)
		for i, cell := range rec[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("%s: bad value %q", path, cell)
			}
			row[i] = v
		}
		values = append(values, row)
	}
	return ids, hours, values, nil
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
