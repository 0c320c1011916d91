/*
PURPOSE:
  Reads and writes result sets as CSV files.
  These files are the reference baselines developer runs are compared against.

REQUIREMENTS:
  User-specified:
  - One row per record: block size, test file name, PSNR, total time, coding time.
  - Rows keep the run's iteration order so diffs between runs are meaningful.

  Implementation-discovered:
  - A set's file is only written once the set is complete; an interrupted run
    must not leave a truncated file behind, so we write a temp file and rename.
  - Loaded references must be unique per (block size, name).

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine, internal/cli (compare)
  - Consumes: internal/model.ResultSet

ERROR HANDLING:
  - Returns error on file creation, write failure or malformed rows.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Header is fixed; other tooling depends on it.

USAGE:
  err := output.SaveResultSet(path, rs)
  ref, err := output.LoadResultSet("Small", path)

RELATED FILES:
  - internal/model/resultset.go

MAINTENANCE:
  - Update header and record conversion together.
*/

package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/outlawever/astc-encoder/internal/model"
)

// Header is the first row of every result file.
var Header = []string{"Block Size", "Name", "PSNR", "Total Time", "Coding Time"}

// ResultFileName returns the result file name for an encoder display name.
func ResultFileName(name string) string {
	return fmt.Sprintf("astc_%s_results.csv", name)
}

// WriteResultSet writes rs as CSV to w.
func WriteResultSet(w io.Writer, rs *model.ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rs.Records() {
		row := []string{
			r.BlockSize,
			r.Name,
			fmt.Sprintf("%.4f", r.PSNR),
			fmt.Sprintf("%.4f", r.TotalTime),
			fmt.Sprintf("%.4f", r.CodingTime),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveResultSet atomically replaces path with the CSV form of rs.
func SaveResultSet(path string, rs *model.ResultSet) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, ".results-*.csv")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := WriteResultSet(f, rs); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write results %s: %w", path, err)
	}
	// CreateTemp uses 0600; baselines are shared with other tooling.
	if err := f.Chmod(0644); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// ReadResultSet parses CSV rows from r into a new result set.
func ReadResultSet(name string, r io.Reader) (*model.ResultSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	rs := model.NewResultSet(name)
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && row[0] == Header[0] {
			continue
		}

		var vals [3]float64
		for i := range vals {
			vals[i], err = strconv.ParseFloat(row[2+i], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad %s %q: %w", line, Header[2+i], row[2+i], err)
			}
		}
		rec := model.NewRecord(row[0], row[1], vals[0], vals[1], vals[2])
		if err := rs.Add(rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
	}
	return rs, nil
}

// LoadResultSet reads a result file from disk.
func LoadResultSet(name, path string) (*model.ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()

	rs, err := ReadResultSet(name, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse result file %s: %w", path, err)
	}
	return rs, nil
}
