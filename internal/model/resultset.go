/*
PURPOSE:
  Keyed, insertion-ordered result sets and their per-set summary.

REQUIREMENTS:
  User-specified:
  - Records are looked up by (block size, name).
  - The summary line counts verdicts and names the worst one.

  Implementation-discovered:
  - Reference files must be unique per key, so Add rejects duplicates.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/output (CSV load/save)
*/

package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMatchingRecord is returned when a reference has no record for a key.
	ErrNoMatchingRecord = errors.New("no matching reference record")
	// ErrDuplicateRecord is returned when a key is added to a set twice.
	ErrDuplicateRecord = errors.New("duplicate record key")
	// ErrVerdictSet is returned when a classified record is classified again.
	ErrVerdictSet = errors.New("verdict already set")
)

// ResultSet is a named, insertion-ordered collection of records.
type ResultSet struct {
	Name    string
	records []*Record
	index   map[Key]int
}

// NewResultSet creates an empty result set.
func NewResultSet(name string) *ResultSet {
	return &ResultSet{
		Name:  name,
		index: make(map[Key]int),
	}
}

// Add appends a record. Keys must be unique within the set.
func (rs *ResultSet) Add(r *Record) error {
	k := r.Key()
	if _, ok := rs.index[k]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRecord, k)
	}
	rs.index[k] = len(rs.records)
	rs.records = append(rs.records, r)
	return nil
}

// Records returns the records in insertion order.
func (rs *ResultSet) Records() []*Record {
	return rs.records
}

// Len returns the number of records.
func (rs *ResultSet) Len() int {
	return len(rs.records)
}

// Lookup finds the record for a block size and test file.
func (rs *ResultSet) Lookup(blockSize, name string) (*Record, error) {
	k := Key{BlockSize: blockSize, Name: name}
	i, ok := rs.index[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %q", ErrNoMatchingRecord, k, rs.Name)
	}
	return rs.records[i], nil
}

// Matching finds the counterpart of r in this set.
func (rs *ResultSet) Matching(r *Record) (*Record, error) {
	return rs.Lookup(r.BlockSize, r.Name)
}

// Summary derives verdict counts and the worst verdict of the set.
func (rs *ResultSet) Summary() Summary {
	s := Summary{Name: rs.Name}
	for _, r := range rs.records {
		v := r.Verdict()
		s.Counts[v]++
		s.Worst = MaxVerdict(s.Worst, v)
	}
	return s
}

// Summary is the roll-up of a result set.
type Summary struct {
	Name   string
	Counts [Fail + 1]int
	Worst  Verdict
}

// Count returns how many records carry verdict v.
func (s Summary) Count(v Verdict) int {
	if v < NotRun || v > Fail {
		return 0
	}
	return s.Counts[v]
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Set Status: %s (PASS: %d, WARN: %d, FAIL: %d",
		s.Worst, s.Count(Pass), s.Count(Warn), s.Count(Fail))
	if n := s.Count(NotRun); n > 0 {
		fmt.Fprintf(&b, ", NOTRUN: %d", n)
	}
	b.WriteString(")")
	return b.String()
}
