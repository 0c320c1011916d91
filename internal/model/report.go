/*
PURPOSE:
  Comparison deltas and the per-set report handed to sinks.

ARCHITECTURE INTEGRATION:
  - Built by: internal/engine/runner.go
  - Consumed by: internal/output (JSON Lines, Redis), internal/engine/format.go
*/

package model

import "time"

// Delta holds the comparison of a result against its reference.
// Negative PSNR means a quality loss; speedups above 1 mean the result is faster.
type Delta struct {
	PSNR          float64 `json:"delta_psnr"`
	TotalSpeedup  float64 `json:"total_speedup"`
	CodingSpeedup float64 `json:"coding_speedup"`
}

// Compare computes the delta of res relative to ref.
func Compare(ref, res *Record) Delta {
	return Delta{
		PSNR:          res.PSNR - ref.PSNR,
		TotalSpeedup:  ref.TotalTime / res.TotalTime,
		CodingSpeedup: ref.CodingTime / res.CodingTime,
	}
}

// Entry pairs an executed record with its image and optional reference.
type Entry struct {
	Image     Image
	Record    *Record
	Reference *Record // nil when the run has no baseline
}

// SetReport is everything known about one completed (test set, encoder) run.
type SetReport struct {
	RunID     string
	Timestamp time.Time
	TestSet   string
	Encoder   string
	OutDir    string
	Entries   []Entry
	Summary   Summary
}
