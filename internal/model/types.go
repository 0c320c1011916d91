/*
PURPOSE:
  Defines the core data structures used throughout the image test harness.
  These models represent test images, measured results and verdicts.

REQUIREMENTS:
  User-specified:
  - Record block size, test file, PSNR, total time, coding time.
  - Tag every image with profile, format and dimensionality.

  Implementation-discovered:
  - Need JSON tags for the JSON Lines sidecar and the Redis publisher.
  - Block size dimensionality is structural (count of 'x' separators).

ARCHITECTURE INTEGRATION:
  - Used by: internal/testset, internal/encoder, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - Sentinel errors for lookups and verdict assignment (see resultset.go).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Images are immutable once discovered; pass them by value.

USAGE:
  rec := model.NewRecord("6x6", "ldr-rgb-00.png", 38.1, 1.2, 0.9)

RELATED FILES:
  - internal/model/verdict.go
  - internal/model/resultset.go
  - internal/output/csv.go

MAINTENANCE:
  - Update the CSV reader/writer when adding persisted fields.
*/

package model

import "strings"

// Profile is an ASTC color profile.
type Profile string

const (
	ProfileLDR     Profile = "ldr"
	ProfileLDRSRGB Profile = "ldrs"
	ProfileHDR     Profile = "hdr"
)

// Format is the channel layout of a test image.
type Format string

const (
	FormatL    Format = "l"
	FormatXY   Format = "xy"
	FormatRGB  Format = "rgb"
	FormatRGBA Format = "rgba"
)

// Image describes a single test image inside a test set.
type Image struct {
	// TestFile is the path relative to the set directory; it names the record.
	TestFile string  `json:"test_file"`
	Path     string  `json:"path"`
	Name     string  `json:"name"`
	Is3D     bool    `json:"is_3d"`
	Profile  Profile `json:"profile"`
	Format   Format  `json:"format"`
	Texels   int     `json:"texels,omitempty"` // 0 when the container cannot be probed
}

// Is3D reports whether a block size token describes a 3D block.
// A token is 3D iff it has exactly two 'x' separators.
func Is3D(blockSize string) bool {
	return strings.Count(blockSize, "x") == 2
}

// Compatible reports whether a block size may be applied to an image.
func Compatible(blockSize string, img Image) bool {
	return Is3D(blockSize) == img.Is3D
}

// Record is the outcome of one (block size, image) test execution.
type Record struct {
	BlockSize  string  `json:"block_size"`
	Name       string  `json:"name"`
	PSNR       float64 `json:"psnr"`
	TotalTime  float64 `json:"total_time_s"`
	CodingTime float64 `json:"coding_time_s"`

	verdict Verdict
}

// NewRecord creates an unclassified record.
func NewRecord(blockSize, name string, psnr, totalTime, codingTime float64) *Record {
	return &Record{
		BlockSize:  blockSize,
		Name:       name,
		PSNR:       psnr,
		TotalTime:  totalTime,
		CodingTime: codingTime,
	}
}

// Key returns the natural lookup key of the record.
func (r *Record) Key() Key {
	return Key{BlockSize: r.BlockSize, Name: r.Name}
}

// Verdict returns the attached verdict, NotRun if none was attached.
func (r *Record) Verdict() Verdict {
	return r.verdict
}

// SetVerdict attaches the verdict. A record is classified at most once.
func (r *Record) SetVerdict(v Verdict) error {
	if r.verdict != NotRun {
		return ErrVerdictSet
	}
	r.verdict = v
	return nil
}

// Key identifies a record across result sets.
type Key struct {
	BlockSize string
	Name      string
}

func (k Key) String() string {
	return k.BlockSize + " " + k.Name
}
