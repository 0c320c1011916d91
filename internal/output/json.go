/*
PURPOSE:
  Writes per-record results of a test set to a JSON Lines file (NDJSON).
  Optimized for machine parsing by dashboards and ad-hoc jq queries.

REQUIREMENTS:
  User-specified:
  - JSON output for easier parsing (opt-in via json_results).

  Implementation-discovered:
  - JSON Lines is better for streaming/logging than a single large array (append-friendly).
  - Carries the derived comparison values the CSV cannot (delta, speedups, Mtex/s).

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (as a Sink)
  - Consumes: internal/model.SetReport

ERROR HANDLING:
  - Returns error on file creation or write failure.
  - Non-finite floats (inf PSNR of lossless images, speedups over a zero time) are
    written as "inf", "-inf" and "nan" strings; encoding/json rejects them otherwise.

USAGE:
  sink := output.NewJSONSink()
  sink.Publish(ctx, report)
*/

package output

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/outlawever/astc-encoder/internal/model"
)

// Float is a float64 that encodes +Inf, -Inf and NaN as the strings
// "inf", "-inf" and "nan".
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch s {
		case "inf":
			*f = Float(math.Inf(1))
		case "-inf":
			*f = Float(math.Inf(-1))
		case "nan":
			*f = Float(math.NaN())
		default:
			return fmt.Errorf("invalid float %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Delta is the JSON form of model.Delta.
type Delta struct {
	PSNR          Float `json:"delta_psnr"`
	TotalSpeedup  Float `json:"total_speedup"`
	CodingSpeedup Float `json:"coding_speedup"`
}

// JSONLine is one record of the JSON Lines sidecar.
type JSONLine struct {
	RunID      string        `json:"run_id"`
	Timestamp  time.Time     `json:"timestamp"`
	TestSet    string        `json:"test_set"`
	Encoder    string        `json:"encoder"`
	BlockSize  string        `json:"block_size"`
	Name       string        `json:"name"`
	Is3D       bool          `json:"is_3d"`
	PSNR       Float         `json:"psnr"`
	TotalTime  Float         `json:"total_time_s"`
	CodingTime Float         `json:"coding_time_s"`
	MTexPerS   Float         `json:"mtex_per_s,omitempty"`
	Verdict    model.Verdict `json:"verdict"`
	*Delta
}

// JSONWriter handles writing results to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Write writes a single line.
func (jw *JSONWriter) Write(l JSONLine) error {
	return jw.encoder.Encode(l)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}

// JSONLines flattens a set report into sidecar lines.
func JSONLines(rep *model.SetReport) []JSONLine {
	lines := make([]JSONLine, 0, len(rep.Entries))
	for _, e := range rep.Entries {
		r := e.Record
		l := JSONLine{
			RunID:      rep.RunID,
			Timestamp:  rep.Timestamp,
			TestSet:    rep.TestSet,
			Encoder:    rep.Encoder,
			BlockSize:  r.BlockSize,
			Name:       r.Name,
			Is3D:       e.Image.Is3D,
			PSNR:       Float(r.PSNR),
			TotalTime:  Float(r.TotalTime),
			CodingTime: Float(r.CodingTime),
			Verdict:    r.Verdict(),
		}
		if e.Image.Texels > 0 && r.CodingTime > 0 {
			l.MTexPerS = Float(float64(e.Image.Texels) / r.CodingTime / 1e6)
		}
		if e.Reference != nil {
			d := model.Compare(e.Reference, r)
			l.Delta = &Delta{
				PSNR:          Float(d.PSNR),
				TotalSpeedup:  Float(d.TotalSpeedup),
				CodingSpeedup: Float(d.CodingSpeedup),
			}
		}
		lines = append(lines, l)
	}
	return lines
}

// JSONSink writes astc_<encoder>_results.jsonl next to each set's CSV.
type JSONSink struct{}

// NewJSONSink creates a new JSONSink.
func NewJSONSink() *JSONSink {
	return &JSONSink{}
}

// Publish writes one report.
func (s *JSONSink) Publish(_ context.Context, rep *model.SetReport) error {
	path := filepath.Join(rep.OutDir, fmt.Sprintf("astc_%s_results.jsonl", rep.Encoder))
	jw, err := NewJSONWriter(path)
	if err != nil {
		return fmt.Errorf("failed to init JSON writer at %s: %w", path, err)
	}
	for _, l := range JSONLines(rep) {
		if err := jw.Write(l); err != nil {
			jw.Close()
			return fmt.Errorf("failed to write JSON line to %s: %w", path, err)
		}
	}
	return jw.Close()
}

// Close is a no-op; files are closed per report.
func (s *JSONSink) Close() error {
	return nil
}
