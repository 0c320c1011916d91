/*
PURPOSE:
  High-level runner that orchestrates the image regression run.
  Loops through Test Sets -> Encoders -> (Block Size, Image) pairs and executes tests.

REQUIREMENTS:
  User-specified:
  - Compare developer builds against the stored reference results.
  - Roll verdicts up per set and across the whole invocation.

  Implementation-discovered:
  - Needs to report progress on stdout in a stable, parseable layout.
  - A set's CSV is written only after the whole set completed.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/encoder, internal/testset, internal/output

ERROR HANDLING:
  - Missing reference file, unmatched reference record and encoder failure are fatal.
  - Sink failures are logged and the run continues.

IMPLEMENTATION RULES:
  - Strictly sequential; one encoder process at a time.
  - Pairs() is the single source of iteration order.

USAGE:
  r := engine.NewRunner(cfg, os.Stdout)
  worst, err := r.Run(ctx, matrix)

RELATED FILES:
  - internal/engine/matrix.go
  - internal/engine/compare.go

MAINTENANCE:
  - Update iteration logic if parallelism is introduced.
*/

package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/outlawever/astc-encoder/internal/config"
	"github.com/outlawever/astc-encoder/internal/encoder"
	"github.com/outlawever/astc-encoder/internal/model"
	"github.com/outlawever/astc-encoder/internal/output"
	"github.com/outlawever/astc-encoder/internal/testset"
)

// Runner executes test matrices.
type Runner struct {
	Config *config.Config
	Out    io.Writer
	Sinks  []Sink
	RunID  string

	// NewEncoder constructs the adapter for a variant.
	NewEncoder func(variant string) (encoder.Encoder, error)
	Now        func() time.Time
}

// NewRunner creates a Runner writing its report to out.
func NewRunner(cfg *config.Config, out io.Writer) *Runner {
	return &Runner{
		Config: cfg,
		Out:    out,
		RunID:  uuid.NewString(),
		NewEncoder: func(variant string) (encoder.Encoder, error) {
			return encoder.New(variant, cfg.Binaries)
		},
		Now: time.Now,
	}
}

func (r *Runner) layout() Layout {
	return Layout{ImageRoot: r.Config.ImageRoot, OutputRoot: r.Config.OutputRoot}
}

// RunTestSet executes every compatible pair of ts with enc. When ref is not
// nil each record is classified against its reference counterpart.
func (r *Runner) RunTestSet(ctx context.Context, enc encoder.Encoder, ref *model.ResultSet, ts *testset.TestSet, blockSizes []string, repeats int) (*model.ResultSet, []model.Entry, error) {
	rs := model.NewResultSet(ts.Name)
	pairs, skipped := Supported(Pairs(ts, blockSizes), enc)
	if skipped > 0 {
		output.Logger.Info("Skipping images the encoder does not support", "set", ts.Name, "encoder", enc.Name(), "skipped", skipped)
	}
	extra := strings.Fields(r.Config.Quality)

	fmt.Fprintln(r.Out, FormatTitle(ts.Name, enc.Name()))
	if len(pairs) == 0 {
		output.Logger.Warn("No compatible tests in set", "set", ts.Name, "images", len(ts.Tests), "block_sizes", blockSizes)
	}

	entries := make([]model.Entry, 0, len(pairs))
	for i, p := range pairs {
		cur := i + 1
		fmt.Fprintf(r.Out, "Running %d/%d %s %s ... ", cur, len(pairs), p.BlockSize, p.Image.TestFile)

		m, err := enc.RunTest(ctx, p.Image, p.BlockSize, extra, repeats)
		if err != nil {
			fmt.Fprintln(r.Out)
			return nil, nil, fmt.Errorf("%s %s: %w", p.BlockSize, p.Image.TestFile, err)
		}

		rec := model.NewRecord(p.BlockSize, p.Image.TestFile, m.PSNR, m.TotalTime, m.CodingTime)
		if err := rs.Add(rec); err != nil {
			fmt.Fprintln(r.Out)
			return nil, nil, err
		}
		entry := model.Entry{Image: p.Image, Record: rec}

		var line string
		if ref != nil {
			refRec, err := ref.Matching(rec)
			if err != nil {
				fmt.Fprintln(r.Out)
				return nil, nil, err
			}
			if err := rec.SetVerdict(Classify(r.Config.Thresholds, p.Image, refRec, rec)); err != nil {
				return nil, nil, err
			}
			entry.Reference = refRec
			line = FormatResult(refRec, rec)
		} else {
			line = FormatSolo(rec)
		}
		entries = append(entries, entry)

		fmt.Fprintf(r.Out, "\r[%3d] %s\n", cur, line)
	}

	return rs, entries, nil
}

// Run executes the full matrix and returns the worst verdict observed.
func (r *Runner) Run(ctx context.Context, m Matrix) (model.Verdict, error) {
	output.Logger.Info("Starting run", "run_id", r.RunID, "sets", m.TestSets, "encoders", m.Encoders, "block_sizes", m.BlockSizes)

	setCount := 0
	worst := model.NotRun

	for _, set := range m.TestSets {
		for _, variant := range m.Encoders {
			v, err := r.runOne(ctx, set, variant, m)
			if err != nil {
				return worst, fmt.Errorf("test set %s / encoder %s: %w", set, variant, err)
			}
			setCount++
			worst = model.MaxVerdict(worst, v)
		}
	}

	if setCount > 1 && worst != model.NotRun {
		fmt.Fprintf(r.Out, "OVERALL STATUS: %s\n", worst)
	}

	output.Logger.Info("Run complete", "run_id", r.RunID, "sets", setCount, "worst", worst)
	return worst, nil
}

func (r *Runner) runOne(ctx context.Context, set, variant string, m Matrix) (model.Verdict, error) {
	p := EncoderParams(variant, set, r.layout())

	var ref *model.ResultSet
	if p.RefName != "" {
		var err error
		ref, err = output.LoadResultSet(set, p.ReferencePath())
		if err != nil {
			return model.NotRun, fmt.Errorf("reference %s: %w", p.RefName, err)
		}
	}

	ts, err := testset.Load(set, p.SetDir, m.Profiles, m.Formats)
	if err != nil {
		return model.NotRun, err
	}

	enc, err := r.NewEncoder(variant)
	if err != nil {
		return model.NotRun, err
	}

	start := r.Now()
	rs, entries, err := r.RunTestSet(ctx, enc, ref, ts, m.BlockSizes, m.Repeats)
	if err != nil {
		return model.NotRun, err
	}

	if err := os.MkdirAll(p.OutDir, 0755); err != nil {
		return model.NotRun, fmt.Errorf("failed to create output directory %s: %w", p.OutDir, err)
	}
	if err := output.SaveResultSet(p.ResultPath(), rs); err != nil {
		return model.NotRun, err
	}
	output.Logger.Info("Saved results", "set", set, "encoder", p.Name, "path", p.ResultPath(), "records", rs.Len())

	summary := rs.Summary()
	r.publish(ctx, &model.SetReport{
		RunID:     r.RunID,
		Timestamp: start,
		TestSet:   set,
		Encoder:   p.Name,
		OutDir:    p.OutDir,
		Entries:   entries,
		Summary:   summary,
	})

	if ref == nil {
		return model.NotRun, nil
	}
	fmt.Fprintln(r.Out, summary)
	return summary.Worst, nil
}

func (r *Runner) publish(ctx context.Context, rep *model.SetReport) {
	for _, s := range r.Sinks {
		if err := s.Publish(ctx, rep); err != nil {
			output.Logger.Error("Failed to publish set report", "sink", fmt.Sprintf("%T", s), "set", rep.TestSet, "error", err)
		}
	}
}
