/*
PURPOSE:
  Classifies results against their reference and joins whole result sets.

REQUIREMENTS:
  User-specified:
  - PSNR loss beyond the warn threshold is a WARN, beyond the fail threshold a FAIL.
  - 3D images use their own, looser fail threshold.

  Implementation-discovered:
  - Every tier uses strict <; a delta equal to a threshold does not trigger it.
  - Offline comparison has no image list, so dimensionality comes from the block size.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/cli/compare.go
  - Uses: internal/config.Thresholds

ERROR HANDLING:
  - A result without a reference record fails with model.ErrNoMatchingRecord.
  - ErrRegression is what the CLI returns when the worst verdict is FAIL.
*/

package engine

import (
	"errors"
	"fmt"

	"github.com/outlawever/astc-encoder/internal/config"
	"github.com/outlawever/astc-encoder/internal/model"
)

// ErrRegression is returned when the worst verdict of an invocation is FAIL.
var ErrRegression = errors.New("quality regression detected")

// Classify scores a result against its reference. Every tier uses a strict
// less-than, so a delta exactly on a threshold does not trigger it.
func Classify(th config.Thresholds, img model.Image, ref, res *model.Record) model.Verdict {
	delta := res.PSNR - ref.PSNR

	if !img.Is3D && delta < th.Fail {
		return model.Fail
	}
	if img.Is3D && delta < th.Fail3D {
		return model.Fail
	}
	if delta < th.Warn {
		return model.Warn
	}
	return model.Pass
}

// Compare classifies an already recorded result set against a reference.
// Image dimensionality is taken from the block size, which executed pairs
// always agree with.
func Compare(th config.Thresholds, result, ref *model.ResultSet) ([]model.Entry, error) {
	entries := make([]model.Entry, 0, result.Len())
	for _, rec := range result.Records() {
		refRec, err := ref.Matching(rec)
		if err != nil {
			return nil, err
		}
		img := model.Image{TestFile: rec.Name, Is3D: model.Is3D(rec.BlockSize)}
		if err := rec.SetVerdict(Classify(th, img, refRec, rec)); err != nil {
			return nil, fmt.Errorf("%s: %w", rec.Key(), err)
		}
		entries = append(entries, model.Entry{Image: img, Record: rec, Reference: refRec})
	}
	return entries, nil
}
