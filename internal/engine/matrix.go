/*
PURPOSE:
  Enumerates the (block size, image) pairs a test set runs.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go

IMPLEMENTATION RULES:
  - Block sizes outer, images inner. Progress counters depend on this order.
*/

package engine

import (
	"github.com/outlawever/astc-encoder/internal/encoder"
	"github.com/outlawever/astc-encoder/internal/model"
	"github.com/outlawever/astc-encoder/internal/testset"
)

// Pair is one test execution: an image compressed at a block size.
type Pair struct {
	BlockSize string
	Image     model.Image
}

// Pairs enumerates the dimension-compatible (block size, image) pairs of a
// test set, block sizes outer and images inner. 2D block sizes never apply
// to 3D images and vice versa.
func Pairs(ts *testset.TestSet, blockSizes []string) []Pair {
	var pairs []Pair
	for _, blk := range blockSizes {
		for _, img := range ts.Tests {
			if !model.Compatible(blk, img) {
				continue
			}
			pairs = append(pairs, Pair{BlockSize: blk, Image: img})
		}
	}
	return pairs
}

// Supported drops the pairs enc cannot run and returns how many were dropped.
func Supported(pairs []Pair, enc encoder.Encoder) ([]Pair, int) {
	kept := pairs[:0:0]
	for _, p := range pairs {
		if encoder.Supported(enc, p.Image) {
			kept = append(kept, p)
		}
	}
	return kept, len(pairs) - len(kept)
}

// Count returns the number of executions Pairs would produce.
func Count(ts *testset.TestSet, blockSizes []string) int {
	return len(Pairs(ts, blockSizes))
}
