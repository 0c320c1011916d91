/*
PURPOSE:
  Renders the report lines printed to stdout.

REQUIREMENTS:
  Implementation-discovered:
  - Existing log scrapers parse these columns; widths and precisions are fixed.
*/

package engine

import (
	"fmt"
	"strings"

	"github.com/outlawever/astc-encoder/internal/model"
)

// The layouts below are parsed by downstream tooling; keep them stable.

// FormatSolo renders a result that has no reference to compare against.
func FormatSolo(res *model.Record) string {
	name := fmt.Sprintf("%5s %s", res.BlockSize, res.Name)
	tPSNR := fmt.Sprintf("%2.5f dB", res.PSNR)
	tTTime := fmt.Sprintf("%3.5f s", res.TotalTime)
	tCTime := fmt.Sprintf("%3.5f s", res.CodingTime)

	return fmt.Sprintf("%s | %8s | %8s | %8s", name, tPSNR, tTTime, tCTime)
}

// FormatResult renders a classified result next to its reference: PSNR
// delta (result - reference) and speedups (reference / result).
func FormatResult(ref, res *model.Record) string {
	d := model.Compare(ref, res)

	name := fmt.Sprintf("%5s %s", res.BlockSize, res.Name)
	tPSNR := fmt.Sprintf("%2.3f dB (% 1.3f dB)", res.PSNR, d.PSNR)
	tTTime := fmt.Sprintf("%.2f s (%1.1fx)", res.TotalTime, d.TotalSpeedup)
	tCTime := fmt.Sprintf("%.2f s (%1.1fx)", res.CodingTime, d.CodingSpeedup)

	return fmt.Sprintf("%-32s | %22s | %14s | %14s | %s", name, tPSNR, tTTime, tCTime, res.Verdict())
}

// FormatTitle renders the underlined header of a test set run.
func FormatTitle(set, encoder string) string {
	title := fmt.Sprintf("Test Set: %s / Encoder: %s", set, encoder)
	return title + "\n" + strings.Repeat("=", len(title))
}
