/*
PURPOSE:
  Process plumbing shared by every encoder variant: run the binary, scrape the
  metrics from its log, average over repeats.

REQUIREMENTS:
  Implementation-discovered:
  - Lossless images report "inf" PSNR, which must parse.
  - 1.x prints "Elapsed time" where 2.x prints "Total time".
  - Decompressed images are throwaway; they go to a temp dir removed afterwards.

ERROR HANDLING:
  - Errors carry the tail of the tool output for diagnosis.

IMPLEMENTATION RULES:
  - Tests swap tool.exec for a fake; nothing else touches os/exec.
*/

package encoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/outlawever/astc-encoder/internal/output"
)

// execFunc runs a command and returns its combined output.
type execFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

// patterns extract metrics from a tool's log. Each has one capture group.
type patterns struct {
	psnr   *regexp.Regexp
	total  *regexp.Regexp
	coding *regexp.Regexp
}

var (
	patterns2x = patterns{
		psnr:   regexp.MustCompile(`(?m)^\s*PSNR \([^)]*\):\s*([-+0-9.eE]+|inf)\s*dB`),
		total:  regexp.MustCompile(`(?m)^\s*Total time:\s*([0-9.eE+-]+)\s*s`),
		coding: regexp.MustCompile(`(?m)^\s*Coding time:\s*([0-9.eE+-]+)\s*s`),
	}

	patterns1x = patterns{
		psnr:   patterns2x.psnr,
		total:  regexp.MustCompile(`(?m)^\s*Elapsed time:\s*([0-9.eE+-]+)\s*s`),
		coding: patterns2x.coding,
	}
)

// tool is the process plumbing shared by every variant.
type tool struct {
	binary string
	pats   patterns
	exec   execFunc
}

func newTool(binary string, pats patterns) *tool {
	return &tool{binary: binary, pats: pats, exec: runCommand}
}

func parseMetric(re *regexp.Regexp, out []byte, what string) (float64, error) {
	m := re.FindSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("%w: %s", ErrMissingMetric, what)
	}
	v, err := strconv.ParseFloat(string(m[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", what, m[1], err)
	}
	return v, nil
}

func (p patterns) parse(out []byte) (Metrics, error) {
	var m Metrics
	var err error
	if m.PSNR, err = parseMetric(p.psnr, out, "PSNR"); err != nil {
		return m, err
	}
	if m.TotalTime, err = parseMetric(p.total, out, "total time"); err != nil {
		return m, err
	}
	if m.CodingTime, err = parseMetric(p.coding, out, "coding time"); err != nil {
		return m, err
	}
	return m, nil
}

// measure runs the tool repeats times. argsFn receives the decompressed
// output path, which lives in a temp dir removed afterwards.
func (t *tool) measure(ctx context.Context, outExt string, repeats int, argsFn func(outPath string) []string) (Metrics, error) {
	if repeats < 1 {
		repeats = 1
	}

	dir, err := os.MkdirTemp("", "astc-image-test-*")
	if err != nil {
		return Metrics{}, err
	}
	defer os.RemoveAll(dir)

	args := argsFn(filepath.Join(dir, "out"+outExt))

	var sum Metrics
	for i := 0; i < repeats; i++ {
		out, err := t.exec(ctx, t.binary, args...)
		if err != nil {
			return Metrics{}, fmt.Errorf("encoder failed: %w\n%s", err, tail(out))
		}
		m, err := t.pats.parse(out)
		if err != nil {
			return Metrics{}, fmt.Errorf("%s: %w\n%s", t.binary, err, tail(out))
		}
		output.Logger.Debug("Encoder run", "binary", t.binary, "iteration", i+1, "psnr", m.PSNR, "total_s", m.TotalTime)

		sum.PSNR = m.PSNR
		sum.TotalTime += m.TotalTime
		sum.CodingTime += m.CodingTime
	}

	sum.TotalTime /= float64(repeats)
	sum.CodingTime /= float64(repeats)
	return sum, nil
}

// tail keeps error messages readable when a tool dumps a lot of output.
func tail(out []byte) string {
	const limit = 2048
	s := strings.TrimSpace(string(out))
	if len(s) > limit {
		s = "..." + s[len(s)-limit:]
	}
	return s
}
