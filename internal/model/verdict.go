/*
PURPOSE:
  The ordered PASS/WARN/FAIL outcome of a comparison.

IMPLEMENTATION RULES:
  - Numeric order is the severity order; roll-ups are a max-reduction.
*/

package model

import "fmt"

// Verdict is the outcome of comparing a record against its reference.
// The numeric order is meaningful: NotRun < Pass < Warn < Fail.
type Verdict int

const (
	NotRun Verdict = iota
	Pass
	Warn
	Fail
)

var verdictNames = [...]string{
	NotRun: "NOTRUN",
	Pass:   "PASS",
	Warn:   "WARN",
	Fail:   "FAIL",
}

func (v Verdict) String() string {
	if v < NotRun || v > Fail {
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
	return verdictNames[v]
}

// MarshalText lets verdicts appear by name in JSON output.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(b []byte) error {
	parsed, err := ParseVerdict(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVerdict is the inverse of Verdict.String.
func ParseVerdict(s string) (Verdict, error) {
	for i, name := range verdictNames {
		if name == s {
			return Verdict(i), nil
		}
	}
	return NotRun, fmt.Errorf("unknown verdict %q", s)
}

// MaxVerdict returns the worse of two verdicts.
func MaxVerdict(a, b Verdict) Verdict {
	if a > b {
		return a
	}
	return b
}

// Worst reduces verdicts to the worst one. An empty list yields NotRun.
func Worst(vs ...Verdict) Verdict {
	worst := NotRun
	for _, v := range vs {
		worst = MaxVerdict(worst, v)
	}
	return worst
}
