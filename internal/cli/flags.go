/*
PURPOSE:
  Enumerated flag values for cobra commands.

REQUIREMENTS:
  Implementation-discovered:
  - Invalid choices must fail at parse time, before any config or discovery work.
  - Block sizes are repeatable and keep their command line order.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli/run.go
  - Dependencies: github.com/spf13/pflag, github.com/spf13/cobra
*/

package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// choiceValue is a string flag restricted to a fixed set of values.
type choiceValue struct {
	value   *string
	choices []string
}

var _ pflag.Value = (*choiceValue)(nil)

func newChoiceValue(p *string, def string, choices []string) *choiceValue {
	*p = def
	return &choiceValue{value: p, choices: choices}
}

func (c *choiceValue) String() string { return *c.value }

func (c *choiceValue) Set(s string) error {
	if !slices.Contains(c.choices, s) {
		return fmt.Errorf("invalid choice %q (choose from %s)", s, strings.Join(c.choices, ", "))
	}
	*c.value = s
	return nil
}

func (c *choiceValue) Type() string { return "choice" }

// choiceSliceValue is a repeatable choice flag.
type choiceSliceValue struct {
	value   *[]string
	choices []string
}

var _ pflag.SliceValue = (*choiceSliceValue)(nil)

func newChoiceSliceValue(p *[]string, choices []string) *choiceSliceValue {
	*p = nil
	return &choiceSliceValue{value: p, choices: choices}
}

func (c *choiceSliceValue) String() string { return "[" + strings.Join(*c.value, ",") + "]" }

func (c *choiceSliceValue) Set(s string) error {
	if !slices.Contains(c.choices, s) {
		return fmt.Errorf("invalid choice %q (choose from %s)", s, strings.Join(c.choices, ", "))
	}
	*c.value = append(*c.value, s)
	return nil
}

func (c *choiceSliceValue) Type() string { return "choice" }

func (c *choiceSliceValue) Append(s string) error { return c.Set(s) }

func (c *choiceSliceValue) Replace(vals []string) error {
	*c.value = nil
	for _, v := range vals {
		if err := c.Set(v); err != nil {
			return err
		}
	}
	return nil
}

func (c *choiceSliceValue) GetSlice() []string { return slices.Clone(*c.value) }

// choiceFlag registers a choice flag with shell completion.
func choiceFlag(cmd *cobra.Command, p *string, name, def string, choices []string, usage string) {
	cmd.Flags().Var(newChoiceValue(p, def, choices), name, fmt.Sprintf("%s (%s)", usage, strings.Join(choices, "|")))
	_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(choices, cobra.ShellCompDirectiveNoFileComp))
}
