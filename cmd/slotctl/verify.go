package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/table"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a table's structural invariants",
		Long: `The verify command reads every slot and checks that free slots end
their chains, chains are acyclic, the item count matches the live slots, and
every key is reachable from its home slot exactly once.

Example:
  slotctl verify users.slot
  slotctl verify users.slot --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), args)
		},
	}
	return cmd
}

type verifyResult struct {
	File   string       `json:"file"`
	Valid  bool         `json:"valid"`
	Report table.Report `json:"report"`
	Errors []string     `json:"errors,omitempty"`
}

func runVerify(ctx context.Context, args []string) error {
	path := args[0]

	var (
		res  = verifyResult{File: path}
		verr error
	)
	err := withTable(ctx, path, false, func(t *strTable) error {
		var err error
		res.Report, err = t.Verify()
		if err != nil && !errors.Is(err, table.ErrCorrupt) {
			return err
		}
		verr = err
		return nil
	})
	if err != nil {
		return err
	}
	res.Valid = verr == nil
	if verr != nil {
		res.Errors = splitJoined(verr)
	}

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printInfo("\nVerifying %s:\n", path)
		printInfo("  Live slots: %d\n", res.Report.Live)
		printInfo("  Free slots: %d\n", res.Report.Free)
		printVerbose("  Chains: %d\n", res.Report.Chains)
		printVerbose("  Longest chain: %d\n", res.Report.LongestChain)
		for _, e := range res.Errors {
			printInfo("  ✗ %s\n", e)
		}
		if res.Valid {
			printInfo("  ✓ No corruption detected\n")
		}
	}
	if verr != nil {
		return fmt.Errorf("table %s failed verification: %w", path, verr)
	}
	return nil
}

// splitJoined lists the errors inside an errors.Join result.
func splitJoined(err error) []string {
	var out []string
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range j.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
