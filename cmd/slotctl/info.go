package main

import (
	"context"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show table header statistics",
		Long: `The info command opens a table file, validates its header against the
file size, and reports slot, cellar and item counts.

Example:
  slotctl info users.slot
  slotctl info users.slot --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), args)
		},
	}
	return cmd
}

func runInfo(ctx context.Context, args []string) error {
	path := args[0]

	return withTable(ctx, path, false, func(t *strTable) error {
		st := t.Stats()
		if jsonOut {
			return printJSON(st)
		}

		printInfo("\nTable Information:\n")
		printInfo("  File: %s\n", path)
		printInfo("  Size: %s\n", formatBytes(st.Bytes))
		printInfo("  Slots: %d\n", st.Slots)
		printInfo("  Cellar: %d\n", st.Cellar)
		printInfo("  Items: %d\n", st.Items)
		printInfo("  Load: %.1f%%\n", st.LoadFactor*100)
		printVerbose("  Slot size: %d bytes\n", st.SlotSize)
		printVerbose("  Free hint: %d\n", st.FreeHint)
		return nil
	})
}
