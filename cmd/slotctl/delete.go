package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/table/opt"
)

var deletePrevious string

func init() {
	cmd := newDeleteCmd()
	cmd.Flags().StringVar(&deletePrevious, "previous", "", "Older table to delete the key from as well")
	rootCmd.AddCommand(cmd)
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <file> <key>",
		Short: "Remove a key",
		Long: `The delete command removes a key. Deleting a missing key succeeds.

Example:
  slotctl delete users.slot alice
  slotctl delete users.slot alice --previous users-old.slot`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), args)
		},
	}
	return cmd
}

func runDelete(ctx context.Context, args []string) error {
	path, key := args[0], args[1]
	if err := modify(ctx, path, deletePrevious, key, opt.None[string]()); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	if jsonOut {
		return printJSON(map[string]any{"key": key, "success": true})
	}
	printInfo("✓ Deleted %q\n", key)
	return nil
}
