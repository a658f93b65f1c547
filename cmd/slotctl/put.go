package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/table/migrate"
	"github.com/joshuapare/slotkit/table/opt"
)

var putPrevious string

func init() {
	cmd := newPutCmd()
	cmd.Flags().StringVar(&putPrevious, "previous", "", "Older table to purge the key from")
	rootCmd.AddCommand(cmd)
}

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <file> <key> <value>",
		Short: "Store a value under a key",
		Long: `The put command inserts or overwrites a key. It fails when the key is
new and every slot is already in use.

Example:
  slotctl put users.slot alice admin
  slotctl put users.slot alice admin --previous users-old.slot`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(cmd.Context(), args)
		},
	}
	return cmd
}

func runPut(ctx context.Context, args []string) error {
	path, key, value := args[0], args[1], args[2]
	if err := modify(ctx, path, putPrevious, key, opt.Some(value)); err != nil {
		return fmt.Errorf("failed to put %q: %w", key, err)
	}

	if jsonOut {
		return printJSON(map[string]any{"key": key, "value": value, "success": true})
	}
	printInfo("✓ Stored %q\n", key)
	return nil
}

// modify applies val to key in path, through a migrator when previous is set.
func modify(ctx context.Context, path, previous, key string, val opt.Value[string]) error {
	if previous == "" {
		return withTable(ctx, path, true, func(t *strTable) error {
			return t.Modify(key, val)
		})
	}
	return withMigrator(ctx, path, previous, func(m *migrate.Migrator[string, string]) error {
		return m.Modify(key, val)
	})
}
