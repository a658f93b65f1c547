package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/table"
	"github.com/joshuapare/slotkit/table/alloc"
	"github.com/joshuapare/slotkit/table/hashing"
)

// defaultCellarPct sizes the cellar when --cellar is not given (address
// factor 0.86).
const defaultCellarPct = 14

var (
	createSlots  uint64
	createCellar int64
)

func init() {
	cmd := newCreateCmd()
	cmd.Flags().Uint64Var(&createSlots, "slots", 1024, "Number of slots (maximum item count)")
	cmd.Flags().Int64Var(&createCellar, "cellar", -1, "Overflow-only slots (default 14% of slots)")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Create an empty table file",
		Long: `The create command allocates a new table file sized for --slots entries
of the given key and value widths, and formats every slot as free.

Example:
  slotctl create users.slot --slots 4096
  slotctl create names.slot --slots 100 --cellar 0 --key-size 16 --value-size 16
  slotctl create legacy.slot --encoding cp1252`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), args)
		},
	}
	return cmd
}

func runCreate(ctx context.Context, args []string) error {
	path := args[0]

	keys, vals, err := serializers()
	if err != nil {
		return err
	}
	cellar := uint64(createCellar)
	if createCellar < 0 {
		cellar = createSlots * defaultCellarPct / 100
	}

	printVerbose("Creating table: %s (%d slots, %d cellar)\n", path, createSlots, cellar)

	f := alloc.NewFile(path)
	t, err := table.Create(f, table.Config{SlotCount: createSlots, CellarCount: cellar},
		keys, vals, hashing.NewXX(keys), tableOptions())
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	st := t.Stats()
	if err := errors.Join(f.Flush(ctx), f.Close()); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	if jsonOut {
		return printJSON(st)
	}

	printInfo("\nCreated table %s:\n", path)
	printInfo("  Slots: %d (%d cellar)\n", st.Slots, st.Cellar)
	printInfo("  Slot size: %d bytes\n", st.SlotSize)
	printInfo("  Size: %s\n", formatBytes(st.Bytes))
	return nil
}
