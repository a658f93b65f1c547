package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/table/alloc"
	"github.com/joshuapare/slotkit/table/migrate"
)

var migrateRemoveDrained bool

func init() {
	cmd := newMigrateCmd()
	cmd.Flags().BoolVar(&migrateRemoveDrained, "remove-drained", false,
		"Delete the previous table file once it holds no entries")
	rootCmd.AddCommand(cmd)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <previous> <current> [key...]",
		Short: "Move keys from an older table into a newer one",
		Long: `The migrate command looks up each key through a migrator, which moves
entries found only in <previous> into <current>. Tables are unordered and
cannot be listed, so the keys are given as arguments, or one per line on
standard input when none are given.

Keys that do not fit because <current> is full stay in <previous>.

Example:
  slotctl migrate users-old.slot users.slot alice bob
  cut -f1 users.tsv | slotctl migrate users-old.slot users.slot --remove-drained`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), args, cmd.InOrStdin())
		},
	}
	return cmd
}

type migrateResult struct {
	migrate.Stats
	Keys      int    `json:"keys"`
	Missing   int    `json:"missing"`
	Remaining uint64 `json:"remaining"`
	Removed   bool   `json:"removed"`
}

func runMigrate(ctx context.Context, args []string, stdin io.Reader) error {
	previous, current := args[0], args[1]
	keys := args[2:]
	if len(keys) == 0 {
		var err error
		if keys, err = readKeys(stdin); err != nil {
			return fmt.Errorf("failed to read keys: %w", err)
		}
	}

	var res migrateResult
	err := withMigrator(ctx, current, previous, func(m *migrate.Migrator[string, string]) error {
		for _, key := range keys {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, ok, err := m.Lookup(key)
			if err != nil {
				return fmt.Errorf("failed to migrate %q: %w", key, err)
			}
			res.Keys++
			if !ok {
				res.Missing++
				printVerbose("  missing: %s\n", key)
			}
		}
		res.Stats = m.Stats()
		res.Remaining = m.Remaining()
		return nil
	})
	if err != nil {
		return err
	}

	if migrateRemoveDrained && res.Remaining == 0 {
		f := alloc.NewFile(previous)
		if _, err := f.Open(); err != nil {
			return fmt.Errorf("failed to remove %s: %w", previous, err)
		}
		if err := f.Deallocate(alloc.Ref(previous)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", previous, err)
		}
		res.Removed = true
	}

	if jsonOut {
		return printJSON(res)
	}
	printInfo("\nMigrated %d key(s) from %s to %s:\n", res.Keys, previous, current)
	printInfo("  Promoted: %d\n", res.Promoted)
	printInfo("  Deferred (current full): %d\n", res.Deferred)
	printInfo("  Purged stale: %d\n", res.Purged)
	printInfo("  Missing: %d\n", res.Missing)
	printInfo("  Remaining in previous: %d\n", res.Remaining)
	if res.Removed {
		printInfo("✓ Removed drained table %s\n", previous)
	}
	return nil
}

// readKeys reads one key per line, skipping blank lines.
func readKeys(r io.Reader) ([]string, error) {
	if r == nil {
		r = os.Stdin
	}
	var keys []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if k := strings.TrimSpace(sc.Text()); k != "" {
			keys = append(keys, k)
		}
	}
	return keys, sc.Err()
}
