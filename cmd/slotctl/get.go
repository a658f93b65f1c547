package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/table/migrate"
)

// errNotFound is returned by get for a missing key, so the exit status is 1.
var errNotFound = errors.New("key not found")

var getPrevious string

func init() {
	cmd := newGetCmd()
	cmd.Flags().StringVar(&getPrevious, "previous", "", "Older table to read through (and migrate from)")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file> <key>",
		Short: "Print the value stored for a key",
		Long: `The get command looks up a key and prints its value.

With --previous, the lookup reads through to an older table. A key found
only there is moved into <file> before it is printed.

Example:
  slotctl get users.slot alice
  slotctl get users.slot alice --previous users-old.slot
  slotctl get users.slot alice --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), args)
		},
	}
	return cmd
}

type getResult struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
	Found bool   `json:"found"`
}

func runGet(ctx context.Context, args []string) error {
	path, key := args[0], args[1]

	var res getResult
	lookup := func(s migrate.Store[string, string]) error {
		v, ok, err := s.Lookup(key)
		if err != nil {
			return fmt.Errorf("failed to get %q: %w", key, err)
		}
		res = getResult{Key: key, Value: v, Found: ok}
		return nil
	}

	var err error
	if getPrevious != "" {
		err = withMigrator(ctx, path, getPrevious, func(m *migrate.Migrator[string, string]) error {
			if err := lookup(m); err != nil {
				return err
			}
			st := m.Stats()
			printVerbose("Promoted: %d, deferred: %d, remaining: %d\n", st.Promoted, st.Deferred, m.Remaining())
			return nil
		})
	} else {
		err = withTable(ctx, path, false, func(t *strTable) error { return lookup(t) })
	}
	if err != nil {
		return err
	}

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else if res.Found {
		printInfo("%s\n", res.Value)
	}
	if !res.Found {
		return fmt.Errorf("%w: %q", errNotFound, key)
	}
	return nil
}
