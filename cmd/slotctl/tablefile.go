package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joshuapare/slotkit/cmd/slotctl/logger"
	"github.com/joshuapare/slotkit/table"
	"github.com/joshuapare/slotkit/table/alloc"
	"github.com/joshuapare/slotkit/table/codec"
	"github.com/joshuapare/slotkit/table/hashing"
	"github.com/joshuapare/slotkit/table/migrate"
)

const (
	encUTF8   = "utf8"
	encCP1252 = "cp1252"
	encUTF16  = "utf16"
)

type strTable = table.Table[string, string]

// serializers returns the key and value codecs selected by the flags.
func serializers() (codec.Serializer[string], codec.Serializer[string], error) {
	if keySize <= 0 || valueSize <= 0 {
		return nil, nil, fmt.Errorf("key and value sizes must be positive, got %d and %d", keySize, valueSize)
	}
	switch encoding {
	case encUTF8:
		return codec.String(keySize), codec.String(valueSize), nil
	case encCP1252:
		return codec.Windows1252(keySize), codec.Windows1252(valueSize), nil
	case encUTF16:
		if keySize%2 != 0 || valueSize%2 != 0 {
			return nil, nil, fmt.Errorf("utf16 needs even key and value sizes, got %d and %d", keySize, valueSize)
		}
		return codec.UTF16(keySize / 2), codec.UTF16(valueSize / 2), nil
	default:
		return nil, nil, fmt.Errorf("unknown encoding %q (want %s, %s or %s)", encoding, encUTF8, encCP1252, encUTF16)
	}
}

// libLogger returns the process logger when logging is on, nil otherwise.
func libLogger() *slog.Logger {
	if !logger.Enabled() {
		return nil
	}
	return logger.L
}

func tableOptions() *table.Options {
	opts := table.DefaultOptions()
	if l := libLogger(); l != nil {
		opts.Logger = l
	}
	return opts
}

// openTable maps the table file at path. The caller closes the returned
// allocator.
func openTable(path string) (*strTable, *alloc.File, error) {
	keys, vals, err := serializers()
	if err != nil {
		return nil, nil, err
	}
	f := alloc.NewFile(path)
	m, err := f.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open table: %w", err)
	}
	t, err := table.Open(m, keys, vals, hashing.NewXX(keys), tableOptions())
	if err != nil {
		_ = f.Close()
		if errors.Is(err, table.ErrLayout) {
			return nil, nil, fmt.Errorf("%w (check --key-size, --value-size and --encoding)", err)
		}
		return nil, nil, err
	}
	printVerbose("Opened table: %s\n", path)
	return t, f, nil
}

// withTable opens path, runs fn, and closes the table, flushing first when
// write is set.
func withTable(ctx context.Context, path string, write bool, fn func(*strTable) error) error {
	t, f, err := openTable(path)
	if err != nil {
		return err
	}
	err = fn(t)
	if write {
		err = errors.Join(err, f.Flush(ctx))
	}
	return errors.Join(err, f.Close())
}

// sameFile reports whether a and b name the same file, either by path or by
// identity (links, differing relative paths).
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	fa, errA := os.Stat(a)
	fb, errB := os.Stat(b)
	if errA != nil || errB != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

// withMigrator opens both tables and runs fn over a migrator. Both are
// flushed afterwards: lookups move entries too.
func withMigrator(ctx context.Context, current, previous string, fn func(*migrate.Migrator[string, string]) error) error {
	if sameFile(current, previous) {
		return fmt.Errorf("%s and %s are the same table file", current, previous)
	}
	return withTable(ctx, current, true, func(cur *strTable) error {
		return withTable(ctx, previous, true, func(prev *strTable) error {
			var opts *migrate.Options
			if l := libLogger(); l != nil {
				opts = &migrate.Options{Logger: l}
			}
			m, err := migrate.New[string, string](cur, prev, opts)
			if err != nil {
				return err
			}
			return fn(m)
		})
	})
}
