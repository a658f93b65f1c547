// Package testutil provides table fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/joshuapare/slotkit/table"
	"github.com/joshuapare/slotkit/table/alloc"
	"github.com/joshuapare/slotkit/table/codec"
	"github.com/joshuapare/slotkit/table/hashing"
)

// Uint64Table is the uint64 -> uint64 table most fixtures build.
type Uint64Table = table.Table[uint64, uint64]

// NewUint64Table creates a heap-backed table hashed with xxhash.
// Fails the test on error.
//
// Example:
//
//	tbl := testutil.NewUint64Table(t, 64, 8)
//	require.NoError(t, tbl.Put(1, 2))
func NewUint64Table(tb testing.TB, slots, cellar uint64) *Uint64Table {
	tb.Helper()
	tbl, err := table.Create(alloc.NewHeap(0), table.Config{SlotCount: slots, CellarCount: cellar},
		codec.Uint64(), codec.Uint64(), hashing.NewXX(codec.Uint64()), nil)
	if err != nil {
		tb.Fatalf("Failed to create table: %v", err)
	}
	return tbl
}

// SetupTableDir returns a Dir allocator rooted in a temp directory.
// The allocator is flushed and closed when the test ends.
func SetupTableDir(tb testing.TB) *alloc.Dir {
	tb.Helper()
	d, err := alloc.NewDir(filepath.Join(tb.TempDir(), "tables"))
	if err != nil {
		tb.Fatalf("Failed to create table dir: %v", err)
	}
	tb.Cleanup(func() {
		if err := d.Flush(context.Background()); err != nil {
			tb.Errorf("Failed to flush table dir: %v", err)
		}
		if err := d.Close(); err != nil {
			tb.Errorf("Failed to close table dir: %v", err)
		}
	})
	return d
}

// Fill puts keys 0..n-1 with value key*mul. Fails the test on error.
func Fill(tb testing.TB, tbl *Uint64Table, n, mul uint64) {
	tb.Helper()
	for k := range n {
		if err := tbl.Put(k, k*mul); err != nil {
			tb.Fatalf("Failed to put %d: %v", k, err)
		}
	}
}

// Keys returns n distinct fixed-width string keys.
func Keys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%08d", i)
	}
	return keys
}
