// Package table implements a persistent, fixed-capacity key/value table stored
// in a flat byte region, using coalesced hashing.
//
// # Overview
//
// A Table owns one region (see package region) holding a 40-byte header
// followed by SlotCount fixed-size slots. There are no pointers and no
// dynamic structures on disk: chains are slot indices, and the table can be
// mapped from a file and reopened with Open.
//
// # Layout
//
//	[Header]
//	  0x00 slotCount       u64
//	  0x08 cellarCount     u64
//	  0x10 firstFreeHint   u64
//	  0x18 firstFilledHint u64 (reserved, 0)
//	  0x20 itemCount       u64
//	[Slot 0] [Slot 1] ... [Slot slotCount-1]
//
//	Slot: free u8 | link u64 | key (keySize) | value (valueSize)
//
// All integers are little-endian. A slot whose link is its own index is the
// tail of its chain; free slots are always tails.
//
// # Hashing
//
// A key's home slot is
//
//	cellarCount + hash(key) mod (slotCount - cellarCount)
//
// so slots [0, cellarCount) are never homes and only receive overflow. When a
// chain needs another slot, the table scans forward from the free hint for any
// free slot, so chains may run through each other's home slots (coalescing).
// Matches are always decided by key equality, never by position.
//
// # Usage Example
//
//	a := alloc.NewHeap(0)
//	keys := codec.String(32)
//	t, err := table.Create(a, table.Config{SlotCount: 1024, CellarCount: 128},
//	    keys, codec.Uint64(), hashing.NewXX(keys), nil)
//	if err != nil {
//	    return err
//	}
//	if err := t.Put("alpha", 1); err != nil {
//	    return err // ErrFull once all slots are live
//	}
//	v, ok, err := t.Lookup("alpha")
//
// # Growth
//
// A table never grows. To grow, create a larger table and put the two behind
// a migrate.Migrator, which moves entries across as they are touched.
//
// # Thread Safety
//
// Tables are not thread-safe. A single logical writer is assumed; callers
// serialize access externally.
package table
