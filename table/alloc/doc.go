// Package alloc provides region allocation and reclamation for slot tables.
//
// # Overview
//
// A table asks its allocator for exactly one region, once, when it is
// created; runtime operations never allocate new regions, only new slots
// within the existing one. Destroying a table hands the reference back:
//
//	ref, r, err := a.Allocate(size)
//	if err != nil {
//	    return err // surfaced by table.Create as ErrAllocation
//	}
//	...
//	err = a.Deallocate(ref)
//
// # Implementations
//
// Heap: regions are heap byte slices (region.Mem). An optional byte budget
// makes allocation fail once exceeded, which is how callers and tests model
// an exhausted allocator.
//
// Dir: every region is its own file in a directory, mapped read/write
// (region.Mapped). References are file names, so a table can be reattached
// after a restart with Dir.Open.
//
// File: a single mapped region at a path chosen by the caller, for tools
// that name tables by file (cmd/slotctl).
//
// # Thread Safety
//
// Heap and Dir keep their live regions in a concurrent map and may be shared
// between goroutines. File is not safe for concurrent use. The regions they
// hand out are not thread-safe.
package alloc
