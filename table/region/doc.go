// Package region provides the fixed-size, byte-addressable storage that backs a
// slot table.
//
// # Overview
//
// A Region is a contiguous extent of bytes with a fixed size. Callers never get
// at the bytes directly; they open a stream at an offset, read or write, and
// Finish the stream:
//
//	w, err := r.OpenWriter(off)
//	if err != nil {
//	    return err
//	}
//	if _, err := w.Write(rec); err != nil {
//	    return err
//	}
//	return w.Finish()
//
// Streams are short-lived. A table opens one per slot access and never keeps
// one across calls, so a reader and a writer for the same extent are never
// open at the same time.
//
// # Implementations
//
// Mem: a heap byte slice. Used by alloc.Heap and in tests.
//
// Mapped: a file mapped read/write with mmap on unix platforms (or loaded into
// memory elsewhere). Writers record the extents they touched in a Tracker, and
// Flush msyncs the coalesced, page-aligned dirty ranges before syncing the
// file descriptor.
//
// # Thread Safety
//
// Regions are not thread-safe. Callers serialize access externally.
package region
