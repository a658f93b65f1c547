package table

import "errors"

var (
	// ErrFull indicates an insert into a table whose slots are all live.
	// The table is unchanged.
	ErrFull = errors.New("table: no free slot")

	// ErrAllocation indicates the allocator could not provide the region.
	ErrAllocation = errors.New("table: region allocation failed")

	// ErrCorrupt indicates a broken invariant in the stored layout: a cycle,
	// a free slot inside a chain, a failed free-slot scan, or a bad header.
	ErrCorrupt = errors.New("table: corrupt layout")

	// ErrConfig indicates invalid structural parameters.
	ErrConfig = errors.New("table: invalid config")

	// ErrLayout indicates a region whose size disagrees with its header and
	// the serializers it was opened with.
	ErrLayout = errors.New("table: layout mismatch")

	// ErrNotOwned indicates Destroy on a table that was opened rather than
	// created, so it holds no allocator reference.
	ErrNotOwned = errors.New("table: region not owned by this table")
)
