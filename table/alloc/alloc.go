package alloc

import (
	"errors"

	"github.com/joshuapare/slotkit/table/region"
)

var (
	// ErrNoSpace indicates the allocator cannot satisfy the requested size.
	ErrNoSpace = errors.New("alloc: no space for region")

	// ErrBadRef indicates an unknown or already released reference.
	ErrBadRef = errors.New("alloc: bad region reference")

	// ErrBadSize indicates a non-positive size request.
	ErrBadSize = errors.New("alloc: size must be positive")
)

// Ref identifies an allocated region.
type Ref string

// Allocator hands out fixed-size regions and reclaims them.
//
// Implementations:
//   - Heap: in-memory regions with an optional byte budget
//   - Dir: one mapped file per region
//   - File: a single mapped file at a fixed path
type Allocator interface {
	// Allocate returns a new zero-filled region of exactly size bytes.
	Allocate(size int64) (Ref, region.Region, error)

	// Deallocate releases the region. The region must not be used afterwards.
	Deallocate(ref Ref) error
}
