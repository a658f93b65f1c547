package table

import (
	"fmt"
	"io"

	"github.com/joshuapare/slotkit/internal/buf"
)

// Header field offsets. All fields are little-endian uint64.
const (
	HeaderSize = 40

	hdrSlotCountOffset   = 0x00
	hdrCellarCountOffset = 0x08
	hdrFreeHintOffset    = 0x10
	hdrFilledHintOffset  = 0x18 // reserved, always written 0
	hdrItemCountOffset   = 0x20
)

// Slot field offsets, relative to the slot start.
const (
	slotFreeOffset = 0
	slotLinkOffset = 1
	slotKeyOffset  = 9

	// SlotOverhead is the free flag plus the link.
	SlotOverhead = slotKeyOffset

	slotFree byte = 1
	slotLive byte = 0
)

// SlotSize returns the fixed slot width for the given key and value widths.
func SlotSize(keySize, valueSize int) int64 {
	return SlotOverhead + int64(keySize) + int64(valueSize)
}

// RegionSize returns the bytes needed for slotCount slots of slotSize.
func RegionSize(slotCount uint64, slotSize int64) (int64, error) {
	size, err := buf.ExtentSize(HeaderSize, slotCount, slotSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return size, nil
}

type header struct {
	slotCount   uint64
	cellarCount uint64
	freeHint    uint64
	filledHint  uint64
	itemCount   uint64
}

func (h header) encode() []byte {
	b := make([]byte, HeaderSize)
	buf.PutU64LE(b, hdrSlotCountOffset, h.slotCount)
	buf.PutU64LE(b, hdrCellarCountOffset, h.cellarCount)
	buf.PutU64LE(b, hdrFreeHintOffset, h.freeHint)
	buf.PutU64LE(b, hdrFilledHintOffset, h.filledHint)
	buf.PutU64LE(b, hdrItemCountOffset, h.itemCount)
	return b
}

func decodeHeader(b []byte) header {
	return header{
		slotCount:   buf.ReadU64LE(b, hdrSlotCountOffset),
		cellarCount: buf.ReadU64LE(b, hdrCellarCountOffset),
		freeHint:    buf.ReadU64LE(b, hdrFreeHintOffset),
		filledHint:  buf.ReadU64LE(b, hdrFilledHintOffset),
		itemCount:   buf.ReadU64LE(b, hdrItemCountOffset),
	}
}

// validate checks the header against itself. Region size is checked by Open.
func (h header) validate() error {
	switch {
	case h.slotCount == 0:
		return fmt.Errorf("%w: slot count is zero", ErrCorrupt)
	case h.cellarCount >= h.slotCount:
		return fmt.Errorf("%w: cellar count %d >= slot count %d", ErrCorrupt, h.cellarCount, h.slotCount)
	case h.itemCount > h.slotCount:
		return fmt.Errorf("%w: item count %d > slot count %d", ErrCorrupt, h.itemCount, h.slotCount)
	case h.freeHint >= h.slotCount:
		return fmt.Errorf("%w: free hint %d out of range", ErrCorrupt, h.freeHint)
	}
	return nil
}

// slotHead is the fixed prefix of every slot.
type slotHead struct {
	free bool
	link uint64
}

func (s slotHead) isTail(i uint64) bool { return s.link == i }

func encodeHead(free bool, link uint64) []byte {
	b := make([]byte, SlotOverhead)
	b[slotFreeOffset] = slotLive
	if free {
		b[slotFreeOffset] = slotFree
	}
	buf.PutU64LE(b, slotLinkOffset, link)
	return b
}

func decodeHead(b []byte) (slotHead, error) {
	switch b[slotFreeOffset] {
	case slotFree, slotLive:
	default:
		return slotHead{}, fmt.Errorf("%w: free flag 0x%02x", ErrCorrupt, b[slotFreeOffset])
	}
	return slotHead{
		free: b[slotFreeOffset] == slotFree,
		link: buf.ReadU64LE(b, slotLinkOffset),
	}, nil
}

func readFull(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
