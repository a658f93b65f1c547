package table

import (
	"fmt"
	"io"
	"log/slog"
)

// Config holds the structural parameters fixed at creation.
type Config struct {
	// SlotCount is the total number of slots, and so the maximum item count.
	SlotCount uint64

	// CellarCount slots at the front of the table are never home positions;
	// they exist only to absorb collision overflow. Must be < SlotCount so at
	// least one home slot exists.
	CellarCount uint64
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.SlotCount == 0 {
		return fmt.Errorf("%w: slot count must be positive", ErrConfig)
	}
	if c.CellarCount >= c.SlotCount {
		return fmt.Errorf("%w: cellar count %d leaves no home slots out of %d",
			ErrConfig, c.CellarCount, c.SlotCount)
	}
	return nil
}

// homeRange is the number of addressable home slots.
func (c Config) homeRange() uint64 { return c.SlotCount - c.CellarCount }

// Options configures runtime behavior. The zero value is usable.
//
// Use DefaultOptions() for production defaults.
type Options struct {
	// Logger receives debug events and corruption warnings.
	// Default: discard.
	Logger *slog.Logger

	// RepairFreeLinks makes a free slot found inside a chain get spliced out
	// and skipped instead of failing the operation with ErrCorrupt. No valid
	// sequence of operations produces that state, so it is off by default:
	// a failure surfaces damage that repair would hide.
	// Default: false
	RepairFreeLinks bool
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func resolveOptions(opts *Options) Options {
	if opts == nil {
		return *DefaultOptions()
	}
	o := *opts
	if o.Logger == nil {
		o.Logger = DefaultOptions().Logger
	}
	return o
}
