// Package migrate moves entries from an old table generation to a new one
// lazily, one key at a time, as the keys are used.
//
// A Migrator fronts two stores. "previous" is the old, fuller table and
// "current" is the new, emptier one; both must hash keys the same way.
// Reads promote an entry from previous to current the first time they see
// it, and writes always land in current after purging previous. There is no
// background rehash: the previous table drains as its keys are touched, and
// once Remaining reports zero it can be destroyed.
//
// Usage:
//
//	m, err := migrate.New[string, uint64](bigger, old, nil)
//	if err != nil {
//	    return err
//	}
//	v, ok, err := m.Lookup("alpha") // moves "alpha" into bigger
//	if m.Remaining() == 0 {
//	    _ = old.Destroy()
//	}
package migrate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/joshuapare/slotkit/table"
	"github.com/joshuapare/slotkit/table/opt"
)

// ErrSameStore is returned by New when current and previous are one store.
// Reads through such a Migrator would purge the entries they return.
var ErrSameStore = errors.New("migrate: current and previous are the same store")

// Store is the part of a table a Migrator needs. *table.Table satisfies it.
type Store[K, V any] interface {
	Lookup(key K) (V, bool, error)
	Modify(key K, val opt.Value[V]) error
	Len() uint64
}

// Options configures a Migrator.
type Options struct {
	// Logger receives a debug event per promoted key.
	// Default: discard.
	Logger *slog.Logger
}

// DefaultOptions returns the default options.
func DefaultOptions() *Options {
	return &Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Stats counts what a Migrator has done since it was created.
type Stats struct {
	// Promoted is the number of entries moved from previous to current.
	Promoted uint64 `json:"promoted"`

	// Deferred counts promotions skipped because current was full. The
	// value was served from previous and stays there.
	Deferred uint64 `json:"deferred"`

	// Purged counts stale entries removed from previous, by writes or by
	// reads that found the key in both tables.
	Purged uint64 `json:"purged"`
}

// Migrator is a two-generation view over a current and a previous table.
//
// NOT thread-safe, like the tables it wraps.
type Migrator[K, V any] struct {
	current  Store[K, V]
	previous Store[K, V]
	log      *slog.Logger

	stats Stats
}

// New returns a Migrator that reads through to previous and writes to
// current. It returns ErrSameStore if both are the same store.
func New[K, V any](current, previous Store[K, V], opts *Options) (*Migrator[K, V], error) {
	if sameStore(current, previous) {
		return nil, ErrSameStore
	}
	log := DefaultOptions().Logger
	if opts != nil && opts.Logger != nil {
		log = opts.Logger
	}
	return &Migrator[K, V]{current: current, previous: previous, log: log}, nil
}

// sameStore reports whether a and b hold the same comparable value, such as
// one *table.Table passed twice.
func sameStore(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta == nil || ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Current returns the table that receives all writes.
func (m *Migrator[K, V]) Current() Store[K, V] { return m.current }

// Previous returns the table being drained.
func (m *Migrator[K, V]) Previous() Store[K, V] { return m.previous }

// Remaining returns the number of entries not yet moved out of previous.
func (m *Migrator[K, V]) Remaining() uint64 { return m.previous.Len() }

// Len returns an upper bound on the number of distinct keys: an entry
// present in both tables is counted twice until a lookup purges it.
func (m *Migrator[K, V]) Len() uint64 { return m.current.Len() + m.previous.Len() }

// Stats returns the promotion counters.
func (m *Migrator[K, V]) Stats() Stats {
	return m.stats
}

// Lookup returns the value for key, preferring current. An entry found only
// in previous is moved to current before it is returned; if current is full
// the entry is returned from previous and both tables are left unchanged.
func (m *Migrator[K, V]) Lookup(key K) (V, bool, error) {
	var zero V
	pv, inPrev, err := m.previous.Lookup(key)
	if err != nil {
		return zero, false, fmt.Errorf("migrate: lookup previous: %w", err)
	}
	cv, inCur, err := m.current.Lookup(key)
	if err != nil {
		return zero, false, fmt.Errorf("migrate: lookup current: %w", err)
	}

	switch {
	case !inPrev && !inCur:
		return zero, false, nil

	case !inPrev:
		return cv, true, nil

	case inCur:
		// previous holds a stale copy; current wins.
		if err := m.previous.Modify(key, opt.None[V]()); err != nil {
			return zero, false, fmt.Errorf("migrate: purge previous: %w", err)
		}
		m.stats.Purged++
		return cv, true, nil
	}

	if err := m.current.Modify(key, opt.Some(pv)); err != nil {
		if errors.Is(err, table.ErrFull) {
			m.stats.Deferred++
			m.log.Debug("migrate: current full, serving from previous",
				"current_items", m.current.Len(), "remaining", m.previous.Len())
			return pv, true, nil
		}
		return zero, false, fmt.Errorf("migrate: promote: %w", err)
	}
	if err := m.previous.Modify(key, opt.None[V]()); err != nil {
		return zero, false, fmt.Errorf("migrate: remove promoted entry: %w", err)
	}
	m.stats.Promoted++
	m.log.Debug("migrate: promoted entry", "remaining", m.previous.Len())
	return pv, true, nil
}

// Modify removes key from previous, then upserts or deletes it in current.
//
// An insert that fails with table.ErrFull after the purge leaves the key in
// neither table.
func (m *Migrator[K, V]) Modify(key K, val opt.Value[V]) error {
	before := m.previous.Len()
	if err := m.previous.Modify(key, opt.None[V]()); err != nil {
		return fmt.Errorf("migrate: purge previous: %w", err)
	}
	if m.previous.Len() < before {
		m.stats.Purged++
	}
	if err := m.current.Modify(key, val); err != nil {
		return fmt.Errorf("migrate: modify current: %w", err)
	}
	return nil
}

// Put stores v under key in current.
func (m *Migrator[K, V]) Put(key K, v V) error {
	return m.Modify(key, opt.Some(v))
}

// Delete removes key from both tables.
func (m *Migrator[K, V]) Delete(key K) error {
	return m.Modify(key, opt.None[V]())
}
