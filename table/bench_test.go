package table_test

import (
	"testing"

	"github.com/joshuapare/slotkit/internal/testutil"
	"github.com/joshuapare/slotkit/table"
	"github.com/joshuapare/slotkit/table/alloc"
	"github.com/joshuapare/slotkit/table/codec"
	"github.com/joshuapare/slotkit/table/hashing"
)

const benchSlots = 1 << 14

func BenchmarkLookup(b *testing.B) {
	for _, load := range []struct {
		name  string
		items uint64
	}{
		{"load50", benchSlots / 2},
		{"load90", benchSlots * 9 / 10},
	} {
		b.Run(load.name, func(b *testing.B) {
			tbl := testutil.NewUint64Table(b, benchSlots, benchSlots*14/100)
			testutil.Fill(b, tbl, load.items, 1)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := tbl.Lookup(uint64(i) % load.items); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPutDelete(b *testing.B) {
	tbl := testutil.NewUint64Table(b, benchSlots, benchSlots*14/100)
	testutil.Fill(b, tbl, benchSlots/2, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := benchSlots + uint64(i)
		if err := tbl.Put(k, k); err != nil {
			b.Fatal(err)
		}
		if err := tbl.Delete(k); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStringKeys(b *testing.B) {
	hashers := map[string]func(codec.Serializer[string]) hashing.Hasher[string]{
		"xx":  func(s codec.Serializer[string]) hashing.Hasher[string] { return hashing.NewXX(s) },
		"sip": func(s codec.Serializer[string]) hashing.Hasher[string] { return hashing.NewSip([hashing.KeySize]byte{1}, s) },
	}
	keys := testutil.Keys(benchSlots / 2)
	for name, mk := range hashers {
		b.Run(name, func(b *testing.B) {
			kc := codec.String(16)
			tbl, err := table.Create(alloc.NewHeap(0), table.Config{SlotCount: benchSlots, CellarCount: benchSlots / 8},
				kc, codec.Uint64(), mk(kc), nil)
			if err != nil {
				b.Fatal(err)
			}
			for i, k := range keys {
				if err := tbl.Put(k, uint64(i)); err != nil {
					b.Fatal(err)
				}
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := tbl.Lookup(keys[i%len(keys)]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
