package tile

import (
	"bytes"
	"hash/fnv"
	"io"

	"github.com/bodgit/zealgfx/rle"
)

// Entry is a single distinct tile held by a Store.
type Entry struct {
	Tile Tile
	// Sum is the FNV-1a checksum of Tile, used to reject non-matching
	// tiles without comparing every byte
	Sum uint32
	// Data holds the bytes written to the tileset. It is a copy of Tile
	// until the store is compressed.
	Data []byte
}

// Store is an insertion ordered collection of tiles. When merging is
// enabled, identical tiles are only stored once.
type Store struct {
	merge   bool
	entries []*Entry
	sums    map[uint32][]int
}

// NewStore returns an empty Store. If merge is false, every tile added is
// appended even if it already exists in the store.
func NewStore(merge bool) *Store {
	return &Store{
		merge: merge,
		sums:  make(map[uint32][]int),
	}
}

// Checksum returns the 32-bit FNV-1a hash of t.
func Checksum(t *Tile) uint32 {
	h := fnv.New32a()
	h.Write(t[:])
	return h.Sum32()
}

func (s *Store) find(sum uint32, t *Tile) int {
	for _, i := range s.sums[sum] {
		if s.entries[i].Tile == *t {
			return i
		}
	}
	return -1
}

// Add adds t to the store and returns its index. If merging is enabled and
// an identical tile is already stored, the index of that tile is returned
// instead. Two different tiles sharing a checksum are both kept.
func (s *Store) Add(t Tile) int {
	sum := Checksum(&t)

	if s.merge {
		if i := s.find(sum, &t); i >= 0 {
			return i
		}
	}

	s.entries = append(s.entries, &Entry{
		Tile: t,
		Sum:  sum,
		Data: append([]byte(nil), t[:]...),
	})
	i := len(s.entries) - 1
	s.sums[sum] = append(s.sums[sum], i)

	return i
}

// Len returns the number of tiles in the store
func (s *Store) Len() int {
	return len(s.entries)
}

// Entry returns the entry at index i
func (s *Store) Entry(i int) *Entry {
	return s.entries[i]
}

// Entries returns every entry in insertion order
func (s *Store) Entries() []*Entry {
	return s.entries
}

// Compress rewrites the data of every entry. If pack is set and the palette
// has no more than 16 colors, each tile is first packed to the smallest
// depth able to hold colors; if useRLE is set the result is then run-length
// encoded. The returned value describes the encoding of the tileset.
//
// Compress always starts from the original tile so calling it more than once
// never packs or encodes twice.
func (s *Store) Compress(colors int, pack, useRLE bool) Compression {
	d := Depth8
	if pack {
		d = DepthFor(colors)
	}

	for _, e := range s.entries {
		b := Pack(e.Tile[:], d)
		if useRLE {
			b = rle.Encode(b)
		}
		e.Data = b
	}

	c := d.Compression()
	if useRLE {
		c |= RLE
	}
	return c
}

// Size returns the total number of bytes the tileset occupies
func (s *Store) Size() int {
	n := 0
	for _, e := range s.entries {
		n += len(e.Data)
	}
	return n
}

// WriteTo writes the data of every entry to w in store order.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range s.entries {
		n, err := w.Write(e.Data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the concatenated data of every entry
func (s *Store) Bytes() []byte {
	b := new(bytes.Buffer)
	b.Grow(s.Size())
	s.WriteTo(b)
	return b.Bytes()
}
