package vram

import (
	"errors"
)

var (
	// ErrOutOfRange is returned for an access outside the region or with
	// no bytes to transfer
	ErrOutOfRange = errors.New("vram: access out of range")
	// ErrWindowBoundary is returned by WithWindow when the access would
	// cross from one page into the next
	ErrWindowBoundary = errors.New("vram: access crosses window boundary")
)

// CopyFunc copies src into dst, both of the same length, possibly
// transforming the bytes on the way.
type CopyFunc func(dst, src []byte)

// Accessor reads and writes a contiguous region of physical memory starting
// at a page boundary. Offsets are relative to the start of the region.
type Accessor struct {
	hw      Hardware
	mapping *Mapping
	base    uint8
	size    uint32
}

// NewAccessor returns an Accessor for the size bytes of physical memory
// starting at page base.
func NewAccessor(hw Hardware, base uint8, size uint32) *Accessor {
	return &Accessor{
		hw:      hw,
		mapping: NewMapping(hw, hw),
		base:    base,
		size:    size,
	}
}

// Size returns the size of the region
func (a *Accessor) Size() uint32 {
	return a.size
}

func (a *Accessor) check(offset uint32, size int) error {
	if size <= 0 || uint64(offset)+uint64(size) > uint64(a.size) {
		return ErrOutOfRange
	}
	return nil
}

// WithWindow maps the page holding offset and calls fn with the size bytes
// at offset as seen through the window. The access must lie entirely within
// one page; callers split larger accesses themselves. The previous mapping
// is restored and interrupts re-enabled however fn returns.
func (a *Accessor) WithWindow(offset uint32, size int, fn func(window []byte) error) error {
	if err := a.check(offset, size); err != nil {
		return err
	}

	page := offset / WindowSize
	local := int(offset % WindowSize)
	if local+size > WindowSize {
		return ErrWindowBoundary
	}

	previous := a.mapping.Select(a.base + uint8(page))
	defer a.mapping.Restore(previous)

	return fn(a.hw.Window()[local : local+size])
}

func (a *Accessor) split(offset uint32, size int, fn func(window []byte, done int) error) error {
	if err := a.check(offset, size); err != nil {
		return err
	}

	done := 0
	for done < size {
		n := WindowSize - int(offset%WindowSize)
		if n > size-done {
			n = size - done
		}
		d := done
		if err := a.WithWindow(offset, n, func(window []byte) error {
			return fn(window, d)
		}); err != nil {
			return err
		}
		offset += uint32(n)
		done += n
	}
	return nil
}

// Copy writes src at offset, calling fn once per page touched with the part
// of the window and the part of src that correspond. A nil fn is a plain
// copy.
func (a *Accessor) Copy(offset uint32, src []byte, fn CopyFunc) error {
	if fn == nil {
		fn = func(dst, src []byte) { copy(dst, src) }
	}
	return a.split(offset, len(src), func(window []byte, done int) error {
		fn(window, src[done:done+len(window)])
		return nil
	})
}

// Write copies src to offset
func (a *Accessor) Write(offset uint32, src []byte) error {
	return a.Copy(offset, src, nil)
}

// Fill sets size bytes starting at offset to v
func (a *Accessor) Fill(offset uint32, size int, v byte) error {
	return a.split(offset, size, func(window []byte, _ int) error {
		for i := range window {
			window[i] = v
		}
		return nil
	})
}

// Read copies len(dst) bytes starting at offset into dst
func (a *Accessor) Read(offset uint32, dst []byte) error {
	return a.split(offset, len(dst), func(window []byte, done int) error {
		copy(dst[done:], window)
		return nil
	})
}
