/*
Package rle implements the run-length encoding used by compressed Zeal
tilesets.

A stream is a sequence of records, each starting with a control byte. When
bit 7 is set the record is a repeat run: the next byte is repeated n times.
Otherwise the record is a literal run and the next n bytes are copied as is.
In both cases bits 0-6 hold n - 1, so a single record covers 1 to 128 bytes.
*/
package rle

import "errors"

const (
	// MaxRun is the longest run a single record can describe
	MaxRun = 128
	// minRepeat is the shortest run of identical bytes worth storing as a
	// repeat record; anything shorter is cheaper as part of a literal run
	minRepeat = 4

	repeatFlag = 0x80
	countMask  = 0x7f
)

// ErrCorruptStream is returned when a record runs past the end of its input
// or the decoded data does not have the expected size.
var ErrCorruptStream = errors.New("rle: corrupt stream")

func sameRun(b []byte) int {
	n := 1
	for n < len(b) && b[n] == b[0] {
		n++
	}
	return n
}

func appendLiteral(dst, b []byte) []byte {
	for len(b) > 0 {
		n := len(b)
		if n > MaxRun {
			n = MaxRun
		}
		dst = append(dst, byte(n-1))
		dst = append(dst, b[:n]...)
		b = b[n:]
	}
	return dst
}

func appendRepeat(dst []byte, v byte, count int) []byte {
	for count > 0 {
		n := count
		if n > MaxRun {
			n = MaxRun
		}
		dst = append(dst, repeatFlag|byte(n-1), v)
		count -= n
	}
	return dst
}

// Encode returns the run-length encoded form of src. Runs of four or more
// identical bytes become repeat records, everything in between is gathered
// into literal records. Encoding is deterministic and makes no attempt to
// find the smallest possible output.
func Encode(src []byte) []byte {
	// Worst case is one control byte per MaxRun literal bytes
	dst := make([]byte, 0, len(src)+(len(src)+MaxRun-1)/MaxRun)

	literal := 0
	for i := 0; i < len(src); {
		n := sameRun(src[i:])
		if n < minRepeat {
			i += n
			continue
		}
		dst = appendLiteral(dst, src[literal:i])
		dst = appendRepeat(dst, src[i], n)
		i += n
		literal = i
	}

	return appendLiteral(dst, src[literal:])
}

// DecodeRecords decodes records from src until dst is full and returns the
// number of bytes of src consumed. A record that would write past the end of
// dst or read past the end of src is an error.
func DecodeRecords(dst, src []byte) (int, error) {
	i, j := 0, 0
	for j < len(dst) {
		if i >= len(src) {
			return i, ErrCorruptStream
		}
		ctrl := src[i]
		n := int(ctrl&countMask) + 1
		i++

		if j+n > len(dst) {
			return i, ErrCorruptStream
		}

		if ctrl&repeatFlag != 0 {
			if i >= len(src) {
				return i, ErrCorruptStream
			}
			v := src[i]
			for k := 0; k < n; k++ {
				dst[j+k] = v
			}
			i++
		} else {
			if i+n > len(src) {
				return i, ErrCorruptStream
			}
			copy(dst[j:], src[i:i+n])
			i += n
		}
		j += n
	}
	return i, nil
}

// Decode decodes the whole of src, which must expand to exactly size bytes.
func Decode(src []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, ErrCorruptStream
	}
	dst := make([]byte, size)
	n, err := DecodeRecords(dst, src)
	if err != nil {
		return nil, err
	}
	if n != len(src) {
		return nil, ErrCorruptStream
	}
	return dst, nil
}

// Measure checks that src is a concatenation of records each expanding to
// exactly tileSize bytes, with no record spanning two tiles, and returns the
// number of tiles.
func Measure(src []byte, tileSize int) (int, error) {
	if tileSize <= 0 {
		return 0, ErrCorruptStream
	}
	buf := make([]byte, tileSize)
	tiles := 0
	for len(src) > 0 {
		n, err := DecodeRecords(buf, src)
		if err != nil {
			return tiles, err
		}
		src = src[n:]
		tiles++
	}
	return tiles, nil
}
