package byteview

import (
	"bytes"
	"hash/maphash"
)

// Slice returns a new Value over the half-open range [start, end) of v's
// logical bytes. If the resulting length is <= 20 the bytes are copied into
// an inline Value and the source's backing buffer (if any) is not retained.
// If v is heap-backed and the resulting length exceeds 20, the result shares
// v's backing buffer - its refcount is incremented and the new Value's offset
// is v's offset plus start - and no data is copied (SPEC_FULL.md §4.3).
//
// Slice fails with an *OutOfRangeError if end < start or end > v.Len(). The
// parent Value v is never consumed or invalidated by a call to Slice.
func (v *Value) Slice(start, end uint32) (Value, error) {
	if end < start || end > v.length {
		return Value{}, wrapOutOfRange(start, end, v.length)
	}

	n := end - start
	switch caseOf(n) {
	case caseInlineShort, caseInlineLong:
		src := v.Bytes()
		return fromInlineBytes(src[start:end]), nil
	default: // caseHeap: only reachable when v is itself heap-backed, since an
		// inline source's length is already <= 20 and n <= v.length - start.
		handle, offset := v.heapTail()
		retain(handle)
		result := Value{length: n}
		copy(result.prefix[:], v.Bytes()[start:start+inlineShortMax])
		result.setHeapTail(handle, offset+start)
		return result, nil
	}
}

// fromInlineBytes builds an inline Value (length <= 20) from an exact-length
// slice. Callers must ensure len(b) <= inlineLongMax.
func fromInlineBytes(b []byte) Value {
	v := Value{length: uint32(len(b))}
	copy(v.prefix[:], b)
	if len(b) > inlineShortMax {
		copy(v.tail[:], b[inlineShortMax:])
	}
	return v
}

// Concat returns a new Value holding a.Bytes() followed by b.Bytes(). The
// result is inline if the combined length is <= 20, otherwise a fresh heap
// buffer is allocated and both inputs are copied into it - Concat never
// shares a or b's existing backing buffer, and neither a nor b is consumed or
// released by the call.
//
// Concat fails with a *LengthOverflowError if the combined length would
// exceed 2^32-1.
func Concat(a, b Value) (Value, error) {
	total := uint64(a.length) + uint64(b.length)
	if total > maxLength {
		return Value{}, wrapLengthOverflow("Concat", total)
	}

	n := uint32(total)
	switch caseOf(n) {
	case caseInlineShort, caseInlineLong:
		combined := make([]byte, 0, n)
		combined = append(combined, a.Bytes()...)
		combined = append(combined, b.Bytes()...)
		return fromInlineBytes(combined), nil
	default:
		data := make([]byte, n)
		copy(data, a.Bytes())
		copy(data[a.length:], b.Bytes())
		handle, _, err := newBackingBuffer("Concat", data)
		if err != nil {
			return Value{}, err
		}
		v := Value{length: n}
		copy(v.prefix[:], data)
		v.setHeapTail(handle, 0)
		return v, nil
	}
}

// rawEqual reports whether a and b are bit-identical across all 24 bytes.
func rawEqual(a, b *Value) bool {
	return a.length == b.length && a.prefix == b.prefix && a.tail == b.tail
}

// Equal reports whether a and b hold the same logical byte content.
//
// The comparison follows the optimization contract in SPEC_FULL.md §4.5:
// unequal length, or equal length with differing prefixes, proves inequality
// without touching heap memory; bit-identical 24-byte representations prove
// equality without touching heap memory; only the remaining, genuinely
// ambiguous case falls back to comparing the logical byte slices.
func Equal(a, b Value) bool {
	if a.length != b.length {
		return false
	}
	if a.prefix != b.prefix {
		return false
	}
	if a.length <= inlineShortMax {
		return true // prefix alone determines all the content for len <= 4.
	}
	if rawEqual(&a, &b) {
		return true
	}
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// Compare returns -1, 0, or 1 according to whether a sorts before, equal to,
// or after b, using lexicographic order over the logical byte sequences - the
// same order bytes.Compare(a.Bytes(), b.Bytes()) would produce.
func Compare(a, b Value) int {
	return bytes.Compare(a.Bytes(), b.Bytes())
}

// Hasher hashes the logical content of one or more Values with a single seed,
// so that equal content always hashes identically regardless of whether it is
// stored inline or heap-backed. It wraps hash/maphash, the same primitive a
// sharded cache uses for shard selection; intern.Interner does not use this
// type, it hashes raw keys with maphash.Bytes under its own seed.
type Hasher struct {
	seed maphash.Seed
}

// NewHasher returns a Hasher with a fresh random seed. All Values hashed with
// Hashers sharing the same seed (e.g. via CloneSeed) are comparable; Values
// hashed with Hashers of different seeds are not.
func NewHasher() Hasher {
	return Hasher{seed: maphash.MakeSeed()}
}

// CloneSeed returns a new Hasher that shares h's seed, for use from another
// goroutine (a maphash.Hash is not itself safe for concurrent use, but
// maphash.Seed is immutable and may be copied freely).
func (h Hasher) CloneSeed() Hasher {
	return Hasher{seed: h.seed}
}

// Hash returns the content hash of v under h's seed.
func (h *Hasher) Hash(v *Value) uint64 {
	var mh maphash.Hash
	mh.SetSeed(h.seed)
	mh.Write(v.Bytes())
	return mh.Sum64()
}
