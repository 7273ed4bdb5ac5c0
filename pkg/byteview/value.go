// Package byteview implements Value, a compact, immutable, reference-counted
// byte-slice type. A Value is exactly 24 bytes and represents its content
// inline for short and medium byte sequences, falling back to a shared,
// refcounted heap buffer only past 20 bytes. It exists to keep the per-value
// memory overhead of storing billions of short byte sequences - keys, record
// fragments, interned values - as low as possible, and to make partial views
// (sub-slices) of a longer value allocation-free.
package byteview

import "encoding/binary"

const (
	inlineShortMax = 4
	inlineLongMax  = 20

	// maxLength is the largest representable length: 2^32 - 1.
	maxLength = 1<<32 - 1
)

// valueCase identifies which of the three representations a Value uses. It
// is never stored; it is always recomputed from length via caseOf so there is
// exactly one place that decides the classification (SPEC_FULL.md §4.1).
type valueCase int

const (
	caseInlineShort valueCase = iota
	caseInlineLong
	caseHeap
)

// caseOf is the sole discriminant decision point. length <= 4 is inline-short,
// <= 20 is inline-long, anything larger is heap-backed.
func caseOf(length uint32) valueCase {
	switch {
	case length <= inlineShortMax:
		return caseInlineShort
	case length <= inlineLongMax:
		return caseInlineLong
	default:
		return caseHeap
	}
}

// Value is a 24-byte immutable view over a byte sequence. The zero Value is
// Empty(). Values are safe to copy and to read concurrently from multiple
// goroutines; they must never be mutated (there is no exported way to do so).
//
// Heap-backed Values (Len() > 20) carry a share of a backing buffer that must
// eventually be released with Release - see that method's doc comment for the
// exact ownership contract this port uses in place of the upstream design's
// implicit destructor.
type Value struct {
	length uint32
	prefix [4]byte
	tail   [16]byte
}

// Empty returns the zero-length Value. It is infallible and allocates
// nothing; every byte of the returned Value is zero.
func Empty() Value {
	return Value{}
}

// FromBytes copies b into a new Value. The result is inline if len(b) <= 20,
// otherwise it allocates a single heap buffer holding a private copy of b.
// FromBytes fails with a *LengthOverflowError if len(b) exceeds 2^32-1.
func FromBytes(b []byte) (Value, error) {
	n := uint64(len(b))
	if n > maxLength {
		return Value{}, wrapLengthOverflow("FromBytes", n)
	}

	v := Value{length: uint32(n)}
	copy(v.prefix[:], b)

	switch caseOf(v.length) {
	case caseInlineShort:
		// prefix already holds everything; tail stays zero.
	case caseInlineLong:
		copy(v.tail[:], b[inlineShortMax:])
	case caseHeap:
		data := make([]byte, n)
		copy(data, b)
		handle, _, err := newBackingBuffer("FromBytes", data)
		if err != nil {
			return Value{}, err
		}
		v.setHeapTail(handle, 0)
	}
	return v, nil
}

// WithWriter constructs a Value of length n whose bytes are produced by fill,
// which is invoked exactly once with a zero-initialized region of length n.
// Once fill returns, the region is sealed and never written again - no other
// holder can observe it before fill runs, which is what lets heap-backed
// Values be read lock-free afterwards (SPEC_FULL.md §5). If fill leaves part
// of the region untouched, those bytes stay zero; WithWriter performs no
// validation of what fill wrote.
//
// WithWriter is infallible: n is already a uint32, so it can never exceed the
// maximum representable length.
func WithWriter(n uint32, fill func([]byte)) Value {
	v := Value{length: n}

	switch caseOf(n) {
	case caseInlineShort:
		fill(v.prefix[:n])
	case caseInlineLong:
		var buf [inlineLongMax]byte
		region := buf[:n]
		fill(region)
		copy(v.prefix[:], region)
		copy(v.tail[:], region[inlineShortMax:])
	case caseHeap:
		data := make([]byte, n)
		fill(data)
		copy(v.prefix[:], data)
		handle, _, err := newBackingBuffer("WithWriter", data)
		if err != nil {
			// WithWriter has no error return (SPEC_FULL.md §4.6 and §6): this
			// path is only reachable once a registry shard has handed out
			// math.MaxUint32 slots, which FromBytes and Concat surface as a
			// real error because they already return one.
			panic(err)
		}
		v.setHeapTail(handle, 0)
	}
	return v
}

// setHeapTail writes handle into tail[0:8] and offset into tail[8:12] using
// byte-level stores; the fields are not naturally aligned within Value's
// 24-byte layout, so a typed pointer into the middle of tail is never formed
// (SPEC_FULL.md §4.1, §9).
func (v *Value) setHeapTail(handle uint64, offset uint32) {
	binary.LittleEndian.PutUint64(v.tail[0:8], handle)
	binary.LittleEndian.PutUint32(v.tail[8:12], offset)
	// tail[12:16] stays zero (reserved).
}

// heapTail reads back the handle and offset written by setHeapTail.
func (v *Value) heapTail() (handle uint64, offset uint32) {
	handle = binary.LittleEndian.Uint64(v.tail[0:8])
	offset = binary.LittleEndian.Uint32(v.tail[8:12])
	return handle, offset
}

// Len returns the length of the logical byte sequence.
func (v Value) Len() uint32 {
	return v.length
}

// IsEmpty reports whether the value has zero length.
func (v Value) IsEmpty() bool {
	return v.length == 0
}

// Bytes returns the logical byte content as a slice. For inline-short Values
// (Len() <= 4) the slice aliases the prefix array inside v itself, so v must
// be addressable (a local variable, a struct field, a slice element - never a
// bare temporary) and the returned slice must not outlive v (SPEC_FULL.md
// §4.4a). For inline-long Values (5 to 20 bytes) the content is split across
// v's prefix and tail arrays, so Bytes returns a freshly allocated copy of it
// rather than a view into v.
// For heap Values the slice aliases the shared backing buffer and remains
// valid as long as the Value (or a clone of it) has not been released.
//
// The returned slice must never be written to; Value exposes no mutation
// because none is supported once constructed.
func (v *Value) Bytes() []byte {
	switch caseOf(v.length) {
	case caseInlineShort:
		return v.prefix[:v.length]
	case caseInlineLong:
		b := make([]byte, 0, v.length)
		b = append(b, v.prefix[:]...)
		b = append(b, v.tail[:v.length-inlineShortMax]...)
		return b
	default: // caseHeap
		handle, offset := v.heapTail()
		buf := globalRegistry.get(handle)
		return buf.data[offset : offset+v.length]
	}
}

// Prefix returns up to the first 4 bytes of the logical sequence without
// touching the registry or the backing buffer, even for heap Values; trailing
// bytes beyond Len() are zero. It is the fast filter callers use for prefix
// comparisons before deciding whether to read the full content.
func (v Value) Prefix() [4]byte {
	return v.prefix
}

// Clone returns a new Value sharing the same logical content. Inline Values
// are a plain bit-copy; heap Values additionally increment the backing
// buffer's refcount. The clone must be released independently of the
// original - see Release.
func (v Value) Clone() Value {
	if caseOf(v.length) == caseHeap {
		handle, _ := v.heapTail()
		retain(handle)
	}
	return v
}

// Release relinquishes this Value's share of its backing buffer, if any. It
// is always safe to call, including on inline Values (a no-op) and on the
// zero Value.
//
// Go has no destructors, so unlike the upstream design this must be called
// explicitly: every Value obtained from Clone, from a heap-producing
// constructor (FromBytes, WithWriter, Concat), or from a Slice/Concat that
// shares a parent's buffer needs exactly one matching Release once the holder
// is done with it. Values obtained only by plain assignment of an existing
// Value you already own do not get their own Release - assignment does not
// create a new logical reference, Clone does. Forgetting to call Release
// leaks the backing buffer. Calling it more times than the Value was cloned
// is the same class of bug the upstream unsafe contract would call a
// double-free: the errant extra Release panics while the retired registry
// slot is still empty, but once that slot has been reused for a newer
// buffer, the extra Release decrements the newer buffer's refcount instead.
func (v Value) Release() {
	if caseOf(v.length) == caseHeap {
		handle, _ := v.heapTail()
		release(handle)
	}
}
