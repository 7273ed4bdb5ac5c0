package byteview

import (
	"bytes"
	"testing"
)

func TestEmpty(t *testing.T) {
	v := Empty()

	if got := v.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	if got := v.Bytes(); len(got) != 0 {
		t.Errorf("Bytes() = %v, want empty", got)
	}
	if got := v.Prefix(); got != [4]byte{} {
		t.Errorf("Prefix() = %v, want zero", got)
	}
	if v != (Value{}) {
		t.Error("Empty() is not the zero Value")
	}
}

func TestFromBytesInlineShort(t *testing.T) {
	v, err := FromBytes([]byte("abc"))
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}

	if got := v.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := v.Bytes(); !bytes.Equal(got, []byte("abc")) {
		t.Errorf("Bytes() = %q, want %q", got, "abc")
	}
	if want := [4]byte{0x61, 0x62, 0x63, 0x00}; v.Prefix() != want {
		t.Errorf("Prefix() = %v, want %v", v.Prefix(), want)
	}
	if v.tail != ([16]byte{}) {
		t.Errorf("tail = %v, want all zero", v.tail)
	}
}

func TestFromBytesInlineLong(t *testing.T) {
	src := []byte("helloworldhelloworld")[:20]

	v, err := FromBytes(src)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}

	if got := v.Len(); got != 20 {
		t.Errorf("Len() = %d, want 20", got)
	}
	if got := v.Bytes(); !bytes.Equal(got, src) {
		t.Errorf("Bytes() = %q, want %q", got, src)
	}
	if caseOf(v.length) != caseInlineLong {
		t.Error("a 20-byte value must classify as inline-long")
	}
}

func TestFromBytesHeap(t *testing.T) {
	src := []byte("helloworldhelloworldhelloworld")[:30]

	v, err := FromBytes(src)
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}

	if got := v.Len(); got != 30 {
		t.Errorf("Len() = %d, want 30", got)
	}
	if caseOf(v.length) != caseHeap {
		t.Error("a 30-byte value must classify as heap")
	}
	if got, want := v.Prefix(), []byte("hell"); !bytes.Equal(got[:], want) {
		t.Errorf("Prefix() = %q, want %q", got, want)
	}
	if got := v.Bytes(); !bytes.Equal(got, src) {
		t.Errorf("Bytes() = %q, want %q", got, src)
	}

	v.Release()
}

func TestFromBytesEmptySlice(t *testing.T) {
	v, err := FromBytes(nil)
	if err != nil {
		t.Fatalf("FromBytes(nil) error = %v", err)
	}
	if v.Len() != 0 {
		t.Errorf("Len() = %d, want 0", v.Len())
	}
}

func TestLengthOverflowErrorMessage(t *testing.T) {
	err := wrapLengthOverflow("FromBytes", 1<<33)
	if !IsLengthOverflow(err) {
		t.Error("IsLengthOverflow() = false, want true")
	}
	want := "byteview: FromBytes: length 8589934592 exceeds maximum 4294967295"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestAllocationFailedErrorMessage(t *testing.T) {
	cause := errShardExhausted
	err := wrapAllocationFailed("Concat", 4096, cause)
	if !IsAllocationFailed(err) {
		t.Error("IsAllocationFailed() = false, want true")
	}
	want := "byteview: Concat: allocation of 4096 bytes failed: " + cause.Error()
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := wrapAllocationFailed("FromBytes", 10, nil)
	if want := "byteview: FromBytes: allocation of 10 bytes failed"; bare.Error() != want {
		t.Errorf("Error() = %q, want %q", bare.Error(), want)
	}
}

func TestWithWriterInlineShort(t *testing.T) {
	v := WithWriter(2, func(b []byte) {
		copy(b, []byte("hi"))
	})

	if got := v.Bytes(); !bytes.Equal(got, []byte("hi")) {
		t.Errorf("Bytes() = %q, want %q", got, "hi")
	}
}

func TestWithWriterInlineLong(t *testing.T) {
	v := WithWriter(10, func(b []byte) {
		for i := range b {
			b[i] = byte('a' + i)
		}
	})

	want := []byte("abcdefghij")
	if got := v.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}
}

func TestWithWriterHeap(t *testing.T) {
	v := WithWriter(40, func(b []byte) {
		for i := range b {
			b[i] = byte(i)
		}
	})
	defer v.Release()

	if v.Len() != 40 {
		t.Fatalf("Len() = %d, want 40", v.Len())
	}
	got := v.Bytes()
	for i, c := range got {
		if c != byte(i) {
			t.Fatalf("Bytes()[%d] = %d, want %d", i, c, byte(i))
		}
	}
}

func TestWithWriterPartialFillLeavesZero(t *testing.T) {
	v := WithWriter(6, func(b []byte) {
		b[0] = 'x' // leave b[1:] untouched
	})

	got := v.Bytes()
	if got[0] != 'x' {
		t.Fatalf("Bytes()[0] = %q, want 'x'", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i] != 0 {
			t.Errorf("Bytes()[%d] = %d, want 0 (unwritten)", i, got[i])
		}
	}
}

func TestInlinePaddingIsZero(t *testing.T) {
	// Property 9: raw bytes beyond Len() are zero for inline values.
	for _, n := range []int{0, 1, 4, 5, 12, 20} {
		src := bytes.Repeat([]byte{0xFF}, n)
		v, err := FromBytes(src)
		if err != nil {
			t.Fatalf("FromBytes() error = %v", err)
		}

		for i := n; i < inlineShortMax; i++ {
			if v.prefix[i] != 0 {
				t.Errorf("n=%d: prefix[%d] = %d, want 0", n, i, v.prefix[i])
			}
		}
		if n > inlineShortMax {
			for i := n - inlineShortMax; i < inlineLongMax-inlineShortMax; i++ {
				if v.tail[i] != 0 {
					t.Errorf("n=%d: tail[%d] = %d, want 0", n, i, v.tail[i])
				}
			}
		}
	}
}

func TestCloneInline(t *testing.T) {
	v, _ := FromBytes([]byte("abc"))
	c := v.Clone()
	defer c.Release()

	if !bytes.Equal(v.Bytes(), c.Bytes()) {
		t.Error("clone of inline value must have identical content")
	}
}

func TestCloneHeapIncrementsRefcount(t *testing.T) {
	v, _ := FromBytes(bytes.Repeat([]byte{'z'}, 64))
	defer v.Release()

	handle, _ := v.heapTail()
	if got := refcountOf(handle); got != 1 {
		t.Fatalf("refcount after construction = %d, want 1", got)
	}

	c := v.Clone()
	defer c.Release()

	if got := refcountOf(handle); got != 2 {
		t.Fatalf("refcount after Clone = %d, want 2", got)
	}
	if !bytes.Equal(v.Bytes(), c.Bytes()) {
		t.Error("clone of heap value must have identical content")
	}
}

func TestReleaseIsNoOpForInline(t *testing.T) {
	v, _ := FromBytes([]byte("ok"))
	v.Release() // must not panic
	v.Release() // repeated releases of an inline value are always harmless
}

func TestReleaseIsNoOpForZeroValue(t *testing.T) {
	var v Value
	v.Release()
}
