package tyrant

import (
	"bytes"
	"testing"
)

func TestPackPutFrame(t *testing.T) {
	// spec: PUT("abc","xy") emits C8 10 00 00 00 03 00 00 00 02 61 62 63 78 79
	want := []byte{0xC8, 0x10, 0, 0, 0, 3, 0, 0, 0, 2, 'a', 'b', 'c', 'x', 'y'}

	pool := newBytePool()
	got := pack(pool, opPut, u32(3), u32(2), bytesArg([]byte("abc")), bytesArg([]byte("xy")))

	if !bytes.Equal(got, want) {
		t.Fatalf("pack() = % X, want % X", got, want)
	}
}

func TestPackArgumentOrderGovernsLayout(t *testing.T) {
	pool := newBytePool()
	got := pack(pool, opPutShl, u32(1), u32(2), u32(3), bytesArg([]byte("k")), bytesArg([]byte("vv")))

	want := []byte{0xC8, opPutShl, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 3, 'k', 'v', 'v'}
	if !bytes.Equal(got, want) {
		t.Fatalf("pack() = % X, want % X", got, want)
	}
}

func TestPackListEncoding(t *testing.T) {
	pool := newBytePool()
	got := pack(pool, opMisc, u32(2), u32(0), u32(2), bytesArg([]byte("fn")), list([]string{"ab", "c"}))

	want := []byte{0xC8, opMisc, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 2, 'f', 'n',
		0, 0, 0, 2, 'a', 'b',
		0, 0, 0, 1, 'c'}
	if !bytes.Equal(got, want) {
		t.Fatalf("pack() = % X, want % X", got, want)
	}
}

func TestMGetFrameEmitsPerKeyLengthPrefix(t *testing.T) {
	// known source bug (a): mget must emit [u32 count][(u32 klen, key)...],
	// which is exactly the list encoding.
	pool := newBytePool()
	got := pack(pool, opMGet, u32(2), list([]string{"k1", "key2"}))

	want := []byte{0xC8, opMGet, 0, 0, 0, 2,
		0, 0, 0, 2, 'k', '1',
		0, 0, 0, 4, 'k', 'e', 'y', '2'}
	if !bytes.Equal(got, want) {
		t.Fatalf("pack() = % X, want % X", got, want)
	}
}
