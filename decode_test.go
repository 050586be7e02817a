package tyrant

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func readerOver(b []byte) *frameReader {
	buf := bytes.NewReader(b)
	return &frameReader{recv: func(n int) ([]byte, error) {
		out := make([]byte, n)
		if _, err := io.ReadFull(buf, out); err != nil {
			return nil, err
		}
		return out, nil
	}}
}

func TestReadLenStr(t *testing.T) {
	fr := readerOver([]byte{0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o'})
	got, err := fr.readLenStr()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestReadLenStrRejectsInvalidUTF8(t *testing.T) {
	fr := readerOver([]byte{0, 0, 0, 1, 0xff})
	_, err := fr.readLenStr()
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
}

func TestReadDouble(t *testing.T) {
	// spec §8: ADDDOUBLE reply for 2.5 is intPart=2, fracPart=500000000000.
	fr := readerOver([]byte{
		0, 0, 0, 0, 0, 0, 0, 2,
		0, 0, 0, 0x74, 0x6A, 0x52, 0x88, 0x00,
	})
	got, err := fr.readDouble()
	if err != nil {
		t.Fatal(err)
	}
	const want = 2.5
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("readDouble() = %v, want %v", got, want)
	}
}

func TestReadStrPair(t *testing.T) {
	fr := readerOver([]byte{0, 0, 0, 1, 0, 0, 0, 2, 'k', 'v', '1'})
	k, v, err := fr.readStrPair()
	if err != nil {
		t.Fatal(err)
	}
	if string(k) != "k" || string(v) != "v1" {
		t.Fatalf("got (%q, %q)", k, v)
	}
}

func TestReadStrList(t *testing.T) {
	fr := readerOver([]byte{
		0, 0, 0, 2, 'h', 'i',
		0, 0, 0, 3, 'b', 'y', 'e',
	})
	got, err := fr.readStrList(2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"hi", "bye"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGetReplyDecodesToValue(t *testing.T) {
	// spec §8: GET reply 00 00 00 00 05 68 65 6C 6C 6F decodes to "hello";
	// the leading status byte is consumed by the Transport, so the
	// frameReader here only sees the length+payload.
	fr := readerOver([]byte{0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o'})
	got, err := decodeGet(fr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got.([]byte)) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}
