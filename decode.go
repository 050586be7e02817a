package tyrant

import (
	"encoding/binary"
	"unicode/utf8"
)

// frameReader decodes typed primitives from a single command's reply bytes,
// pulling exactly N bytes at a time through recv. recv is supplied by the
// Transport and blocks until that many bytes have arrived in FIFO order;
// see transport.go.
type frameReader struct {
	recv func(n int) ([]byte, error)
}

func (r *frameReader) readU8() (byte, error) {
	b, err := r.recv(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *frameReader) readU32() (uint32, error) {
	b, err := r.recv(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *frameReader) readU64() (uint64, error) {
	b, err := r.recv(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *frameReader) readBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	return r.recv(n)
}

// readLenBytes reads a big-endian uint32 length followed by that many bytes.
func (r *frameReader) readLenBytes() ([]byte, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, err
	}
	return r.readBytes(int(n))
}

// readLenStr is readLenBytes followed by UTF-8 decoding.
func (r *frameReader) readLenStr() (string, error) {
	b, err := r.readLenBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &DecodeError{Reason: "invalid UTF-8 in length-prefixed string"}
	}
	return string(b), nil
}

// readDouble reads two big-endian uint64 halves and composes the Tyrant
// fixed-point double: intPart + fracPart * 1e-12.
func (r *frameReader) readDouble() (float64, error) {
	intPart, err := r.readU64()
	if err != nil {
		return 0, err
	}
	fracPart, err := r.readU64()
	if err != nil {
		return 0, err
	}
	return int64ToFloat(intPart) + float64(fracPart)*1e-12, nil
}

// readStrPair reads two big-endian uint32 lengths followed by two byte runs
// (MGET's per-record reply shape).
func (r *frameReader) readStrPair() (key, value []byte, err error) {
	klen, err := r.readU32()
	if err != nil {
		return nil, nil, err
	}
	vlen, err := r.readU32()
	if err != nil {
		return nil, nil, err
	}
	key, err = r.readBytes(int(klen))
	if err != nil {
		return nil, nil, err
	}
	value, err = r.readBytes(int(vlen))
	if err != nil {
		return nil, nil, err
	}
	return key, value, nil
}

// readStrList reads n length-prefixed UTF-8 strings in order.
func (r *frameReader) readStrList(n int) ([]string, error) {
	out := make([]string, n)
	for i := range out {
		s, err := r.readLenStr()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// int64ToFloat reinterprets a wire uint64 as the signed 64-bit integer part
// of a double, mirroring the server's two's-complement wrapping convention
// for negative values (spec §4.3 numeric-coding rule).
func int64ToFloat(u uint64) float64 {
	return float64(int64(u))
}
