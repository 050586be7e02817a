package tyrant

import "encoding/binary"

// Arg is a typed pack() argument. Per the spec's design notes, the source
// protocol infers header width from the runtime type of each argument
// (Python int vs long); a Go port exposes that choice explicitly instead so
// call sites never depend on implicit int-width inference.
type Arg struct {
	kind argKind
	u32  uint32
	u64  uint64
	raw  []byte
	list [][]byte
}

type argKind int

const (
	kindU32 argKind = iota
	kindU64
	kindBytes
	kindList
)

// u32 packs a fixed-width integer argument into the frame's header as a
// big-endian uint32.
func u32(v uint32) Arg { return Arg{kind: kindU32, u32: v} }

// u64 packs a fixed-width integer argument into the frame's header as a
// big-endian uint64.
func u64(v uint64) Arg { return Arg{kind: kindU64, u64: v} }

// bytesArg packs a raw byte payload, appended verbatim to the frame's
// trailing payload section with no inline length.
func bytesArg(b []byte) Arg { return Arg{kind: kindBytes, raw: b} }

// text packs a UTF-8-encoded string payload the same way bytesArg does.
func text(s string) Arg { return bytesArg([]byte(s)) }

// list packs a sequence of strings, each prefixed by its own big-endian
// uint32 length, concatenated into the frame's trailing payload. This is the
// "list" encoding used by MISC and MGET.
func list(items []string) Arg {
	raw := make([][]byte, len(items))
	for i, it := range items {
		raw[i] = []byte(it)
	}
	return Arg{kind: kindList, list: raw}
}

// pack serializes an opcode plus a typed argument tuple into a request
// frame: 0xC8, the opcode byte, then every fixed-width integer argument in
// order (big-endian), then every byte/text/list payload concatenated in
// order. Argument order given by the caller determines both header and
// payload order, so callers must pass lengths in the same order as their
// matching payloads.
func pack(pool *bytePool, opcode byte, args ...Arg) []byte {
	headerLen := 2 // magic + opcode
	payloadLen := 0
	for _, a := range args {
		switch a.kind {
		case kindU32:
			headerLen += 4
		case kindU64:
			headerLen += 8
		case kindBytes:
			payloadLen += len(a.raw)
		case kindList:
			for _, it := range a.list {
				payloadLen += 4 + len(it)
			}
		}
	}

	buf := pool.Get(headerLen + payloadLen)
	buf[0] = magic
	buf[1] = opcode
	hi := 2
	pi := headerLen

	for _, a := range args {
		switch a.kind {
		case kindU32:
			binary.BigEndian.PutUint32(buf[hi:hi+4], a.u32)
			hi += 4
		case kindU64:
			binary.BigEndian.PutUint64(buf[hi:hi+8], a.u64)
			hi += 8
		case kindBytes:
			pi += copy(buf[pi:], a.raw)
		case kindList:
			for _, it := range a.list {
				binary.BigEndian.PutUint32(buf[pi:pi+4], uint32(len(it)))
				pi += 4
				pi += copy(buf[pi:], it)
			}
		}
	}

	return buf
}
