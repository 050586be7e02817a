package tyrant

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
)

func TestMapGetListRequiresSeparator(t *testing.T) {
	m := &Map{}
	_, err := m.GetList("k")
	if _, ok := err.(*SeparatorRequired); !ok {
		t.Fatalf("err = %v, want *SeparatorRequired", err)
	}
}

func TestMapSetListRequiresSeparator(t *testing.T) {
	m := &Map{client: &Client{config: DefaultConfig()}}
	err := m.Set("k", []string{"a", "b"})
	if _, ok := err.(*SeparatorRequired); !ok {
		t.Fatalf("err = %v, want *SeparatorRequired", err)
	}
}

func TestMapStatsParsesKeyValueLines(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	go func() {
		hdr := make([]byte, 2)
		if _, err := io.ReadFull(serverConn, hdr); err != nil {
			return
		}
		serverConn.Write([]byte{0})
		text := "version\t1.2.3\nrnum\t42\n"
		lenBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBuf, uint32(len(text)))
		serverConn.Write(lenBuf)
		serverConn.Write([]byte(text))
	}()

	c := newClientFromTransport(newTransport(clientConn, nil), nil)
	defer c.Close()

	m := c.NewMap()
	stats, err := m.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats["version"] != "1.2.3" || stats["rnum"] != "42" {
		t.Fatalf("got %+v", stats)
	}
}

func TestMapGetMissingKeyReturnsKeyMissing(t *testing.T) {
	// spec §7: the façade, not the Command Layer, narrows ProtocolError to
	// KeyMissing for GET.
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	tinyServer(t, serverConn)

	c := newClientFromTransport(newTransport(clientConn, nil), nil)
	defer c.Close()

	m := c.NewMap()
	_, err := m.Get("nope")
	if _, ok := err.(*KeyMissing); !ok {
		t.Fatalf("err = %v, want *KeyMissing", err)
	}
}

func TestMapContainsMissingKeyIsFalseNotError(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	tinyServer(t, serverConn)

	c := newClientFromTransport(newTransport(clientConn, nil), nil)
	defer c.Close()

	m := c.NewMap()
	ok, err := m.Contains("nope")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("Contains(nope) = true, want false")
	}
}

func TestMapGetLiteralSuppressesUTF8Validation(t *testing.T) {
	// spec §3 Invariants: literal access suppresses UTF-8 decoding.
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	invalid := []byte{0xff, 0xfe}
	go func() {
		hdr := make([]byte, 2)
		io.ReadFull(serverConn, hdr)
		readU32(serverConn)
		readN(serverConn, int(len("k")))
		serverConn.Write([]byte{0})
		lenBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBuf, uint32(len(invalid)))
		serverConn.Write(lenBuf)
		serverConn.Write(invalid)
	}()

	c := newClientFromTransport(newTransport(clientConn, nil), nil)
	defer c.Close()

	m := &Map{client: c, literal: true}
	got, err := m.Get("k")
	if err != nil {
		t.Fatal(err)
	}
	if got != string(invalid) {
		t.Fatalf("got %q, want raw bytes %q", got, invalid)
	}
}

func TestMapGetNonLiteralRejectsInvalidUTF8(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	invalid := []byte{0xff, 0xfe}
	go func() {
		hdr := make([]byte, 2)
		io.ReadFull(serverConn, hdr)
		readU32(serverConn)
		readN(serverConn, int(len("k")))
		serverConn.Write([]byte{0})
		lenBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBuf, uint32(len(invalid)))
		serverConn.Write(lenBuf)
		serverConn.Write(invalid)
	}()

	c := newClientFromTransport(newTransport(clientConn, nil), nil)
	defer c.Close()

	m := &Map{client: c, literal: false}
	_, err := m.Get("k")
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("err = %v, want *DecodeError", err)
	}
}

func TestMapSetEncodesTableRecordAsPutlist(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	go func() {
		hdr := make([]byte, 2)
		if _, err := io.ReadFull(serverConn, hdr); err != nil {
			return
		}
		if hdr[1] != opMisc {
			serverConn.Write([]byte{1})
			return
		}
		// drain flen, opts, argc, fn, and the arg list without interpreting it
		flen := readU32(serverConn)
		readU32(serverConn) // opts
		argc := readU32(serverConn)
		readN(serverConn, int(flen))
		for i := uint32(0); i < argc; i++ {
			alen := readU32(serverConn)
			readN(serverConn, int(alen))
		}
		serverConn.Write([]byte{0})
		countBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(countBuf, 0)
		serverConn.Write(countBuf)
	}()

	c := newClientFromTransport(newTransport(clientConn, nil), nil)
	defer c.Close()

	m := c.NewMap()
	if err := m.Set("rec1", map[string]string{"name": "Alice"}); err != nil {
		t.Fatal(err)
	}
}
