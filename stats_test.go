package tyrant

import (
	"net"
	"testing"
)

func TestStatsSnapshotReflectsCounters(t *testing.T) {
	s := NewStats()
	s.commandsSent.Add(3)
	s.bytesWritten.Add(42)
	s.bytesRead.Add(7)
	s.repliesRead.Add(2)
	s.errors.Add(1)
	s.pipelineDepth.Store(5)

	got := s.Snapshot()
	want := Snapshot{
		CommandsSent:  3,
		BytesWritten:  42,
		BytesRead:     7,
		RepliesRead:   2,
		Errors:        1,
		PipelineDepth: 5,
	}
	if got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestClientStatsTracksTransportTraffic(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()
	tinyServer(t, serverConn)

	c := newClientFromTransport(newTransport(clientConn, nil), nil)
	defer c.Close()

	if err := c.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}

	snap := c.Stats()
	if snap.CommandsSent != 1 {
		t.Fatalf("CommandsSent = %d, want 1", snap.CommandsSent)
	}
	if snap.BytesWritten == 0 {
		t.Fatal("BytesWritten = 0, want > 0")
	}
}
