package tyrant

import "go.uber.org/atomic"

// Stats holds the client-side counters fed by the Transport's hot path.
// Grounded on the teacher's ServerStats (stats.go), switched from a single
// sync.RWMutex guarding the whole struct to one atomic field per counter:
// unlike the teacher's HitRate (a ratio that needs GetOps and DelOps read
// together consistently), none of these counters are read jointly under an
// invariant, so independent atomics avoid contention on the per-command
// path without losing correctness.
type Stats struct {
	commandsSent  atomic.Uint64
	bytesWritten  atomic.Uint64
	bytesRead     atomic.Uint64
	repliesRead   atomic.Uint64
	errors        atomic.Uint64
	pipelineDepth atomic.Int64
}

// NewStats returns a zeroed Stats, ready to hand to DialTransport.
func NewStats() *Stats { return &Stats{} }

// Snapshot is a point-in-time copy of Stats, safe to log or print.
type Snapshot struct {
	CommandsSent  uint64
	BytesWritten  uint64
	BytesRead     uint64
	RepliesRead   uint64
	Errors        uint64
	PipelineDepth int64
}

// Snapshot copies the current counter values.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		CommandsSent:  s.commandsSent.Load(),
		BytesWritten:  s.bytesWritten.Load(),
		BytesRead:     s.bytesRead.Load(),
		RepliesRead:   s.repliesRead.Load(),
		Errors:        s.errors.Load(),
		PipelineDepth: s.pipelineDepth.Load(),
	}
}
