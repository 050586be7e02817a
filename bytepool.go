package tyrant

import "sync"

// bytePool reuses byte slices for outbound frame buffers. Adapted from the
// teacher's BytePool: same Get/Put shape, retargeted from pooling server
// response buffers to pooling pack() output buffers on the client's write
// path.
type bytePool struct {
	pool sync.Pool
}

func newBytePool() *bytePool {
	return &bytePool{
		pool: sync.Pool{
			New: func() any {
				return make([]byte, 256)
			},
		},
	}
}

func (bp *bytePool) Get(size int) []byte {
	buf := bp.pool.Get().([]byte)
	if cap(buf) < size {
		return make([]byte, size)
	}
	return buf[:size]
}

func (bp *bytePool) Put(buf []byte) {
	if cap(buf) <= 64*1024 { // don't pool very large buffers
		buf = buf[:0]
		bp.pool.Put(buf)
	}
}
