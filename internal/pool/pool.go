// Package pool wraps sync.Pool with a typed API. UDPServer's recvLoop is
// the only consumer in this repo: it pulls a reusable datagram buffer off
// the pool for each incoming packet and returns it once the query handler
// has produced (or failed to produce) a response, so a server fielding a
// steady stream of DNS queries doesn't allocate a fresh
// dns.MaxIncomingDNSMessageSize buffer per packet.
package pool

import "sync"

// Pool is a generic wrapper around sync.Pool.
type Pool[T any] struct {
	internal sync.Pool
}

// New creates a new Pool with the given constructor.
func New[T any](newFn func() T) *Pool[T] {
	return &Pool[T]{
		internal: sync.Pool{
			New: func() any {
				return newFn()
			},
		},
	}
}

// Get retrieves an item from the pool.
func (p *Pool[T]) Get() T {
	return p.internal.Get().(T)
}

// Put returns an item to the pool.
func (p *Pool[T]) Put(item T) {
	p.internal.Put(item)
}

// NewByteSlicePool builds a pool of fixed-size byte buffers, each sized to
// hold one incoming datagram. Buffers come back from Get() pre-allocated
// to size and are never grown or shrunk by the pool itself — the caller
// reslices with [:n] after a read and restores the full-length pointer
// before Put.
func NewByteSlicePool(size int) *Pool[*[]byte] {
	return New(func() *[]byte {
		buf := make([]byte, size)
		return &buf
	})
}
