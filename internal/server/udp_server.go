// Package server implements the UDP listener (UL): it binds the DNS port
// and dispatches each inbound datagram to the query handler.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"runtime"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/localdnspro/localdnspro/internal/dns"
	"github.com/localdnspro/localdnspro/internal/pool"
)

// Socket buffer sizes for burst handling (4MB each).
const (
	socketRecvBufferSize = 4 * 1024 * 1024
	socketSendBufferSize = 4 * 1024 * 1024
)

// DefaultWorkersPerSocket is the default number of worker goroutines per UDP
// socket. A local-network server needs far fewer than a carrier-scale
// deployment, so this is a small fraction of what a multi-tenant resolver
// would use.
const DefaultWorkersPerSocket = 32

// bufferPool reduces allocations for incoming UDP packets.
var bufferPool = pool.NewByteSlicePool(dns.MaxIncomingDNSMessageSize)

// Handler is the minimal surface UDPServer needs from the query handler.
type Handler interface {
	Handle(ctx context.Context, reqBytes []byte) []byte
}

// UDPServer handles DNS queries over UDP with one SO_REUSEPORT socket per
// CPU core, a fixed worker pool per socket, and buffer pooling.
//
// Goroutine lifecycle: for each CPU core, Run() spawns 1 receiver goroutine
// and WorkersPerSocket worker goroutines, all sharing ctx. Stop closes the
// sockets and waits (bounded by a timeout) for every goroutine to exit.
type UDPServer struct {
	Logger           *slog.Logger
	Handler          Handler
	WorkersPerSocket int

	conns []*net.UDPConn
	wg    sync.WaitGroup
}

type packet struct {
	bufPtr *[]byte
	n      int
	peer   *net.UDPAddr
}

// Run starts the UDP server with multiple sockets using SO_REUSEPORT and
// blocks until ctx is cancelled, then shuts down gracefully.
func (s *UDPServer) Run(ctx context.Context, addr string) error {
	if s.WorkersPerSocket <= 0 {
		s.WorkersPerSocket = DefaultWorkersPerSocket
	}

	socketCount := runtime.NumCPU()
	s.conns = make([]*net.UDPConn, 0, socketCount)

	for range socketCount {
		conn, err := listenReusePort(addr)
		if err != nil {
			for _, c := range s.conns {
				_ = c.Close()
			}
			return err
		}
		_ = conn.SetReadBuffer(socketRecvBufferSize)
		_ = conn.SetWriteBuffer(socketSendBufferSize)
		s.conns = append(s.conns, conn)

		packetCh := make(chan packet, s.WorkersPerSocket*2)
		c := conn
		ch := packetCh

		s.wg.Go(func() {
			s.recvLoop(ctx, c, ch)
		})
		for range s.WorkersPerSocket {
			s.wg.Go(func() {
				s.workerLoop(ctx, c, ch)
			})
		}
	}

	<-ctx.Done()
	return s.Stop(5 * time.Second)
}

// recvLoop reads packets from the socket and dispatches to workers without
// ever blocking on worker availability; it drops a packet if all workers
// are busy.
func (s *UDPServer) recvLoop(ctx context.Context, conn *net.UDPConn, out chan<- packet) {
	for {
		bufPtr := bufferPool.Get()
		buf := *bufPtr

		n, peer, err := conn.ReadFromUDP(buf)
		if err != nil {
			bufferPool.Put(bufPtr)
			return
		}

		select {
		case out <- packet{bufPtr, n, peer}:
		default:
			bufferPool.Put(bufPtr)
		}
	}
}

func (s *UDPServer) workerLoop(ctx context.Context, conn *net.UDPConn, in <-chan packet) {
	for {
		select {
		case <-ctx.Done():
			return
		case pkt, ok := <-in:
			if !ok {
				return
			}
			s.handlePacket(ctx, conn, pkt)
		}
	}
}

func (s *UDPServer) handlePacket(ctx context.Context, conn *net.UDPConn, p packet) {
	defer bufferPool.Put(p.bufPtr)

	if s.Handler == nil {
		return
	}

	payload := (*p.bufPtr)[:p.n]
	resp := s.Handler.Handle(ctx, payload)
	if len(resp) == 0 {
		return
	}

	resp = truncateUDPResponse(resp, dns.DefaultUDPPayloadSize)
	_, _ = conn.WriteToUDP(resp, p.peer)
}

// Stop closes all sockets and waits up to timeout for in-flight goroutines
// to exit.
func (s *UDPServer) Stop(timeout time.Duration) error {
	for _, c := range s.conns {
		_ = c.Close()
	}

	if timeout <= 0 {
		s.wg.Wait()
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("udp server: timeout waiting for goroutines to exit")
	}
}

// listenReusePort creates a UDP socket with SO_REUSEPORT enabled, so the
// kernel distributes incoming packets across one socket per CPU core
// without userspace coordination.
func listenReusePort(addr string) (*net.UDPConn, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
		},
	}

	pc, err := lc.ListenPacket(context.Background(), "udp", udpAddr.String())
	if err != nil {
		return nil, err
	}

	return pc.(*net.UDPConn), nil
}
