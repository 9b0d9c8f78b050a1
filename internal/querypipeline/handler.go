// Package querypipeline implements the query handler (QH): wire-level
// handling of a single inbound UDP datagram, from parse through the local
// cache, the upstream forwarder, and NXDOMAIN synthesis, down to the log
// message handed to the log worker.
package querypipeline

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/localdnspro/localdnspro/internal/cache"
	"github.com/localdnspro/localdnspro/internal/dns"
	"github.com/localdnspro/localdnspro/internal/querylog"
	"github.com/localdnspro/localdnspro/internal/store"
	"github.com/localdnspro/localdnspro/internal/upstream"
)

// qtypeNames maps the wire qtype to the classification used throughout the
// rest of this package; anything else classifies as "OTHER".
var qtypeNames = map[uint16]string{
	uint16(dns.TypeA):     "A",
	uint16(dns.TypeAAAA):  "AAAA",
	uint16(dns.TypeCNAME): "CNAME",
}

// Sink is the minimal surface querypipeline needs from the log worker.
type Sink interface {
	Send(querylog.Message)
}

// Handler implements QH.
type Handler struct {
	Logger   *slog.Logger
	Cache    *cache.Cache
	Upstream *upstream.Forwarder // nil means "no upstream configured"
	Log      Sink
}

// Handle processes one raw inbound datagram, returning the raw response
// datagram to send back, or nil if the query should be dropped silently
// (unparsable header/question).
func (h *Handler) Handle(ctx context.Context, reqBytes []byte) []byte {
	start := time.Now()

	req, err := dns.ParseRequestBounded(reqBytes)
	if err != nil {
		h.logResult(ctx, "<unparsed>", "OTHER", store.ResultError, start)
		return nil
	}

	q := req.Questions[0]
	qname := dns.NormalizeName(q.Name)
	qtype := classify(q.Type)

	if h.Cache != nil && qtype != "OTHER" {
		if rec, ok := h.Cache.Lookup(qname, qtype); ok {
			resp := buildLocalAnswer(req, q, rec)
			h.logResult(ctx, qname, qtype, store.ResultLocal, start)
			return resp
		}
	}

	if h.Upstream != nil {
		if resp, err := h.Upstream.Forward(reqBytes); err == nil {
			h.logResult(ctx, qname, qtype, store.ResultForwarded, start)
			return resp
		}
	}

	resp := mustMarshal(dns.BuildErrorResponse(req, uint16(dns.RCodeNXDomain)))
	h.logResult(ctx, qname, qtype, store.ResultNXDomain, start)
	return resp
}

func classify(qtype uint16) string {
	if name, ok := qtypeNames[qtype]; ok {
		return name
	}
	return "OTHER"
}

// buildLocalAnswer synthesizes a single-RR authoritative answer for a
// record cache hit: QR=1, Opcode=0, AA=1, RD copied from the query, RA=1,
// RCODE=0, question echoed, one answer RR.
func buildLocalAnswer(req dns.Packet, q dns.Question, rec store.Record) []byte {
	flags := uint16(dns.QRFlag) | uint16(dns.AAFlag) | (req.Header.Flags & uint16(dns.RDFlag)) | uint16(dns.RAFlag)

	rr := dns.Record{
		Name:  q.Name,
		Type:  q.Type,
		Class: uint16(dns.ClassIN),
		TTL:   uint32(rec.TTL),
	}
	switch rec.RecordType {
	case "A":
		rr.Data = ipv4Bytes(rec.Content)
	case "AAAA":
		rr.Data = ipv6Bytes(rec.Content)
	case "CNAME":
		rr.Data = rec.Content
	}

	resp := dns.Packet{
		Header: dns.Header{
			ID:    req.Header.ID,
			Flags: flags,
		},
		Questions: req.Questions,
		Answers:   []dns.Record{rr},
	}
	return mustMarshal(resp)
}

func ipv4Bytes(s string) []byte {
	ip := net.ParseIP(s).To4()
	if ip == nil {
		return make([]byte, 4)
	}
	return ip
}

func ipv6Bytes(s string) []byte {
	ip := net.ParseIP(s).To16()
	if ip == nil {
		return make([]byte, 16)
	}
	return ip
}

func mustMarshal(p dns.Packet) []byte {
	b, err := p.Marshal()
	if err != nil {
		return nil
	}
	return b
}

func (h *Handler) logResult(ctx context.Context, qname, qtype, result string, start time.Time) {
	elapsed := time.Since(start)
	if h.Log != nil {
		h.Log.Send(querylog.Message{
			QueryName:  qname,
			QType:      qtype,
			ResultType: result,
			DurationMs: elapsed.Milliseconds(),
		})
	}
	if h.Logger != nil && h.Logger.Enabled(ctx, slog.LevelDebug) {
		h.Logger.DebugContext(ctx, "dns query",
			"qname", qname, "qtype", qtype, "result", result, "elapsed_ms", elapsed.Milliseconds())
	}
}
