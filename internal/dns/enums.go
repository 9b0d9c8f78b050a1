// Package dns is LocalDNS Pro's RFC 1035 wire codec: it parses the header,
// question, and resource-record sections of a raw UDP datagram, and
// re-serializes the single-RR answers the query handler synthesizes for a
// record-cache hit. It is deliberately narrow — no DNSSEC, no EDNS, no
// message compression on output — because spec.md's Non-goals exclude all
// three; internal/store, internal/cache, and internal/upstream own every
// domain concept this package doesn't (the record store, the match
// precedence rules, the forwarder).
package dns

// Header flags this server actually touches (RFC 1035 Section 4.1.1). The
// query handler only ever reads QR/Opcode on an inbound datagram and sets
// AA/RD/RA/RCODE on the reply it builds, so those are the only bits named
// here; DNSSEC's AD/CD and the reserved Z bit have no reader in this repo
// and are left unnamed rather than documented and ignored.
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA|  (unused)  | RCODE  |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
const (
	QRFlag     uint16 = 0x8000 // 0 = query, 1 = response
	OpcodeMask uint16 = 0x7800 // bits 14-11; shift right 11 to read the opcode
	AAFlag     uint16 = 0x0400 // Authoritative Answer: set on every local-cache hit
	TCFlag     uint16 = 0x0200 // Truncation: set by the listener when a reply won't fit
	RDFlag     uint16 = 0x0100 // Recursion Desired: echoed from query to response
	RAFlag     uint16 = 0x0080 // Recursion Available: set on local answers; synthesized NXDOMAIN replies leave it clear
	RCodeMask  uint16 = 0x000F // bits 3-0
)

// RecordType is a wire-format resource record type. The record store's
// record_type column only ever holds A, AAAA, or CNAME (see
// internal/store's validateRecord), so those are the only RR types this
// codec knows how to build or interpret as data; everything else that
// shows up in an inbound question is passed through the wire as an opaque
// uint16 and classified "OTHER" by the query handler.
type RecordType uint16

const (
	TypeA     RecordType = 1  // IPv4 address
	TypeCNAME RecordType = 5  // Alias to another name
	TypeAAAA  RecordType = 28 // IPv6 address (RFC 3596)
)

// RecordClass is a wire-format resource record class. Only IN is ever
// produced, matched, or expected.
type RecordClass uint16

const (
	ClassIN RecordClass = 1
)

// RCode is a DNS response code (RFC 1035 Section 4.1.1).
type RCode uint16

const (
	RCodeNoError  RCode = 0 // local answer or forwarded upstream reply
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3 // synthesized on a cache miss when no upstream is configured or every upstream failed
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
)

// RCodeFromFlags extracts the response code (the low four bits) from a
// header's flags field.
func RCodeFromFlags(flags uint16) RCode {
	return RCode(flags & RCodeMask)
}
