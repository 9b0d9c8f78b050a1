// Package dns implements the wire-format slice of RFC 1035 this server
// needs: a 12-byte header, one question per query (ParseRequestBounded
// rejects any other count), and A/AAAA/CNAME resource records. DNSSEC
// (RFC 4034/4035) and EDNS (RFC 6891) are out of scope — spec.md names
// both as Non-goals — so this package neither parses nor emits OPT
// pseudo-records or signature RR types.
//
// Every encode/decode failure of the header, name, question, and record
// codecs is wrapped with fmt.Errorf("...: %w", ErrDNSError) so callers can
// test with errors.Is(err, dns.ErrDNSError). ParseRequestBounded's own
// rejections (oversized message, QR set, non-zero opcode, section counts)
// are plain errors that do not wrap ErrDNSError.
package dns

import "errors"

// ErrDNSError is the sentinel every wire-format violation in this package
// wraps.
var ErrDNSError = errors.New("dns wire error")
