package dns

import (
	"encoding/binary"
	"fmt"
)

// Question is one entry of a message's question section (RFC 1035 Section
// 4.1.2): the name being queried, the record type requested, and the
// class (always ClassIN here). querypipeline.Handler reads exactly one of
// these off an inbound datagram — parsing.go's ParseRequestBounded rejects
// anything but a single question before QH ever sees the packet — then
// classifies its Type as "A", "AAAA", "CNAME", or "OTHER" to decide
// whether the record cache can possibly answer it.
type Question struct {
	Name  string
	Type  uint16
	Class uint16
}

// Marshal serializes q to wire format: an encoded name followed by the
// 2-byte type and 2-byte class.
func (q Question) Marshal() ([]byte, error) {
	name, err := EncodeName(q.Name)
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, len(name)+4)
	b = append(b, name...)
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf[0:2], q.Type)
	binary.BigEndian.PutUint16(buf[2:4], q.Class)
	b = append(b, buf...)
	return b, nil
}

// ParseQuestion reads a Question from msg at *off, advancing *off past it.
// The name is lowercased on the way in (NormalizeName) since every match
// the record cache performs is case-insensitive.
func ParseQuestion(msg []byte, off *int) (Question, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return Question{}, err
	}
	if *off+4 > len(msg) {
		return Question{}, fmt.Errorf("%w: question truncated before type/class", ErrDNSError)
	}
	q := Question{
		Name:  NormalizeName(name),
		Type:  binary.BigEndian.Uint16(msg[*off : *off+2]),
		Class: binary.BigEndian.Uint16(msg[*off+2 : *off+4]),
	}
	*off += 4
	return q, nil
}
