package dns

// Packet is a full DNS message (RFC 1035 Section 4): a header plus the four
// record sections. The query handler builds Packets with at most one
// Question and, on a record-cache hit, exactly one Answer — spec.md's
// Non-goals rule out multi-record-per-name answer composition, so nothing
// in this repo ever populates Authorities or Additionals on output.
// ParsePacket still decodes all four sections on the way in, since a
// client datagram's additional section is part of the wire format this
// server must tolerate even though it never inspects its contents.
type Packet struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Marshal serializes p to wire format: header, then questions, answers,
// authorities, and additionals in that order.
func (p Packet) Marshal() ([]byte, error) {
	h := Header{
		ID:      p.Header.ID,
		Flags:   p.Header.Flags,
		QDCount: uint16(len(p.Questions)),
		ANCount: uint16(len(p.Answers)),
		NSCount: uint16(len(p.Authorities)),
		ARCount: uint16(len(p.Additionals)),
	}
	hb, err := h.Marshal()
	if err != nil {
		return nil, err
	}

	// A local answer is one question plus one RR; give the common case a
	// tight estimate rather than over-allocating for sections this repo
	// never populates on output.
	estimatedSize := HeaderSize + len(p.Questions)*50 + (len(p.Answers)+len(p.Authorities)+len(p.Additionals))*40
	out := make([]byte, 0, estimatedSize)
	out = append(out, hb...)

	for _, q := range p.Questions {
		b, err := q.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	for _, section := range [][]Record{p.Answers, p.Authorities, p.Additionals} {
		for _, rr := range section {
			b, err := rr.Marshal()
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// ParsePacket decodes a full message starting at offset 0. It does not
// check section counts against parsing.go's limits (ParseRequestBounded
// applies validateSectionCounts after ParsePacket returns); it only caps
// per-section allocation so a header lying about its counts can't force a
// huge up-front allocation, and it fails once the datagram runs out.
func ParsePacket(msg []byte) (Packet, error) {
	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return Packet{}, err
	}

	p := Packet{Header: h}

	p.Questions = make([]Question, 0, capFor(h.QDCount, MaxQuestions))
	for range h.QDCount {
		q, err := ParseQuestion(msg, &off)
		if err != nil {
			return Packet{}, err
		}
		p.Questions = append(p.Questions, q)
	}

	for _, dst := range []struct {
		count uint16
		out   *[]Record
	}{
		{h.ANCount, &p.Answers},
		{h.NSCount, &p.Authorities},
		{h.ARCount, &p.Additionals},
	} {
		records := make([]Record, 0, capFor(dst.count, MaxRRPerSection))
		for range dst.count {
			rr, err := ParseRecord(msg, &off)
			if err != nil {
				return Packet{}, err
			}
			records = append(records, rr)
		}
		*dst.out = records
	}

	return p, nil
}

// capFor bounds an allocation hint by limit, so a header's claimed count
// can never drive a pre-allocation far larger than the datagram could
// actually contain.
func capFor(count uint16, limit int) int {
	if int(count) > limit {
		return limit
	}
	return int(count)
}
