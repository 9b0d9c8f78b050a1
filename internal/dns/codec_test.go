package dns

import "testing"

func TestEncodeName(t *testing.T) {
	b, err := EncodeName("printer.lan")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	exp := []byte{7, 'p', 'r', 'i', 'n', 't', 'e', 'r', 3, 'l', 'a', 'n', 0}
	if string(b) != string(exp) {
		t.Fatalf("got %v want %v", b, exp)
	}
}

func TestEncodeNameRoot(t *testing.T) {
	b, err := EncodeName(".")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if string(b) != string([]byte{0}) {
		t.Fatalf("got %v want root label", b)
	}
}

func TestDecodeNameUncompressed(t *testing.T) {
	msg := []byte{3, 'n', 'a', 's', 7, 'p', 'r', 'i', 'n', 't', 'e', 'r', 3, 'l', 'a', 'n', 0}
	off := 0
	n, err := DecodeName(msg, &off)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if n != "nas.printer.lan" {
		t.Fatalf("got %q", n)
	}
	if off != len(msg) {
		t.Fatalf("off=%d", off)
	}
}

func TestDecodeNameCompressionPointer(t *testing.T) {
	// "printer.lan" written out at offset 0, then a second name at offset
	// 13 that's just a pointer back to it — the shape a reply referencing
	// the question's own name over and over would take if this package
	// ever emitted compression (it doesn't, but decoding must still cope
	// with whatever a client sends).
	msg := []byte{7, 'p', 'r', 'i', 'n', 't', 'e', 'r', 3, 'l', 'a', 'n', 0, 0xC0, 0x00}
	off := 13
	n, err := DecodeName(msg, &off)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if n != "printer.lan" {
		t.Fatalf("got %q", n)
	}
	if off != 15 {
		t.Fatalf("off=%d", off)
	}
}
