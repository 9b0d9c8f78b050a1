package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionMarshal(t *testing.T) {
	q := Question{
		Name:  "printer.lan",
		Type:  uint16(TypeA),
		Class: uint16(ClassIN),
	}

	b, err := q.Marshal()
	require.NoError(t, err)

	// "printer.lan" -> 1+7+1+3+1 = 13 bytes, plus 4 bytes of type/class.
	expectedMinLen := 13 + 4
	assert.GreaterOrEqual(t, len(b), expectedMinLen)

	typeVal := int(b[len(b)-4])<<8 | int(b[len(b)-3])
	classVal := int(b[len(b)-2])<<8 | int(b[len(b)-1])

	assert.Equal(t, int(TypeA), typeVal)
	assert.Equal(t, int(ClassIN), classVal)
}

func TestQuestionMarshalInvalidName(t *testing.T) {
	longLabel := make([]byte, 70)
	for i := range longLabel {
		longLabel[i] = 'a'
	}
	q := Question{
		Name:  string(longLabel) + ".lan",
		Type:  uint16(TypeA),
		Class: uint16(ClassIN),
	}

	_, err := q.Marshal()
	assert.ErrorIs(t, err, ErrDNSError)
}

func TestParseQuestion(t *testing.T) {
	// www.printer.lan, type A, class IN
	msg := []byte{
		3, 'w', 'w', 'w',
		7, 'p', 'r', 'i', 'n', 't', 'e', 'r',
		3, 'l', 'a', 'n',
		0,
		0, 1, // Type A
		0, 1, // Class IN
	}

	off := 0
	q, err := ParseQuestion(msg, &off)
	require.NoError(t, err)

	assert.Equal(t, "www.printer.lan", q.Name)
	assert.Equal(t, uint16(TypeA), q.Type)
	assert.Equal(t, uint16(ClassIN), q.Class)
	assert.Equal(t, len(msg), off)
}

func TestParseQuestionNormalizesCase(t *testing.T) {
	// NAS.Printer.LAN — the record cache matches case-insensitively, so
	// ParseQuestion must hand back a lowercase name.
	msg := []byte{
		3, 'N', 'A', 'S',
		7, 'P', 'r', 'i', 'n', 't', 'e', 'r',
		3, 'L', 'A', 'N',
		0,
		0, 1,
		0, 1,
	}

	off := 0
	q, err := ParseQuestion(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "nas.printer.lan", q.Name)
}

func TestParseQuestionTruncated(t *testing.T) {
	msg := []byte{
		7, 'p', 'r', 'i', 'n', 't', 'e', 'r',
		3, 'l', 'a', 'n',
		0,
		// missing type and class
	}

	off := 0
	_, err := ParseQuestion(msg, &off)
	assert.ErrorIs(t, err, ErrDNSError)
}

func TestQuestionRoundTrip(t *testing.T) {
	original := Question{
		Name:  "nas.lan",
		Type:  uint16(TypeAAAA),
		Class: uint16(ClassIN),
	}

	b, err := original.Marshal()
	require.NoError(t, err)

	off := 0
	parsed, err := ParseQuestion(b, &off)
	require.NoError(t, err)

	assert.Equal(t, original.Name, parsed.Name)
	assert.Equal(t, original.Type, parsed.Type)
	assert.Equal(t, original.Class, parsed.Class)
}

func TestParseQuestionMultiple(t *testing.T) {
	// Two back-to-back questions, as if bounds-checking had already
	// allowed more than one in (it never does in production — parsing.go
	// rejects anything but a single question first).
	msg := []byte{
		7, 'p', 'r', 'i', 'n', 't', 'e', 'r',
		3, 'l', 'a', 'n',
		0,
		0, 1, // Type A
		0, 1, // Class IN
		3, 'n', 'a', 's',
		3, 'l', 'a', 'n',
		0,
		0, 28, // Type AAAA
		0, 1, // Class IN
	}

	off := 0

	q1, err := ParseQuestion(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "printer.lan", q1.Name)
	assert.Equal(t, uint16(TypeA), q1.Type)

	q2, err := ParseQuestion(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "nas.lan", q2.Name)
	assert.Equal(t, uint16(TypeAAAA), q2.Type)
}
