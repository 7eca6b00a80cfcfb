package minecraft

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		value int32
		bytes []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{25565, []byte{0xdd, 0xc7, 0x01}},
		{2097151, []byte{0xff, 0xff, 0x7f}},
		{-1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		encoded := appendVarInt(nil, tt.value)
		assert.Equal(t, tt.bytes, encoded, "encoding %d", tt.value)

		decoded, err := readVarInt(bytes.NewReader(encoded))
		require.NoError(t, err)
		assert.Equal(t, tt.value, decoded)
	}
}

func TestReadVarIntTooLong(t *testing.T) {
	_, err := readVarInt(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}))
	var protoErr *protocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestHandshakePacketLayout(t *testing.T) {
	packet := handshakePacket("mc.example.net", 25565)

	id, payload, err := readPacket(bufio.NewReader(bytes.NewReader(packet)))
	require.NoError(t, err)
	assert.Equal(t, packetIDHandshake, id)

	r := bytes.NewReader(payload)
	version, err := readVarInt(r)
	require.NoError(t, err)
	assert.Equal(t, statusProtocolVersion, version)

	host, err := readString(payload[len(payload)-r.Len():])
	require.NoError(t, err)
	assert.Equal(t, "mc.example.net", host)

	// host string is followed by the big-endian port and the next state
	tail := payload[len(payload)-3:]
	assert.Equal(t, []byte{0x63, 0xdd, 0x01}, tail)
}

func TestReadPacketRejectsBadLengths(t *testing.T) {
	_, _, err := readPacket(bufio.NewReader(bytes.NewReader([]byte{0x00})))
	var protoErr *protocolError
	assert.ErrorAs(t, err, &protoErr)

	oversized := appendVarInt(nil, maxPacketLength+1)
	_, _, err = readPacket(bufio.NewReader(bytes.NewReader(oversized)))
	assert.ErrorAs(t, err, &protoErr)
}

func TestReadPacketTruncatedBody(t *testing.T) {
	truncated := []byte{0x05, 0x00, 0x01}
	_, _, err := readPacket(bufio.NewReader(bytes.NewReader(truncated)))

	var protoErr *protocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Contains(t, err.Error(), "unexpected end of response")
}

func TestReadStringLengthExceedsPayload(t *testing.T) {
	_, err := readString([]byte{0x0a, 'h', 'i'})
	var protoErr *protocolError
	assert.ErrorAs(t, err, &protoErr)
}
