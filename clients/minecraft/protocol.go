package minecraft

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// -1 is the conventional protocol version for a client that only wants the status
	statusProtocolVersion int32 = -1
	nextStateStatus       int32 = 1

	packetIDHandshake      int32 = 0x00
	packetIDStatusRequest  int32 = 0x00
	packetIDStatusResponse int32 = 0x00

	maxVarIntBytes = 5
	// upper bound of a packet length in the protocol (3-byte varint)
	maxPacketLength = 2097151
)

// protocolError marks a response that does not follow the status protocol
type protocolError struct {
	msg string
	err error
}

func (e *protocolError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *protocolError) Unwrap() error {
	return e.err
}

func newProtocolError(format string, args ...any) error {
	return &protocolError{msg: fmt.Sprintf(format, args...)}
}

func appendVarInt(buf []byte, value int32) []byte {
	v := uint32(value)
	for {
		if v&^0x7F == 0 {
			return append(buf, byte(v))
		}
		buf = append(buf, byte(v&0x7F|0x80))
		v >>= 7
	}
}

func readVarInt(r io.ByteReader) (int32, error) {
	var result uint32
	for i := 0; i < maxVarIntBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return int32(result), nil
		}
	}
	return 0, newProtocolError("varint longer than %d bytes", maxVarIntBytes)
}

func appendString(buf []byte, s string) []byte {
	buf = appendVarInt(buf, int32(len(s)))
	return append(buf, s...)
}

// encodePacket frames a packet as length, id, payload
func encodePacket(id int32, payload []byte) []byte {
	body := appendVarInt(nil, id)
	body = append(body, payload...)

	framed := appendVarInt(make([]byte, 0, len(body)+maxVarIntBytes), int32(len(body)))
	return append(framed, body...)
}

func handshakePacket(host string, port int) []byte {
	payload := appendVarInt(nil, statusProtocolVersion)
	payload = appendString(payload, host)
	payload = binary.BigEndian.AppendUint16(payload, uint16(port))
	payload = appendVarInt(payload, nextStateStatus)
	return encodePacket(packetIDHandshake, payload)
}

func statusRequestPacket() []byte {
	return encodePacket(packetIDStatusRequest, nil)
}

// readPacket reads one framed packet and returns its id and payload
func readPacket(r *bufio.Reader) (int32, []byte, error) {
	length, err := readVarInt(r)
	if err != nil {
		return 0, nil, wrapReadError("packet length", err)
	}
	if length <= 0 || length > maxPacketLength {
		return 0, nil, newProtocolError("invalid packet length %d", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, wrapReadError("packet body", err)
	}

	bodyReader := bytes.NewReader(body)
	id, err := readVarInt(bodyReader)
	if err != nil {
		return 0, nil, wrapReadError("packet id", err)
	}
	return id, body[len(body)-bodyReader.Len():], nil
}

// readString decodes a varint-prefixed UTF-8 string that must fill the payload
func readString(payload []byte) (string, error) {
	r := bytes.NewReader(payload)
	length, err := readVarInt(r)
	if err != nil {
		return "", wrapReadError("string length", err)
	}
	if length < 0 || int(length) > r.Len() {
		return "", newProtocolError("string length %d exceeds payload of %d bytes", length, r.Len())
	}

	start := len(payload) - r.Len()
	return string(payload[start : start+int(length)]), nil
}

// wrapReadError turns truncated input into a protocol error and passes
// transport errors (timeouts, closed connections) through untouched
func wrapReadError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &protocolError{msg: "unexpected end of response reading " + what, err: err}
	}
	var protoErr *protocolError
	if errors.As(err, &protoErr) {
		return err
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}
