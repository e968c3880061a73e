package protocol

import (
	"encoding/binary"
	"fmt"
)

func newMessage(t MessageType) []byte {
	msg := make([]byte, MessageSize)
	msg[0] = byte(t)
	return msg
}

// EncodeDiscovery builds the broadcast server discovery request.
func EncodeDiscovery() []byte {
	return newMessage(TypeDiscovery)
}

// EncodeHello builds the keepalive sent to a known server.
func EncodeHello() []byte {
	return newMessage(TypeHello)
}

// EncodeKeyInput builds a remote-control key datagram. timestamp is in
// milliseconds on the client's own clock.
func EncodeKeyInput(timestamp, code uint32) []byte {
	msg := newMessage(TypeInput)
	binary.BigEndian.PutUint32(msg[keyTimestampOffset:keyTimestampOffset+4], timestamp)
	binary.BigEndian.PutUint32(msg[keyCodeOffset:keyCodeOffset+4], code)
	return msg
}

// DecodeKeyInput reads back the fields written by EncodeKeyInput.
func DecodeKeyInput(msg []byte) (KeyInput, error) {
	if len(msg) != MessageSize {
		return KeyInput{}, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(msg))
	}
	if MessageType(msg[0]) != TypeInput {
		return KeyInput{}, fmt.Errorf("%w: %s", ErrMessageTypeMismatch, MessageType(msg[0]))
	}
	return KeyInput{
		Timestamp: binary.BigEndian.Uint32(msg[keyTimestampOffset : keyTimestampOffset+4]),
		Code:      binary.BigEndian.Uint32(msg[keyCodeOffset : keyCodeOffset+4]),
	}, nil
}
