package protocol

import "errors"

var (
	ErrEmptyMessage        = errors.New("protocol: empty message")
	ErrUnknownMessageType  = errors.New("protocol: unknown message type")
	ErrInvalidLength       = errors.New("protocol: invalid length")
	ErrMessageTypeMismatch = errors.New("protocol: message type mismatch")
	ErrUnknownPrefix       = errors.New("protocol: unknown token prefix")
)
