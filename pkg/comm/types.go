// Package comm defines packet transports for command delivery.
package comm

import "errors"

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// PacketHandler receives a packet from a subscription.
type PacketHandler interface {
	HandlePacket([]byte)
}

// ErrPacketTooLarge indicates a packet exceeds the transport limit.
var ErrPacketTooLarge = errors.New("packet too large")
