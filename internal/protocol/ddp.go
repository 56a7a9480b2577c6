package protocol

import "encoding/binary"

const (
	ddpHeaderLen = 10

	// ddpMaxPayload keeps datagrams well under a 1500-byte MTU. It is a
	// multiple of 3 so RGB triplets never split across chunks.
	ddpMaxPayload = 1200

	ddpFlagVersion1 = 0x01
	ddpFlagPush     = 0x40
)

// DDPEncoder emits Distributed Display Protocol datagrams. A frame is split
// into chunks of at most ddpMaxPayload bytes; the final chunk carries the
// PUSH flag so the receiver latches the completed frame atomically, which is
// what makes DDP tear-free on full-size matrix frames.
//
// Header layout (10 bytes):
//
//	0     flags: bit0 version 1, bit6 PUSH on the final chunk
//	1     channel
//	2     sequence, incremented per chunk mod 256
//	3     data type, 0 = raw RGB
//	4..7  big-endian byte offset of the chunk within the frame
//	8..9  big-endian payload length
type DDPEncoder struct {
	channel byte
	seq     byte
}

// NewDDP returns an encoder for the given output channel, clamped to the
// protocol's [1,255] range, with the sequence counter seeded at seed. The
// counter keeps running across frames.
func NewDDP(channel int, seed byte) *DDPEncoder {
	if channel < 1 {
		channel = 1
	}
	if channel > 255 {
		channel = 255
	}
	return &DDPEncoder{channel: byte(channel), seq: seed}
}

// Encode splits the frame into triplet-aligned chunks and sets PUSH on the
// last one.
func (e *DDPEncoder) Encode(frame []byte) ([][]byte, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}

	var pkts [][]byte
	for offset := 0; offset < len(frame); {
		n := len(frame) - offset
		if n > ddpMaxPayload {
			n = ddpMaxPayload
		}
		last := offset+n >= len(frame)

		pkt := make([]byte, ddpHeaderLen+n)
		flags := byte(ddpFlagVersion1)
		if last {
			flags |= ddpFlagPush
		}
		pkt[0] = flags
		pkt[1] = e.channel
		pkt[2] = e.seq
		pkt[3] = 0x00
		binary.BigEndian.PutUint32(pkt[4:8], uint32(offset))
		binary.BigEndian.PutUint16(pkt[8:10], uint16(n))
		copy(pkt[ddpHeaderLen:], frame[offset:offset+n])

		pkts = append(pkts, pkt)
		e.seq++
		offset += n
	}
	return pkts, nil
}
