package protocol

// simpleMagic is the 7-byte tag the receiver matches before reading the
// geometry bytes.
const simpleMagic = "ST16x64"

// SimpleEncoder emits the custom single-datagram format:
// 7-byte magic, width byte, height byte, then the whole RGB payload.
//
// Known limitation: the frame is not chunked, so a full 64x16 frame is a
// 3081-byte datagram, above the common 1500-byte path MTU. The OS may
// fragment it and any dropped fragment loses the whole frame. Use DDP or
// WLED for full-size matrices; this format is kept for receivers that
// predate the other two.
type SimpleEncoder struct {
	width  byte
	height byte
}

// NewSimple returns an encoder stamping the given matrix geometry into the
// header of every datagram.
func NewSimple(width, height int) *SimpleEncoder {
	return &SimpleEncoder{width: byte(width), height: byte(height)}
}

// Encode produces exactly one datagram of 9+len(frame) bytes.
func (e *SimpleEncoder) Encode(frame []byte) ([][]byte, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	pkt := make([]byte, 0, len(simpleMagic)+2+len(frame))
	pkt = append(pkt, simpleMagic...)
	pkt = append(pkt, e.width, e.height)
	pkt = append(pkt, frame...)
	return [][]byte{pkt}, nil
}
