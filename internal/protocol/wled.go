package protocol

import "fmt"

const (
	// dnrgbProtocol is the WLED UDP realtime protocol id for DNRGB.
	dnrgbProtocol = 4

	// dnrgbMaxPixels is the per-datagram pixel limit; 489 pixels keeps the
	// 4-byte header plus payload (1471 bytes) under a 1500-byte MTU.
	dnrgbMaxPixels = 489
)

// WLEDEncoder emits WLED UDP realtime datagrams in the DNRGB variant.
// Each datagram carries a 4-byte header: protocol id, realtime timeout in
// seconds, and the big-endian index of the first pixel in the chunk. The
// receiver applies chunks as they arrive; there is no end-of-frame marker.
type WLEDEncoder struct {
	timeout byte
}

// NewWLED returns an encoder with the given realtime timeout in seconds,
// clamped to the protocol's [1,255] range.
func NewWLED(timeoutSec int) *WLEDEncoder {
	if timeoutSec < 1 {
		timeoutSec = 1
	}
	if timeoutSec > 255 {
		timeoutSec = 255
	}
	return &WLEDEncoder{timeout: byte(timeoutSec)}
}

// Encode splits the frame into chunks of at most dnrgbMaxPixels pixels, each
// prefixed with its start index.
func (e *WLEDEncoder) Encode(frame []byte) ([][]byte, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	if len(frame)%3 != 0 {
		return nil, fmt.Errorf("protocol: frame length %d is not a whole number of RGB pixels", len(frame))
	}

	pixels := len(frame) / 3
	var pkts [][]byte
	for start := 0; start < pixels; start += dnrgbMaxPixels {
		n := pixels - start
		if n > dnrgbMaxPixels {
			n = dnrgbMaxPixels
		}
		payload := frame[start*3 : (start+n)*3]
		pkt := make([]byte, 0, 4+len(payload))
		pkt = append(pkt, dnrgbProtocol, e.timeout, byte(start>>8), byte(start))
		pkt = append(pkt, payload...)
		pkts = append(pkts, pkt)
	}
	return pkts, nil
}
