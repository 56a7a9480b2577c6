// Package protocol frames ordered RGB pixel buffers into UDP datagrams for
// the three supported receiver protocols: a simple custom format, WLED's
// UDP realtime DNRGB variant, and DDP.
//
// The byte layouts are contracts against real third-party firmware and must
// not change.
package protocol

import "errors"

// Default UDP ports per protocol. The boundary layer applies these when the
// caller leaves the port unset.
const (
	DefaultSimplePort = 7777
	DefaultDDPPort    = 4048
	DefaultWLEDPort   = 21324
)

// ErrEmptyFrame is returned by all encoders for a zero-length buffer.
var ErrEmptyFrame = errors.New("protocol: empty frame buffer")

// Encoder turns one RGB frame, already in physical wiring order, into the
// sequence of datagrams to send verbatim over UDP.
//
// Encoders may carry per-stream state (the DDP sequence counter), so one
// Encoder instance belongs to exactly one transmission loop.
type Encoder interface {
	Encode(frame []byte) ([][]byte, error)
}
