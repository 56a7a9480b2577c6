// Package scroller owns the single background transmission loop: it renders
// frames, reorders them for the matrix wiring, encodes them for the selected
// protocol and sends them over UDP at the configured pace. At most one loop
// runs at a time; starting a new activation tears down the previous one
// first.
package scroller

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledscroller/internal/config"
	"ledscroller/internal/emoji"
	"ledscroller/internal/matrix"
	"ledscroller/internal/protocol"
	"ledscroller/internal/render"
)

// joinTimeout bounds how long Start and Stop wait for the previous loop to
// exit. A stuck sender must not block new activations; after the timeout the
// socket is closed out from under it, which fails its next send.
const joinTimeout = 2 * time.Second

// Controller serializes start/stop transitions and owns the handle of the
// one running transmission loop.
type Controller struct {
	emoji   *emoji.Compositor // nil when the capability is unavailable
	preview *Preview

	mu      sync.Mutex
	current *activation
}

// activation is one running transmission loop: its config snapshot, socket,
// cancellation and join handle.
type activation struct {
	id     string
	cfg    config.DisplayConfig
	conn   *net.UDPConn
	cancel context.CancelFunc
	done   chan struct{}

	closeOnce sync.Once
}

func (a *activation) closeConn() {
	a.closeOnce.Do(func() {
		if err := a.conn.Close(); err != nil {
			log.Printf("scroller: [%s] closing socket: %v", a.id, err)
		}
	})
}

// New creates an idle controller. comp may be nil when emoji compositing is
// unavailable.
func New(comp *emoji.Compositor) *Controller {
	return &Controller{emoji: comp, preview: NewPreview()}
}

// Preview exposes the frame tap for the live preview stream.
func (c *Controller) Preview() *Preview { return c.preview }

// Running reports whether a transmission loop is currently alive.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return false
	}
	select {
	case <-c.current.done:
		return false
	default:
		return true
	}
}

// Start validates cfg, stops any running loop, and spawns a new one. The
// previous loop is fully torn down (cancelled, joined, socket closed) before
// the new loop can send its first frame. Configuration and socket errors
// surface synchronously and leave the previous loop untouched only if they
// occur before teardown: validation and rendering run first for exactly that
// reason.
func (c *Controller) Start(cfg config.DisplayConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	src, err := render.NewSource(&cfg, c.emoji)
	if err != nil {
		return fmt.Errorf("scroller: building frame source: %w", err)
	}
	enc, err := newEncoder(&cfg)
	if err != nil {
		return err
	}
	addr := &net.UDPAddr{IP: net.ParseIP(cfg.IP), Port: cfg.Port}
	if addr.IP == nil {
		return fmt.Errorf("scroller: invalid target IP %q", cfg.IP)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return fmt.Errorf("scroller: dialing %s: %w", addr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	act := &activation{
		id:     uuid.NewString()[:8],
		cfg:    cfg,
		conn:   conn,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	c.current = act

	log.Printf("scroller: [%s] starting: mode=%s protocol=%s target=%s speed=%.1f",
		act.id, cfg.DisplayMode, cfg.Protocol, addr, cfg.Speed)
	go c.run(ctx, act, src, enc)
	return nil
}

// Stop cancels the running loop and waits (bounded) for it to exit.
// Stopping an idle controller is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// stopLocked tears down the current activation. Callers hold c.mu.
func (c *Controller) stopLocked() {
	act := c.current
	if act == nil {
		return
	}
	act.cancel()
	select {
	case <-act.done:
	case <-time.After(joinTimeout):
		log.Printf("scroller: [%s] loop did not exit within %s, abandoning", act.id, joinTimeout)
	}
	// Closing here covers the abandoned case; the loop's own defer has
	// usually closed it already.
	act.closeConn()
	c.current = nil
}

// run is the transmission loop. It is the only goroutine that touches the
// socket after Start returns.
func (c *Controller) run(ctx context.Context, act *activation, src render.Source, enc protocol.Encoder) {
	defer close(act.done)
	defer act.closeConn()

	interval := src.Interval()
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("scroller: [%s] stopped", act.id)
			return
		default:
		}

		frame := src.Frame(time.Now())
		c.preview.publish(frame)

		ordered, err := matrix.Reorder(frame, matrix.Width, matrix.Height, act.cfg.Serpentine)
		if err != nil {
			log.Printf("scroller: [%s] %v", act.id, err)
			return
		}
		pkts, err := enc.Encode(ordered)
		if err != nil {
			log.Printf("scroller: [%s] encoding frame: %v", act.id, err)
			return
		}
		for _, pkt := range pkts {
			if _, err := act.conn.Write(pkt); err != nil {
				// No retries: a persistent misconfiguration should
				// surface immediately, not spin forever.
				log.Printf("scroller: [%s] send failed, stopping: %v", act.id, err)
				return
			}
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(interval)
		select {
		case <-ctx.Done():
			log.Printf("scroller: [%s] stopped", act.id)
			return
		case <-timer.C:
		}
	}
}

// newEncoder picks the protocol encoder for cfg.
func newEncoder(cfg *config.DisplayConfig) (protocol.Encoder, error) {
	switch cfg.Protocol {
	case config.ProtocolSimple:
		return protocol.NewSimple(matrix.Width, matrix.Height), nil
	case config.ProtocolWLED:
		return protocol.NewWLED(2), nil
	case config.ProtocolDDP:
		return protocol.NewDDP(cfg.DDPChannel, 0), nil
	default:
		return nil, fmt.Errorf("scroller: unknown protocol mode %q", cfg.Protocol)
	}
}
