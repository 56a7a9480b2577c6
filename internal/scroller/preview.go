package scroller

import "sync"

// Preview fans frames out to live preview subscribers. Publishing never
// blocks: a subscriber that cannot keep up misses frames instead of stalling
// the transmission loop.
type Preview struct {
	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

// NewPreview creates an empty fan-out.
func NewPreview() *Preview {
	return &Preview{subs: make(map[chan []byte]struct{})}
}

// Subscribe registers a frame channel. The returned func removes the
// subscription; the channel is closed by it.
func (p *Preview) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 1)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subs, ch)
			p.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish offers the row-major frame to every subscriber, dropping it for
// any whose buffer is full.
func (p *Preview) publish(frame []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.subs) == 0 {
		return
	}
	// Subscribers mutate nothing, but the loop reuses precomputed frames,
	// so hand out a copy.
	cp := make([]byte, len(frame))
	copy(cp, frame)
	for ch := range p.subs {
		select {
		case ch <- cp:
		default:
		}
	}
}
