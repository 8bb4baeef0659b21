package notify

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

// channelPool keeps a fixed set of AMQP channels with the receipt queue
// declared on each.
type channelPool struct {
	open     func() (channel, error)
	channels chan channel
	closeFn  func() error

	mu     sync.Mutex
	closed bool
}

func newChannelPool(open func() (channel, error), size int, closeFn func() error) (*channelPool, error) {
	if size < 1 {
		size = 1
	}
	p := &channelPool{
		open:     open,
		channels: make(chan channel, size),
		closeFn:  closeFn,
	}
	for i := 0; i < size; i++ {
		ch, err := open()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("create channel %d: %w", i, err)
		}
		p.channels <- ch
	}
	return p, nil
}

// get waits for a free channel, replacing it when the broker closed it.
// A failed reopen leaves the dead channel in its slot so the next get
// tries again; the pool never shrinks.
func (p *channelPool) get(ctx context.Context) (channel, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ch, ok := <-p.channels:
		if !ok {
			return nil, fmt.Errorf("channel pool closed")
		}
		if !ch.IsClosed() {
			return ch, nil
		}
		fresh, err := p.open()
		if err != nil {
			p.put(ch)
			return nil, fmt.Errorf("reopen channel: %w", err)
		}
		return fresh, nil
	}
}

// put hands ch back to its slot. Closed channels are kept too and are
// replaced on the next get.
func (p *channelPool) put(ch channel) {
	if ch == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		ch.Close()
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

func (p *channelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.closeFn != nil {
		p.closeFn()
	}
}
