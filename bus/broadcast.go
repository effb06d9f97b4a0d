package bus

import "sync"

// DefaultCapacity is the per-receiver buffer size. It is sized generously:
// the pumps drain on every iteration, so anything close to full already
// means a consumer is wedged.
const DefaultCapacity = 64

// Bus is a multi-producer, multi-consumer broadcast channel for Messages.
// Every subscribed receiver sees every message sent after it subscribed,
// in send order. Senders are reference counted: once the last sender
// closes, receivers that have drained their buffers observe disconnection.
//
// All endpoint bookkeeping is guarded by a single mutex; sends hold it
// only long enough to fan the message out to the per-receiver buffers.
type Bus struct {
	mu        sync.Mutex
	capacity  int
	receivers map[*Receiver]struct{}
	senders   int
}

// Option configures a Bus.
type Option func(*Bus)

// WithCapacity sets the per-receiver buffer size.
func WithCapacity(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.capacity = n
		}
	}
}

// New creates an empty bus with no senders and no receivers.
func New(opts ...Option) *Bus {
	b := &Bus{
		capacity:  DefaultCapacity,
		receivers: make(map[*Receiver]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Sender is a sending endpoint. Clone it to hand a copy to another
// thread; Close it when the owning thread is done sending. Disconnection
// is only observable once every clone has been closed, so a leaked clone
// hides sender-side shutdown from the receivers.
type Sender struct {
	bus    *Bus
	closed bool
}

// NewSender creates a sending endpoint on the bus.
func (b *Bus) NewSender() *Sender {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.senders++
	return &Sender{bus: b}
}

// Clone creates another sending endpoint sharing the same bus.
func (s *Sender) Clone() *Sender {
	return s.bus.NewSender()
}

// Close releases this endpoint. Closing the last open sender lets
// receivers observe disconnection once their buffers drain. Close is
// idempotent.
func (s *Sender) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.bus.senders--
}

// Send broadcasts msg to every subscribed receiver.
//
// It returns nil on success, or a *DeliveryError wrapping one of the two
// fatal sentinels: ErrDisconnected when no receiver is subscribed (or
// this sender was already closed), ErrQueueFull when any receiver's
// buffer is full. Both classify as lifecycle bugs; callers propagate
// them, they do not retry. A queue-full failure may leave the message
// delivered to some receivers and not others; irrelevant in practice,
// because the error ends the process.
func (s *Sender) Send(msg Message) error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if s.closed || len(s.bus.receivers) == 0 {
		return &DeliveryError{Op: "send", Msg: msg, Err: ErrDisconnected}
	}

	for r := range s.bus.receivers {
		select {
		case r.ch <- msg:
		default:
			return &DeliveryError{Op: "send", Msg: msg, Err: ErrQueueFull}
		}
	}
	return nil
}

// Receiver is a receiving endpoint with its own bounded buffer.
// Each thread owns exactly one receiver and polls it non-blockingly
// from its drain loop.
type Receiver struct {
	bus          *Bus
	ch           chan Message
	unsubscribed bool
}

// Subscribe creates a receiving endpoint. Only messages sent after the
// subscription are delivered to it.
func (b *Bus) Subscribe() *Receiver {
	b.mu.Lock()
	defer b.mu.Unlock()
	r := &Receiver{bus: b, ch: make(chan Message, b.capacity)}
	b.receivers[r] = struct{}{}
	return r
}

// Poll performs a non-blocking receive.
//
// Outcomes:
//   - (msg, true, nil): a message was dequeued.
//   - (nil, false, nil): nothing waiting right now; stop draining and go
//     back to work. This is routine control flow, not an error.
//   - (nil, false, *DeliveryError): the buffer is empty and every sender
//     has closed. Fatal: in coordinated shutdown a receiver stops polling
//     before the senders go away, so this signals a lifecycle bug.
func (r *Receiver) Poll() (Message, bool, error) {
	select {
	case msg := <-r.ch:
		return msg, true, nil
	default:
	}

	r.bus.mu.Lock()
	defer r.bus.mu.Unlock()

	// A send may have raced between the select and the lock.
	select {
	case msg := <-r.ch:
		return msg, true, nil
	default:
	}

	if r.unsubscribed || r.bus.senders == 0 {
		return nil, false, &DeliveryError{Op: "poll", Err: ErrDisconnected}
	}
	return nil, false, nil
}

// Unsubscribe removes the receiver from the bus. Messages sent afterwards
// are no longer delivered to it. Idempotent.
func (r *Receiver) Unsubscribe() {
	r.bus.mu.Lock()
	defer r.bus.mu.Unlock()
	if r.unsubscribed {
		return
	}
	r.unsubscribed = true
	delete(r.bus.receivers, r)
}

// Unsubscribed reports whether Unsubscribe has been called.
func (r *Receiver) Unsubscribed() bool {
	r.bus.mu.Lock()
	defer r.bus.mu.Unlock()
	return r.unsubscribed
}
