package shell

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-theft-auto/shell/bus"
)

// ThreadContext is what a thread's workload gets to touch: the shared
// state handle and the thread's own sender clone.
type ThreadContext struct {
	State  *SharedState
	Sender *bus.Sender
}

// WorkFunc is one tick of a thread's workload. It runs between drains;
// it must not block for long, or the thread stops responding to exit
// messages.
type WorkFunc func(*ThreadContext)

// Coordinator spawns the engine and UI threads, synchronizes their
// startup against a shared barrier, and runs the program supervisor loop
// on the calling goroutine until a quit message arrives.
//
// Shutdown is cooperative: each thread leaves its pump loop only upon a
// typed exit message addressed to it, then unsubscribes its receiver and
// closes its sender clone. There is no thread-level restart: a panic in
// any worker escalates to process termination, because a partially alive
// multi-thread UI app with one dead thread is worse than a hard exit.
type Coordinator struct {
	bus   *bus.Bus
	state *SharedState

	pollInterval  time.Duration
	tickInterval  time.Duration
	queueCapacity int

	engineWork  WorkFunc
	uiWork      WorkFunc
	programWork WorkFunc

	exitFn func(code int)

	wg         sync.WaitGroup
	engineDone chan struct{}
	uiDone     chan struct{}
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithPollInterval sets the supervisor's sleep between drains.
// The default is one second; this is coarse cooperative polling, not
// event-driven wakeup.
func WithPollInterval(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.pollInterval = d }
}

// WithTickInterval sets the worker threads' sleep per iteration.
func WithTickInterval(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) { c.tickInterval = d }
}

// WithQueueCapacity sets the per-receiver broadcast buffer size.
func WithQueueCapacity(n int) CoordinatorOption {
	return func(c *Coordinator) { c.queueCapacity = n }
}

// WithEngineWork replaces the engine thread's per-tick workload.
func WithEngineWork(f WorkFunc) CoordinatorOption {
	return func(c *Coordinator) { c.engineWork = f }
}

// WithUiWork replaces the UI thread's per-tick workload.
func WithUiWork(f WorkFunc) CoordinatorOption {
	return func(c *Coordinator) { c.uiWork = f }
}

// WithProgramWork sets a workload the supervisor runs each iteration
// before draining. The application's frame loop hooks in here, since the
// supervisor runs on the (OS-locked) main thread.
func WithProgramWork(f WorkFunc) CoordinatorOption {
	return func(c *Coordinator) { c.programWork = f }
}

// WithExitFunc replaces the process-exit escalation used when a worker
// panics or fails. Tests inject a recorder here; production keeps
// os.Exit.
func WithExitFunc(f func(code int)) CoordinatorOption {
	return func(c *Coordinator) { c.exitFn = f }
}

// NewCoordinator creates a coordinator over the given shared state.
// A nil state gets a fresh one.
func NewCoordinator(state *SharedState, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		state:         state,
		pollInterval:  time.Second,
		tickInterval:  50 * time.Millisecond,
		engineWork:    defaultEngineWork,
		uiWork:        defaultUiWork,
		exitFn:        os.Exit,
		queueCapacity: bus.DefaultCapacity,
		engineDone:    make(chan struct{}),
		uiDone:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.state == nil {
		c.state = NewSharedState()
	}
	c.bus = bus.New(bus.WithCapacity(c.queueCapacity))
	return c
}

// Sender creates a new sending endpoint on the coordinator's bus, for
// injecting messages from outside the three threads (input callbacks,
// tests). The caller must Close it, or sender-side disconnection can
// never be observed.
func (c *Coordinator) Sender() *bus.Sender {
	return c.bus.NewSender()
}

// State returns the shared state handle.
func (c *Coordinator) State() *SharedState {
	return c.state
}

// EngineDone is closed when the engine thread has returned.
func (c *Coordinator) EngineDone() <-chan struct{} { return c.engineDone }

// UiDone is closed when the UI thread has returned.
func (c *Coordinator) UiDone() <-chan struct{} { return c.uiDone }

// Run spawns the workers and supervises until shutdown. It blocks on the
// calling goroutine, which doubles as the program/main thread.
//
// It returns nil after a clean user-initiated quit, or the carried error
// after a QuitAppError message. Fatal bus failures in the supervisor's
// own drain are returned wrapped.
func (c *Coordinator) Run() error {
	root := c.bus.NewSender()

	engineRecv := c.bus.Subscribe()
	uiRecv := c.bus.Subscribe()
	programRecv := c.bus.Subscribe()

	engineSend := root.Clone()
	uiSend := root.Clone()
	programSend := root.Clone()

	// Distribution is complete; drop the root sender so disconnection
	// becomes observable once the per-thread senders close.
	root.Close()

	// Workers + supervisor. Nobody pumps until all endpoints exist.
	barrier := NewBarrier(3)

	c.spawn("engine", c.engineDone, func() error {
		return c.pump(bus.AddrEngine, barrier, engineRecv, engineSend, c.engineWork)
	})
	c.spawn("ui", c.uiDone, func() error {
		return c.pump(bus.AddrUi, barrier, uiRecv, uiSend, c.uiWork)
	})

	return c.supervise(barrier, programRecv, programSend)
}

// spawn runs fn on its own goroutine with the panic/failure escalation
// boundary. Any abnormal termination ends the whole process via exitFn.
func (c *Coordinator) spawn(name string, done chan struct{}, fn func() error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in worker thread, terminating process",
					"thread", name, "panic", r)
				c.exitFn(2)
			}
		}()
		if err := fn(); err != nil {
			logger.Error("worker thread failed, terminating process",
				"thread", name, "error", err)
			c.exitFn(1)
		}
	}()
}

// pump is the worker state machine: wait at the barrier, then alternate
// between one tick of work and a full drain of the receiver. An exit
// message addressed to self short-circuits the drain; shutdown takes
// priority over whatever is still queued behind it.
func (c *Coordinator) pump(self bus.Addressee, barrier *Barrier, recv *bus.Receiver, send *bus.Sender, work WorkFunc) error {
	barrier.Wait()
	logger.Debug("thread entering pump loop", "thread", self.String())

	tc := &ThreadContext{State: c.state, Sender: send}
	for {
		time.Sleep(c.tickInterval)
		if work != nil {
			work(tc)
		}

		for {
			msg, ok, err := recv.Poll()
			if err != nil {
				recv.Unsubscribe()
				send.Close()
				return fmt.Errorf("%s thread: drain: %w", self, err)
			}
			if !ok {
				break // queue empty: back to work
			}
			if msg.Addressee() != self {
				bus.Discard(self, msg)
				continue
			}
			if isExitFor(self, msg) {
				logger.Info("thread received exit message, shutting down",
					"thread", self.String())
				recv.Unsubscribe()
				send.Close()
				return nil
			}
			logger.Debug("message addressed to this thread has no handler",
				"thread", self.String(), "message", msg.String())
		}
	}
}

// isExitFor reports whether msg is the typed exit signal for self.
func isExitFor(self bus.Addressee, msg bus.Message) bool {
	switch msg.(type) {
	case bus.ExitEngineThread:
		return self == bus.AddrEngine
	case bus.ExitUiThread:
		return self == bus.AddrUi
	default:
		return false
	}
}

// supervise is the program/main loop: wait at the barrier, then
// alternate program work, a drain of program-addressed messages, and the
// poll-interval sleep, until a quit message ends the loop.
func (c *Coordinator) supervise(barrier *Barrier, recv *bus.Receiver, send *bus.Sender) error {
	barrier.Wait()
	c.state.WithLock(func(st *State) { st.Program.StartedAt = time.Now() })
	logger.Debug("program thread entering supervise loop")

	tc := &ThreadContext{State: c.state, Sender: send}
	for {
		if c.programWork != nil {
			c.programWork(tc)
		}

		for {
			msg, ok, err := recv.Poll()
			if err != nil {
				recv.Unsubscribe()
				send.Close()
				return fmt.Errorf("program thread: drain: %w", err)
			}
			if !ok {
				break
			}
			if msg.Addressee() != bus.AddrProgram {
				bus.Discard(bus.AddrProgram, msg)
				continue
			}

			switch m := msg.(type) {
			case bus.QuitAppNoError:
				logger.Info("quit requested, shutting down worker threads",
					"reason", m.Reason.String())
				c.state.WithLock(func(st *State) { st.Program.QuitRequested = true })
				c.broadcastExits(send)
				c.wg.Wait()
				recv.Unsubscribe()
				send.Close()
				return nil

			case bus.QuitAppError:
				// Ends the program unconditionally, without waiting for
				// the workers; exits are broadcast best-effort.
				logger.Error("quitting app due to error", "error", m.Err)
				c.state.WithLock(func(st *State) { st.Program.QuitRequested = true })
				c.broadcastExits(send)
				recv.Unsubscribe()
				send.Close()
				return fmt.Errorf("application error: %w", m.Err)

			default:
				logger.Debug("program message has no handler", "message", msg.String())
			}
		}

		time.Sleep(c.pollInterval)
	}
}

// broadcastExits tells both workers to leave their pump loops. Send
// failures here are logged, not propagated: the program is already on
// its way out, and a dead counterpart is exactly what shutdown produces.
func (c *Coordinator) broadcastExits(send *bus.Sender) {
	for _, msg := range []bus.Message{bus.ExitEngineThread{}, bus.ExitUiThread{}} {
		if err := send.Send(msg); err != nil {
			logger.Warn("exit broadcast failed", "message", msg.String(), "error", err)
		}
	}
}

// defaultEngineWork is the skeleton engine workload: advance the tick
// counter under the state lock.
func defaultEngineWork(tc *ThreadContext) {
	tc.State.WithLock(func(st *State) {
		st.Engine.Ticks++
		st.Engine.LastTickAt = time.Now()
	})
}

// defaultUiWork is the skeleton UI workload: advance the frame counter.
func defaultUiWork(tc *ThreadContext) {
	tc.State.WithLock(func(st *State) {
		st.Ui.FramesDrawn++
	})
}
