package shell_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/shell"
	"github.com/go-theft-auto/shell/bus"
)

// fastOptions makes the pumps spin quickly enough for tests.
func fastOptions(extra ...shell.CoordinatorOption) []shell.CoordinatorOption {
	opts := []shell.CoordinatorOption{
		shell.WithTickInterval(2 * time.Millisecond),
		shell.WithPollInterval(5 * time.Millisecond),
	}
	return append(opts, extra...)
}

// start runs the coordinator on its own goroutine and returns the
// channel carrying Run's result.
func start(c *shell.Coordinator) chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run() }()
	return errCh
}

// waitUntilRunning blocks until the engine has ticked at least once,
// which implies every participant has passed the startup barrier.
func waitUntilRunning(t *testing.T, c *shell.Coordinator) {
	t.Helper()
	require.Eventually(t, func() bool {
		return shell.Locked(c.State(), func(st *shell.State) uint64 { return st.Engine.Ticks }) > 0
	}, 2*time.Second, 2*time.Millisecond, "coordinator never started ticking")
}

func engineTicks(c *shell.Coordinator) uint64 {
	return shell.Locked(c.State(), func(st *shell.State) uint64 { return st.Engine.Ticks })
}

func TestUiExitLeavesEngineAndProgramRunning(t *testing.T) {
	c := shell.NewCoordinator(nil, fastOptions(
		shell.WithExitFunc(func(code int) { t.Errorf("unexpected process exit %d", code) }),
	)...)
	errCh := start(c)
	waitUntilRunning(t, c)

	sender := c.Sender()
	defer sender.Close()
	require.NoError(t, sender.Send(bus.ExitUiThread{}))

	select {
	case <-c.UiDone():
	case <-time.After(time.Second):
		t.Fatal("ui thread did not exit after its exit message")
	}

	// Engine keeps ticking.
	before := engineTicks(c)
	require.Eventually(t, func() bool { return engineTicks(c) > before },
		time.Second, 2*time.Millisecond, "engine stopped ticking after ui exit")

	// Program supervisor is still in its loop.
	select {
	case err := <-errCh:
		t.Fatalf("supervisor exited unexpectedly: %v", err)
	default:
	}

	// Clean shutdown.
	require.NoError(t, sender.Send(bus.QuitAppNoError{Reason: bus.QuitInteractionByUser}))
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not shut down")
	}
}

func TestQuitAppNoErrorShutsDownCleanly(t *testing.T) {
	c := shell.NewCoordinator(nil, fastOptions()...)
	errCh := start(c)
	waitUntilRunning(t, c)

	sender := c.Sender()
	defer sender.Close()
	require.NoError(t, sender.Send(bus.QuitAppNoError{Reason: bus.QuitInteractionByUser}))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not shut down")
	}

	// Both workers were told to exit and did.
	select {
	case <-c.EngineDone():
	default:
		t.Error("engine thread still running after clean shutdown")
	}
	select {
	case <-c.UiDone():
	default:
		t.Error("ui thread still running after clean shutdown")
	}

	quit := shell.Locked(c.State(), func(st *shell.State) bool { return st.Program.QuitRequested })
	assert.True(t, quit)
}

func TestQuitAppErrorEndsSupervisorImmediately(t *testing.T) {
	c := shell.NewCoordinator(nil, fastOptions()...)
	errCh := start(c)
	waitUntilRunning(t, c)

	sender := c.Sender()
	defer sender.Close()
	boom := errors.New("render device lost")
	require.NoError(t, sender.Send(bus.QuitAppError{Err: boom}))

	// The supervisor must exit without requiring the workers to have
	// finished first.
	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not exit on QuitAppError")
	}
}

func TestMisaddressedMessageIsIgnored(t *testing.T) {
	c := shell.NewCoordinator(nil, fastOptions()...)
	errCh := start(c)
	waitUntilRunning(t, c)

	sender := c.Sender()
	defer sender.Close()

	// Engine's exit message is broadcast to everyone; only the engine
	// may act on it.
	require.NoError(t, sender.Send(bus.ExitEngineThread{}))

	select {
	case <-c.EngineDone():
	case <-time.After(time.Second):
		t.Fatal("engine did not exit")
	}

	// UI must still be alive and advancing its own state.
	frames := func() uint64 {
		return shell.Locked(c.State(), func(st *shell.State) uint64 { return st.Ui.FramesDrawn })
	}
	before := frames()
	require.Eventually(t, func() bool { return frames() > before },
		time.Second, 2*time.Millisecond, "ui acted on a message addressed to the engine")
	select {
	case <-c.UiDone():
		t.Fatal("ui exited on a message addressed to the engine")
	default:
	}

	// Supervisor untouched as well.
	select {
	case err := <-errCh:
		t.Fatalf("supervisor exited unexpectedly: %v", err)
	default:
	}

	require.NoError(t, sender.Send(bus.QuitAppNoError{Reason: bus.QuitInteractionByUser}))
	require.NoError(t, <-errCh)
}

func TestExitShortCircuitsDrain(t *testing.T) {
	c := shell.NewCoordinator(nil, fastOptions()...)
	errCh := start(c)
	waitUntilRunning(t, c)

	sender := c.Sender()
	defer sender.Close()

	// Queue several messages behind the exit; the engine must leave its
	// loop without waiting to drain them.
	require.NoError(t, sender.Send(bus.ExitEngineThread{}))
	for i := 0; i < 10; i++ {
		require.NoError(t, sender.Send(bus.QuitAppNoError{Reason: bus.QuitInteractionByUser}))
	}

	select {
	case <-c.EngineDone():
	case <-time.After(time.Second):
		t.Fatal("engine did not exit promptly with messages queued behind the exit")
	}

	// The queued quit messages still reach the supervisor.
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not shut down")
	}
}

func TestWorkerPanicEscalatesToProcessExit(t *testing.T) {
	exitCodes := make(chan int, 1)
	c := shell.NewCoordinator(nil, fastOptions(
		shell.WithExitFunc(func(code int) { exitCodes <- code }),
		shell.WithEngineWork(func(tc *shell.ThreadContext) { panic("engine blew up") }),
	)...)
	errCh := start(c)

	select {
	case code := <-exitCodes:
		assert.Equal(t, 2, code)
	case <-time.After(2 * time.Second):
		t.Fatal("worker panic did not escalate to process exit")
	}

	// With the exit function stubbed out the supervisor is still up;
	// shut it down.
	sender := c.Sender()
	defer sender.Close()
	require.NoError(t, sender.Send(bus.QuitAppNoError{Reason: bus.QuitInteractionByUser}))
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not shut down")
	}
}

func TestCustomWorkHooksRun(t *testing.T) {
	engineRan := make(chan struct{}, 1)
	uiRan := make(chan struct{}, 1)
	notify := func(ch chan struct{}) shell.WorkFunc {
		return func(tc *shell.ThreadContext) {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}

	c := shell.NewCoordinator(nil, fastOptions(
		shell.WithEngineWork(notify(engineRan)),
		shell.WithUiWork(notify(uiRan)),
	)...)
	errCh := start(c)

	for name, ch := range map[string]chan struct{}{"engine": engineRan, "ui": uiRan} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("%s work hook never ran", name)
		}
	}

	sender := c.Sender()
	defer sender.Close()
	require.NoError(t, sender.Send(bus.QuitAppNoError{Reason: bus.QuitInteractionByUser}))
	require.NoError(t, <-errCh)
}
