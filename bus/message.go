package bus

import "fmt"

// Addressee identifies the thread a message is intended for.
// Every message carries exactly one addressee in its outer tag; a thread
// that polls a message addressed to someone else must discard it.
type Addressee int

const (
	// AddrProgram is the main/supervisor thread.
	AddrProgram Addressee = iota + 1
	// AddrEngine is the engine worker thread.
	AddrEngine
	// AddrUi is the UI worker thread.
	AddrUi
)

// String returns the addressee name for logging.
func (a Addressee) String() string {
	switch a {
	case AddrProgram:
		return "program"
	case AddrEngine:
		return "engine"
	case AddrUi:
		return "ui"
	default:
		return fmt.Sprintf("addressee(%d)", int(a))
	}
}

// Message is the closed set of inter-thread messages.
// Implementations are immutable value types; inspect them with a type
// switch. The marker method keeps the set closed to this package.
type Message interface {
	// Addressee returns the thread this message is intended for.
	Addressee() Addressee

	fmt.Stringer

	isMessage()
}

// ExitEngineThread tells the engine thread to leave its pump loop.
type ExitEngineThread struct{}

func (ExitEngineThread) Addressee() Addressee { return AddrEngine }
func (ExitEngineThread) String() string       { return "engine: exit thread" }
func (ExitEngineThread) isMessage()           {}

// ExitUiThread tells the UI thread to leave its pump loop.
type ExitUiThread struct{}

func (ExitUiThread) Addressee() Addressee { return AddrUi }
func (ExitUiThread) String() string       { return "ui: exit thread" }
func (ExitUiThread) isMessage()           {}

// QuitReason explains a user-initiated quit.
type QuitReason int

const (
	// QuitInteractionByUser means the user asked the app to close
	// (window close button, quit menu item, etc.).
	QuitInteractionByUser QuitReason = iota + 1
)

// String returns the reason name for logging.
func (r QuitReason) String() string {
	switch r {
	case QuitInteractionByUser:
		return "interaction by user"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// QuitAppNoError asks the program thread to shut the whole app down
// cleanly. Sent by the UI thread on user-initiated quit.
type QuitAppNoError struct {
	Reason QuitReason
}

func (QuitAppNoError) Addressee() Addressee { return AddrProgram }
func (m QuitAppNoError) String() string     { return "program: quit app (" + m.Reason.String() + ")" }
func (QuitAppNoError) isMessage()           {}

// QuitAppError tells the program thread to end the app because of an
// unrecoverable error somewhere else. Err is a shared, read-only handle;
// the message may be delivered to every receiver on the channel, so the
// error value must never be mutated after construction.
type QuitAppError struct {
	Err error
}

func (QuitAppError) Addressee() Addressee { return AddrProgram }
func (m QuitAppError) String() string     { return fmt.Sprintf("program: quit app with error: %v", m.Err) }
func (QuitAppError) isMessage()           {}
