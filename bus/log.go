package bus

import (
	"log/slog"
	"os"
)

// busLogLevel controls the log level for bus debug logging.
// Default is LevelInfo, which suppresses the per-message discard logs.
var busLogLevel = new(slog.LevelVar)

// SetVerbose enables or disables verbose/debug logging for the bus.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		busLogLevel.Set(slog.LevelDebug)
	} else {
		busLogLevel.Set(slog.LevelInfo)
	}
}

// busLogger is the logger for broadcast channel diagnostics.
var busLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: busLogLevel}))

// Discard logs a message that arrived at a thread it was not addressed
// to. Broadcast delivery makes this routine: every receiver sees every
// message, and anything not for self is dropped here, never acted on.
func Discard(self Addressee, msg Message) {
	busLogger.Debug("discarding message not addressed to this thread",
		"self", self.String(),
		"addressee", msg.Addressee().String(),
		"message", msg.String())
}
