package shell

import (
	"log/slog"
	"os"
)

// shellLogLevel controls the log level for lifecycle logging.
// Default is LevelInfo, which suppresses per-message debug output.
// SetVerbose(true) sets it to LevelDebug.
var shellLogLevel = new(slog.LevelVar)

// SetVerbose enables or disables verbose/debug logging for the shell.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		shellLogLevel.Set(slog.LevelDebug)
	} else {
		shellLogLevel.Set(slog.LevelInfo)
	}
}

// logger is the logger for lifecycle and shared-state diagnostics.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: shellLogLevel}))
