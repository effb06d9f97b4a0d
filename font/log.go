package font

import (
	"log/slog"
	"os"
)

// fontLogLevel controls the log level for font manager logging.
var fontLogLevel = new(slog.LevelVar)

// SetVerbose enables or disables verbose/debug logging for font loading.
// Call this from main() after parsing flags.
func SetVerbose(v bool) {
	if v {
		fontLogLevel.Set(slog.LevelDebug)
	} else {
		fontLogLevel.Set(slog.LevelInfo)
	}
}

// fontLogger is the logger for font scanning and atlas rebuilds.
var fontLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: fontLogLevel}))
