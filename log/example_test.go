package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/envyaml/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"))
	logger.Info("document loaded", slog.Int("keys", 3))

	// Output:
	// INFO  document loaded keys=3
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))

	// Output:
	// level=WARN msg="warning message" key=value
}

func Example_withContext() {
	type requestIDKey struct{}

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-789")

	logger := log.Make(os.Stdout, log.WithFormat(log.FormatJSON), log.WithTimeLayout("none"))
	logger.InfoContext(ctx, "processing request", slog.String("method", "POST"))

	// Output:
	// {"level":"INFO","msg":"processing request","method":"POST"}
}
