// Command todo runs the todo REST service.
package main

import (
	"log/slog"
	"os"

	"github.com/mmynk/todo/pkg/logging"
)

func main() {
	logging.Setup()

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
