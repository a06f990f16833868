package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/taskium/internal/cli"
	"github.com/aryankumar/taskium/internal/util"
)

func main() {
	// Setup signal handling for graceful shutdown
	ctx := util.SetupSignalHandler()

	// Execute the CLI
	if err := cli.Execute(ctx); err != nil {
		slog.Debug("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", util.FriendlyError(err))
		os.Exit(1)
	}
}
