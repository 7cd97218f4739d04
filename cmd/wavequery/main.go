// Command wavequery answers read-only queries against waveform traces.
package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"

	"github.com/roach88/wavequery/internal/cli"
)

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	cmd := cli.NewRootCommand(logger)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
