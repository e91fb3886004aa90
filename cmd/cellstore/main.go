package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cellstore-dev/cellstore/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌─┐┬  ┬  ┌─┐┌┬┐┌─┐┬─┐┌─┐
  │  ├┤ │  │  └─┐ │ │ │├┬┘├┤
  └─┘└─┘┴─┘┴─┘└─┘ ┴ └─┘┴└─└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "cellstore",
		Short: "Minimal external state containers for Go",
		Long: `Cellstore provides minimal external state containers.

Hold component state outside the component tree and notify
subscribers synchronously on every accepted write. Features include:

  • Generic stores with identity-based change suppression
  • Watchers that couple selectors to re-render signals
  • Field-tracked selector memoization
  • Write batching with per-subscriber coalescing
  • A live store inspector over HTTP and WebSocket
  • Prometheus instrumentation`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var cerr *errors.Error
		if stderrors.As(err, &cerr) {
			fmt.Fprint(os.Stderr, cerr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the cellstore ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
