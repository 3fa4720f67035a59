package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/vango-dev/livetree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errs.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	rootCmd := &cobra.Command{
		Use:   "livetree",
		Short: "Reconcile declarative trees onto an in-memory host tree",
		Long: `livetree renders tree documents through the reconciler and hooks
engine onto an in-memory host tree.

  • render replays the steps of a document and prints the host
    mutations each step caused
  • serve replays a document in a loop and exposes the live tree,
    its mutation stream and Prometheus metrics over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "Directory containing livetree.json")

	rootCmd.AddCommand(
		renderCmd(&configDir),
		serveCmd(&configDir),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
