package main

import (
	"os"

	"github.com/spf13/cobra"

	hnerrors "github.com/vango-dev/hashnav/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		hnerrors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hashnav",
		Short: "Parse, build, and serve URL-fragment navigation state",
		Long: `hashnav works with navigation state kept in the URL fragment:

  #<page>/<key>=<value>&<key>=<value>

Use it to inspect and rewrite fragments from the shell, or run the
bridge server that lets Go code navigate connected browser tabs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		parseCmd(),
		formatCmd(),
		pageCmd(),
		varsCmd(),
		serveCmd(),
		linkCmd(),
		versionCmd(),
	)
	return rootCmd
}
