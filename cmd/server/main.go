package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// main dispatches to the serve and create-admin commands. Wiring shared by
// both lives in app.go.
func main() {
	root := &cobra.Command{
		Use:           "resa",
		Short:         "Accounts and geography service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	serve := newServeCommand()
	root.AddCommand(serve, newCreateAdminCommand())
	// Running the binary bare starts the server.
	root.RunE = serve.RunE

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
