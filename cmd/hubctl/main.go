package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "hubctl",
		Short:         "Operator tools for the supplier hub",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInitEnvCmd(), newMigrateCmd(), newTokenCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
