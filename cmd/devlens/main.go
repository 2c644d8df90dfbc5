package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "devlens",
		Short:   "Devlens — local AI dashboard preferences, history and performance core",
		Version: version,
	}

	root.AddCommand(
		newReportCmd(),
		newCacheCmd(),
		newPrefsCmd(),
		newHistoryCmd(),
		newPluginsCmd(),
		newDataCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
