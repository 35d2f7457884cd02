package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/oilscope/oilscope/internal/config"
	"github.com/oilscope/oilscope/internal/version"
)

func main() {
	if os.Getenv("OILSCOPE_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	root := cobra.Command{
		Use:   "oilscope",
		Short: "oilscope is a terminal dashboard for heating oil prices, tank levels and usage.",
		Run: func(_ *cobra.Command, _ []string) {
			runDashboard(cfg)
		},
	}

	root.AddCommand(newImportCommand(cfg))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the oilscope version.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.String())
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
