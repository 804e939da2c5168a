// Package cmd wires the installer's command line interface.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nocturne-network/nocturne-install/internal/logging"
)

// Execute runs the installer CLI
func Execute(version string) error {
	var (
		local   bool
		tag     string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:   "nocturne-install",
		Short: "Install the nocturne-miner executable for this machine",
		Long: `nocturne-install probes the operating system, architecture, C library,
and CPU capabilities of this machine, then downloads and installs the
best matching nocturne-miner release build.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(local, tag, version)
			if err != nil {
				return err
			}

			log := logging.New(verbose)
			defer func() { _ = log.Sync() }()

			return runInstall(cmd.Context(), cfg, log)
		},
	}

	rootCmd.Flags().BoolVar(&local, "local", false, "Install into the current directory")
	rootCmd.Flags().StringVar(&tag, "tag", "", "Install a specific release tag instead of the latest")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return rootCmd.Execute()
}
