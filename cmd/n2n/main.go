package main

import (
	"os"

	cmd "github.com/mosaicnetworks/n2n/cmd/n2n/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.VersionCmd,
		cmd.NewPingCmd(),
		cmd.NewListenCmd(),
		cmd.NewPeersCmd(),
		cmd.NewNetworksCmd())

	//Do not print usage when error occurs
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
