package commands

import (
	"github.com/spf13/cobra"
)

var (
	_config = NewDefaultCLIConfig()
)

//RootCmd is the root command for n2n
var RootCmd = &cobra.Command{
	Use:              "n2n",
	Short:            "node-to-node handshake client and server",
	TraverseChildren: true,
}
