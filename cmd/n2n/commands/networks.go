package commands

import (
	"fmt"

	"github.com/mosaicnetworks/n2n/src/config"
	"github.com/spf13/cobra"
)

//NewNetworksCmd returns the command that lists the well-known networks
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List well-known network names and magics",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.Networks() {
				magic, err := config.NetworkMagic(name)
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %d\n", name, magic)
			}
			return nil
		},
	}
}
