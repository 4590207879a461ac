package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/mosaicnetworks/n2n/src/node"
	"github.com/mosaicnetworks/n2n/src/peers"
	"github.com/mosaicnetworks/n2n/src/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//NewPingCmd returns the command that runs initiator handshakes
func NewPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ping [addr]...",
		Short:   "Run a handshake with each peer and print the outcome",
		Long:    "Run a handshake with each given address, or with every peer of [datadir]/peers.json when none is given.",
		PreRunE: loadConfig,
		RunE:    runPing,
	}
	AddCommonFlags(cmd)
	cmd.Flags().Bool("json", _config.JSON, "Print peer records as JSON")
	return cmd
}

func runPing(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		book, err := peers.NewJSONPeers(_config.N2N.DataDir).Peers()
		if err != nil {
			return errors.Wrap(err, "no address given and no address book")
		}
		args = peers.Addresses(book)
		if len(args) == 0 {
			return errors.New("no address to ping")
		}
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	n, err := node.NewNode(&_config.N2N, s, nil)
	if err != nil {
		s.Close()
		return err
	}
	defer n.Shutdown()

	failed := 0
	for _, addr := range args {
		outcome, err := n.Ping(context.Background(), addr)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", addr, err)
			continue
		}

		if !outcome.Agreed() {
			failed++
		}

		if _config.JSON {
			rec, err := s.Get(addr)
			if err != nil {
				return err
			}
			if err := printRecord(rec); err != nil {
				return err
			}
			continue
		}

		fmt.Printf("%s: %v\n", addr, outcome)
	}

	if failed > 0 {
		return errors.Errorf("%d of %d handshakes failed", failed, len(args))
	}
	return nil
}

func printRecord(rec *store.PeerRecord) error {
	data, err := rec.Marshal()
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
