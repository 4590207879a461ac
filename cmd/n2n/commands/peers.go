package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mosaicnetworks/n2n/src/store"
	"github.com/spf13/cobra"
)

//NewPeersCmd returns the command that lists recorded handshakes
func NewPeersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "peers",
		Short:   "List the last recorded handshake of every peer",
		PreRunE: loadConfig,
		RunE:    listPeers,
	}
	cmd.Flags().String("datadir", _config.N2N.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("db", _config.N2N.DatabaseDir, "Dabatabase directory")
	cmd.Flags().String("log", "warn", "debug, info, warn, error, fatal, panic")
	cmd.Flags().Bool("json", _config.JSON, "Print peer records as JSON")
	return cmd
}

func listPeers(cmd *cobra.Command, args []string) error {
	s, err := store.NewBadgerStore(_config.N2N.DatabaseDir, _config.N2N.Logger())
	if err != nil {
		return err
	}
	defer s.Close()

	records, err := s.List()
	if err != nil {
		return err
	}

	if _config.JSON {
		for _, rec := range records {
			if err := printRecord(rec); err != nil {
				return err
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tROLE\tAGREED\tVERSION\tMAGIC\tTIME\tREASON")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%d\t%s\t%s\n",
			rec.Addr,
			rec.Role,
			rec.Agreed,
			rec.Version,
			rec.NetworkMagic,
			time.Unix(0, rec.Time).Format(time.RFC3339),
			rec.Reason,
		)
	}
	return w.Flush()
}
