package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mosaicnetworks/n2n/src/net"
	"github.com/mosaicnetworks/n2n/src/node"
	"github.com/mosaicnetworks/n2n/src/service"
	"github.com/spf13/cobra"
)

//NewListenCmd returns the command that answers handshakes
func NewListenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listen",
		Short:   "Accept connections and answer handshakes",
		PreRunE: loadConfig,
		RunE:    runListen,
	}
	AddListenFlags(cmd)
	return cmd
}

//AddListenFlags adds flags to the Listen command
func AddListenFlags(cmd *cobra.Command) {
	AddCommonFlags(cmd)

	cmd.Flags().StringP("listen", "l", _config.N2N.BindAddr, "Listen IP:Port for handshakes")
	cmd.Flags().StringP("advertise", "a", _config.N2N.AdvertiseAddr, "Advertise IP:Port")

	// Service
	cmd.Flags().Bool("no-service", _config.N2N.NoService, "Disable HTTP service")
	cmd.Flags().StringP("service-listen", "s", _config.N2N.ServiceAddr, "Listen IP:Port for HTTP service")
}

func runListen(cmd *cobra.Command, args []string) error {
	logger := _config.N2N.Logger()

	trans, err := net.NewTCPStreamLayer(_config.N2N.BindAddr, _config.N2N.AdvertiseAddr)
	if err != nil {
		logger.Error("Cannot create stream layer:", err)
		return err
	}

	s, err := openStore()
	if err != nil {
		trans.Close()
		logger.Error("Cannot open store:", err)
		return err
	}

	n, err := node.NewNode(&_config.N2N, s, trans)
	if err != nil {
		trans.Close()
		s.Close()
		return err
	}

	if !_config.N2N.NoService {
		serviceServer := service.NewService(_config.N2N.ServiceAddr, n, logger)
		go serviceServer.Serve()
	}

	//Relay SIGINT and SIGTERM to a clean shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received interrupt, shutting down")
		n.Shutdown()
	}()

	return n.Serve()
}
