package node

import (
	"context"
	gonet "net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/mosaicnetworks/n2n/src/config"
	"github.com/mosaicnetworks/n2n/src/mux"
	"github.com/mosaicnetworks/n2n/src/net"
	"github.com/mosaicnetworks/n2n/src/protocol/handshake"
	"github.com/mosaicnetworks/n2n/src/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Node runs handshakes with peers, as initiator through Ping and as responder
// through Serve, and records the outcome of each one in its store.
type Node struct {
	state

	conf   *config.Config
	logger *logrus.Entry
	magic  uint32

	store  store.Store
	trans  net.StreamLayer
	dialer net.Dialer

	ctx    context.Context
	cancel context.CancelFunc

	start    time.Time
	pings    int64
	accepted int64
	agreed   int64
	rejected int64
	failed   int64
}

// NewNode is a factory method that returns a Node instance. trans may be nil
// for a node that only pings; it then dials plain TCP.
func NewNode(conf *config.Config, s store.Store, trans net.StreamLayer) (*Node, error) {
	magic, err := conf.Magic()
	if err != nil {
		return nil, err
	}

	var dialer net.Dialer = net.TCPDialer{}
	if trans != nil {
		dialer = trans
	}

	ctx, cancel := context.WithCancel(context.Background())

	n := &Node{
		conf:   conf,
		logger: conf.Logger().WithField("magic", magic),
		magic:  magic,
		store:  s,
		trans:  trans,
		dialer: dialer,
		ctx:    ctx,
		cancel: cancel,
		start:  time.Now(),
	}

	return n, nil
}

// Ping dials addr and runs the handshake as initiator. An error is returned
// when no outcome could be reached (dial failure, timeout, broken
// connection); a refused handshake is a successful Ping with a rejected
// Outcome.
func (n *Node) Ping(ctx context.Context, addr string) (handshake.Outcome, error) {
	atomic.AddInt64(&n.pings, 1)

	logger := n.logger.WithField("peer", addr)
	logger.Debug("Ping")

	conn, err := n.dialer.Dial(addr, n.conf.TCPTimeout)
	if err != nil {
		atomic.AddInt64(&n.failed, 1)
		return handshake.Outcome{}, errors.Wrapf(err, "dial %s", addr)
	}
	defer conn.Close()

	h := handshake.NewInitiator(n.magic, logger)
	return n.handshake(ctx, addr, conn, h, logger)
}

// Serve accepts connections and answers each one with a responder handshake
// until Shutdown is called. It blocks and returns nil after Shutdown.
func (n *Node) Serve() error {
	if n.trans == nil {
		return errors.New("node has no stream layer to serve on")
	}

	if n.ctx.Err() != nil {
		return nil
	}

	n.setState(Serving)
	n.logger.WithField("addr", n.trans.AdvertiseAddr()).Info("Serving handshakes")

	for {
		conn, err := n.trans.Accept()
		if err != nil {
			if n.ctx.Err() != nil {
				return nil
			}
			n.logger.WithError(err).Error("Failed to accept connection")
			return err
		}

		if !n.goFunc(func() { n.handleConn(conn) }) {
			conn.Close()
			return nil
		}
		atomic.AddInt64(&n.accepted, 1)
	}
}

func (n *Node) handleConn(conn gonet.Conn) {
	defer conn.Close()

	addr := conn.RemoteAddr().String()
	logger := n.logger.WithField("peer", addr)

	h := handshake.NewResponder(n.magic, logger)
	n.handshake(n.ctx, addr, conn, h, logger)
}

// handshake drives h over conn within the handshake timeout and records the
// outcome.
func (n *Node) handshake(ctx context.Context,
	addr string,
	conn gonet.Conn,
	h *handshake.Handshake,
	logger *logrus.Entry,
) (handshake.Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, n.conf.HandshakeTimeout)
	defer cancel()

	runErr := mux.NewMuxer(conn, logger).Run(ctx, h)

	outcome, err := h.Outcome()
	if err != nil {
		if runErr != nil {
			err = runErr
		}
		atomic.AddInt64(&n.failed, 1)
		logger.WithError(err).Warn("Handshake did not complete")
		return handshake.Outcome{}, err
	}

	if outcome.Agreed() {
		atomic.AddInt64(&n.agreed, 1)
		logger.WithFields(logrus.Fields{
			"version":   outcome.Version,
			"diffusion": outcome.Data.InitiatorOnlyDiffusion,
		}).Info("Handshake agreed")
	} else {
		atomic.AddInt64(&n.rejected, 1)
		logger.WithError(outcome.Err).Info("Handshake rejected")
	}

	if n.store != nil {
		if err := n.store.Set(store.NewPeerRecord(addr, h, outcome)); err != nil {
			logger.WithError(err).Error("Failed to record handshake")
		}
	}

	return outcome, nil
}

// Shutdown stops Serve, aborts running handshakes, waits for them and closes
// the transport and the store.
func (n *Node) Shutdown() {
	if n.getState() != Shutdown {
		n.logger.Debug("Shutdown")

		n.cancel()
		n.setState(Shutdown)

		if n.trans != nil {
			n.trans.Close()
		}

		n.waitRoutines()

		if n.store != nil {
			n.store.Close()
		}
	}
}

// GetState returns the current state.
func (n *Node) GetState() State {
	return n.getState()
}

// GetPeers returns the last recorded handshake of every peer.
func (n *Node) GetPeers() ([]*store.PeerRecord, error) {
	if n.store == nil {
		return []*store.PeerRecord{}, nil
	}
	return n.store.List()
}

// GetStats returns counters describing the handshakes run so far.
func (n *Node) GetStats() map[string]string {
	load := func(i *int64) string {
		return strconv.FormatInt(atomic.LoadInt64(i), 10)
	}

	advertise := ""
	if n.trans != nil {
		advertise = n.trans.AdvertiseAddr()
	}

	s := map[string]string{
		"network_magic":     strconv.FormatUint(uint64(n.magic), 10),
		"pings":             load(&n.pings),
		"accepted":          load(&n.accepted),
		"agreed":            load(&n.agreed),
		"rejected":          load(&n.rejected),
		"failed":            load(&n.failed),
		"active_handshakes": strconv.Itoa(int(n.activeRoutines())),
		"uptime":            time.Since(n.start).Round(time.Second).String(),
		"state":             n.getState().String(),
		"moniker":           n.conf.Moniker,
		"advertise_addr":    advertise,
	}
	return s
}
