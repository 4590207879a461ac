package mux

import (
	"bufio"
	"context"
	"io"
	"net"
	"time"

	"github.com/mosaicnetworks/n2n/src/protocol"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownChannel is returned when a segment arrives for a channel no
	// registered protocol listens on.
	ErrUnknownChannel = errors.New("mux: unknown channel")

	// ErrDuplicateChannel is returned when two protocols share a channel.
	ErrDuplicateChannel = errors.New("mux: duplicate channel")
)

// Muxer drives mini-protocols over a single connection. It is not safe for
// concurrent use: one Run at a time.
type Muxer struct {
	conn   net.Conn
	r      *bufio.Reader
	w      *bufio.Writer
	start  time.Time
	logger *logrus.Entry
}

// NewMuxer wraps conn. A nil logger discards output.
func NewMuxer(conn net.Conn, logger *logrus.Entry) *Muxer {
	if logger == nil {
		log := logrus.New()
		log.Out = io.Discard
		logger = logrus.NewEntry(log)
	}

	return &Muxer{
		conn:  conn,
		r:     bufio.NewReaderSize(conn, HeaderLen+MaxPayload),
		w:     bufio.NewWriterSize(conn, HeaderLen+MaxPayload),
		start: time.Now(),
		logger: logger.WithFields(logrus.Fields{
			"local":  addrString(conn.LocalAddr()),
			"remote": addrString(conn.RemoteAddr()),
		}),
	}
}

// Run drives protocols until every one of them has reached agency None.
// Protocols holding the agency send first; then one inbound segment is read
// and handed to the protocol listening on its channel, and so on. The
// context deadline applies to all I/O and cancelling ctx aborts Run.
//
// An error returned by ReceiveData is fatal unless the protocol finished
// with it, in which case the protocol reports it through its own result.
func (m *Muxer) Run(ctx context.Context, protocols ...protocol.Protocol) error {
	// peers write on our channel id with the responder flag flipped
	byChannel := make(map[uint16]protocol.Protocol, len(protocols))
	for _, p := range protocols {
		id := p.ChannelID() ^ protocol.ResponderFlag
		if _, ok := byChannel[id]; ok {
			return errors.Wrapf(ErrDuplicateChannel, "%#x", p.ChannelID())
		}
		byChannel[id] = p
	}

	release := m.watch(ctx)
	defer release()

	for {
		active := 0
		for _, p := range protocols {
			if err := m.sendAll(p); err != nil {
				return m.contextErr(ctx, err)
			}
			if p.Turn() != protocol.None {
				active++
			}
		}
		if active == 0 {
			return nil
		}

		seg, err := m.receive()
		if err != nil {
			return m.contextErr(ctx, err)
		}

		p, ok := byChannel[seg.Header.ChannelID]
		if !ok {
			return errors.Wrapf(ErrUnknownChannel, "%#x", seg.Header.ChannelID)
		}
		if err := p.ReceiveData(seg.Payload); err != nil {
			if p.Turn() != protocol.None {
				return errors.Wrapf(err, "channel %#x", p.ChannelID())
			}
			m.logger.WithError(err).WithField("channel", p.ChannelID()).Debug("protocol finished with error")
		}
	}
}

// sendAll lets p send for as long as it holds the agency.
func (m *Muxer) sendAll(p protocol.Protocol) error {
	for p.Turn() != protocol.None && p.Turn() == p.Role() {
		data, err := p.SendData()
		if err != nil {
			return errors.Wrapf(err, "channel %#x", p.ChannelID())
		}
		if data == nil {
			return nil
		}
		if err := m.send(p.ChannelID(), data); err != nil {
			return err
		}
	}
	return nil
}

func (m *Muxer) send(channelID uint16, payload []byte) error {
	m.logger.WithFields(logrus.Fields{
		"channel": channelID,
		"length":  len(payload),
	}).Debug("write segment")

	if err := WriteSegment(m.w, m.timestamp(), channelID, payload); err != nil {
		return err
	}
	return m.w.Flush()
}

func (m *Muxer) receive() (Segment, error) {
	seg, err := ReadSegment(m.r)
	if err != nil {
		return Segment{}, err
	}

	m.logger.WithFields(logrus.Fields{
		"channel": seg.Header.ChannelID,
		"length":  seg.Header.Length,
	}).Debug("read segment")

	return seg, nil
}

// timestamp is the low 32 bits of the microseconds elapsed since the muxer
// was created.
func (m *Muxer) timestamp() uint32 {
	return uint32(time.Since(m.start).Microseconds())
}

// watch applies the context deadline to the connection and interrupts
// blocked I/O when ctx is cancelled. The returned func undoes both.
func (m *Muxer) watch(ctx context.Context) func() {
	if dl, ok := ctx.Deadline(); ok {
		m.conn.SetDeadline(dl)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
			m.conn.SetDeadline(time.Now())
		case <-stop:
		}
	}()

	return func() {
		close(stop)
		<-done
		m.conn.SetDeadline(time.Time{})
	}
}

// contextErr prefers the context error over the I/O error it caused.
func (m *Muxer) contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		if _, ok := ctx.Deadline(); ok {
			return context.DeadlineExceeded
		}
	}
	return err
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
