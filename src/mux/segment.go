package mux

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	// HeaderLen is the size of a segment header.
	HeaderLen = 8

	// MaxPayload is the largest payload a single segment carries.
	MaxPayload = 12288
)

var (
	// ErrSegmentTooLarge is returned when a message does not fit a segment.
	ErrSegmentTooLarge = errors.New("mux: segment payload too large")

	// ErrShortHeader is returned when the stream ends inside a header.
	ErrShortHeader = errors.New("mux: short segment header")
)

// Header is the fixed segment header. ChannelID carries the mini-protocol
// number with the responder flag in its high bit.
type Header struct {
	Timestamp uint32
	ChannelID uint16
	Length    uint16
}

// Segment is one unit of the multiplexed stream.
type Segment struct {
	Header  Header
	Payload []byte
}

// EncodeHeader writes h in big-endian order.
func EncodeHeader(h Header) [HeaderLen]byte {
	var b [HeaderLen]byte
	binary.BigEndian.PutUint32(b[0:4], h.Timestamp)
	binary.BigEndian.PutUint16(b[4:6], h.ChannelID)
	binary.BigEndian.PutUint16(b[6:8], h.Length)
	return b
}

// DecodeHeader reads a header from b, which must hold HeaderLen bytes.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, ErrShortHeader
	}
	return Header{
		Timestamp: binary.BigEndian.Uint32(b[0:4]),
		ChannelID: binary.BigEndian.Uint16(b[4:6]),
		Length:    binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

// WriteSegment writes a header followed by payload.
func WriteSegment(w io.Writer, timestamp uint32, channelID uint16, payload []byte) error {
	if len(payload) > MaxPayload {
		return errors.Wrapf(ErrSegmentTooLarge, "%d bytes", len(payload))
	}

	h := EncodeHeader(Header{
		Timestamp: timestamp,
		ChannelID: channelID,
		Length:    uint16(len(payload)),
	})
	if _, err := w.Write(h[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadSegment reads one segment from r. A clean end of stream before the
// header yields io.EOF.
func ReadSegment(r io.Reader) (Segment, error) {
	var fixed [HeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Segment{}, ErrShortHeader
		}
		return Segment{}, err
	}

	h, err := DecodeHeader(fixed[:])
	if err != nil {
		return Segment{}, err
	}
	if h.Length > MaxPayload {
		return Segment{}, errors.Wrapf(ErrSegmentTooLarge, "%d bytes", h.Length)
	}

	payload := make([]byte, h.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Segment{}, errors.Wrap(err, "mux: read payload")
	}
	return Segment{Header: h, Payload: payload}, nil
}
