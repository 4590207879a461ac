// Package mux carries node-to-node mini-protocols over one connection.
//
// Every message travels in a segment made of an 8-byte big-endian header
// followed by the payload:
//
//  timestamp  uint32  low 32 bits of the sender's clock, in microseconds
//  channel    uint16  mini-protocol number, high bit set by the responder
//  length     uint16  payload length, at most MaxPayload
//
// A Muxer owns the connection and drives a set of protocol.Protocol state
// machines, asking each whose turn it is and routing inbound segments by
// channel.
package mux
