// Package node ties the handshake to real connections.
//
// A Node pings peers as initiator and, when given a StreamLayer, serves
// responder handshakes on every accepted connection. Each finished handshake
// is counted in GetStats and recorded in the node's Store.
package node
