// Package service serves the node API over HTTP.
//
//	/stats  handshake counters of the node
//	/peers  last handshake outcome per peer
package service
