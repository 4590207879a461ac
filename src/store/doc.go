// Package store keeps the outcome of the last handshake with each peer.
//
// InmemStore is volatile. BadgerStore writes through to a badger database in
// Config.DatabaseDir and serves reads from memory.
package store
