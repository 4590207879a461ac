// Package peers reads the address book, peers.json in the data directory,
// that ping falls back on when no address is given.
package peers
