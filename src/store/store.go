package store

// Store keeps one PeerRecord per peer address.
type Store interface {
	// Set inserts or replaces the record of rec.Addr.
	Set(rec *PeerRecord) error

	// Get returns the record of addr, or a KeyNotFound StoreErr.
	Get(addr string) (*PeerRecord, error)

	// List returns every record, ordered by address.
	List() ([]*PeerRecord, error)

	Close() error
}
