package store

import (
	"sort"
	"sync"

	cm "github.com/mosaicnetworks/n2n/src/common"
)

// InmemStore is an in-memory Store, lost on restart.
type InmemStore struct {
	sync.RWMutex

	records map[string]*PeerRecord
	closed  bool
}

// NewInmemStore ...
func NewInmemStore() *InmemStore {
	return &InmemStore{
		records: make(map[string]*PeerRecord),
	}
}

// Set implements the Store interface.
func (s *InmemStore) Set(rec *PeerRecord) error {
	s.Lock()
	defer s.Unlock()

	if s.closed {
		return cm.NewStoreErr("PeerRecord", cm.Closed, rec.Addr)
	}

	cp := *rec
	s.records[rec.Addr] = &cp
	return nil
}

// Get implements the Store interface.
func (s *InmemStore) Get(addr string) (*PeerRecord, error) {
	s.RLock()
	defer s.RUnlock()

	if s.closed {
		return nil, cm.NewStoreErr("PeerRecord", cm.Closed, addr)
	}

	rec, ok := s.records[addr]
	if !ok {
		return nil, cm.NewStoreErr("PeerRecord", cm.KeyNotFound, addr)
	}
	cp := *rec
	return &cp, nil
}

// List implements the Store interface.
func (s *InmemStore) List() ([]*PeerRecord, error) {
	s.RLock()
	defer s.RUnlock()

	if s.closed {
		return nil, cm.NewStoreErr("PeerRecord", cm.Closed, "")
	}

	res := make([]*PeerRecord, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Addr < res[j].Addr })
	return res, nil
}

// Close implements the Store interface. Later calls fail with a Closed
// StoreErr.
func (s *InmemStore) Close() error {
	s.Lock()
	defer s.Unlock()

	s.closed = true
	return nil
}

func (s *InmemStore) isClosed() bool {
	s.RLock()
	defer s.RUnlock()

	return s.closed
}
