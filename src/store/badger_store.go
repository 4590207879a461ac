package store

import (
	"github.com/dgraph-io/badger"
	cm "github.com/mosaicnetworks/n2n/src/common"
	"github.com/sirupsen/logrus"
)

const peerPrefix = "peer_"

// BadgerStore persists records in a badger database and keeps a copy of
// them in an InmemStore for reads.
type BadgerStore struct {
	inmemStore *InmemStore
	db         *badger.DB
}

// NewBadgerStore opens an existing database or creates a new one if nothing is
// found in path, and loads its records in memory.
func NewBadgerStore(path string, logger *logrus.Entry) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithTruncate(true)

	if logger != nil {
		sub := logger.WithFields(logrus.Fields{"ns": "badger"})
		opts = opts.WithLogger(sub)
	}

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	store := &BadgerStore{
		inmemStore: NewInmemStore(),
		db:         handle,
	}

	records, err := store.dbListRecords()
	if err != nil {
		handle.Close()
		return nil, err
	}
	for _, rec := range records {
		store.inmemStore.Set(rec)
	}

	return store, nil
}

// Set implements the Store interface.
func (s *BadgerStore) Set(rec *PeerRecord) error {
	if s.inmemStore.isClosed() {
		return cm.NewStoreErr("PeerRecord", cm.Closed, rec.Addr)
	}
	if err := s.dbSetRecord(rec); err != nil {
		return err
	}
	return s.inmemStore.Set(rec)
}

// Get implements the Store interface.
func (s *BadgerStore) Get(addr string) (*PeerRecord, error) {
	rec, err := s.inmemStore.Get(addr)
	if cm.IsStore(err, cm.KeyNotFound) && !s.inmemStore.isClosed() {
		rec, err = s.dbGetRecord(addr)
	}
	return rec, err
}

// List implements the Store interface.
func (s *BadgerStore) List() ([]*PeerRecord, error) {
	return s.inmemStore.List()
}

// Close implements the Store interface. Closing twice is a no-op.
func (s *BadgerStore) Close() error {
	if s.inmemStore.isClosed() {
		return nil
	}
	s.inmemStore.Close()
	return s.db.Close()
}

/*******************************************************************************
DB Methods
*******************************************************************************/

func peerKey(addr string) []byte {
	return []byte(peerPrefix + addr)
}

func (s *BadgerStore) dbGetRecord(addr string) (*PeerRecord, error) {
	var recBytes []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(peerKey(addr))
		if err != nil {
			return err
		}
		recBytes, err = item.ValueCopy(nil)
		return err
	})

	if err == badger.ErrKeyNotFound {
		return nil, cm.NewStoreErr("PeerRecord", cm.KeyNotFound, addr)
	}
	if err != nil {
		return nil, err
	}

	rec := new(PeerRecord)
	if err := rec.Unmarshal(recBytes); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *BadgerStore) dbSetRecord(rec *PeerRecord) error {
	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	val, err := rec.Marshal()
	if err != nil {
		return err
	}

	//insert [peer_addr] => [PeerRecord]
	if err := tx.Set(peerKey(rec.Addr), val); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *BadgerStore) dbListRecords() ([]*PeerRecord, error) {
	var records []*PeerRecord
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(peerPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(data []byte) error {
				rec := new(PeerRecord)
				if err := rec.Unmarshal(data); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return records, nil
}
