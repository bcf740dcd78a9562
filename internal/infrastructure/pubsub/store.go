package pubsub

import (
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

type store struct {
	db *badgerhold.Store
}

// newStore opens the subscriptions store in a dedicated directory under
// datadir, or in memory if datadir is empty.
func newStore(datadir string, logger badger.Logger) (*store, error) {
	isInMemory := len(datadir) <= 0

	var dbDir string
	if !isInMemory {
		dbDir = filepath.Join(datadir, "pubsub")
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}
	return &store{db}, nil
}

func (s *store) add(sub *Subscription) error {
	if err := s.db.Insert(sub.ID, sub); err != nil {
		// The generation of the id can be assumed random enough to infer
		// that 2 subscriptions with the same id are the same.
		if err == badgerhold.ErrKeyExists {
			return nil
		}
		return err
	}
	return nil
}

func (s *store) remove(id string) error {
	if err := s.db.Delete(id, Subscription{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

func (s *store) findByTopic(topic string) (subscriptions, error) {
	var query *badgerhold.Query
	if topic != "" {
		query = badgerhold.Where("Event").Eq(topic).Index("Event")
	}

	var subs []Subscription
	if err := s.db.Find(&subs, query); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *store) close() error {
	return s.db.Close()
}
